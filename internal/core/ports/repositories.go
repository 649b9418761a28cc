package ports

import (
	"context"

	"github.com/luzdental/clinic-system/internal/core/domain"
)

// TreatmentRepository defines persistence operations for treatments.
type TreatmentRepository interface {
	Create(ctx context.Context, t *domain.Treatment) (*domain.Treatment, error)
	GetByID(ctx context.Context, id string) (*domain.Treatment, error)
	// FindByIDs returns the treatments whose ids exist; unknown ids are
	// simply absent from the result, never an error.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Treatment, error)
	List(ctx context.Context) ([]*domain.Treatment, error)
	Update(ctx context.Context, t *domain.Treatment) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// AppointmentRepository defines persistence operations for appointments.
// Create must fail with domain.ErrSlotTaken when another appointment
// already holds the same slot key (storage-level uniqueness).
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
	List(ctx context.Context) ([]*domain.Appointment, error)
	Recent(ctx context.Context, limit int) ([]*domain.Appointment, error)
	Count(ctx context.Context) (int64, error)
	// CountInSlot counts appointments in the given hour slot, skipping
	// excludeID when non-empty (so a reschedule does not conflict with
	// the appointment being moved).
	CountInSlot(ctx context.Context, slotKey string, excludeID string) (int64, error)
	UpdateSchedule(ctx context.Context, id string, a *domain.Appointment) error
	SetStatus(ctx context.Context, id string, status domain.AppointmentStatus) error
	SetTreatments(ctx context.Context, id string, treatmentIDs []string) error
	Delete(ctx context.Context, id string) error
}

// ReservationRepository defines persistence operations for hall reservations.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
	GetByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context) ([]*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	Delete(ctx context.Context, id string) error
}

// AccountRepository defines persistence for the primary identity store and
// its credential mirror.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	// EmailExists checks the primary store only.
	EmailExists(ctx context.Context, email string) (bool, error)
	// MirrorEmailExists checks the mirror store only.
	MirrorEmailExists(ctx context.Context, email string) (bool, error)
	// Create inserts an account without touching the mirror (admin path).
	Create(ctx context.Context, a *domain.Account) (*domain.Account, error)
	// CreateWithMirror atomically inserts the account and its mirror
	// record; on failure neither is observable.
	CreateWithMirror(ctx context.Context, a *domain.Account, m *domain.MirrorAccount) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Update(ctx context.Context, a *domain.Account) error
	Delete(ctx context.Context, id string) error
}

// GroupRepository persists the role directory.
type GroupRepository interface {
	// EnsureDefaults idempotently creates the canonical groups.
	EnsureDefaults(ctx context.Context) error
	List(ctx context.Context) ([]domain.Group, error)
	// ReplaceMembership removes username from every group, then adds it to
	// exactly the given set.
	ReplaceMembership(ctx context.Context, username string, groups []domain.Group) error
	GroupsOf(ctx context.Context, username string) ([]domain.Group, error)
}

// SlotLocker guards the conflict-check-then-insert critical section for a
// single hour slot.
type SlotLocker interface {
	// WithSlotLock runs fn while holding an exclusive lock on slotKey.
	// Returns domain.ErrSlotBusy when the lock is already held.
	WithSlotLock(ctx context.Context, slotKey string, fn func(ctx context.Context) error) error
}
