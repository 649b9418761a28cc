package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luzdental/clinic-system/internal/core/domain"
)

// BookingInput carries the raw public booking-request form.
type BookingInput struct {
	PatientName  string
	Phone        string
	Email        string
	TreatmentIDs []string
	// Date is the raw form value; the service parses it.
	Date string
}

// BookingResult reports a successful booking back to the caller.
type BookingResult struct {
	AppointmentID string
	ScheduledAt   time.Time
	Status        string
	// Treatments actually associated after lenient resolution (0–2).
	Treatments []string
	Message    string
}

// BookingService handles the public appointment-request workflow.
type BookingService interface {
	RequestAppointment(ctx context.Context, input BookingInput) (*BookingResult, error)
}

// AppointmentInput is the staff create/edit form for appointments.
type AppointmentInput struct {
	PatientName string
	Phone       string
	Email       string
	Date        string
}

// DashboardSummary backs the staff landing module.
type DashboardSummary struct {
	AppointmentCount int64
	TreatmentCount   int64
	Recent           []*domain.Appointment
}

// AppointmentService exposes the staff CRUD operations for appointments.
type AppointmentService interface {
	List(ctx context.Context) ([]*domain.Appointment, error)
	Create(ctx context.Context, input AppointmentInput) (*domain.Appointment, error)
	Reschedule(ctx context.Context, id string, date string) (*domain.Appointment, error)
	MarkAttended(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Dashboard(ctx context.Context) (*DashboardSummary, error)
}

// TreatmentInput is the staff create/edit form for treatments.
type TreatmentInput struct {
	Name        string
	Description string
	// Price is the raw form value; the service parses it to fixed point.
	Price string
}

// TreatmentView is the public JSON projection of a treatment.
type TreatmentView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	PriceDisplay string          `json:"price_display"`
}

// TreatmentService exposes treatment CRUD plus the public feed.
type TreatmentService interface {
	List(ctx context.Context) ([]*domain.Treatment, error)
	ListPublic(ctx context.Context) ([]TreatmentView, error)
	Create(ctx context.Context, input TreatmentInput) (*domain.Treatment, error)
	Update(ctx context.Context, id string, input TreatmentInput) (*domain.Treatment, error)
	Delete(ctx context.Context, id string) error
}

// ReservationInput is the staff create form for hall reservations.
type ReservationInput struct {
	ClientName string
	Date       string
	Phone      string
	Email      string
	Attendees  int
}

// ReservationPatch carries a partial edit: nil fields keep current values.
type ReservationPatch struct {
	ClientName *string
	Date       *string
	Phone      *string
	Email      *string
	Attendees  *int
}

// ReservationService exposes hall-reservation CRUD.
type ReservationService interface {
	List(ctx context.Context) ([]*domain.Reservation, error)
	Create(ctx context.Context, input ReservationInput) (*domain.Reservation, error)
	Edit(ctx context.Context, id string, patch ReservationPatch) (*domain.Reservation, error)
	MarkReady(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// SignupInput is the public self-signup form.
type SignupInput struct {
	Username        string
	Email           string
	Password        string
	PasswordConfirm string
}

// ProvisionInput is the admin-driven create/edit form for staff accounts.
type ProvisionInput struct {
	Username    string
	Email       string
	Password    string
	IsSuperuser bool
	Flags       domain.GroupFlags
}

// AccountDetail is an account together with its directory membership, as
// shown on the admin edit form.
type AccountDetail struct {
	Account *domain.Account
	Flags   domain.GroupFlags
}

// AccountService covers signup, login, and the admin account workflows.
type AccountService interface {
	Signup(ctx context.Context, input SignupInput) (*domain.Account, error)
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	Get(ctx context.Context, id string) (*AccountDetail, error)
	Provision(ctx context.Context, input ProvisionInput) (*domain.Account, error)
	UpdateAccount(ctx context.Context, id string, input ProvisionInput) (*domain.Account, error)
	// DeleteAccount refuses when actorUsername names the target account.
	DeleteAccount(ctx context.Context, actorUsername, id string) error
}

// DirectoryService manages the fixed group set and memberships.
type DirectoryService interface {
	// EnsureGroups is idempotent; a non-nil error means the directory is
	// degraded, which callers may tolerate (deny-by-default still holds).
	EnsureGroups(ctx context.Context) error
	Assign(ctx context.Context, username string, flags domain.GroupFlags) error
	GroupsOf(ctx context.Context, username string) ([]domain.Group, error)
	FlagsOf(ctx context.Context, username string) (domain.GroupFlags, error)
}
