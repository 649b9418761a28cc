package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// BookingService implements the public appointment-request workflow.
type BookingService struct {
	appointments ports.AppointmentRepository
	treatments   ports.TreatmentRepository
	locker       ports.SlotLocker
	logger       zerolog.Logger
	now          func() time.Time
}

func NewBookingService(
	appointments ports.AppointmentRepository,
	treatments ports.TreatmentRepository,
	locker ports.SlotLocker,
	logger zerolog.Logger,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		treatments:   treatments,
		locker:       locker,
		logger:       logger,
		now:          time.Now,
	}
}

// RequestAppointment validates a booking request, rejects past dates and
// occupied slots, and creates a Pending appointment with up to two treatment
// associations. Every gate aborts before any write; the conflict check and
// the insert run under a per-slot lock, and the repository's unique slot
// index catches anything that still slips through.
func (s *BookingService) RequestAppointment(ctx context.Context, input ports.BookingInput) (*ports.BookingResult, error) {
	name := strings.TrimSpace(input.PatientName)
	phone := strings.TrimSpace(input.Phone)
	email := strings.TrimSpace(input.Email)

	if name == "" || phone == "" || input.Date == "" || len(input.TreatmentIDs) == 0 {
		return nil, domain.ErrMissingFields
	}
	if len(input.TreatmentIDs) > domain.MaxTreatmentsPerAppointment {
		return nil, domain.ErrTooManyTreatments
	}
	if email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.ErrInvalidEmail
		}
	}

	when, err := domain.ParseSchedule(input.Date)
	if err != nil {
		return nil, err
	}
	if domain.IsPastDate(when, s.now()) {
		return nil, domain.ErrScheduleInPast
	}

	slotKey := domain.SlotKey(when)
	var created *domain.Appointment

	err = s.locker.WithSlotLock(ctx, slotKey, func(lockCtx context.Context) error {
		n, err := s.appointments.CountInSlot(lockCtx, slotKey, "")
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrSlotTaken
		}

		appt := &domain.Appointment{
			PatientName: domain.NormalizeText(name),
			ScheduledAt: when,
			Phone:       phone,
			Email:       email,
			Status:      domain.AppointmentPending,
			SlotKey:     slotKey,
			CreatedAt:   s.now().UTC(),
		}
		created, err = s.appointments.Create(lockCtx, appt)
		if err != nil {
			return err
		}

		// Lenient association: unknown ids are dropped, the result is
		// capped at two, and an empty resolved set is accepted.
		resolved, err := s.treatments.FindByIDs(lockCtx, input.TreatmentIDs)
		if err != nil {
			s.logger.Warn().Err(err).Str("appointment_id", created.ID).Msg("treatment resolution failed, booking kept without associations")
			return nil
		}
		if len(resolved) > domain.MaxTreatmentsPerAppointment {
			resolved = resolved[:domain.MaxTreatmentsPerAppointment]
		}
		ids := make([]string, 0, len(resolved))
		for _, t := range resolved {
			ids = append(ids, t.ID)
		}
		if len(ids) > 0 {
			if err := s.appointments.SetTreatments(lockCtx, created.ID, ids); err != nil {
				s.logger.Warn().Err(err).Str("appointment_id", created.ID).Msg("could not associate treatments")
				return nil
			}
		}
		created.TreatmentIDs = ids
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("appointment_id", created.ID).
		Str("slot", slotKey).
		Int("treatments", len(created.TreatmentIDs)).
		Msg("appointment requested")

	return &ports.BookingResult{
		AppointmentID: created.ID,
		ScheduledAt:   created.ScheduledAt,
		Status:        string(created.Status),
		Treatments:    created.TreatmentIDs,
		Message:       "Your appointment was requested successfully. We will contact you to confirm.",
	}, nil
}
