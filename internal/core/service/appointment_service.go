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

const dashboardRecentLimit = 5

// AppointmentService implements the staff-facing appointment operations.
type AppointmentService struct {
	appointments ports.AppointmentRepository
	treatments   ports.TreatmentRepository
	logger       zerolog.Logger
	now          func() time.Time
}

func NewAppointmentService(
	appointments ports.AppointmentRepository,
	treatments ports.TreatmentRepository,
	logger zerolog.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		treatments:   treatments,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *AppointmentService) List(ctx context.Context) ([]*domain.Appointment, error) {
	return s.appointments.List(ctx)
}

// Create adds an appointment on the staff path. The same past-date and
// slot-conflict gates as the public workflow apply; the unique slot index
// backs the check.
func (s *AppointmentService) Create(ctx context.Context, input ports.AppointmentInput) (*domain.Appointment, error) {
	name := strings.TrimSpace(input.PatientName)
	phone := strings.TrimSpace(input.Phone)
	email := strings.TrimSpace(input.Email)

	if name == "" || phone == "" || input.Date == "" {
		return nil, domain.ErrMissingFields
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
	if n, err := s.appointments.CountInSlot(ctx, slotKey, ""); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, domain.ErrSlotTaken
	}

	created, err := s.appointments.Create(ctx, &domain.Appointment{
		PatientName: domain.NormalizeText(name),
		ScheduledAt: when,
		Phone:       phone,
		Email:       email,
		Status:      domain.AppointmentPending,
		SlotKey:     slotKey,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", created.ID).Str("slot", slotKey).Msg("appointment created by staff")
	return created, nil
}

// Reschedule moves an appointment to a new date-time. The appointment being
// moved is excluded from the conflict count so moving within its own hour
// is allowed.
func (s *AppointmentService) Reschedule(ctx context.Context, id string, date string) (*domain.Appointment, error) {
	appt, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if date == "" {
		return nil, domain.ErrMissingFields
	}

	when, err := domain.ParseSchedule(date)
	if err != nil {
		return nil, err
	}
	if domain.IsPastDate(when, s.now()) {
		return nil, domain.ErrScheduleInPast
	}

	slotKey := domain.SlotKey(when)
	if n, err := s.appointments.CountInSlot(ctx, slotKey, appt.ID); err != nil {
		return nil, err
	} else if n > 0 {
		return nil, domain.ErrSlotTaken
	}

	appt.ScheduledAt = when
	appt.SlotKey = slotKey
	if err := s.appointments.UpdateSchedule(ctx, appt.ID, appt); err != nil {
		return nil, err
	}

	s.logger.Info().Str("appointment_id", appt.ID).Str("slot", slotKey).Msg("appointment rescheduled")
	return appt, nil
}

func (s *AppointmentService) MarkAttended(ctx context.Context, id string) error {
	if _, err := s.appointments.GetByID(ctx, id); err != nil {
		return err
	}
	return s.appointments.SetStatus(ctx, id, domain.AppointmentAttended)
}

func (s *AppointmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.appointments.GetByID(ctx, id); err != nil {
		return err
	}
	return s.appointments.Delete(ctx, id)
}

// Dashboard aggregates the counts and recent appointments shown on the
// staff landing module.
func (s *AppointmentService) Dashboard(ctx context.Context) (*ports.DashboardSummary, error) {
	apptCount, err := s.appointments.Count(ctx)
	if err != nil {
		return nil, err
	}
	treatmentCount, err := s.treatments.Count(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.appointments.Recent(ctx, dashboardRecentLimit)
	if err != nil {
		return nil, err
	}
	return &ports.DashboardSummary{
		AppointmentCount: apptCount,
		TreatmentCount:   treatmentCount,
		Recent:           recent,
	}, nil
}
