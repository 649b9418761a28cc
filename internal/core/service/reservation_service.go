package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// ReservationService implements hall-reservation CRUD.
type ReservationService struct {
	reservations ports.ReservationRepository
	logger       zerolog.Logger
	now          func() time.Time
}

func NewReservationService(reservations ports.ReservationRepository, logger zerolog.Logger) *ReservationService {
	return &ReservationService{reservations: reservations, logger: logger, now: time.Now}
}

func (s *ReservationService) List(ctx context.Context) ([]*domain.Reservation, error) {
	return s.reservations.List(ctx)
}

func (s *ReservationService) Create(ctx context.Context, input ports.ReservationInput) (*domain.Reservation, error) {
	name := strings.TrimSpace(input.ClientName)
	if name == "" || input.Date == "" {
		return nil, domain.ErrMissingFields
	}
	if input.Attendees < 0 {
		return nil, domain.ErrInvalidAttendees
	}
	email := strings.TrimSpace(input.Email)
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

	created, err := s.reservations.Create(ctx, &domain.Reservation{
		Reference:   reservationReference(),
		ClientName:  domain.NormalizeText(name),
		ScheduledAt: when,
		Phone:       strings.TrimSpace(input.Phone),
		Email:       email,
		Attendees:   input.Attendees,
		Status:      domain.ReservationPending,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("reservation_id", created.ID).Str("reference", created.Reference).Msg("reservation created")
	return created, nil
}

// Edit applies a partial update: fields absent from the patch keep their
// current values.
func (s *ReservationService) Edit(ctx context.Context, id string, patch ports.ReservationPatch) (*domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.ClientName != nil && strings.TrimSpace(*patch.ClientName) != "" {
		r.ClientName = domain.NormalizeText(*patch.ClientName)
	}
	if patch.Date != nil && *patch.Date != "" {
		when, err := domain.ParseSchedule(*patch.Date)
		if err != nil {
			return nil, err
		}
		if domain.IsPastDate(when, s.now()) {
			return nil, domain.ErrScheduleInPast
		}
		r.ScheduledAt = when
	}
	if patch.Phone != nil {
		r.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if email != "" {
			if _, err := mail.ParseAddress(email); err != nil {
				return nil, domain.ErrInvalidEmail
			}
		}
		r.Email = email
	}
	if patch.Attendees != nil {
		if *patch.Attendees < 0 {
			return nil, domain.ErrInvalidAttendees
		}
		r.Attendees = *patch.Attendees
	}

	if err := s.reservations.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *ReservationService) MarkReady(ctx context.Context, id string) error {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	r.Status = domain.ReservationReady
	return s.reservations.Update(ctx, r)
}

func (s *ReservationService) Delete(ctx context.Context, id string) error {
	if _, err := s.reservations.GetByID(ctx, id); err != nil {
		return err
	}
	return s.reservations.Delete(ctx, id)
}

// reservationReference returns a short human-quotable code, e.g. RSV-1A2B3C4D.
func reservationReference() string {
	id := uuid.NewString()
	return "RSV-" + strings.ToUpper(id[:8])
}
