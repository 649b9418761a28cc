package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// TreatmentService implements treatment CRUD and the public JSON feed.
type TreatmentService struct {
	treatments ports.TreatmentRepository
	logger     zerolog.Logger
}

func NewTreatmentService(treatments ports.TreatmentRepository, logger zerolog.Logger) *TreatmentService {
	return &TreatmentService{treatments: treatments, logger: logger}
}

func (s *TreatmentService) List(ctx context.Context) ([]*domain.Treatment, error) {
	return s.treatments.List(ctx)
}

// ListPublic projects treatments for the landing page, including a
// currency-formatted display string.
func (s *TreatmentService) ListPublic(ctx context.Context) ([]ports.TreatmentView, error) {
	all, err := s.treatments.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]ports.TreatmentView, 0, len(all))
	for _, t := range all {
		views = append(views, ports.TreatmentView{
			ID:           t.ID,
			Name:         t.Name,
			Description:  t.Description,
			Price:        t.Price,
			PriceDisplay: fmt.Sprintf("$%s MXN", t.Price.StringFixed(2)),
		})
	}
	return views, nil
}

func (s *TreatmentService) Create(ctx context.Context, input ports.TreatmentInput) (*domain.Treatment, error) {
	t, err := buildTreatment(input)
	if err != nil {
		return nil, err
	}
	created, err := s.treatments.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("treatment_id", created.ID).Str("name", created.Name).Msg("treatment created")
	return created, nil
}

func (s *TreatmentService) Update(ctx context.Context, id string, input ports.TreatmentInput) (*domain.Treatment, error) {
	existing, err := s.treatments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t, err := buildTreatment(input)
	if err != nil {
		return nil, err
	}
	t.ID = existing.ID
	if err := s.treatments.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TreatmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.treatments.GetByID(ctx, id); err != nil {
		return err
	}
	return s.treatments.Delete(ctx, id)
}

// buildTreatment validates and normalizes a treatment form: name required
// and bounded, price a non-negative 2dp fixed-point amount, text uppercased.
func buildTreatment(input ports.TreatmentInput) (*domain.Treatment, error) {
	name := strings.TrimSpace(input.Name)
	price := strings.TrimSpace(input.Price)
	if name == "" || price == "" {
		return nil, domain.ErrMissingFields
	}
	if len(name) > domain.TreatmentNameMaxLen {
		return nil, domain.ErrTreatmentName
	}

	amount, err := decimal.NewFromString(price)
	if err != nil {
		return nil, domain.ErrInvalidPrice
	}
	if err := domain.ValidatePrice(amount); err != nil {
		return nil, err
	}

	return &domain.Treatment{
		Name:        domain.NormalizeText(name),
		Description: domain.NormalizeText(input.Description),
		Price:       amount,
	}, nil
}
