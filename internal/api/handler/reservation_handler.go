package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luzdental/clinic-system/internal/api/metrics"
	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// ReservationHandler serves the hall-reservation CRUD screens.
type ReservationHandler struct {
	reservations ports.ReservationService
}

func NewReservationHandler(reservations ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

type createReservationRequest struct {
	ClientName string `json:"client_name" form:"client_name" validate:"required"`
	Date       string `json:"date"        form:"date"        validate:"required"`
	Phone      string `json:"phone"       form:"phone"`
	Email      string `json:"email"       form:"email"       validate:"omitempty,email"`
	Attendees  int    `json:"attendees"   form:"attendees"   validate:"gte=0"`
}

// editReservationRequest is a partial edit: nil fields keep current values.
type editReservationRequest struct {
	ClientName *string `json:"client_name"`
	Date       *string `json:"date"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
	Attendees  *int    `json:"attendees"`
}

type reservationView struct {
	ID          string    `json:"id"`
	Reference   string    `json:"reference"`
	ClientName  string    `json:"client_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Attendees   int       `json:"attendees"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// List handles GET /v1/reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	all, err := h.reservations.List(c.Request().Context())
	if err != nil {
		return err
	}
	views := make([]reservationView, 0, len(all))
	for _, r := range all {
		views = append(views, newReservationView(r))
	}
	return c.JSON(http.StatusOK, views)
}

// Create handles POST /v1/reservations (administrators only).
func (h *ReservationHandler) Create(c echo.Context) error {
	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	r, err := h.reservations.Create(c.Request().Context(), ports.ReservationInput{
		ClientName: req.ClientName,
		Date:       req.Date,
		Phone:      req.Phone,
		Email:      req.Email,
		Attendees:  req.Attendees,
	})
	if err != nil {
		return err
	}

	metrics.ReservationsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, newReservationView(r))
}

// Edit handles PATCH /v1/reservations/:id.
func (h *ReservationHandler) Edit(c echo.Context) error {
	var req editReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	r, err := h.reservations.Edit(c.Request().Context(), c.Param("id"), ports.ReservationPatch{
		ClientName: req.ClientName,
		Date:       req.Date,
		Phone:      req.Phone,
		Email:      req.Email,
		Attendees:  req.Attendees,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newReservationView(r))
}

// MarkReady handles POST /v1/reservations/:id/ready.
func (h *ReservationHandler) MarkReady(c echo.Context) error {
	if err := h.reservations.MarkReady(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Reservation marked as ready"})
}

// Delete handles DELETE /v1/reservations/:id.
func (h *ReservationHandler) Delete(c echo.Context) error {
	if err := h.reservations.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Reservation deleted"})
}

func newReservationView(r *domain.Reservation) reservationView {
	return reservationView{
		ID:          r.ID,
		Reference:   r.Reference,
		ClientName:  r.ClientName,
		ScheduledAt: r.ScheduledAt,
		Phone:       r.Phone,
		Email:       r.Email,
		Attendees:   r.Attendees,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}
