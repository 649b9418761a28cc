package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luzdental/clinic-system/internal/api/metrics"
	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// BookingHandler serves the public landing-page endpoints: the appointment
// request form and the treatments feed.
type BookingHandler struct {
	bookings   ports.BookingService
	treatments ports.TreatmentService
}

func NewBookingHandler(bookings ports.BookingService, treatments ports.TreatmentService) *BookingHandler {
	return &BookingHandler{bookings: bookings, treatments: treatments}
}

type bookingRequest struct {
	Name       string   `json:"name"        form:"name"          validate:"required"`
	Phone      string   `json:"phone"       form:"phone"         validate:"required"`
	Email      string   `json:"email"       form:"email"         validate:"omitempty,email"`
	Treatments []string `json:"treatments"  form:"treatments[]"  validate:"required,min=1,max=2"`
	Date       string   `json:"date"        form:"date"          validate:"required"`
}

type bookingResponse struct {
	AppointmentID string    `json:"appointment_id"`
	ScheduledAt   time.Time `json:"scheduled_at"`
	Status        string    `json:"status"`
	Treatments    []string  `json:"treatments"`
	Message       string    `json:"message"`
}

// Request handles POST /booking/appointments — the public booking form.
func (h *BookingHandler) Request(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.BookingRejectionsTotal.WithLabelValues("validation").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.bookings.RequestAppointment(c.Request().Context(), ports.BookingInput{
		PatientName:  req.Name,
		Phone:        req.Phone,
		Email:        req.Email,
		TreatmentIDs: req.Treatments,
		Date:         req.Date,
	})
	if err != nil {
		metrics.BookingRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
		return err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("public").Inc()
	return c.JSON(http.StatusCreated, bookingResponse{
		AppointmentID: result.AppointmentID,
		ScheduledAt:   result.ScheduledAt,
		Status:        result.Status,
		Treatments:    result.Treatments,
		Message:       result.Message,
	})
}

// Treatments handles GET /treatments — the public JSON feed consumed by the
// landing page.
func (h *BookingHandler) Treatments(c echo.Context) error {
	views, err := h.treatments.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSlotTaken):
		return "slot_taken"
	case errors.Is(err, domain.ErrSlotBusy):
		return "slot_busy"
	case errors.Is(err, domain.ErrScheduleInPast):
		return "past_date"
	default:
		return "validation"
	}
}
