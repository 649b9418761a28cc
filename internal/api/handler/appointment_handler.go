package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/luzdental/clinic-system/internal/api/metrics"
	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// AppointmentHandler serves the staff appointment CRUD screens.
type AppointmentHandler struct {
	appointments ports.AppointmentService
}

func NewAppointmentHandler(appointments ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

type appointmentView struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patient_name"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Status      string    `json:"status"`
	Treatments  []string  `json:"treatments"`
}

type createAppointmentRequest struct {
	PatientName string `json:"patient_name" form:"patient_name" validate:"required"`
	Phone       string `json:"phone"        form:"phone"        validate:"required"`
	Email       string `json:"email"        form:"email"        validate:"omitempty,email"`
	Date        string `json:"date"         form:"date"         validate:"required"`
}

type rescheduleRequest struct {
	Date string `json:"date" form:"date" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// List handles GET /v1/appointments.
func (h *AppointmentHandler) List(c echo.Context) error {
	appts, err := h.appointments.List(c.Request().Context())
	if err != nil {
		return err
	}
	views := make([]appointmentView, 0, len(appts))
	for _, a := range appts {
		views = append(views, newAppointmentView(a))
	}
	return c.JSON(http.StatusOK, views)
}

// Create handles POST /v1/appointments (administrators only).
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.appointments.Create(c.Request().Context(), ports.AppointmentInput{
		PatientName: req.PatientName,
		Phone:       req.Phone,
		Email:       req.Email,
		Date:        req.Date,
	})
	if err != nil {
		return err
	}

	metrics.BookingsCreatedTotal.WithLabelValues("staff").Inc()
	return c.JSON(http.StatusCreated, newAppointmentView(appt))
}

// Reschedule handles PUT /v1/appointments/:id/schedule.
func (h *AppointmentHandler) Reschedule(c echo.Context) error {
	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	appt, err := h.appointments.Reschedule(c.Request().Context(), c.Param("id"), req.Date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAppointmentView(appt))
}

// MarkAttended handles POST /v1/appointments/:id/attend.
func (h *AppointmentHandler) MarkAttended(c echo.Context) error {
	if err := h.appointments.MarkAttended(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Appointment marked as attended"})
}

// Delete handles DELETE /v1/appointments/:id.
func (h *AppointmentHandler) Delete(c echo.Context) error {
	if err := h.appointments.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Appointment deleted"})
}

// Dashboard handles GET /v1/dashboard: counts, recent appointments, and the
// caller's role flags for the staff landing module.
func (h *AppointmentHandler) Dashboard(c echo.Context) error {
	username, superuser, err := ctxActor(c)
	if err != nil {
		return err
	}

	summary, err := h.appointments.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}

	groups, _ := c.Get("groups").([]string)
	isAdmin := superuser
	isEmployee := false
	for _, g := range groups {
		switch domain.Group(g) {
		case domain.GroupAdministrator:
			isAdmin = true
		case domain.GroupEmployee:
			isEmployee = true
		}
	}

	recent := make([]appointmentView, 0, len(summary.Recent))
	for _, a := range summary.Recent {
		recent = append(recent, newAppointmentView(a))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"username":            username,
		"is_admin":            isAdmin,
		"is_employee":         isEmployee,
		"appointment_count":   summary.AppointmentCount,
		"treatment_count":     summary.TreatmentCount,
		"recent_appointments": recent,
	})
}

func newAppointmentView(a *domain.Appointment) appointmentView {
	treatments := a.TreatmentIDs
	if treatments == nil {
		treatments = []string{}
	}
	return appointmentView{
		ID:          a.ID,
		PatientName: a.PatientName,
		ScheduledAt: a.ScheduledAt,
		Phone:       a.Phone,
		Email:       a.Email,
		Status:      string(a.Status),
		Treatments:  treatments,
	}
}
