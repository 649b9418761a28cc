package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// TreatmentHandler serves the staff treatment CRUD screens.
type TreatmentHandler struct {
	treatments ports.TreatmentService
}

func NewTreatmentHandler(treatments ports.TreatmentService) *TreatmentHandler {
	return &TreatmentHandler{treatments: treatments}
}

type treatmentRequest struct {
	Name        string `json:"name"        form:"name"        validate:"required,max=150"`
	Description string `json:"description" form:"description"`
	Price       string `json:"price"       form:"price"       validate:"required"`
}

type treatmentStaffView struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// List handles GET /v1/treatments.
func (h *TreatmentHandler) List(c echo.Context) error {
	all, err := h.treatments.List(c.Request().Context())
	if err != nil {
		return err
	}
	views := make([]treatmentStaffView, 0, len(all))
	for _, t := range all {
		views = append(views, newTreatmentStaffView(t))
	}
	return c.JSON(http.StatusOK, views)
}

// Create handles POST /v1/treatments.
func (h *TreatmentHandler) Create(c echo.Context) error {
	req, err := bindTreatment(c)
	if err != nil {
		return err
	}
	t, err := h.treatments.Create(c.Request().Context(), ports.TreatmentInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newTreatmentStaffView(t))
}

// Update handles PUT /v1/treatments/:id.
func (h *TreatmentHandler) Update(c echo.Context) error {
	req, err := bindTreatment(c)
	if err != nil {
		return err
	}
	t, err := h.treatments.Update(c.Request().Context(), c.Param("id"), ports.TreatmentInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newTreatmentStaffView(t))
}

// Delete handles DELETE /v1/treatments/:id.
func (h *TreatmentHandler) Delete(c echo.Context) error {
	if err := h.treatments.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Treatment deleted"})
}

func bindTreatment(c echo.Context) (*treatmentRequest, error) {
	var req treatmentRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &req, nil
}

func newTreatmentStaffView(t *domain.Treatment) treatmentStaffView {
	return treatmentStaffView{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Price:       t.Price,
	}
}
