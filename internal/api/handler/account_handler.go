package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// AccountHandler serves the administrator-only staff account screens.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type provisionRequest struct {
	Username         string `json:"username"          form:"username"`
	Email            string `json:"email"             form:"email"    validate:"omitempty,email"`
	Password         string `json:"password"          form:"password"`
	IsSuperuser      bool   `json:"is_superuser"      form:"is_superuser"`
	RoleAdmin        bool   `json:"role_admin"        form:"role_admin"`
	RoleEmployee     bool   `json:"role_employee"     form:"role_employee"`
	PermAppointments bool   `json:"perm_appointments" form:"perm_appointments"`
	PermTreatments   bool   `json:"perm_treatments"   form:"perm_treatments"`
}

type accountDetailView struct {
	accountView
	RoleAdmin        bool `json:"role_admin"`
	RoleEmployee     bool `json:"role_employee"`
	PermAppointments bool `json:"perm_appointments"`
	PermTreatments   bool `json:"perm_treatments"`
}

func (r provisionRequest) input() ports.ProvisionInput {
	return ports.ProvisionInput{
		Username:    r.Username,
		Email:       r.Email,
		Password:    r.Password,
		IsSuperuser: r.IsSuperuser,
		Flags: domain.GroupFlags{
			Admin:        r.RoleAdmin,
			Employee:     r.RoleEmployee,
			Appointments: r.PermAppointments,
			Treatments:   r.PermTreatments,
		},
	}
}

// List handles GET /v1/accounts.
func (h *AccountHandler) List(c echo.Context) error {
	all, err := h.accounts.List(c.Request().Context())
	if err != nil {
		return err
	}
	views := make([]*accountView, 0, len(all))
	for _, a := range all {
		views = append(views, newAccountView(a))
	}
	return c.JSON(http.StatusOK, views)
}

// Get handles GET /v1/accounts/:id — the edit form data, membership as
// checkbox flags.
func (h *AccountHandler) Get(c echo.Context) error {
	detail, err := h.accounts.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAccountDetailView(detail))
}

// Create handles POST /v1/accounts.
func (h *AccountHandler) Create(c echo.Context) error {
	req, err := bindProvision(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.Provision(c.Request().Context(), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, newAccountView(account))
}

// Update handles PUT /v1/accounts/:id. A blank password means "no change".
func (h *AccountHandler) Update(c echo.Context) error {
	req, err := bindProvision(c)
	if err != nil {
		return err
	}
	account, err := h.accounts.UpdateAccount(c.Request().Context(), c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newAccountView(account))
}

// Delete handles DELETE /v1/accounts/:id with the self-delete guard.
func (h *AccountHandler) Delete(c echo.Context) error {
	username, _, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.accounts.DeleteAccount(c.Request().Context(), username, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Account deleted"})
}

func bindProvision(c echo.Context) (*provisionRequest, error) {
	var req provisionRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return &req, nil
}

func newAccountDetailView(d *ports.AccountDetail) accountDetailView {
	return accountDetailView{
		accountView:      *newAccountView(d.Account),
		RoleAdmin:        d.Flags.Admin,
		RoleEmployee:     d.Flags.Employee,
		PermAppointments: d.Flags.Appointments,
		PermTreatments:   d.Flags.Treatments,
	}
}
