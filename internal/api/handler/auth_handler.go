package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/luzdental/clinic-system/internal/api/metrics"
	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// AuthHandler serves signup and login.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

type signupRequest struct {
	Username        string `json:"username"         form:"username"         validate:"required"`
	Email           string `json:"email"            form:"email"            validate:"omitempty,email"`
	Password        string `json:"password"         form:"password1"        validate:"required"`
	PasswordConfirm string `json:"password_confirm" form:"password2"        validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type accountView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	IsSuperuser bool   `json:"is_superuser"`
	IsStaff     bool   `json:"is_staff"`
}

type authResponse struct {
	Token   string       `json:"token,omitempty"`
	Account *accountView `json:"account,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Signup handles POST /auth/signup: the public self-registration form.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.SignupsTotal.WithLabelValues("rejected").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.Signup(c.Request().Context(), ports.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		if errors.Is(err, domain.ErrSignupFailed) {
			metrics.SignupsTotal.WithLabelValues("failed").Inc()
		} else {
			metrics.SignupsTotal.WithLabelValues("rejected").Inc()
		}
		return err
	}

	metrics.SignupsTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, authResponse{
		Account: newAccountView(account),
		Message: "Account created successfully. Please log in.",
	})
}

// Login handles POST /auth/login and returns a bearer token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, account, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:   token,
		Account: newAccountView(account),
	})
}

func newAccountView(a *domain.Account) *accountView {
	if a == nil {
		return nil
	}
	return &accountView{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		IsSuperuser: a.IsSuperuser,
		IsStaff:     a.IsStaff,
	}
}
