package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/luzdental/clinic-system/internal/core/domain"
)

func handleError(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return rec.Code, body["error"]
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"missing fields", domain.ErrMissingFields, http.StatusBadRequest},
		{"past date", domain.ErrScheduleInPast, http.StatusBadRequest},
		{"invalid price", domain.ErrInvalidPrice, http.StatusBadRequest},
		{"password mismatch", domain.ErrPasswordMismatch, http.StatusBadRequest},
		{"slot taken", domain.ErrSlotTaken, http.StatusConflict},
		{"slot busy", domain.ErrSlotBusy, http.StatusConflict},
		{"username taken", domain.ErrUsernameTaken, http.StatusConflict},
		{"self delete", domain.ErrSelfDelete, http.StatusConflict},
		{"appointment not found", domain.ErrAppointmentNotFound, http.StatusNotFound},
		{"account not found", domain.ErrAccountNotFound, http.StatusNotFound},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"signup failed", domain.ErrSignupFailed, http.StatusInternalServerError},
		{"echo http error", echo.NewHTTPError(http.StatusBadRequest, "bad payload"), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := handleError(t, tc.err)
			if code != tc.want {
				t.Fatalf("status = %d, want %d", code, tc.want)
			}
			if msg == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

func TestErrorHandler_UnexpectedErrorIsGeneric(t *testing.T) {
	code, msg := handleError(t, errors.New("mongo topology closed"))
	if code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", code)
	}
	if msg != "internal server error" {
		t.Fatalf("internal cause leaked to the client: %q", msg)
	}
}
