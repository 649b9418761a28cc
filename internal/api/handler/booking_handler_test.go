package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

type stubBookingService struct {
	lastInput ports.BookingInput
	result    *ports.BookingResult
	err       error
}

func (s *stubBookingService) RequestAppointment(_ context.Context, input ports.BookingInput) (*ports.BookingResult, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubTreatmentFeed struct {
	views []ports.TreatmentView
}

func (s *stubTreatmentFeed) List(context.Context) ([]*domain.Treatment, error) { return nil, nil }
func (s *stubTreatmentFeed) ListPublic(context.Context) ([]ports.TreatmentView, error) {
	return s.views, nil
}
func (s *stubTreatmentFeed) Create(context.Context, ports.TreatmentInput) (*domain.Treatment, error) {
	return nil, nil
}
func (s *stubTreatmentFeed) Update(context.Context, string, ports.TreatmentInput) (*domain.Treatment, error) {
	return nil, nil
}
func (s *stubTreatmentFeed) Delete(context.Context, string) error { return nil }

func bookingContext(t *testing.T, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/booking/appointments", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestBookingRequest_Created(t *testing.T) {
	svc := &stubBookingService{result: &ports.BookingResult{
		AppointmentID: "appt-1",
		ScheduledAt:   time.Date(2026, 4, 12, 10, 0, 0, 0, time.Local),
		Status:        "PENDING",
		Treatments:    []string{"tr-1"},
		Message:       "Your appointment was requested successfully. We will contact you to confirm.",
	}}
	h := NewBookingHandler(svc, &stubTreatmentFeed{})

	c, rec := bookingContext(t, `{
		"name": "Ana Torres",
		"phone": "555-0134",
		"email": "ana@example.com",
		"treatments": ["tr-1"],
		"date": "2026-04-12T10:00"
	}`)

	if err := h.Request(c); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp bookingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.AppointmentID != "appt-1" || resp.Status != "PENDING" {
		t.Fatalf("response = %+v", resp)
	}
	if svc.lastInput.PatientName != "Ana Torres" {
		t.Fatalf("service input = %+v", svc.lastInput)
	}
}

func TestBookingRequest_ValidationRejected(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{}, &stubTreatmentFeed{})

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"phone":"1","treatments":["a"],"date":"2026-04-12T10:00"}`},
		{"no treatments", `{"name":"Ana","phone":"1","treatments":[],"date":"2026-04-12T10:00"}`},
		{"three treatments", `{"name":"Ana","phone":"1","treatments":["a","b","c"],"date":"2026-04-12T10:00"}`},
		{"bad email", `{"name":"Ana","phone":"1","email":"nope","treatments":["a"],"date":"2026-04-12T10:00"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := bookingContext(t, tc.body)
			err := h.Request(c)
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Fatalf("err = %v, want 400 HTTPError", err)
			}
		})
	}
}

func TestBookingRequest_SlotTakenPropagates(t *testing.T) {
	h := NewBookingHandler(&stubBookingService{err: domain.ErrSlotTaken}, &stubTreatmentFeed{})

	c, _ := bookingContext(t, `{"name":"Ana","phone":"1","treatments":["a"],"date":"2026-04-12T10:00"}`)
	if err := h.Request(c); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestTreatmentsFeed(t *testing.T) {
	feed := &stubTreatmentFeed{views: []ports.TreatmentView{{
		ID:           "tr-1",
		Name:         "LIMPIEZA",
		Price:        decimal.RequireFromString("450"),
		PriceDisplay: "$450.00 MXN",
	}}}
	h := NewBookingHandler(&stubBookingService{}, feed)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/treatments", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Treatments(c); err != nil {
		t.Fatalf("Treatments: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var views []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &views); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(views) != 1 || views[0]["price_display"] != "$450.00 MXN" {
		t.Fatalf("feed = %v", views)
	}
}
