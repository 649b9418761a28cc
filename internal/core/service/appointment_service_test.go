package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

func newAppointmentService(appts *stubAppointmentRepo, treatments *stubTreatmentRepo) *AppointmentService {
	s := NewAppointmentService(appts, treatments, zerolog.Nop())
	s.now = func() time.Time { return testNow }
	return s
}

func TestStaffCreate_Success(t *testing.T) {
	appts := newStubAppointmentRepo()
	svc := newAppointmentService(appts, newStubTreatmentRepo())

	created, err := svc.Create(context.Background(), ports.AppointmentInput{
		PatientName: " luis mora ",
		Phone:       "555-0188",
		Date:        "2026-04-15T11:00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.PatientName != "LUIS MORA" {
		t.Fatalf("patient name = %q", created.PatientName)
	}
	if created.Status != domain.AppointmentPending {
		t.Fatalf("status = %q, want pending", created.Status)
	}
}

func TestStaffCreate_Gates(t *testing.T) {
	cases := []struct {
		name    string
		input   ports.AppointmentInput
		wantErr error
	}{
		{
			"missing fields",
			ports.AppointmentInput{PatientName: "X", Date: "2026-04-15T11:00"},
			domain.ErrMissingFields,
		},
		{
			"invalid email",
			ports.AppointmentInput{PatientName: "X", Phone: "1", Email: "nope", Date: "2026-04-15T11:00"},
			domain.ErrInvalidEmail,
		},
		{
			"past date",
			ports.AppointmentInput{PatientName: "X", Phone: "1", Date: "2026-03-01T11:00"},
			domain.ErrScheduleInPast,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newAppointmentService(newStubAppointmentRepo(), newStubTreatmentRepo())
			if _, err := svc.Create(context.Background(), tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestStaffCreate_SlotConflict(t *testing.T) {
	appts := newStubAppointmentRepo()
	svc := newAppointmentService(appts, newStubTreatmentRepo())

	input := ports.AppointmentInput{PatientName: "Ana", Phone: "1", Date: "2026-04-15T11:00"}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	input.Date = "2026-04-15T11:30"
	if _, err := svc.Create(context.Background(), input); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestReschedule_ExcludesOwnSlot(t *testing.T) {
	appts := newStubAppointmentRepo()
	svc := newAppointmentService(appts, newStubTreatmentRepo())

	created, err := svc.Create(context.Background(), ports.AppointmentInput{
		PatientName: "Ana", Phone: "1", Date: "2026-04-15T11:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Moving within the same hour must not conflict with itself.
	moved, err := svc.Reschedule(context.Background(), created.ID, "2026-04-15T11:30")
	if err != nil {
		t.Fatalf("reschedule within own slot: %v", err)
	}
	if moved.ScheduledAt.Minute() != 30 {
		t.Fatalf("scheduled at = %v, want minute 30", moved.ScheduledAt)
	}
}

func TestReschedule_ConflictWithOther(t *testing.T) {
	appts := newStubAppointmentRepo()
	svc := newAppointmentService(appts, newStubTreatmentRepo())

	first, err := svc.Create(context.Background(), ports.AppointmentInput{
		PatientName: "Ana", Phone: "1", Date: "2026-04-15T11:00",
	})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := svc.Create(context.Background(), ports.AppointmentInput{
		PatientName: "Luis", Phone: "2", Date: "2026-04-15T12:00",
	}); err != nil {
		t.Fatalf("create second: %v", err)
	}

	if _, err := svc.Reschedule(context.Background(), first.ID, "2026-04-15T12:15"); !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("err = %v, want ErrSlotTaken", err)
	}
}

func TestReschedule_Gates(t *testing.T) {
	appts := newStubAppointmentRepo()
	svc := newAppointmentService(appts, newStubTreatmentRepo())

	created, err := svc.Create(context.Background(), ports.AppointmentInput{
		PatientName: "Ana", Phone: "1", Date: "2026-04-15T11:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Reschedule(context.Background(), "missing", "2026-04-16T11:00"); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentNotFound", err)
	}
	if _, err := svc.Reschedule(context.Background(), created.ID, ""); !errors.Is(err, domain.ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}
	if _, err := svc.Reschedule(context.Background(), created.ID, "2026-03-01T11:00"); !errors.Is(err, domain.ErrScheduleInPast) {
		t.Fatalf("err = %v, want ErrScheduleInPast", err)
	}
}

func TestMarkAttended(t *testing.T) {
	appts := newStubAppointmentRepo()
	svc := newAppointmentService(appts, newStubTreatmentRepo())

	created, err := svc.Create(context.Background(), ports.AppointmentInput{
		PatientName: "Ana", Phone: "1", Date: "2026-04-15T11:00",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.MarkAttended(context.Background(), created.ID); err != nil {
		t.Fatalf("MarkAttended: %v", err)
	}
	stored, _ := appts.GetByID(context.Background(), created.ID)
	if stored.Status != domain.AppointmentAttended {
		t.Fatalf("status = %q, want attended", stored.Status)
	}

	if err := svc.MarkAttended(context.Background(), "missing"); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("err = %v, want ErrAppointmentNotFound", err)
	}
}

func TestDashboard(t *testing.T) {
	appts := newStubAppointmentRepo()
	treatments := newStubTreatmentRepo()
	treatments.add("LIMPIEZA", "450")
	treatments.add("ORTODONCIA", "8000")
	svc := newAppointmentService(appts, treatments)

	for i, date := range []string{"2026-04-15T09:00", "2026-04-15T10:00", "2026-04-15T11:00"} {
		if _, err := svc.Create(context.Background(), ports.AppointmentInput{
			PatientName: "P", Phone: "1", Date: date,
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	summary, err := svc.Dashboard(context.Background())
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if summary.AppointmentCount != 3 {
		t.Fatalf("appointment count = %d, want 3", summary.AppointmentCount)
	}
	if summary.TreatmentCount != 2 {
		t.Fatalf("treatment count = %d, want 2", summary.TreatmentCount)
	}
	if len(summary.Recent) != 3 {
		t.Fatalf("recent = %d entries, want 3", len(summary.Recent))
	}
}
