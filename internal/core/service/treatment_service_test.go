package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

func TestTreatmentCreate_Normalizes(t *testing.T) {
	repo := newStubTreatmentRepo()
	svc := NewTreatmentService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.TreatmentInput{
		Name:        "  limpieza dental ",
		Description: "limpieza profunda con ultrasonido",
		Price:       "450.00",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "LIMPIEZA DENTAL" {
		t.Fatalf("name = %q, want uppercased trimmed form", created.Name)
	}
	if created.Description != "LIMPIEZA PROFUNDA CON ULTRASONIDO" {
		t.Fatalf("description = %q", created.Description)
	}
	if !created.Price.Equal(created.Price.Truncate(2)) {
		t.Fatalf("price lost precision: %s", created.Price)
	}
}

func TestTreatmentCreate_Gates(t *testing.T) {
	cases := []struct {
		name    string
		input   ports.TreatmentInput
		wantErr error
	}{
		{"missing name", ports.TreatmentInput{Price: "100"}, domain.ErrMissingFields},
		{"missing price", ports.TreatmentInput{Name: "X"}, domain.ErrMissingFields},
		{"name too long", ports.TreatmentInput{Name: strings.Repeat("a", domain.TreatmentNameMaxLen+1), Price: "100"}, domain.ErrTreatmentName},
		{"unparseable price", ports.TreatmentInput{Name: "X", Price: "abc"}, domain.ErrInvalidPrice},
		{"negative price", ports.TreatmentInput{Name: "X", Price: "-5"}, domain.ErrInvalidPrice},
		{"too many decimals", ports.TreatmentInput{Name: "X", Price: "10.999"}, domain.ErrInvalidPrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewTreatmentService(newStubTreatmentRepo(), zerolog.Nop())
			if _, err := svc.Create(context.Background(), tc.input); !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestTreatmentUpdate(t *testing.T) {
	repo := newStubTreatmentRepo()
	svc := NewTreatmentService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), ports.TreatmentInput{Name: "Limpieza", Price: "450"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(context.Background(), created.ID, ports.TreatmentInput{Name: "limpieza profunda", Price: "600.50"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update changed the id: %s vs %s", updated.ID, created.ID)
	}
	if updated.Name != "LIMPIEZA PROFUNDA" {
		t.Fatalf("name = %q", updated.Name)
	}

	if _, err := svc.Update(context.Background(), "missing", ports.TreatmentInput{Name: "X", Price: "1"}); !errors.Is(err, domain.ErrTreatmentNotFound) {
		t.Fatalf("err = %v, want ErrTreatmentNotFound", err)
	}
}

func TestListPublic_PriceDisplay(t *testing.T) {
	repo := newStubTreatmentRepo()
	repo.add("LIMPIEZA", "450")
	repo.add("BLANQUEAMIENTO", "1200.5")
	svc := NewTreatmentService(repo, zerolog.Nop())

	views, err := svc.ListPublic(context.Background())
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	byName := make(map[string]string, len(views))
	for _, v := range views {
		byName[v.Name] = v.PriceDisplay
	}
	if byName["LIMPIEZA"] != "$450.00 MXN" {
		t.Fatalf("display = %q, want $450.00 MXN", byName["LIMPIEZA"])
	}
	if byName["BLANQUEAMIENTO"] != "$1200.50 MXN" {
		t.Fatalf("display = %q, want $1200.50 MXN", byName["BLANQUEAMIENTO"])
	}
}

func TestTreatmentDelete(t *testing.T) {
	repo := newStubTreatmentRepo()
	tr := repo.add("LIMPIEZA", "450")
	svc := NewTreatmentService(repo, zerolog.Nop())

	if err := svc.Delete(context.Background(), tr.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(context.Background(), tr.ID); !errors.Is(err, domain.ErrTreatmentNotFound) {
		t.Fatalf("second delete err = %v, want ErrTreatmentNotFound", err)
	}
}
