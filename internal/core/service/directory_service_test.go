package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/luzdental/clinic-system/internal/core/domain"
)

type stubGroupRepo struct {
	members    map[domain.Group][]string
	ensureErr  error
	ensureCall int
}

func newStubGroupRepo() *stubGroupRepo {
	return &stubGroupRepo{members: make(map[domain.Group][]string)}
}

func (r *stubGroupRepo) EnsureDefaults(context.Context) error {
	r.ensureCall++
	if r.ensureErr != nil {
		return r.ensureErr
	}
	for _, g := range domain.CanonicalGroups {
		if _, ok := r.members[g]; !ok {
			r.members[g] = []string{}
		}
	}
	return nil
}

func (r *stubGroupRepo) List(context.Context) ([]domain.Group, error) {
	out := make([]domain.Group, 0, len(r.members))
	for g := range r.members {
		out = append(out, g)
	}
	return out, nil
}

func (r *stubGroupRepo) ReplaceMembership(_ context.Context, username string, groups []domain.Group) error {
	for g, names := range r.members {
		kept := names[:0]
		for _, n := range names {
			if n != username {
				kept = append(kept, n)
			}
		}
		r.members[g] = kept
	}
	for _, g := range groups {
		r.members[g] = append(r.members[g], username)
	}
	return nil
}

func (r *stubGroupRepo) GroupsOf(_ context.Context, username string) ([]domain.Group, error) {
	var out []domain.Group
	for g, names := range r.members {
		for _, n := range names {
			if n == username {
				out = append(out, g)
			}
		}
	}
	return out, nil
}

func TestEnsureGroups_Idempotent(t *testing.T) {
	repo := newStubGroupRepo()
	svc := NewDirectoryService(repo, zerolog.Nop())

	if err := svc.EnsureGroups(context.Background()); err != nil {
		t.Fatalf("first ensure: %v", err)
	}
	if err := svc.EnsureGroups(context.Background()); err != nil {
		t.Fatalf("second ensure: %v", err)
	}

	groups, _ := repo.List(context.Background())
	if len(groups) != len(domain.CanonicalGroups) {
		t.Fatalf("expected %d groups after repeated ensure, got %d", len(domain.CanonicalGroups), len(groups))
	}
}

func TestEnsureGroups_DegradedIsExplicit(t *testing.T) {
	repo := newStubGroupRepo()
	repo.ensureErr = errors.New("directory store unreachable")
	svc := NewDirectoryService(repo, zerolog.Nop())

	if err := svc.EnsureGroups(context.Background()); err == nil {
		t.Fatalf("degraded directory must report an error, not swallow it")
	}
}

func TestAssign_FullReplace(t *testing.T) {
	repo := newStubGroupRepo()
	svc := NewDirectoryService(repo, zerolog.Nop())

	if err := svc.Assign(context.Background(), "gerente", domain.GroupFlags{Admin: true, Employee: true}); err != nil {
		t.Fatalf("first assign: %v", err)
	}
	if err := svc.Assign(context.Background(), "gerente", domain.GroupFlags{Treatments: true}); err != nil {
		t.Fatalf("second assign: %v", err)
	}

	flags, err := svc.FlagsOf(context.Background(), "gerente")
	if err != nil {
		t.Fatalf("FlagsOf: %v", err)
	}
	if flags != (domain.GroupFlags{Treatments: true}) {
		t.Fatalf("flags = %+v, want treatments only", flags)
	}
}

func TestAssign_EmptyFlagsClearsMembership(t *testing.T) {
	repo := newStubGroupRepo()
	svc := NewDirectoryService(repo, zerolog.Nop())

	if err := svc.Assign(context.Background(), "gerente", domain.GroupFlags{Admin: true}); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := svc.Assign(context.Background(), "gerente", domain.GroupFlags{}); err != nil {
		t.Fatalf("clear: %v", err)
	}

	groups, err := svc.GroupsOf(context.Background(), "gerente")
	if err != nil {
		t.Fatalf("GroupsOf: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("groups = %v, want none", groups)
	}
}
