package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/luzdental/clinic-system/internal/core/domain"
	"github.com/luzdental/clinic-system/internal/core/ports"
)

// DirectoryService manages the four canonical groups and their memberships.
type DirectoryService struct {
	groups ports.GroupRepository
	logger zerolog.Logger
}

func NewDirectoryService(groups ports.GroupRepository, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{groups: groups, logger: logger}
}

// EnsureGroups idempotently creates the canonical groups. A failure is
// returned as an explicit degraded signal rather than swallowed; absence of
// groups only tightens authorization (deny-by-default), so callers may log
// and proceed.
func (s *DirectoryService) EnsureGroups(ctx context.Context) error {
	if err := s.groups.EnsureDefaults(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("role directory degraded: could not ensure canonical groups")
		return fmt.Errorf("ensure groups: %w", err)
	}
	return nil
}

// Assign replaces username's membership with exactly the groups named by
// flags. This is a total replace, never an incremental toggle.
func (s *DirectoryService) Assign(ctx context.Context, username string, flags domain.GroupFlags) error {
	// Degradation here is tolerated: membership replacement below fails
	// loudly if the groups are genuinely unreachable.
	_ = s.EnsureGroups(ctx)

	if err := s.groups.ReplaceMembership(ctx, username, flags.Groups()); err != nil {
		return fmt.Errorf("assign groups: %w", err)
	}
	return nil
}

func (s *DirectoryService) GroupsOf(ctx context.Context, username string) ([]domain.Group, error) {
	return s.groups.GroupsOf(ctx, username)
}

func (s *DirectoryService) FlagsOf(ctx context.Context, username string) (domain.GroupFlags, error) {
	groups, err := s.groups.GroupsOf(ctx, username)
	if err != nil {
		return domain.GroupFlags{}, err
	}
	return domain.FlagsFromGroups(groups), nil
}
