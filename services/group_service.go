package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/matchday-dev/cup-manager/engine"
	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
)

// GroupStanding is the ranked table of one group, derived on demand from the
// group's completed matches.
type GroupStanding struct {
	Group models.Group  `json:"group"`
	Table []models.Team `json:"table"`
}

type GroupService interface {
	// Draw randomly partitions the unassigned team pool into groups,
	// replacing any previous group structure and its group-stage fixtures.
	Draw(ctx context.Context, groupCount, teamsPerGroup int) ([]models.Group, error)
	// ManualDraw performs the same destructive replace with a caller-supplied
	// group-name -> team-id mapping.
	ManualDraw(ctx context.Context, assignment map[string][]int) ([]models.Group, error)
	// Reset deletes all groups and matches and zeroes every team record.
	Reset(ctx context.Context) error
	List(ctx context.Context) ([]models.Group, error)
	Standings(ctx context.Context) ([]GroupStanding, error)
}

type groupService struct {
	db        *sql.DB
	teamRepo  repositories.TeamRepository
	groupRepo repositories.GroupRepository
	matchRepo repositories.MatchRepository
	logger    *slog.Logger

	// draw, reset and fixture generation are destructive read-modify-write
	// cycles over shared records; one in flight at a time.
	mu sync.Mutex
}

const maxManualTeamsPerGroup = 6

func NewGroupService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) GroupService {
	return &groupService{
		db:        db,
		teamRepo:  teamRepo,
		groupRepo: groupRepo,
		matchRepo: matchRepo,
		logger:    logger,
	}
}

func (s *groupService) Draw(ctx context.Context, groupCount, teamsPerGroup int) ([]models.Group, error) {
	if groupCount < 2 || groupCount > engine.MaxGroups {
		return nil, ErrGroupCountOutOfRange
	}
	if teamsPerGroup < 3 || teamsPerGroup > 6 {
		return nil, ErrTeamsPerGroupOutOfRange
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	unassigned, err := s.teamRepo.ListUnassigned(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load unassigned teams: %w", err)
	}
	pool := make([]models.Team, 0, len(unassigned))
	for _, t := range unassigned {
		pool = append(pool, *t)
	}

	groups, err := engine.DrawGroups(pool, groupCount, teamsPerGroup)
	if err != nil {
		return nil, err
	}

	return s.replaceGroups(ctx, groups)
}

func (s *groupService) ManualDraw(ctx context.Context, assignment map[string][]int) ([]models.Group, error) {
	if err := engine.ValidateManualGroups(assignment, maxManualTeamsPerGroup); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	groups := make([]models.Group, 0, len(assignment))
	for name, teamIDs := range assignment {
		teams, err := s.teamRepo.ListByIDs(ctx, teamIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to load teams for group %q: %w", name, err)
		}
		if len(teams) != len(teamIDs) {
			return nil, fmt.Errorf("%w: group %q", ErrTeamsNotFound, name)
		}
		members := make([]models.Team, 0, len(teams))
		for _, t := range teams {
			members = append(members, *t)
		}
		groups = append(groups, models.Group{Name: name, Teams: members})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })

	return s.replaceGroups(ctx, groups)
}

// replaceGroups clears the group-stage fixtures that referenced the old
// groups, then swaps in the new structure.
func (s *groupService) replaceGroups(ctx context.Context, groups []models.Group) ([]models.Group, error) {
	if err := s.matchRepo.DeleteByRound(ctx, nil, models.RoundGroup); err != nil {
		return nil, fmt.Errorf("failed to delete group-stage matches: %w", err)
	}

	created, err := s.groupRepo.ReplaceAll(ctx, groups)
	if err != nil {
		return nil, err
	}
	s.logger.Info("groups replaced", slog.Int("groups", len(created)))
	return created, nil
}

func (s *groupService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.matchRepo.DeleteAll(ctx, tx); err != nil {
		return fmt.Errorf("failed to delete matches: %w", err)
	}
	if err := s.teamRepo.ClearGroupsAndAggregates(ctx, tx); err != nil {
		return fmt.Errorf("failed to reset team records: %w", err)
	}
	if err := s.groupRepo.DeleteAll(ctx, tx); err != nil {
		return fmt.Errorf("failed to delete groups: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	s.logger.Info("groups, matches and team records reset")
	return nil
}

func (s *groupService) List(ctx context.Context) ([]models.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *groupService) Standings(ctx context.Context) ([]GroupStanding, error) {
	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	round := models.RoundGroup
	status := models.StatusCompleted
	completed, err := s.matchRepo.List(ctx, repositories.MatchFilter{Round: &round, Status: &status})
	if err != nil {
		return nil, err
	}
	matches := make([]models.Match, 0, len(completed))
	for _, m := range completed {
		matches = append(matches, *m)
	}

	standings := make([]GroupStanding, 0, len(groups))
	for _, g := range groups {
		standings = append(standings, GroupStanding{
			Group: g,
			Table: engine.ComputeStandings(g, matches),
		})
	}
	return standings, nil
}
