package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/matchday-dev/cup-manager/engine"
	"github.com/matchday-dev/cup-manager/live"
	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
)

type ResolverService interface {
	// ResolvePlaceholders re-evaluates every placeholder side on unplayed
	// knockout matches against the current standings and bracket results, and
	// returns how many matches changed.
	ResolvePlaceholders(ctx context.Context) (int, error)
}

type resolverService struct {
	groupRepo repositories.GroupRepository
	matchRepo repositories.MatchRepository
	hub       *live.Hub
	logger    *slog.Logger

	// resolution is a read-modify-write over the whole bracket
	mu sync.Mutex
}

func NewResolverService(
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	logger *slog.Logger,
) ResolverService {
	return &resolverService{
		groupRepo: groupRepo,
		matchRepo: matchRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *resolverService) ResolvePlaceholders(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		groups  []models.Group
		matches []*models.Match
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		groups, err = s.groupRepo.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.List(gctx, repositories.MatchFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("failed to load bracket state: %w", err)
	}

	var groupMatches []models.Match
	var knockout []*models.Match
	for _, m := range matches {
		if m.IsKnockout() {
			knockout = append(knockout, m)
		} else if m.Completed() {
			groupMatches = append(groupMatches, *m)
		}
	}

	mutated := engine.ResolvePlaceholders(groups, groupMatches, knockout)
	for _, m := range mutated {
		if err := s.matchRepo.UpdateSides(ctx, m); err != nil {
			return 0, fmt.Errorf("failed to persist resolved sides for match %d: %w", m.ID, err)
		}
	}

	if len(mutated) > 0 {
		s.logger.Info("knockout placeholders resolved", slog.Int("matches", len(mutated)))
		if s.hub != nil {
			s.hub.BroadcastToRoom(live.ScoresRoom, live.EventFixturesGenerated, mutated)
		}
	}
	return len(mutated), nil
}
