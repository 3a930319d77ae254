package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
)

type DashboardService interface {
	Summary(ctx context.Context) (*models.DashboardSummary, error)
}

type dashboardService struct {
	teamRepo  repositories.TeamRepository
	groupRepo repositories.GroupRepository
	matchRepo repositories.MatchRepository
}

func NewDashboardService(
	teamRepo repositories.TeamRepository,
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
) DashboardService {
	return &dashboardService{teamRepo: teamRepo, groupRepo: groupRepo, matchRepo: matchRepo}
}

func (s *dashboardService) Summary(ctx context.Context) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		summary.TeamCount, err = s.teamRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.GroupCount, err = s.groupRepo.Count(gctx)
		return err
	})
	g.Go(func() (err error) {
		summary.ScheduledCount, err = s.matchRepo.CountByStatus(gctx, models.StatusScheduled)
		return err
	})
	g.Go(func() (err error) {
		summary.LiveCount, err = s.matchRepo.CountByStatus(gctx, models.StatusLive)
		return err
	})
	g.Go(func() (err error) {
		summary.CompletedCount, err = s.matchRepo.CountByStatus(gctx, models.StatusCompleted)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summary, nil
}
