package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/matchday-dev/cup-manager/engine"
	"github.com/matchday-dev/cup-manager/live"
	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
)

const (
	defaultMatchDuration = 15
	defaultBreakBetween  = 5
	defaultRestSlots     = 2
)

// GenerateFixturesInput is the fixture-generation request. Venues is a comma
// separated list; zero duration and break fall back to the tournament
// defaults.
type GenerateFixturesInput struct {
	StartDate     string `json:"start_date"` // YYYY-MM-DD
	StartTime     string `json:"start_time"` // HH:MM
	Venues        string `json:"venues"`
	MatchDuration int    `json:"match_duration_minutes"`
	BreakBetween  int    `json:"break_minutes"`
	RestSlots     int    `json:"rest_slots"`
	Simple        bool   `json:"simple"`
}

type FixtureService interface {
	// Generate replaces the whole group-stage schedule with a freshly drawn
	// one. Knockout matches are untouched.
	Generate(ctx context.Context, input GenerateFixturesInput) ([]models.Match, error)
}

type fixtureService struct {
	groupRepo repositories.GroupRepository
	matchRepo repositories.MatchRepository
	hub       *live.Hub
	logger    *slog.Logger

	// one schedule replacement in flight at a time
	mu sync.Mutex
}

func NewFixtureService(
	groupRepo repositories.GroupRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		groupRepo: groupRepo,
		matchRepo: matchRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *fixtureService) Generate(ctx context.Context, input GenerateFixturesInput) ([]models.Match, error) {
	cfg, err := scheduleConfigFromInput(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	groups, err := s.groupRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}

	var schedule []models.Match
	if input.Simple {
		schedule, err = engine.ScheduleSimple(groups, cfg)
	} else {
		schedule, err = engine.ScheduleGroupStage(groups, cfg)
	}
	if err != nil {
		return nil, err
	}

	for _, m := range schedule {
		if m.ForcedSchedule {
			s.logger.Warn("fixture placed outside rest constraints",
				slog.Int("home_team_id", m.Home.TeamID),
				slog.Int("away_team_id", m.Away.TeamID),
				slog.Time("kickoff_at", m.KickoffAt))
		}
	}

	created, err := s.matchRepo.ReplaceGroupStage(ctx, schedule)
	if err != nil {
		return nil, err
	}

	s.logger.Info("group-stage fixtures generated",
		slog.Int("matches", len(created)),
		slog.Bool("simple", input.Simple))
	if s.hub != nil {
		s.hub.BroadcastToRoom(live.ScoresRoom, live.EventFixturesGenerated, created)
	}
	return created, nil
}

func scheduleConfigFromInput(input GenerateFixturesInput) (engine.ScheduleConfig, error) {
	var cfg engine.ScheduleConfig

	day, err := time.Parse("2006-01-02", input.StartDate)
	if err != nil {
		return cfg, ErrStartDateInvalid
	}
	clock, err := time.Parse("15:04", input.StartTime)
	if err != nil {
		return cfg, ErrStartTimeInvalid
	}

	duration := input.MatchDuration
	if duration == 0 {
		duration = defaultMatchDuration
	}
	pause := input.BreakBetween
	if pause == 0 {
		pause = defaultBreakBetween
	}
	if duration < 0 || pause < 0 {
		return cfg, ErrDurationInvalid
	}
	rest := input.RestSlots
	if rest == 0 {
		rest = defaultRestSlots
	}
	if rest < 0 {
		rest = 0
	}

	cfg = engine.ScheduleConfig{
		Venues:        strings.Split(input.Venues, ","),
		Start:         time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC),
		MatchDuration: duration,
		BreakBetween:  pause,
		RestSlots:     rest,
	}
	return cfg, nil
}
