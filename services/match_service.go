package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/matchday-dev/cup-manager/engine"
	"github.com/matchday-dev/cup-manager/live"
	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
)

// CreateKnockoutMatchInput describes a bracket match. Each side names either a
// concrete team or a placeholder label ("Group A 1st", "Winner SF1"); a side
// may also be left open entirely.
type CreateKnockoutMatchInput struct {
	Round           models.MatchRound `json:"round"`
	SlotName        string            `json:"slot_name"`
	HomeTeamID      *int              `json:"home_team_id"`
	HomePlaceholder string            `json:"home_placeholder"`
	AwayTeamID      *int              `json:"away_team_id"`
	AwayPlaceholder string            `json:"away_placeholder"`
	Venue           string            `json:"venue"`
	KickoffAt       time.Time         `json:"kickoff_at"`
}

type UpdateScoreInput struct {
	HomeScore     *int               `json:"home_score"`
	AwayScore     *int               `json:"away_score"`
	HomePenalties *int               `json:"home_penalties"`
	AwayPenalties *int               `json:"away_penalties"`
	Status        models.MatchStatus `json:"status"`
}

type MatchService interface {
	List(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	CreateKnockout(ctx context.Context, input CreateKnockoutMatchInput) (*models.Match, error)
	// UpdateScore records a score and status change. Completing a group match
	// folds the result into both teams' standings records; editing an already
	// completed result first backs the previous one out, so the aggregates
	// always reflect exactly the stored scores.
	UpdateScore(ctx context.Context, id int, input UpdateScoreInput) (*models.Match, error)
	Delete(ctx context.Context, id int) error
}

type matchService struct {
	db        *sql.DB
	matchRepo repositories.MatchRepository
	teamRepo  repositories.TeamRepository
	hub       *live.Hub
	logger    *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:        db,
		matchRepo: matchRepo,
		teamRepo:  teamRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) List(ctx context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	return s.matchRepo.List(ctx, filter)
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	return s.matchRepo.GetByID(ctx, id)
}

func (s *matchService) CreateKnockout(ctx context.Context, input CreateKnockoutMatchInput) (*models.Match, error) {
	if input.Round == models.RoundGroup {
		return nil, ErrGroupMatchManualCreated
	}
	if !input.Round.IsKnockout() {
		return nil, ErrMatchRoundInvalid
	}

	home, err := sideFromInput(ctx, s.teamRepo, input.HomeTeamID, input.HomePlaceholder)
	if err != nil {
		return nil, err
	}
	away, err := sideFromInput(ctx, s.teamRepo, input.AwayTeamID, input.AwayPlaceholder)
	if err != nil {
		return nil, err
	}

	match := &models.Match{
		Round:     input.Round,
		Home:      home,
		Away:      away,
		Venue:     input.Venue,
		KickoffAt: input.KickoffAt,
		Status:    models.StatusScheduled,
	}
	if name := input.SlotName; name != "" {
		match.SlotName = &name
	}

	if err := s.matchRepo.Create(ctx, match); err != nil {
		return nil, err
	}
	s.logger.Info("knockout match created",
		slog.Int("match_id", match.ID),
		slog.String("round", string(match.Round)))
	return match, nil
}

func sideFromInput(ctx context.Context, teamRepo repositories.TeamRepository, teamID *int, placeholder string) (models.MatchSide, error) {
	if teamID != nil {
		if _, err := teamRepo.GetByID(ctx, *teamID); err != nil {
			return models.MatchSide{}, err
		}
		return models.TeamSide(*teamID), nil
	}
	if placeholder != "" {
		return models.PlaceholderSide(placeholder), nil
	}
	return models.MatchSide{}, nil
}

func (s *matchService) UpdateScore(ctx context.Context, id int, input UpdateScoreInput) (*models.Match, error) {
	if err := validateStatus(input.Status); err != nil {
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if match.Status == models.StatusCancelled {
		return nil, ErrMatchAlreadyCancelled
	}

	if input.Status == models.StatusCompleted || input.Status == models.StatusLive {
		if input.HomeScore == nil || input.AwayScore == nil {
			return nil, ErrScoresRequired
		}
		if !match.Home.Resolved() || !match.Away.Resolved() {
			return nil, ErrMatchSidesUnresolved
		}
	}
	if input.Status == models.StatusCompleted && match.IsKnockout() &&
		*input.HomeScore == *input.AwayScore {
		if input.HomePenalties == nil || input.AwayPenalties == nil ||
			*input.HomePenalties == *input.AwayPenalties {
			return nil, ErrKnockoutTieUnresolved
		}
	}

	wasCompleted := match.Completed()
	oldHomeScore, oldAwayScore := match.HomeScore, match.AwayScore

	match.HomeScore = input.HomeScore
	match.AwayScore = input.AwayScore
	match.HomePenalties = input.HomePenalties
	match.AwayPenalties = input.AwayPenalties
	match.Status = input.Status

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if match.Round == models.RoundGroup {
		if err := s.adjustAggregates(ctx, tx, match, wasCompleted, oldHomeScore, oldAwayScore); err != nil {
			return nil, err
		}
	}

	if err := s.matchRepo.UpdateScore(ctx, tx, match); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit score update: %w", err)
	}

	s.logger.Info("match updated",
		slog.Int("match_id", match.ID),
		slog.String("status", string(match.Status)))
	if s.hub != nil {
		s.hub.BroadcastToRoom(live.ScoresRoom, live.EventMatchUpdated, match)
	}
	return match, nil
}

// adjustAggregates keeps the two teams' standings records in step with the
// match. A previously completed result is reversed before the new one (if
// still completed) is applied, which makes re-saving an unchanged result a
// no-op and editing one equivalent to having entered the new score first.
func (s *matchService) adjustAggregates(
	ctx context.Context,
	tx *sql.Tx,
	match *models.Match,
	wasCompleted bool,
	oldHomeScore, oldAwayScore *int,
) error {
	nowCompleted := match.Status == models.StatusCompleted
	if !wasCompleted && !nowCompleted {
		return nil
	}

	home, err := s.teamRepo.GetByID(ctx, match.Home.TeamID)
	if err != nil {
		return err
	}
	away, err := s.teamRepo.GetByID(ctx, match.Away.TeamID)
	if err != nil {
		return err
	}

	if wasCompleted && oldHomeScore != nil && oldAwayScore != nil {
		engine.ReverseResult(home, away, *oldHomeScore, *oldAwayScore)
	}
	if nowCompleted {
		engine.ApplyResult(home, away, *match.HomeScore, *match.AwayScore)
	}

	if err := s.teamRepo.SaveAggregate(ctx, tx, home); err != nil {
		return err
	}
	return s.teamRepo.SaveAggregate(ctx, tx, away)
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if match.Round == models.RoundGroup && match.Completed() &&
		match.HomeScore != nil && match.AwayScore != nil {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		home, err := s.teamRepo.GetByID(ctx, match.Home.TeamID)
		if err != nil {
			return err
		}
		away, err := s.teamRepo.GetByID(ctx, match.Away.TeamID)
		if err != nil {
			return err
		}
		engine.ReverseResult(home, away, *match.HomeScore, *match.AwayScore)
		if err := s.teamRepo.SaveAggregate(ctx, tx, home); err != nil {
			return err
		}
		if err := s.teamRepo.SaveAggregate(ctx, tx, away); err != nil {
			return err
		}
		if err := s.matchRepo.Delete(ctx, tx, id); err != nil {
			return err
		}
		return tx.Commit()
	}

	return s.matchRepo.Delete(ctx, nil, id)
}

func validateStatus(status models.MatchStatus) error {
	switch status {
	case models.StatusScheduled, models.StatusLive, models.StatusCompleted, models.StatusCancelled:
		return nil
	default:
		return ErrMatchStatusInvalid
	}
}
