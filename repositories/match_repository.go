package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matchday-dev/cup-manager/models"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchFilter narrows List; nil fields match everything.
type MatchFilter struct {
	GroupID *int
	Round   *models.MatchRound
	Status  *models.MatchStatus
}

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	List(ctx context.Context, filter MatchFilter) ([]*models.Match, error)
	// ReplaceGroupStage deletes all group-round matches and inserts the new
	// schedule in a single transaction.
	ReplaceGroupStage(ctx context.Context, matches []models.Match) ([]models.Match, error)
	UpdateScore(ctx context.Context, exec SQLExecutor, match *models.Match) error
	UpdateSides(ctx context.Context, match *models.Match) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByRound(ctx context.Context, exec SQLExecutor, round models.MatchRound) error
	DeleteAll(ctx context.Context, exec SQLExecutor) error
	CountByStatus(ctx context.Context, status models.MatchStatus) (int, error)
}

const matchColumns = `id, round, group_id, slot_name,
	home_team_id, home_placeholder, away_team_id, away_placeholder,
	home_score, away_score, home_penalties, away_penalties,
	venue, kickoff_at, status, forced_schedule, created_at`

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) exec(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	return r.insert(ctx, r.db, match)
}

func (r *postgresMatchRepository) insert(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(round, group_id, slot_name,
			 home_team_id, home_placeholder, away_team_id, away_placeholder,
			 home_score, away_score, home_penalties, away_penalties,
			 venue, kickoff_at, status, forced_schedule)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	homeTeamID, homePlaceholder := sideColumns(match.Home)
	awayTeamID, awayPlaceholder := sideColumns(match.Away)

	return exec.QueryRowContext(ctx, query,
		match.Round,
		match.GroupID,
		match.SlotName,
		homeTeamID,
		homePlaceholder,
		awayTeamID,
		awayPlaceholder,
		match.HomeScore,
		match.AwayScore,
		match.HomePenalties,
		match.AwayPenalties,
		match.Venue,
		match.KickoffAt,
		match.Status,
		match.ForcedSchedule,
	).Scan(&match.ID, &match.CreatedAt)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, filter MatchFilter) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM matches WHERE 1=1`)

	args := make([]any, 0, 3)
	placeholderIndex := 1

	appendFilter := func(column string, value any) {
		queryBuilder.WriteString(" AND " + column + " = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, value)
		placeholderIndex++
	}

	if filter.GroupID != nil {
		appendFilter("group_id", *filter.GroupID)
	}
	if filter.Round != nil {
		appendFilter("round", *filter.Round)
	}
	if filter.Status != nil {
		appendFilter("status", *filter.Status)
	}

	queryBuilder.WriteString(" ORDER BY kickoff_at ASC, id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) ReplaceGroupStage(ctx context.Context, matches []models.Match) ([]models.Match, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.DeleteByRound(ctx, tx, models.RoundGroup); err != nil {
		return nil, fmt.Errorf("failed to delete previous group-stage matches: %w", err)
	}

	created := make([]models.Match, 0, len(matches))
	for _, match := range matches {
		if err := r.insert(ctx, tx, &match); err != nil {
			return nil, fmt.Errorf("failed to insert fixture: %w", err)
		}
		created = append(created, match)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit fixture replacement: %w", err)
	}
	return created, nil
}

func (r *postgresMatchRepository) UpdateScore(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		UPDATE matches
		SET home_score = $1, away_score = $2, home_penalties = $3, away_penalties = $4, status = $5
		WHERE id = $6`

	result, err := r.exec(exec).ExecContext(ctx, query,
		match.HomeScore, match.AwayScore, match.HomePenalties, match.AwayPenalties, match.Status, match.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSides(ctx context.Context, match *models.Match) error {
	query := `
		UPDATE matches
		SET home_team_id = $1, home_placeholder = $2, away_team_id = $3, away_placeholder = $4
		WHERE id = $5`

	homeTeamID, homePlaceholder := sideColumns(match.Home)
	awayTeamID, awayPlaceholder := sideColumns(match.Away)

	result, err := r.db.ExecContext(ctx, query, homeTeamID, homePlaceholder, awayTeamID, awayPlaceholder, match.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	result, err := r.exec(exec).ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) DeleteByRound(ctx context.Context, exec SQLExecutor, round models.MatchRound) error {
	_, err := r.exec(exec).ExecContext(ctx, `DELETE FROM matches WHERE round = $1`, round)
	return err
}

func (r *postgresMatchRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	_, err := r.exec(exec).ExecContext(ctx, `DELETE FROM matches`)
	return err
}

func (r *postgresMatchRepository) CountByStatus(ctx context.Context, status models.MatchStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches WHERE status = $1`, status).Scan(&count)
	return count, err
}

func sideColumns(side models.MatchSide) (teamID *int, placeholder *string) {
	if side.Kind == models.SideResolved {
		id := side.TeamID
		teamID = &id
	}
	if side.Placeholder != "" {
		label := side.Placeholder
		placeholder = &label
	}
	return teamID, placeholder
}

func scanMatch(row rowScanner) (*models.Match, error) {
	match := &models.Match{}
	var homeTeamID, awayTeamID *int
	var homePlaceholder, awayPlaceholder *string

	err := row.Scan(
		&match.ID,
		&match.Round,
		&match.GroupID,
		&match.SlotName,
		&homeTeamID,
		&homePlaceholder,
		&awayTeamID,
		&awayPlaceholder,
		&match.HomeScore,
		&match.AwayScore,
		&match.HomePenalties,
		&match.AwayPenalties,
		&match.Venue,
		&match.KickoffAt,
		&match.Status,
		&match.ForcedSchedule,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	match.Home = sideFromColumns(homeTeamID, homePlaceholder)
	match.Away = sideFromColumns(awayTeamID, awayPlaceholder)
	return match, nil
}

func sideFromColumns(teamID *int, placeholder *string) models.MatchSide {
	label := ""
	if placeholder != nil {
		label = *placeholder
	}
	switch {
	case teamID != nil:
		return models.MatchSide{Kind: models.SideResolved, TeamID: *teamID, Placeholder: label}
	case label != "":
		return models.PlaceholderSide(label)
	default:
		return models.MatchSide{}
	}
}
