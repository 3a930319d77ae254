package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/matchday-dev/cup-manager/models"
)

var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameConflict = errors.New("team name is already taken")
)

const teamColumns = `id, name, short_name, group_id, logo_key, played, won, drawn, lost, goals_for, goals_against, points, created_at`

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	ListUnassigned(ctx context.Context) ([]*models.Team, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	SaveAggregate(ctx context.Context, exec SQLExecutor, team *models.Team) error
	AssignGroup(ctx context.Context, exec SQLExecutor, teamIDs []int, groupID int) error
	ClearGroupsAndAggregates(ctx context.Context, exec SQLExecutor) error
	Delete(ctx context.Context, id int) error
	DeleteAll(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) exec(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, short_name, logo_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, team.Name, team.ShortName, team.LogoKey).
		Scan(&team.ID, &team.CreatedAt)
	return r.handleTeamError(err)
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY name ASC`
	return r.queryTeams(ctx, query)
}

func (r *postgresTeamRepository) ListUnassigned(ctx context.Context) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE group_id IS NULL ORDER BY name ASC`
	return r.queryTeams(ctx, query)
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1) ORDER BY name ASC`
	return r.queryTeams(ctx, query, pq.Array(ids))
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $1, short_name = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, team.Name, team.ShortName, team.ID)
	if err != nil {
		return r.handleTeamError(err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

// SaveAggregate persists only the standings-engine owned fields.
func (r *postgresTeamRepository) SaveAggregate(ctx context.Context, exec SQLExecutor, team *models.Team) error {
	query := `
		UPDATE teams
		SET played = $1, won = $2, drawn = $3, lost = $4,
		    goals_for = $5, goals_against = $6, points = $7
		WHERE id = $8`

	result, err := r.exec(exec).ExecContext(ctx, query,
		team.Played, team.Won, team.Drawn, team.Lost,
		team.GoalsFor, team.GoalsAgainst, team.Points, team.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) AssignGroup(ctx context.Context, exec SQLExecutor, teamIDs []int, groupID int) error {
	_, err := r.exec(exec).ExecContext(ctx,
		`UPDATE teams SET group_id = $1 WHERE id = ANY($2)`, groupID, pq.Array(teamIDs))
	return err
}

// ClearGroupsAndAggregates detaches every team from its group and zeroes the
// aggregate record, as required when the group structure is replaced.
func (r *postgresTeamRepository) ClearGroupsAndAggregates(ctx context.Context, exec SQLExecutor) error {
	_, err := r.exec(exec).ExecContext(ctx, `
		UPDATE teams
		SET group_id = NULL,
		    played = 0, won = 0, drawn = 0, lost = 0,
		    goals_for = 0, goals_against = 0, points = 0`)
	return err
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) DeleteAll(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM teams`)
	return err
}

func (r *postgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&count)
	return count, err
}

func (r *postgresTeamRepository) queryTeams(ctx context.Context, query string, args ...any) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (*models.Team, error) {
	team := &models.Team{}
	err := row.Scan(
		&team.ID,
		&team.Name,
		&team.ShortName,
		&team.GroupID,
		&team.LogoKey,
		&team.Played,
		&team.Won,
		&team.Drawn,
		&team.Lost,
		&team.GoalsFor,
		&team.GoalsAgainst,
		&team.Points,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) handleTeamError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23505" { // unique_violation
			return ErrTeamNameConflict
		}
	}
	return err
}
