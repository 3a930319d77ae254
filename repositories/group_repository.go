package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/matchday-dev/cup-manager/models"
)

var ErrGroupNotFound = errors.New("group not found")

type GroupRepository interface {
	// ReplaceAll atomically deletes every group, clears team group references
	// and aggregates, inserts the given groups and reassigns their members.
	// Group IDs are filled in on the way out.
	ReplaceAll(ctx context.Context, groups []models.Group) ([]models.Group, error)
	List(ctx context.Context) ([]models.Group, error)
	GetByID(ctx context.Context, id int) (*models.Group, error)
	DeleteAll(ctx context.Context, exec SQLExecutor) error
	Count(ctx context.Context) (int, error)
}

type postgresGroupRepository struct {
	db       *sql.DB
	teamRepo TeamRepository
}

func NewPostgresGroupRepository(db *sql.DB, teamRepo TeamRepository) GroupRepository {
	return &postgresGroupRepository{db: db, teamRepo: teamRepo}
}

func (r *postgresGroupRepository) ReplaceAll(ctx context.Context, groups []models.Group) ([]models.Group, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.teamRepo.ClearGroupsAndAggregates(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to clear team group references: %w", err)
	}
	if err := r.DeleteAll(ctx, tx); err != nil {
		return nil, fmt.Errorf("failed to delete existing groups: %w", err)
	}

	created := make([]models.Group, 0, len(groups))
	for _, group := range groups {
		err := tx.QueryRowContext(ctx,
			`INSERT INTO groups (name) VALUES ($1) RETURNING id, created_at`,
			group.Name,
		).Scan(&group.ID, &group.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert group %q: %w", group.Name, err)
		}

		teamIDs := make([]int, 0, len(group.Teams))
		for i := range group.Teams {
			teamIDs = append(teamIDs, group.Teams[i].ID)
			group.Teams[i].GroupID = &group.ID
		}
		if err := r.teamRepo.AssignGroup(ctx, tx, teamIDs, group.ID); err != nil {
			return nil, fmt.Errorf("failed to assign teams to group %q: %w", group.Name, err)
		}
		created = append(created, group)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group replacement: %w", err)
	}
	return created, nil
}

func (r *postgresGroupRepository) List(ctx context.Context) ([]models.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM groups ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]models.Group, 0)
	for rows.Next() {
		var g models.Group
		if scanErr := rows.Scan(&g.ID, &g.Name, &g.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return groups, r.populateMembers(ctx, groups)
}

func (r *postgresGroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	var g models.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at FROM groups WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	groups := []models.Group{g}
	if err := r.populateMembers(ctx, groups); err != nil {
		return nil, err
	}
	return &groups[0], nil
}

func (r *postgresGroupRepository) DeleteAll(ctx context.Context, exec SQLExecutor) error {
	var executor SQLExecutor = r.db
	if exec != nil {
		executor = exec
	}
	_, err := executor.ExecContext(ctx, `DELETE FROM groups`)
	return err
}

func (r *postgresGroupRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM groups`).Scan(&count)
	return count, err
}

func (r *postgresGroupRepository) populateMembers(ctx context.Context, groups []models.Group) error {
	if len(groups) == 0 {
		return nil
	}
	teams, err := r.teamRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to load group members: %w", err)
	}

	byGroup := make(map[int][]models.Team)
	for _, team := range teams {
		if team.GroupID != nil {
			byGroup[*team.GroupID] = append(byGroup[*team.GroupID], *team)
		}
	}
	for i := range groups {
		groups[i].Teams = byGroup[groups[i].ID]
	}
	return nil
}
