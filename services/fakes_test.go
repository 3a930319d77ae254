package services

import (
	"context"
	"sort"
	"sync"

	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
)

// In-memory repository fakes. They implement just enough behaviour for the
// service tests: IDs are assigned sequentially and lookups copy values so a
// test cannot mutate stored state through a returned pointer.

type fakeTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  map[int]models.Team
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{nextID: 1, teams: make(map[int]models.Team)}
}

func (r *fakeTeamRepo) add(team models.Team) models.Team {
	r.mu.Lock()
	defer r.mu.Unlock()
	if team.ID == 0 {
		team.ID = r.nextID
		r.nextID++
	} else if team.ID >= r.nextID {
		r.nextID = team.ID + 1
	}
	r.teams[team.ID] = team
	return team
}

func (r *fakeTeamRepo) Create(_ context.Context, team *models.Team) error {
	*team = r.add(*team)
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := team
	return &copied, nil
}

func (r *fakeTeamRepo) List(_ context.Context) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(models.Team) bool { return true }), nil
}

func (r *fakeTeamRepo) ListUnassigned(_ context.Context) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot(func(t models.Team) bool { return t.GroupID == nil }), nil
}

func (r *fakeTeamRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[int]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	return r.snapshot(func(t models.Team) bool { return wanted[t.ID] }), nil
}

func (r *fakeTeamRepo) snapshot(keep func(models.Team) bool) []*models.Team {
	out := make([]*models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		if keep(team) {
			copied := team
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *fakeTeamRepo) Update(_ context.Context, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.teams[team.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	stored.Name = team.Name
	stored.ShortName = team.ShortName
	r.teams[team.ID] = stored
	return nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, logoKey *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	stored.LogoKey = logoKey
	r.teams[id] = stored
	return nil
}

func (r *fakeTeamRepo) SaveAggregate(_ context.Context, _ repositories.SQLExecutor, team *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.teams[team.ID]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	stored.Played = team.Played
	stored.Won = team.Won
	stored.Drawn = team.Drawn
	stored.Lost = team.Lost
	stored.GoalsFor = team.GoalsFor
	stored.GoalsAgainst = team.GoalsAgainst
	stored.Points = team.Points
	r.teams[team.ID] = stored
	return nil
}

func (r *fakeTeamRepo) AssignGroup(_ context.Context, _ repositories.SQLExecutor, teamIDs []int, groupID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range teamIDs {
		stored, ok := r.teams[id]
		if !ok {
			return repositories.ErrTeamNotFound
		}
		gid := groupID
		stored.GroupID = &gid
		r.teams[id] = stored
	}
	return nil
}

func (r *fakeTeamRepo) ClearGroupsAndAggregates(_ context.Context, _ repositories.SQLExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, stored := range r.teams {
		stored.GroupID = nil
		stored.ResetRecord()
		r.teams[id] = stored
	}
	return nil
}

func (r *fakeTeamRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func (r *fakeTeamRepo) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams = make(map[int]models.Team)
	return nil
}

func (r *fakeTeamRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.teams), nil
}

type fakeGroupRepo struct {
	mu       sync.Mutex
	nextID   int
	groups   []models.Group
	teamRepo *fakeTeamRepo
}

func newFakeGroupRepo(teamRepo *fakeTeamRepo) *fakeGroupRepo {
	return &fakeGroupRepo{nextID: 1, teamRepo: teamRepo}
}

func (r *fakeGroupRepo) ReplaceAll(ctx context.Context, groups []models.Group) ([]models.Group, error) {
	if err := r.teamRepo.ClearGroupsAndAggregates(ctx, nil); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = nil
	created := make([]models.Group, 0, len(groups))
	for _, group := range groups {
		group.ID = r.nextID
		r.nextID++
		teamIDs := make([]int, 0, len(group.Teams))
		for i := range group.Teams {
			teamIDs = append(teamIDs, group.Teams[i].ID)
			group.Teams[i].GroupID = &group.ID
		}
		if err := r.teamRepo.AssignGroup(ctx, nil, teamIDs, group.ID); err != nil {
			return nil, err
		}
		r.groups = append(r.groups, group)
		created = append(created, group)
	}
	return created, nil
}

func (r *fakeGroupRepo) List(_ context.Context) ([]models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Group, len(r.groups))
	copy(out, r.groups)
	return out, nil
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id int) (*models.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.groups {
		if g.ID == id {
			copied := g
			return &copied, nil
		}
	}
	return nil, repositories.ErrGroupNotFound
}

func (r *fakeGroupRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups = nil
	return nil
}

func (r *fakeGroupRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.groups), nil
}

type fakeMatchRepo struct {
	mu      sync.Mutex
	nextID  int
	matches map[int]models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]models.Match)}
}

func (r *fakeMatchRepo) add(match models.Match) models.Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	if match.ID == 0 {
		match.ID = r.nextID
		r.nextID++
	} else if match.ID >= r.nextID {
		r.nextID = match.ID + 1
	}
	r.matches[match.ID] = match
	return match
}

func (r *fakeMatchRepo) Create(_ context.Context, match *models.Match) error {
	*match = r.add(*match)
	return nil
}

func (r *fakeMatchRepo) GetByID(_ context.Context, id int) (*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	match, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := match
	return &copied, nil
}

func (r *fakeMatchRepo) List(_ context.Context, filter repositories.MatchFilter) ([]*models.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Match, 0, len(r.matches))
	for _, match := range r.matches {
		if filter.GroupID != nil && (match.GroupID == nil || *match.GroupID != *filter.GroupID) {
			continue
		}
		if filter.Round != nil && match.Round != *filter.Round {
			continue
		}
		if filter.Status != nil && match.Status != *filter.Status {
			continue
		}
		copied := match
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ReplaceGroupStage(ctx context.Context, matches []models.Match) ([]models.Match, error) {
	if err := r.DeleteByRound(ctx, nil, models.RoundGroup); err != nil {
		return nil, err
	}
	created := make([]models.Match, 0, len(matches))
	for _, match := range matches {
		created = append(created, r.add(match))
	}
	return created, nil
}

func (r *fakeMatchRepo) UpdateScore(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	stored.HomeScore = match.HomeScore
	stored.AwayScore = match.AwayScore
	stored.HomePenalties = match.HomePenalties
	stored.AwayPenalties = match.AwayPenalties
	stored.Status = match.Status
	r.matches[match.ID] = stored
	return nil
}

func (r *fakeMatchRepo) UpdateSides(_ context.Context, match *models.Match) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.matches[match.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	stored.Home = match.Home
	stored.Away = match.Away
	r.matches[match.ID] = stored
	return nil
}

func (r *fakeMatchRepo) Delete(_ context.Context, _ repositories.SQLExecutor, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(r.matches, id)
	return nil
}

func (r *fakeMatchRepo) DeleteByRound(_ context.Context, _ repositories.SQLExecutor, round models.MatchRound) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, match := range r.matches {
		if match.Round == round {
			delete(r.matches, id)
		}
	}
	return nil
}

func (r *fakeMatchRepo) DeleteAll(_ context.Context, _ repositories.SQLExecutor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches = make(map[int]models.Match)
	return nil
}

func (r *fakeMatchRepo) CountByStatus(_ context.Context, status models.MatchStatus) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, match := range r.matches {
		if match.Status == status {
			count++
		}
	}
	return count, nil
}
