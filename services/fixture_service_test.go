package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchday-dev/cup-manager/engine"
	"github.com/matchday-dev/cup-manager/models"
	"github.com/matchday-dev/cup-manager/repositories"
)

func seedDrawnGroups(t *testing.T, teamRepo *fakeTeamRepo, groupRepo *fakeGroupRepo, groupCount, teamsPerGroup int) {
	t.Helper()
	groups := make([]models.Group, 0, groupCount)
	for g := 0; g < groupCount; g++ {
		teams := make([]models.Team, 0, teamsPerGroup)
		for i := 0; i < teamsPerGroup; i++ {
			teams = append(teams, teamRepo.add(models.Team{Name: fmt.Sprintf("Team %d-%d", g, i)}))
		}
		groups = append(groups, models.Group{Name: fmt.Sprintf("Group %c", 'A'+g), Teams: teams})
	}
	_, err := groupRepo.ReplaceAll(context.Background(), groups)
	require.NoError(t, err)
}

func validGenerateInput() GenerateFixturesInput {
	return GenerateFixturesInput{
		StartDate: "2026-06-01",
		StartTime: "09:00",
		Venues:    "Pitch 1, Pitch 2",
	}
}

func TestGenerateValidatesInput(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	groupRepo := newFakeGroupRepo(teamRepo)
	matchRepo := newFakeMatchRepo()
	service := NewFixtureService(groupRepo, matchRepo, nil, discardLogger())

	input := validGenerateInput()
	input.StartDate = "01.06.2026"
	_, err := service.Generate(context.Background(), input)
	assert.ErrorIs(t, err, ErrStartDateInvalid)

	input = validGenerateInput()
	input.StartTime = "9am"
	_, err = service.Generate(context.Background(), input)
	assert.ErrorIs(t, err, ErrStartTimeInvalid)

	input = validGenerateInput()
	input.MatchDuration = -10
	_, err = service.Generate(context.Background(), input)
	assert.ErrorIs(t, err, ErrDurationInvalid)
}

func TestGenerateRequiresGroupsAndVenues(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	groupRepo := newFakeGroupRepo(teamRepo)
	matchRepo := newFakeMatchRepo()
	service := NewFixtureService(groupRepo, matchRepo, nil, discardLogger())

	_, err := service.Generate(context.Background(), validGenerateInput())
	assert.ErrorIs(t, err, engine.ErrNoGroupsDefined)

	seedDrawnGroups(t, teamRepo, groupRepo, 2, 4)

	input := validGenerateInput()
	input.Venues = " , "
	_, err = service.Generate(context.Background(), input)
	assert.ErrorIs(t, err, engine.ErrNoVenuesProvided)
}

func TestGenerateReplacesGroupStage(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	groupRepo := newFakeGroupRepo(teamRepo)
	matchRepo := newFakeMatchRepo()
	service := NewFixtureService(groupRepo, matchRepo, nil, discardLogger())

	seedDrawnGroups(t, teamRepo, groupRepo, 2, 4)

	first, err := service.Generate(context.Background(), validGenerateInput())
	require.NoError(t, err)
	// two groups of four, each a full round robin of six pairings
	require.Len(t, first, 12)

	for _, m := range first {
		assert.Equal(t, models.RoundGroup, m.Round)
		assert.Equal(t, models.StatusScheduled, m.Status)
		assert.True(t, m.Home.Resolved())
		assert.True(t, m.Away.Resolved())
		assert.NotNil(t, m.GroupID)
		assert.False(t, m.KickoffAt.IsZero())
	}

	second, err := service.Generate(context.Background(), validGenerateInput())
	require.NoError(t, err)
	require.Len(t, second, 12)

	all, err := matchRepo.List(context.Background(), repositories.MatchFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 12, "regeneration must replace, not append")
}

func TestGenerateSimpleUsesSingleVenue(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	groupRepo := newFakeGroupRepo(teamRepo)
	matchRepo := newFakeMatchRepo()
	service := NewFixtureService(groupRepo, matchRepo, nil, discardLogger())

	seedDrawnGroups(t, teamRepo, groupRepo, 1, 4)

	input := validGenerateInput()
	input.Venues = ""
	input.Simple = true
	matches, err := service.Generate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, matches, 6)

	kickoffs := make(map[time.Time]bool)
	for _, m := range matches {
		assert.Equal(t, "Main Pitch", m.Venue)
		assert.False(t, kickoffs[m.KickoffAt], "simple mode schedules one match per slot")
		kickoffs[m.KickoffAt] = true
	}
}
