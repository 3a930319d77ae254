package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchday-dev/cup-manager/models"
)

func TestResolvePlaceholdersFillsBracketFromStandings(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	groupRepo := newFakeGroupRepo(teamRepo)
	matchRepo := newFakeMatchRepo()
	service := NewResolverService(groupRepo, matchRepo, nil, discardLogger())

	seedDrawnGroups(t, teamRepo, groupRepo, 1, 3)
	groups, err := groupRepo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	g := groups[0]
	require.Equal(t, "Group A", g.Name)
	first, second, third := g.Teams[0], g.Teams[1], g.Teams[2]

	// first beats second and third, second beats third
	addCompletedGroupMatch(matchRepo, g.ID, first.ID, second.ID, 2, 0)
	addCompletedGroupMatch(matchRepo, g.ID, first.ID, third.ID, 3, 1)
	addCompletedGroupMatch(matchRepo, g.ID, second.ID, third.ID, 1, 0)

	slot := "F1"
	final := matchRepo.add(models.Match{
		Round:     models.RoundFinal,
		SlotName:  &slot,
		Home:      models.PlaceholderSide("Group A 1st"),
		Away:      models.PlaceholderSide("Group A 2nd"),
		KickoffAt: time.Date(2026, 6, 20, 18, 0, 0, 0, time.UTC),
		Status:    models.StatusScheduled,
	})

	resolved, err := service.ResolvePlaceholders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resolved)

	stored, err := matchRepo.GetByID(context.Background(), final.ID)
	require.NoError(t, err)
	assert.True(t, stored.Home.Resolved())
	assert.Equal(t, first.ID, stored.Home.TeamID)
	assert.Equal(t, "Group A 1st", stored.Home.Placeholder, "label survives resolution")
	assert.True(t, stored.Away.Resolved())
	assert.Equal(t, second.ID, stored.Away.TeamID)

	// Nothing changed since the last run, so nothing resolves again.
	resolved, err = service.ResolvePlaceholders(context.Background())
	require.NoError(t, err)
	assert.Zero(t, resolved)
}

func TestResolvePlaceholdersChainsWinners(t *testing.T) {
	teamRepo := newFakeTeamRepo()
	groupRepo := newFakeGroupRepo(teamRepo)
	matchRepo := newFakeMatchRepo()
	service := NewResolverService(groupRepo, matchRepo, nil, discardLogger())

	alpha := teamRepo.add(models.Team{Name: "Alpha"})
	beta := teamRepo.add(models.Team{Name: "Beta"})

	semiSlot := "SF1"
	score1, score2 := 2, 1
	matchRepo.add(models.Match{
		Round:     models.RoundSemi,
		SlotName:  &semiSlot,
		Home:      models.TeamSide(alpha.ID),
		Away:      models.TeamSide(beta.ID),
		HomeScore: &score1,
		AwayScore: &score2,
		KickoffAt: time.Date(2026, 6, 18, 18, 0, 0, 0, time.UTC),
		Status:    models.StatusCompleted,
	})

	finalSlot := "F1"
	final := matchRepo.add(models.Match{
		Round:     models.RoundFinal,
		SlotName:  &finalSlot,
		Home:      models.PlaceholderSide("Winner SF1"),
		Away:      models.PlaceholderSide("Winner SF2"),
		KickoffAt: time.Date(2026, 6, 20, 18, 0, 0, 0, time.UTC),
		Status:    models.StatusScheduled,
	})
	thirdSlot := "TP1"
	thirdPlace := matchRepo.add(models.Match{
		Round:     models.RoundThird,
		SlotName:  &thirdSlot,
		Home:      models.PlaceholderSide("Loser SF1"),
		Away:      models.PlaceholderSide("Loser SF2"),
		KickoffAt: time.Date(2026, 6, 19, 18, 0, 0, 0, time.UTC),
		Status:    models.StatusScheduled,
	})

	resolved, err := service.ResolvePlaceholders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resolved)

	storedFinal, err := matchRepo.GetByID(context.Background(), final.ID)
	require.NoError(t, err)
	assert.Equal(t, alpha.ID, storedFinal.Home.TeamID)
	assert.False(t, storedFinal.Away.Resolved(), "SF2 has not been played")

	storedThird, err := matchRepo.GetByID(context.Background(), thirdPlace.ID)
	require.NoError(t, err)
	assert.Equal(t, beta.ID, storedThird.Home.TeamID)
}

func addCompletedGroupMatch(matchRepo *fakeMatchRepo, groupID, homeID, awayID, homeScore, awayScore int) {
	gid := groupID
	hs, as := homeScore, awayScore
	matchRepo.add(models.Match{
		Round:     models.RoundGroup,
		GroupID:   &gid,
		Home:      models.TeamSide(homeID),
		Away:      models.TeamSide(awayID),
		HomeScore: &hs,
		AwayScore: &as,
		KickoffAt: time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		Status:    models.StatusCompleted,
	})
}
