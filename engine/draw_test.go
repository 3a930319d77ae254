package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchday-dev/cup-manager/models"
)

func makeTeams(n int) []models.Team {
	teams := make([]models.Team, n)
	for i := range teams {
		teams[i] = models.Team{ID: i + 1, Name: fmt.Sprintf("Team %d", i+1)}
	}
	return teams
}

func TestDrawGroupsCompletenessAndDisjointness(t *testing.T) {
	for _, tc := range []struct {
		groupCount, teamsPerGroup int
	}{
		{2, 3}, {2, 6}, {4, 4}, {8, 3},
	} {
		t.Run(fmt.Sprintf("%dx%d", tc.groupCount, tc.teamsPerGroup), func(t *testing.T) {
			pool := makeTeams(tc.groupCount*tc.teamsPerGroup + 2)
			poolIDs := make(map[int]bool, len(pool))
			for _, team := range pool {
				poolIDs[team.ID] = true
			}

			groups, err := DrawGroups(pool, tc.groupCount, tc.teamsPerGroup)
			require.NoError(t, err)
			require.Len(t, groups, tc.groupCount)

			seen := make(map[int]string)
			for i, g := range groups {
				assert.Equal(t, "Group "+groupLetters[i], g.Name)
				require.Len(t, g.Teams, tc.teamsPerGroup)
				for _, team := range g.Teams {
					assert.True(t, poolIDs[team.ID], "team %d was not in the unassigned pool", team.ID)
					prev, dup := seen[team.ID]
					assert.False(t, dup, "team %d drawn into both %s and %s", team.ID, prev, g.Name)
					seen[team.ID] = g.Name
				}
			}
			// the two surplus teams stay out of the draw
			assert.Len(t, seen, tc.groupCount*tc.teamsPerGroup)
		})
	}
}

func TestDrawGroupsInsufficientTeams(t *testing.T) {
	_, err := DrawGroups(makeTeams(15), 4, 4)
	require.Error(t, err)

	var insufficient *InsufficientTeamsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 16, insufficient.Required)
	assert.Equal(t, 15, insufficient.Available)
}

func TestDrawGroupsTooManyGroups(t *testing.T) {
	_, err := DrawGroups(makeTeams(40), 9, 4)
	assert.ErrorIs(t, err, ErrTooManyGroups)
}

func TestValidateManualGroups(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateManualGroups(map[string][]int{
			"Group A": {1, 2, 3},
			"Group B": {4, 5, 6},
		}, 4))
	})
	t.Run("empty group", func(t *testing.T) {
		err := ValidateManualGroups(map[string][]int{"Group A": {}}, 4)
		assert.ErrorIs(t, err, ErrManualGroupEmpty)
	})
	t.Run("no groups", func(t *testing.T) {
		assert.ErrorIs(t, ValidateManualGroups(nil, 4), ErrManualGroupEmpty)
	})
	t.Run("duplicate team", func(t *testing.T) {
		err := ValidateManualGroups(map[string][]int{
			"Group A": {1, 2},
			"Group B": {2, 3},
		}, 4)
		assert.ErrorIs(t, err, ErrManualTeamDuplicate)
	})
	t.Run("over capacity", func(t *testing.T) {
		err := ValidateManualGroups(map[string][]int{"Group A": {1, 2, 3, 4, 5}}, 4)
		assert.ErrorIs(t, err, ErrManualGroupTooBig)
	})
}
