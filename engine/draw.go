package engine

import (
	"errors"
	"fmt"

	"github.com/matchday-dev/cup-manager/models"
)

// MaxGroups bounds a draw to the fixed naming alphabet "Group A".."Group H".
const MaxGroups = 8

var groupLetters = [MaxGroups]string{"A", "B", "C", "D", "E", "F", "G", "H"}

var (
	ErrTooManyGroups = fmt.Errorf("at most %d groups are supported", MaxGroups)

	ErrManualGroupEmpty    = errors.New("manual draw contains an empty group")
	ErrManualTeamDuplicate = errors.New("manual draw assigns a team to more than one group")
	ErrManualGroupTooBig   = errors.New("manual draw group exceeds the team capacity")
)

// InsufficientTeamsError is returned when a draw is requested with fewer
// unassigned teams than groupCount*teamsPerGroup.
type InsufficientTeamsError struct {
	Required  int
	Available int
}

func (e *InsufficientTeamsError) Error() string {
	return fmt.Sprintf("need at least %d unassigned teams, but only have %d", e.Required, e.Available)
}

// DrawGroups shuffles the unassigned team pool and slices it into groupCount
// groups of teamsPerGroup each, named sequentially from the fixed alphabet.
// Teams beyond groupCount*teamsPerGroup stay out of the draw. The caller is
// responsible for replacing any previous group structure (and the group-round
// matches that referenced it) before persisting the result.
func DrawGroups(teams []models.Team, groupCount, teamsPerGroup int) ([]models.Group, error) {
	if groupCount < 1 || groupCount > MaxGroups {
		return nil, ErrTooManyGroups
	}
	required := groupCount * teamsPerGroup
	if len(teams) < required {
		return nil, &InsufficientTeamsError{Required: required, Available: len(teams)}
	}

	shuffled := Shuffle(teams)

	groups := make([]models.Group, 0, groupCount)
	for i := 0; i < groupCount; i++ {
		members := make([]models.Team, teamsPerGroup)
		copy(members, shuffled[i*teamsPerGroup:(i+1)*teamsPerGroup])
		groups = append(groups, models.Group{
			Name:  "Group " + groupLetters[i],
			Teams: members,
		})
	}
	return groups, nil
}

// ValidateManualGroups checks a caller-supplied group-name -> team-id mapping:
// every group must be non-empty, no team may appear twice, and no group may
// exceed maxTeamsPerGroup. There is no algorithmic content beyond validation.
func ValidateManualGroups(assignment map[string][]int, maxTeamsPerGroup int) error {
	if len(assignment) == 0 {
		return ErrManualGroupEmpty
	}
	seen := make(map[int]string, len(assignment)*maxTeamsPerGroup)
	for name, teamIDs := range assignment {
		if len(teamIDs) == 0 {
			return fmt.Errorf("%w: %q", ErrManualGroupEmpty, name)
		}
		if maxTeamsPerGroup > 0 && len(teamIDs) > maxTeamsPerGroup {
			return fmt.Errorf("%w: %q has %d teams, max %d", ErrManualGroupTooBig, name, len(teamIDs), maxTeamsPerGroup)
		}
		for _, id := range teamIDs {
			if other, ok := seen[id]; ok {
				return fmt.Errorf("%w: team %d in %q and %q", ErrManualTeamDuplicate, id, other, name)
			}
			seen[id] = name
		}
	}
	return nil
}
