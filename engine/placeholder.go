package engine

import (
	"regexp"

	"github.com/matchday-dev/cup-manager/models"
)

type PlaceholderKind int

const (
	PlaceholderUnrecognized PlaceholderKind = iota
	PlaceholderGroupPosition
	PlaceholderMatchWinner
	PlaceholderMatchLoser
)

// PlaceholderRef is the parsed form of a placeholder label. Labels are parsed
// once into this closed variant set instead of being pattern-matched inline
// at every resolution site.
type PlaceholderRef struct {
	Kind PlaceholderKind

	GroupName string // "Group A", when Kind == PlaceholderGroupPosition
	Position  int    // 0-based standings index, when Kind == PlaceholderGroupPosition

	SlotName string // bracket slot name, when Kind is MatchWinner/MatchLoser
}

var (
	groupPositionRe = regexp.MustCompile(`^(Group [A-Z]) (1st|2nd|3rd|4th)$`)
	matchWinnerRe   = regexp.MustCompile(`^Winner (.+)$`)
	matchLoserRe    = regexp.MustCompile(`^Loser (.+)$`)
)

var ordinalPositions = map[string]int{"1st": 0, "2nd": 1, "3rd": 2, "4th": 3}

// ParsePlaceholder classifies a placeholder label. Any label outside the
// known formats parses as Unrecognized, which is not an error: the side it
// sits on simply stays unresolved.
func ParsePlaceholder(label string) PlaceholderRef {
	if m := groupPositionRe.FindStringSubmatch(label); m != nil {
		return PlaceholderRef{
			Kind:      PlaceholderGroupPosition,
			GroupName: m[1],
			Position:  ordinalPositions[m[2]],
		}
	}
	if m := matchWinnerRe.FindStringSubmatch(label); m != nil {
		return PlaceholderRef{Kind: PlaceholderMatchWinner, SlotName: m[1]}
	}
	if m := matchLoserRe.FindStringSubmatch(label); m != nil {
		return PlaceholderRef{Kind: PlaceholderMatchLoser, SlotName: m[1]}
	}
	return PlaceholderRef{Kind: PlaceholderUnrecognized}
}

// ResolvePlaceholders recomputes the target team of every placeholder side on
// knockout matches that have not been played yet, and returns the matches it
// actually changed. Group-position labels read the current standings built
// from completed group matches; Winner/Loser labels read completed knockout
// matches by bracket slot name. The operation is idempotent: running it again
// with no new results changes nothing, and a previously resolved side is
// silently corrected if the standings shift before the match is played.
func ResolvePlaceholders(groups []models.Group, groupMatches []models.Match, knockout []*models.Match) []*models.Match {
	standings := make(map[string][]models.Team, len(groups))
	for _, g := range groups {
		standings[g.Name] = ComputeStandings(g, matchesForGroup(groupMatches, g.ID))
	}

	winners := make(map[string]int)
	losers := make(map[string]int)
	for _, m := range knockout {
		if !m.Completed() || m.SlotName == nil || *m.SlotName == "" {
			continue
		}
		winnerID, loserID, ok := knockoutOutcome(m)
		if !ok {
			continue
		}
		winners[*m.SlotName] = winnerID
		losers[*m.SlotName] = loserID
	}

	var mutated []*models.Match
	for _, m := range knockout {
		if m.Completed() {
			continue
		}
		changed := false
		if teamID, ok := resolveSide(m.Home, standings, winners, losers); ok && (!m.Home.Resolved() || m.Home.TeamID != teamID) {
			m.Home = m.Home.WithTeam(teamID)
			changed = true
		}
		if teamID, ok := resolveSide(m.Away, standings, winners, losers); ok && (!m.Away.Resolved() || m.Away.TeamID != teamID) {
			m.Away = m.Away.WithTeam(teamID)
			changed = true
		}
		if changed {
			mutated = append(mutated, m)
		}
	}
	return mutated
}

// knockoutOutcome decides a completed knockout match. A level regulation
// score falls back to the penalty shootout; a tie with no shootout recorded
// has no winner or loser.
func knockoutOutcome(m *models.Match) (winnerID, loserID int, ok bool) {
	if m.HomeScore == nil || m.AwayScore == nil || !m.Home.Resolved() || !m.Away.Resolved() {
		return 0, 0, false
	}
	home, away := *m.HomeScore, *m.AwayScore
	if home == away {
		if m.HomePenalties == nil || m.AwayPenalties == nil || *m.HomePenalties == *m.AwayPenalties {
			return 0, 0, false
		}
		home, away = *m.HomePenalties, *m.AwayPenalties
	}
	if home > away {
		return m.Home.TeamID, m.Away.TeamID, true
	}
	return m.Away.TeamID, m.Home.TeamID, true
}

func resolveSide(side models.MatchSide, standings map[string][]models.Team, winners, losers map[string]int) (int, bool) {
	if side.Placeholder == "" {
		return 0, false
	}
	ref := ParsePlaceholder(side.Placeholder)
	switch ref.Kind {
	case PlaceholderGroupPosition:
		table := standings[ref.GroupName]
		if ref.Position >= len(table) {
			return 0, false
		}
		return table[ref.Position].ID, true
	case PlaceholderMatchWinner:
		id, ok := winners[ref.SlotName]
		return id, ok
	case PlaceholderMatchLoser:
		id, ok := losers[ref.SlotName]
		return id, ok
	default:
		return 0, false
	}
}

func matchesForGroup(matches []models.Match, groupID int) []models.Match {
	var out []models.Match
	for _, m := range matches {
		if m.GroupID != nil && *m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out
}
