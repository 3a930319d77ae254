package engine

import (
	"sort"

	"github.com/matchday-dev/cup-manager/models"
)

// ApplyResult adds a finalized score to both teams' aggregate records:
// played, goals for/against, and exactly one of win/draw/loss with the
// matching points. It must only be called on the transition into the
// completed state; live score updates do not touch aggregates.
func ApplyResult(home, away *models.Team, homeScore, awayScore int) {
	home.Played++
	away.Played++
	home.GoalsFor += homeScore
	home.GoalsAgainst += awayScore
	away.GoalsFor += awayScore
	away.GoalsAgainst += homeScore

	switch {
	case homeScore > awayScore:
		home.Won++
		home.Points += 3
		away.Lost++
	case homeScore < awayScore:
		away.Won++
		away.Points += 3
		home.Lost++
	default:
		home.Drawn++
		away.Drawn++
		home.Points++
		away.Points++
	}
}

// ReverseResult undoes a previously applied score, restoring both records to
// their pre-match state. Reversing then reapplying makes score corrections
// idempotent.
func ReverseResult(home, away *models.Team, homeScore, awayScore int) {
	home.Played--
	away.Played--
	home.GoalsFor -= homeScore
	home.GoalsAgainst -= awayScore
	away.GoalsFor -= awayScore
	away.GoalsAgainst -= homeScore

	switch {
	case homeScore > awayScore:
		home.Won--
		home.Points -= 3
		away.Lost--
	case homeScore < awayScore:
		away.Won--
		away.Points -= 3
		home.Lost--
	default:
		home.Drawn--
		away.Drawn--
		home.Points--
		away.Points--
	}
}

// SortStandings returns the teams ranked by points, then goal difference,
// then goals scored, all descending. Remaining ties keep their input order
// (stable), which makes the ranking deterministic for a given input.
func SortStandings(teams []models.Team) []models.Team {
	ranked := make([]models.Team, len(teams))
	copy(ranked, teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		return a.GoalsFor > b.GoalsFor
	})
	return ranked
}

// ComputeStandings builds a group's current table from its completed
// group-round matches alone, ignoring whatever is stored on the team
// aggregates. Matches referencing teams outside the group are skipped.
func ComputeStandings(group models.Group, completed []models.Match) []models.Team {
	rows := make(map[int]*models.Team, len(group.Teams))
	order := make([]int, 0, len(group.Teams))
	for _, t := range group.Teams {
		row := t
		row.ResetRecord()
		rows[t.ID] = &row
		order = append(order, t.ID)
	}

	for _, m := range completed {
		if !m.Completed() || m.HomeScore == nil || m.AwayScore == nil {
			continue
		}
		if !m.Home.Resolved() || !m.Away.Resolved() {
			continue
		}
		home, okHome := rows[m.Home.TeamID]
		away, okAway := rows[m.Away.TeamID]
		if !okHome || !okAway {
			continue
		}
		ApplyResult(home, away, *m.HomeScore, *m.AwayScore)
	}

	table := make([]models.Team, 0, len(order))
	for _, id := range order {
		table = append(table, *rows[id])
	}
	return SortStandings(table)
}
