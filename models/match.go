package models

import (
	"encoding/json"
	"time"
)

type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusLive      MatchStatus = "live"
	StatusCompleted MatchStatus = "completed"
	StatusCancelled MatchStatus = "cancelled"
)

type MatchRound string

const (
	RoundGroup   MatchRound = "group"
	RoundOf32    MatchRound = "round32"
	RoundOf16    MatchRound = "round16"
	RoundQuarter MatchRound = "quarter"
	RoundSemi    MatchRound = "semi"
	RoundThird   MatchRound = "third"
	RoundFinal   MatchRound = "final"
)

// KnockoutRounds lists every round after the group stage, in playing order.
var KnockoutRounds = []MatchRound{RoundOf32, RoundOf16, RoundQuarter, RoundSemi, RoundThird, RoundFinal}

func (r MatchRound) IsKnockout() bool {
	return r != RoundGroup && r.Valid()
}

func (r MatchRound) Valid() bool {
	if r == RoundGroup {
		return true
	}
	for _, kr := range KnockoutRounds {
		if r == kr {
			return true
		}
	}
	return false
}

type SideKind int

const (
	SideUnassigned SideKind = iota
	SidePlaceholder
	SideResolved
)

// MatchSide is one side of a match: either nothing yet, a symbolic
// placeholder such as "Group A 1st" or "Winner QF1", or a concrete team.
// The placeholder label survives resolution so the side can be re-resolved
// while the group stage is still moving.
type MatchSide struct {
	Kind        SideKind
	TeamID      int    // valid only when Kind == SideResolved
	Placeholder string // set when the side was created from a placeholder

	Team *Team // optional, populated by the repository on reads
}

func TeamSide(teamID int) MatchSide {
	return MatchSide{Kind: SideResolved, TeamID: teamID}
}

func PlaceholderSide(label string) MatchSide {
	return MatchSide{Kind: SidePlaceholder, Placeholder: label}
}

// WithTeam returns a copy of the side resolved to the given team,
// keeping the original placeholder label for audit.
func (s MatchSide) WithTeam(teamID int) MatchSide {
	return MatchSide{Kind: SideResolved, TeamID: teamID, Placeholder: s.Placeholder}
}

func (s MatchSide) Resolved() bool {
	return s.Kind == SideResolved
}

type sideJSON struct {
	TeamID      *int   `json:"team_id,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Team        *Team  `json:"team,omitempty"`
}

func (s MatchSide) MarshalJSON() ([]byte, error) {
	out := sideJSON{Placeholder: s.Placeholder, Team: s.Team}
	if s.Kind == SideResolved {
		id := s.TeamID
		out.TeamID = &id
	}
	return json.Marshal(out)
}

func (s *MatchSide) UnmarshalJSON(data []byte) error {
	var in sideJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch {
	case in.TeamID != nil:
		*s = MatchSide{Kind: SideResolved, TeamID: *in.TeamID, Placeholder: in.Placeholder}
	case in.Placeholder != "":
		*s = PlaceholderSide(in.Placeholder)
	default:
		*s = MatchSide{}
	}
	return nil
}

// Match is a single fixture. Group-round matches are produced by the fixture
// scheduler; knockout matches are entered manually with placeholder sides and
// an optional bracket slot name ("QF1") that later rounds reference.
type Match struct {
	ID       int        `json:"id" db:"id"`
	Round    MatchRound `json:"round" db:"round"`
	GroupID  *int       `json:"group_id,omitempty" db:"group_id"`
	SlotName *string    `json:"slot_name,omitempty" db:"slot_name"`

	Home MatchSide `json:"home"`
	Away MatchSide `json:"away"`

	HomeScore     *int `json:"home_score" db:"home_score"`
	AwayScore     *int `json:"away_score" db:"away_score"`
	HomePenalties *int `json:"home_penalties,omitempty" db:"home_penalties"`
	AwayPenalties *int `json:"away_penalties,omitempty" db:"away_penalties"`

	Venue     string      `json:"venue" db:"venue"`
	KickoffAt time.Time   `json:"kickoff_at" db:"kickoff_at"`
	Status    MatchStatus `json:"status" db:"status"`

	// ForcedSchedule marks a match placed by the scheduler's fallback path,
	// i.e. without the rest-slot guarantee.
	ForcedSchedule bool `json:"forced_schedule,omitempty" db:"forced_schedule"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (m *Match) IsKnockout() bool {
	return m.Round != RoundGroup
}

func (m *Match) Completed() bool {
	return m.Status == StatusCompleted
}
