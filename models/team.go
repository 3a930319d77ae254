package models

import "time"

// Team is a registered squad together with its running group-stage record.
// The aggregate fields (Played..Points) are only ever mutated through the
// standings engine so that points == 3*won + drawn holds at all times.
type Team struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	ShortName string    `json:"short_name" db:"short_name"`
	GroupID   *int      `json:"group_id,omitempty" db:"group_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Played       int `json:"played" db:"played"`
	Won          int `json:"won" db:"won"`
	Drawn        int `json:"drawn" db:"drawn"`
	Lost         int `json:"lost" db:"lost"`
	GoalsFor     int `json:"goals_for" db:"goals_for"`
	GoalsAgainst int `json:"goals_against" db:"goals_against"`
	Points       int `json:"points" db:"points"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`
}

func (t *Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

// ResetRecord zeroes the aggregate fields, used when groups are reset.
func (t *Team) ResetRecord() {
	t.Played = 0
	t.Won = 0
	t.Drawn = 0
	t.Lost = 0
	t.GoalsFor = 0
	t.GoalsAgainst = 0
	t.Points = 0
}
