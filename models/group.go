package models

import "time"

// Group is a named set of teams produced by a draw. Membership is replaced
// wholesale on every draw, never merged.
type Group struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Teams []Team `json:"teams,omitempty" db:"-"`
}
