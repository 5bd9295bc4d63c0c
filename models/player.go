package models

import "time"

// Player identity fields are immutable after registration; only the
// photo can change.
type Player struct {
	ID        int       `json:"id" db:"id"`
	TeamID    int       `json:"team_id" db:"team_id"`
	FullName  string    `json:"full_name" db:"full_name"`
	Document  string    `json:"document" db:"document"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	PhotoKey *string `json:"-" db:"photo_key"`
	PhotoURL *string `json:"photo_url,omitempty" db:"-"`
}
