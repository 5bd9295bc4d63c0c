package models

import "time"

// TeamStatus matches the ENUM in the database. Teams in any status
// count toward the tournament's capacity.
type TeamStatus string

const (
	TeamPending  TeamStatus = "pending"
	TeamApproved TeamStatus = "approved"
	TeamRejected TeamStatus = "rejected"
)

type Team struct {
	ID           int        `json:"id" db:"id"`
	TournamentID int        `json:"tournament_id" db:"tournament_id"`
	Name         string     `json:"name" db:"name"`
	Status       TeamStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`

	LogoKey *string `json:"-" db:"logo_key"`
	LogoURL *string `json:"logo_url,omitempty" db:"-"`

	Players []Player `json:"players,omitempty" db:"-"`
}

func (s TeamStatus) Valid() bool {
	switch s {
	case TeamPending, TeamApproved, TeamRejected:
		return true
	}
	return false
}
