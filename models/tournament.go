package models

import "time"

// TournamentStatus matches the ENUM in the database.
type TournamentStatus string

const (
	TournamentUpcoming  TournamentStatus = "upcoming"
	TournamentActive    TournamentStatus = "active"
	TournamentCompleted TournamentStatus = "completed"
)

type TournamentCategory string

const (
	CategoryMale   TournamentCategory = "male"
	CategoryFemale TournamentCategory = "female"
)

// ProgressionMode selects the single authoritative phase-transition
// policy for a tournament. It is chosen at creation and never changes:
// manual tournaments advance through the admin-selected phase list,
// auto tournaments advance by knockout bracket pairing.
type ProgressionMode string

const (
	ProgressionManual ProgressionMode = "manual"
	ProgressionAuto   ProgressionMode = "auto"
)

type Tournament struct {
	ID                   int                `json:"id" db:"id"`
	Name                 string             `json:"name" db:"name"`
	Category             TournamentCategory `json:"category" db:"category"`
	Status               TournamentStatus   `json:"status" db:"status"`
	MaxTeams             int                `json:"max_teams" db:"max_teams"`
	RegistrationDeadline *time.Time         `json:"registration_deadline,omitempty" db:"registration_deadline"`
	Progression          ProgressionMode    `json:"progression" db:"progression"`
	SelectedPhases       []PhaseType        `json:"selected_phases" db:"selected_phases"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`

	// Optional linked entities, populated by the service layer.
	Phases  []Phase `json:"phases,omitempty" db:"-"`
	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}

func (s TournamentStatus) Valid() bool {
	switch s {
	case TournamentUpcoming, TournamentActive, TournamentCompleted:
		return true
	}
	return false
}

func (c TournamentCategory) Valid() bool {
	return c == CategoryMale || c == CategoryFemale
}

func (m ProgressionMode) Valid() bool {
	return m == ProgressionManual || m == ProgressionAuto
}
