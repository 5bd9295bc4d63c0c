package models

import "time"

// PhaseType is the fixed set of tournament stages. The declaration
// order here is not authoritative; the logical ordering used by the
// phase state machine lives in the progression package.
type PhaseType string

const (
	PhaseRoundRobin    PhaseType = "round_robin"
	PhaseGroupStage    PhaseType = "group_stage"
	PhaseRoundOf16     PhaseType = "round_of_16"
	PhaseQuarterfinals PhaseType = "quarterfinals"
	PhaseSemifinals    PhaseType = "semifinals"
	PhaseFinal         PhaseType = "final"
)

// Phase is a created stage of a tournament. OrderIndex reflects
// creation sequence, which may differ from the logical enum order when
// an admin selects phases out of sequence. At most one phase per type
// exists per tournament (unique constraint in the schema).
type Phase struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Type         PhaseType `json:"type" db:"type"`
	Name         string    `json:"name" db:"name"`
	OrderIndex   int       `json:"order_index" db:"order_index"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (t PhaseType) Valid() bool {
	switch t {
	case PhaseRoundRobin, PhaseGroupStage, PhaseRoundOf16, PhaseQuarterfinals, PhaseSemifinals, PhaseFinal:
		return true
	}
	return false
}
