package models

import "time"

type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchFinished  MatchStatus = "finished"
)

// PlayerEvent is the tagged per-player record for a finished match.
// It replaces free-form event blobs and is validated at the API
// boundary.
type PlayerEvent struct {
	PlayerID int    `json:"player_id"`
	Name     string `json:"name"`
	Goals    int    `json:"goals"`
	Fouls    int    `json:"fouls"`
	Yellow   int    `json:"yellow"`
	Red      int    `json:"red"`
}

// Match references its phase by name (the phase type string), not by a
// normalized foreign key. Team references are nullable so a fixture
// can exist before teams are assigned, which knockout pairing relies
// on for byes.
type Match struct {
	ID           int         `json:"id" db:"id"`
	TournamentID int         `json:"tournament_id" db:"tournament_id"`
	Phase        string      `json:"phase" db:"phase"`
	HomeTeamID   *int        `json:"home_team_id,omitempty" db:"home_team_id"`
	AwayTeamID   *int        `json:"away_team_id,omitempty" db:"away_team_id"`
	Venue        *string     `json:"venue,omitempty" db:"venue"`
	KickoffAt    *time.Time  `json:"kickoff_at,omitempty" db:"kickoff_at"`
	Status       MatchStatus `json:"status" db:"status"`
	HomeScore    *int        `json:"home_score,omitempty" db:"home_score"`
	AwayScore    *int        `json:"away_score,omitempty" db:"away_score"`

	// ForcedWinnerID resolves a drawn knockout match by admin override.
	ForcedWinnerID *int `json:"forced_winner_id,omitempty" db:"forced_winner_id"`

	Events    []PlayerEvent `json:"events" db:"events"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`
}

func (s MatchStatus) Valid() bool {
	return s == MatchScheduled || s == MatchFinished
}

// HasResult reports whether the match carries a usable score.
func (m *Match) HasResult() bool {
	return m.Status == MatchFinished && m.HomeScore != nil && m.AwayScore != nil
}
