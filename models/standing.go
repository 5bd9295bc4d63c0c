package models

// StandingRow is one line of a computed standings table. Standings are
// never persisted; they are a pure function of match history and are
// recomputed on every read.
type StandingRow struct {
	TeamID         int    `json:"team_id"`
	TeamName       string `json:"team_name,omitempty"`
	Played         int    `json:"played"`
	Wins           int    `json:"wins"`
	Draws          int    `json:"draws"`
	Losses         int    `json:"losses"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}
