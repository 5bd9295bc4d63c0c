package progression

import (
	"sort"

	"github.com/yerlan-k/league-system/models"
)

const (
	pointsForWin  = 3
	pointsForDraw = 1
)

// ComputeStandings folds a collection of matches into a sorted table.
// Every team that appears in any match gets a row, even with zero
// finished matches. Only finished matches with both scores present
// credit points and goals. The output is independent of input order:
// rows sort by points, then goal difference, then goals for, with team
// id as the last resort so ties stay deterministic.
func ComputeStandings(matches []models.Match) []models.StandingRow {
	rows := make(map[int]*models.StandingRow)

	row := func(teamID int) *models.StandingRow {
		if r, ok := rows[teamID]; ok {
			return r
		}
		r := &models.StandingRow{TeamID: teamID}
		rows[teamID] = r
		return r
	}

	for _, m := range matches {
		if m.HomeTeamID != nil {
			row(*m.HomeTeamID)
		}
		if m.AwayTeamID != nil {
			row(*m.AwayTeamID)
		}
		if !m.HasResult() || m.HomeTeamID == nil || m.AwayTeamID == nil {
			continue
		}

		home := row(*m.HomeTeamID)
		away := row(*m.AwayTeamID)
		hs, as := *m.HomeScore, *m.AwayScore

		home.Played++
		away.Played++
		home.GoalsFor += hs
		home.GoalsAgainst += as
		away.GoalsFor += as
		away.GoalsAgainst += hs

		switch {
		case hs > as:
			home.Wins++
			home.Points += pointsForWin
			away.Losses++
		case as > hs:
			away.Wins++
			away.Points += pointsForWin
			home.Losses++
		default:
			home.Draws++
			away.Draws++
			home.Points += pointsForDraw
			away.Points += pointsForDraw
		}
	}

	table := make([]models.StandingRow, 0, len(rows))
	for _, r := range rows {
		r.GoalDifference = r.GoalsFor - r.GoalsAgainst
		table = append(table, *r)
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})

	return table
}
