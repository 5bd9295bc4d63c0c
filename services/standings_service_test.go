package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yerlan-k/league-system/models"
)

func TestStandingsService_GetStandings(t *testing.T) {
	ctx := context.Background()

	tournamentRepo := newFakeTournamentRepo(manualTournament(1, models.PhaseRoundRobin, models.PhaseFinal))
	teamRepo := newFakeTeamRepo(
		&models.Team{ID: 10, TournamentID: 1, Name: "Falcons", Status: models.TeamApproved},
		&models.Team{ID: 11, TournamentID: 1, Name: "Wolves", Status: models.TeamApproved},
		&models.Team{ID: 12, TournamentID: 1, Name: "Bears", Status: models.TeamApproved},
	)

	team10, team11, team12 := 10, 11, 12
	s3, s1, s0 := 3, 1, 0
	matchRepo := newFakeMatchRepo(
		&models.Match{
			ID: 1, TournamentID: 1, Phase: string(models.PhaseRoundRobin),
			HomeTeamID: &team10, AwayTeamID: &team11, Status: models.MatchFinished,
			HomeScore: &s3, AwayScore: &s1,
		},
		&models.Match{
			ID: 2, TournamentID: 1, Phase: string(models.PhaseRoundRobin),
			HomeTeamID: &team11, AwayTeamID: &team12, Status: models.MatchFinished,
			HomeScore: &s0, AwayScore: &s0,
		},
		// Scheduled matches enter the table but credit nothing.
		&models.Match{
			ID: 3, TournamentID: 1, Phase: string(models.PhaseFinal),
			HomeTeamID: &team10, AwayTeamID: &team12, Status: models.MatchScheduled,
		},
	)

	svc := NewStandingsService(tournamentRepo, matchRepo, teamRepo)

	t.Run("full table with team names", func(t *testing.T) {
		table, err := svc.GetStandings(ctx, 1, nil)
		require.NoError(t, err)
		require.Len(t, table, 3)

		assert.Equal(t, "Falcons", table[0].TeamName)
		assert.Equal(t, 3, table[0].Points)
		assert.Equal(t, 1, table[0].Played)

		// Bears edge Wolves on goal difference at equal points.
		assert.Equal(t, "Bears", table[1].TeamName)
		assert.Equal(t, 1, table[1].Points)
		assert.Equal(t, 1, table[1].Played)

		assert.Equal(t, "Wolves", table[2].TeamName)
		assert.Equal(t, 1, table[2].Points)
		assert.Equal(t, 2, table[2].Played)
		assert.Equal(t, -2, table[2].GoalDifference)
	})

	t.Run("phase filter", func(t *testing.T) {
		phase := string(models.PhaseFinal)
		table, err := svc.GetStandings(ctx, 1, &phase)
		require.NoError(t, err)
		require.Len(t, table, 2)
		for _, row := range table {
			assert.Zero(t, row.Played)
			assert.Zero(t, row.Points)
		}
	})

	t.Run("unknown tournament", func(t *testing.T) {
		_, err := svc.GetStandings(ctx, 7, nil)
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})
}
