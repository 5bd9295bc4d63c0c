package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yerlan-k/league-system/models"
)

func matchServiceFixture(matches ...*models.Match) (MatchService, *fakeMatchRepo) {
	tournamentRepo := newFakeTournamentRepo(manualTournament(1, models.PhaseSemifinals, models.PhaseFinal))
	teamRepo := newFakeTeamRepo(
		&models.Team{ID: 10, TournamentID: 1, Name: "Falcons", Status: models.TeamApproved},
		&models.Team{ID: 11, TournamentID: 1, Name: "Wolves", Status: models.TeamApproved},
		&models.Team{ID: 99, TournamentID: 2, Name: "Strangers", Status: models.TeamApproved},
	)
	playerRepo := newFakePlayerRepo(
		&models.Player{ID: 100, TeamID: 10, FullName: "Aslan Bekov", Document: "AB123"},
		&models.Player{ID: 101, TeamID: 11, FullName: "Marat Li", Document: "ML456"},
		&models.Player{ID: 200, TeamID: 99, FullName: "Outsider", Document: "OU789"},
	)
	phaseRepo := newFakePhaseRepo(models.Phase{
		ID: 1, TournamentID: 1, Type: models.PhaseSemifinals, Name: "Semifinals", OrderIndex: 1,
	})
	matchRepo := newFakeMatchRepo(matches...)
	svc := NewMatchService(nil, matchRepo, tournamentRepo, phaseRepo, teamRepo, playerRepo, nil, discardLogger())
	return svc, matchRepo
}

func scheduledSemifinal() *models.Match {
	home, away := 10, 11
	return &models.Match{
		ID: 1, TournamentID: 1, Phase: string(models.PhaseSemifinals),
		HomeTeamID: &home, AwayTeamID: &away, Status: models.MatchScheduled,
	}
}

func finishedDrawnSemifinal() *models.Match {
	m := scheduledSemifinal()
	score := 2
	m.Status = models.MatchFinished
	m.HomeScore = &score
	m.AwayScore = &score
	return m
}

func TestMatchService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a fixture in an existing phase", func(t *testing.T) {
		svc, _ := matchServiceFixture()
		home, away := 10, 11

		match, err := svc.Create(ctx, CreateMatchInput{
			TournamentID: 1,
			Phase:        string(models.PhaseSemifinals),
			HomeTeamID:   &home,
			AwayTeamID:   &away,
		})
		require.NoError(t, err)
		assert.Equal(t, models.MatchScheduled, match.Status)
		assert.NotZero(t, match.ID)
	})

	t.Run("rejects a phase that was never created", func(t *testing.T) {
		svc, _ := matchServiceFixture()

		_, err := svc.Create(ctx, CreateMatchInput{
			TournamentID: 1,
			Phase:        string(models.PhaseFinal),
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("rejects a team from another tournament", func(t *testing.T) {
		svc, _ := matchServiceFixture()
		home, away := 10, 99

		_, err := svc.Create(ctx, CreateMatchInput{
			TournamentID: 1,
			Phase:        string(models.PhaseSemifinals),
			HomeTeamID:   &home,
			AwayTeamID:   &away,
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("rejects a team playing itself", func(t *testing.T) {
		svc, _ := matchServiceFixture()
		team := 10

		_, err := svc.Create(ctx, CreateMatchInput{
			TournamentID: 1,
			Phase:        string(models.PhaseSemifinals),
			HomeTeamID:   &team,
			AwayTeamID:   &team,
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestMatchService_Finish(t *testing.T) {
	ctx := context.Background()
	hs, as := 3, 1

	t.Run("records result and events", func(t *testing.T) {
		svc, repo := matchServiceFixture(scheduledSemifinal())

		match, err := svc.Finish(ctx, 1, FinishMatchInput{
			HomeScore: &hs,
			AwayScore: &as,
			Events: []models.PlayerEvent{
				{PlayerID: 100, Name: "Aslan Bekov", Goals: 2, Yellow: 1},
				{PlayerID: 101, Name: "Marat Li", Goals: 1, Fouls: 3},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.MatchFinished, match.Status)
		assert.Len(t, match.Events, 2)

		stored, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.MatchFinished, stored.Status)
		assert.Equal(t, 3, *stored.HomeScore)
	})

	t.Run("requires both scores", func(t *testing.T) {
		svc, _ := matchServiceFixture(scheduledSemifinal())

		_, err := svc.Finish(ctx, 1, FinishMatchInput{HomeScore: &hs})
		assert.ErrorIs(t, err, ErrScoresRequired)
	})

	t.Run("allows correcting the result of a finished match", func(t *testing.T) {
		svc, repo := matchServiceFixture(finishedDrawnSemifinal())

		match, err := svc.Finish(ctx, 1, FinishMatchInput{HomeScore: &hs, AwayScore: &as})
		require.NoError(t, err)
		assert.Equal(t, 3, *match.HomeScore)
		assert.Equal(t, 1, *match.AwayScore)

		stored, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, models.MatchFinished, stored.Status)
		assert.Equal(t, 3, *stored.HomeScore)
	})

	t.Run("schedule is frozen once finished", func(t *testing.T) {
		svc, _ := matchServiceFixture(finishedDrawnSemifinal())

		newHome := 11
		_, err := svc.UpdateSchedule(ctx, 1, UpdateScheduleInput{HomeTeamID: &newHome})
		assert.ErrorIs(t, err, ErrMatchAlreadyFinished)
	})

	t.Run("rejects events from players outside the match", func(t *testing.T) {
		svc, _ := matchServiceFixture(scheduledSemifinal())

		_, err := svc.Finish(ctx, 1, FinishMatchInput{
			HomeScore: &hs,
			AwayScore: &as,
			Events:    []models.PlayerEvent{{PlayerID: 200, Name: "Outsider", Goals: 1}},
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("rejects unknown players in events", func(t *testing.T) {
		svc, _ := matchServiceFixture(scheduledSemifinal())

		_, err := svc.Finish(ctx, 1, FinishMatchInput{
			HomeScore: &hs,
			AwayScore: &as,
			Events:    []models.PlayerEvent{{PlayerID: 777, Name: "Ghost"}},
		})
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestMatchService_ForceWinner(t *testing.T) {
	ctx := context.Background()

	t.Run("resolves a drawn finished match", func(t *testing.T) {
		svc, repo := matchServiceFixture(finishedDrawnSemifinal())

		match, err := svc.ForceWinner(ctx, 1, 10)
		require.NoError(t, err)
		require.NotNil(t, match.ForcedWinnerID)
		assert.Equal(t, 10, *match.ForcedWinnerID)

		stored, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, 10, *stored.ForcedWinnerID)
	})

	t.Run("rejects a scheduled match", func(t *testing.T) {
		svc, _ := matchServiceFixture(scheduledSemifinal())

		_, err := svc.ForceWinner(ctx, 1, 10)
		assert.ErrorIs(t, err, ErrMatchNotDrawn)
	})

	t.Run("rejects a decisive result", func(t *testing.T) {
		m := scheduledSemifinal()
		hs, as := 2, 0
		m.Status = models.MatchFinished
		m.HomeScore = &hs
		m.AwayScore = &as
		svc, _ := matchServiceFixture(m)

		_, err := svc.ForceWinner(ctx, 1, 10)
		assert.ErrorIs(t, err, ErrMatchNotDrawn)
	})

	t.Run("winner must be one of the match teams", func(t *testing.T) {
		svc, _ := matchServiceFixture(finishedDrawnSemifinal())

		_, err := svc.ForceWinner(ctx, 1, 99)
		assert.ErrorIs(t, err, ErrWinnerNotInMatch)
	})
}
