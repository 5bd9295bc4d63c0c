package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/repositories"
)

type registrationFixture struct {
	svc              *registrationService
	tournamentRepo   *fakeTournamentRepo
	teamRepo         *fakeTeamRepo
	playerRepo       *fakePlayerRepo
	notificationRepo *fakeNotificationRepo
}

func newRegistrationFixture(tournament *models.Tournament, existingTeams ...*models.Team) *registrationFixture {
	tournamentRepo := newFakeTournamentRepo(tournament)
	teamRepo := newFakeTeamRepo(existingTeams...)
	playerRepo := newFakePlayerRepo()
	userRepo := newFakeUserRepo(&models.User{ID: 1, Email: "admin@league.kz", Admin: true, Active: true})
	notificationRepo := newFakeNotificationRepo()

	svc := NewRegistrationService(nil, tournamentRepo, teamRepo, playerRepo, userRepo, notificationRepo, discardLogger()).(*registrationService)
	svc.runTx = func(ctx context.Context, fn func(repositories.SQLExecutor) error) error {
		return fn(nil)
	}

	return &registrationFixture{
		svc:              svc,
		tournamentRepo:   tournamentRepo,
		teamRepo:         teamRepo,
		playerRepo:       playerRepo,
		notificationRepo: notificationRepo,
	}
}

func openTournament(maxTeams int) *models.Tournament {
	return &models.Tournament{
		ID:             1,
		Name:           "Spring Cup",
		Category:       models.CategoryFemale,
		Status:         models.TournamentActive,
		MaxTeams:       maxTeams,
		Progression:    models.ProgressionManual,
		SelectedPhases: []models.PhaseType{models.PhaseRoundRobin, models.PhaseFinal},
	}
}

func validInput() RegisterTeamInput {
	return RegisterTeamInput{
		TournamentID: 1,
		Name:         "Eagles",
		Players: []PlayerInput{
			{FullName: "Dana Serik", Document: "DS001"},
			{FullName: "Aigerim Nur", Document: "AN002"},
		},
	}
}

func TestRegistrationService_RegisterTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a pending team with its roster", func(t *testing.T) {
		f := newRegistrationFixture(openTournament(8))

		team, err := f.svc.RegisterTeam(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, models.TeamPending, team.Status)
		assert.Len(t, team.Players, 2)
		assert.NotZero(t, team.ID)

		// Admins get notified about the new registration.
		notifications, err := f.notificationRepo.ListByUser(ctx, 1, false)
		require.NoError(t, err)
		assert.Len(t, notifications, 1)
	})

	t.Run("unknown tournament", func(t *testing.T) {
		f := newRegistrationFixture(openTournament(8))

		input := validInput()
		input.TournamentID = 99
		_, err := f.svc.RegisterTeam(ctx, input)
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})

	t.Run("rejects when the tournament is not active", func(t *testing.T) {
		tournament := openTournament(8)
		tournament.Status = models.TournamentUpcoming
		f := newRegistrationFixture(tournament)

		_, err := f.svc.RegisterTeam(ctx, validInput())
		assert.ErrorIs(t, err, ErrRegistrationClosed)
	})

	t.Run("rejects past the deadline", func(t *testing.T) {
		deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		tournament := openTournament(8)
		tournament.RegistrationDeadline = &deadline
		f := newRegistrationFixture(tournament)
		f.svc.now = func() time.Time { return deadline.Add(time.Minute) }

		_, err := f.svc.RegisterTeam(ctx, validInput())
		assert.ErrorIs(t, err, ErrRegistrationClosed)
	})

	t.Run("accepts exactly at the deadline", func(t *testing.T) {
		deadline := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		tournament := openTournament(8)
		tournament.RegistrationDeadline = &deadline
		f := newRegistrationFixture(tournament)
		f.svc.now = func() time.Time { return deadline }

		_, err := f.svc.RegisterTeam(ctx, validInput())
		assert.NoError(t, err)
	})

	t.Run("rejected teams still hold capacity", func(t *testing.T) {
		f := newRegistrationFixture(openTournament(2),
			&models.Team{ID: 1, TournamentID: 1, Name: "Lions", Status: models.TeamApproved},
			&models.Team{ID: 2, TournamentID: 1, Name: "Bears", Status: models.TeamRejected},
		)

		_, err := f.svc.RegisterTeam(ctx, validInput())
		assert.ErrorIs(t, err, ErrTournamentFull)
	})

	t.Run("duplicate team name in the tournament", func(t *testing.T) {
		f := newRegistrationFixture(openTournament(8),
			&models.Team{ID: 1, TournamentID: 1, Name: "Eagles", Status: models.TeamPending},
		)

		_, err := f.svc.RegisterTeam(ctx, validInput())
		assert.ErrorIs(t, err, ErrTeamNameConflict)
	})

	t.Run("input validation", func(t *testing.T) {
		f := newRegistrationFixture(openTournament(8))

		tests := []struct {
			name   string
			mutate func(*RegisterTeamInput)
		}{
			{"empty team name", func(in *RegisterTeamInput) { in.Name = "  " }},
			{"no players", func(in *RegisterTeamInput) { in.Players = nil }},
			{"player without name", func(in *RegisterTeamInput) { in.Players[0].FullName = "" }},
			{"player without document", func(in *RegisterTeamInput) { in.Players[1].Document = "" }},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				input := validInput()
				tc.mutate(&input)
				_, err := f.svc.RegisterTeam(ctx, input)
				assert.ErrorIs(t, err, ErrValidationFailed)
			})
		}
	})
}
