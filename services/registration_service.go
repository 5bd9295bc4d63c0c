package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yerlan-k/league-system/metrics"
	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/repositories"
)

type PlayerInput struct {
	FullName string `json:"full_name"`
	Document string `json:"document"`
}

type RegisterTeamInput struct {
	TournamentID int           `json:"tournament_id"`
	Name         string        `json:"name"`
	Players      []PlayerInput `json:"players"`
}

type RegistrationService interface {
	// RegisterTeam runs the capacity gate and, on success, creates the
	// team with its roster in one transaction. The team starts pending.
	RegisterTeam(ctx context.Context, input RegisterTeamInput) (*models.Team, error)
}

type registrationService struct {
	db               *sql.DB
	tournamentRepo   repositories.TournamentRepository
	teamRepo         repositories.TeamRepository
	playerRepo       repositories.PlayerRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	logger           *slog.Logger
	now              func() time.Time
	runTx            func(ctx context.Context, fn func(repositories.SQLExecutor) error) error
}

func NewRegistrationService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	logger *slog.Logger,
) RegistrationService {
	s := &registrationService{
		db:               db,
		tournamentRepo:   tournamentRepo,
		teamRepo:         teamRepo,
		playerRepo:       playerRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		logger:           logger,
		now:              time.Now,
	}
	s.runTx = s.inTx
	return s
}

func (s *registrationService) inTx(ctx context.Context, fn func(repositories.SQLExecutor) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}
	return nil
}

func (s *registrationService) RegisterTeam(ctx context.Context, input RegisterTeamInput) (*models.Team, error) {
	if err := validateRegisterTeamInput(input); err != nil {
		return nil, err
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			metrics.RegistrationsRejected.WithLabelValues("not_found").Inc()
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", input.TournamentID, err)
	}

	if !registrationWindowOpen(tournament, s.now()) {
		metrics.RegistrationsRejected.WithLabelValues("closed").Inc()
		return nil, ErrRegistrationClosed
	}

	team := &models.Team{
		TournamentID: tournament.ID,
		Name:         strings.TrimSpace(input.Name),
		Status:       models.TeamPending,
	}
	var players []*models.Player

	err = s.runTx(ctx, func(tx repositories.SQLExecutor) error {
		// Pending and approved registrations alike hold a slot, so
		// the plain count is the right capacity check.
		count, err := s.teamRepo.CountByTournament(ctx, tx, tournament.ID)
		if err != nil {
			return err
		}
		if count >= tournament.MaxTeams {
			metrics.RegistrationsRejected.WithLabelValues("full").Inc()
			return ErrTournamentFull
		}

		if err := s.teamRepo.Create(ctx, tx, team); err != nil {
			if errors.Is(err, repositories.ErrTeamNameConflict) {
				return ErrTeamNameConflict
			}
			return fmt.Errorf("failed to create team: %w", err)
		}

		players = make([]*models.Player, 0, len(input.Players))
		for _, in := range input.Players {
			players = append(players, &models.Player{
				TeamID:   team.ID,
				FullName: strings.TrimSpace(in.FullName),
				Document: strings.TrimSpace(in.Document),
			})
		}
		if err := s.playerRepo.CreateBatch(ctx, tx, players); err != nil {
			return fmt.Errorf("failed to create roster: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	team.Players = make([]models.Player, len(players))
	for i, p := range players {
		team.Players[i] = *p
	}

	metrics.TeamRegistrations.Inc()
	s.notifyAdmins(ctx, fmt.Sprintf("Team %q registered for tournament %q", team.Name, tournament.Name))

	return team, nil
}

// registrationWindowOpen: the tournament must be active, and when a
// deadline is set the current time must not be past it.
func registrationWindowOpen(t *models.Tournament, now time.Time) bool {
	if t.Status != models.TournamentActive {
		return false
	}
	if t.RegistrationDeadline == nil {
		return true
	}
	return !now.After(*t.RegistrationDeadline)
}

func validateRegisterTeamInput(input RegisterTeamInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: team name is required", ErrValidationFailed)
	}
	if len(input.Players) == 0 {
		return fmt.Errorf("%w: at least one player is required", ErrValidationFailed)
	}
	for i, p := range input.Players {
		if strings.TrimSpace(p.FullName) == "" {
			return fmt.Errorf("%w: player %d name is required", ErrValidationFailed, i+1)
		}
		if strings.TrimSpace(p.Document) == "" {
			return fmt.Errorf("%w: player %d document is required", ErrValidationFailed, i+1)
		}
	}
	return nil
}

// notifyAdmins is best effort; a failed notification never fails the
// registration that triggered it.
func (s *registrationService) notifyAdmins(ctx context.Context, message string) {
	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		s.logger.Warn("failed to list admins for notification", slog.Any("error", err))
		return
	}
	for _, admin := range admins {
		n := &models.Notification{UserID: admin.ID, Message: message}
		if err := s.notificationRepo.Create(ctx, n); err != nil {
			s.logger.Warn("failed to create notification", slog.Int("user_id", admin.ID), slog.Any("error", err))
		}
	}
}
