package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/progression"
	"github.com/yerlan-k/league-system/repositories"
)

type CreateTournamentInput struct {
	Name                 string                    `json:"name"`
	Category             models.TournamentCategory `json:"category"`
	MaxTeams             int                       `json:"max_teams"`
	RegistrationDeadline *string                   `json:"registration_deadline,omitempty"`
	Progression          models.ProgressionMode    `json:"progression"`
	SelectedPhases       []models.PhaseType        `json:"selected_phases"`
}

type UpdateTournamentInput struct {
	Name                 *string                    `json:"name,omitempty"`
	Status               *models.TournamentStatus   `json:"status,omitempty"`
	MaxTeams             *int                       `json:"max_teams,omitempty"`
	RegistrationDeadline *string                    `json:"registration_deadline,omitempty"`
	Category             *models.TournamentCategory `json:"category,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	// GetByID returns the tournament with its phases and approved
	// teams attached.
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
}

type tournamentService struct {
	tournamentRepo repositories.TournamentRepository
	phaseRepo      repositories.PhaseRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	logger         *slog.Logger
}

func NewTournamentService(
	tournamentRepo repositories.TournamentRepository,
	phaseRepo repositories.PhaseRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		tournamentRepo: tournamentRepo,
		phaseRepo:      phaseRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if !input.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", ErrValidationFailed, input.Category)
	}
	if input.MaxTeams <= 0 {
		return nil, fmt.Errorf("%w: max_teams must be positive", ErrValidationFailed)
	}
	if input.Progression == "" {
		input.Progression = models.ProgressionManual
	}
	if !input.Progression.Valid() {
		return nil, fmt.Errorf("%w: unknown progression mode %q", ErrValidationFailed, input.Progression)
	}
	if len(input.SelectedPhases) == 0 {
		return nil, fmt.Errorf("%w: at least one phase must be selected", ErrValidationFailed)
	}
	seen := make(map[models.PhaseType]bool, len(input.SelectedPhases))
	for _, pt := range input.SelectedPhases {
		if !pt.Valid() {
			return nil, fmt.Errorf("%w: unknown phase type %q", ErrValidationFailed, pt)
		}
		if seen[pt] {
			return nil, fmt.Errorf("%w: phase %q selected twice", ErrValidationFailed, pt)
		}
		seen[pt] = true
	}

	deadline, err := parseDeadline(input.RegistrationDeadline)
	if err != nil {
		return nil, err
	}

	tournament := &models.Tournament{
		Name:                 input.Name,
		Category:             input.Category,
		Status:               models.TournamentUpcoming,
		MaxTeams:             input.MaxTeams,
		RegistrationDeadline: deadline,
		Progression:          input.Progression,
		SelectedPhases:       progression.SortSelection(input.SelectedPhases),
	}
	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created",
		slog.Int("id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.String("progression", string(tournament.Progression)),
	)
	return tournament, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}

	approved := models.TeamApproved
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		phases, err := s.phaseRepo.ListByTournament(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to list phases: %w", err)
		}
		tournament.Phases = phases
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.ListByTournament(gctx, id, &approved)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		tournament.Teams = teams
		return nil
	})
	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, id, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		tournament.Matches = matches
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", ErrValidationFailed)
		}
		tournament.Name = name
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidationFailed, *input.Status)
		}
		tournament.Status = *input.Status
	}
	if input.MaxTeams != nil {
		if *input.MaxTeams <= 0 {
			return nil, fmt.Errorf("%w: max_teams must be positive", ErrValidationFailed)
		}
		tournament.MaxTeams = *input.MaxTeams
	}
	if input.Category != nil {
		if !input.Category.Valid() {
			return nil, fmt.Errorf("%w: unknown category %q", ErrValidationFailed, *input.Category)
		}
		tournament.Category = *input.Category
	}
	if input.RegistrationDeadline != nil {
		deadline, err := parseDeadline(input.RegistrationDeadline)
		if err != nil {
			return nil, err
		}
		tournament.RegistrationDeadline = deadline
	}

	if err := s.tournamentRepo.Update(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	if err := s.tournamentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	s.logger.Info("tournament deleted", slog.Int("id", id))
	return nil
}

// parseDeadline accepts an RFC 3339 timestamp or an empty string, which
// clears the deadline.
func parseDeadline(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("%w: registration_deadline must be RFC 3339", ErrValidationFailed)
	}
	return &t, nil
}
