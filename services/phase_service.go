package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/yerlan-k/league-system/live"
	"github.com/yerlan-k/league-system/metrics"
	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/progression"
	"github.com/yerlan-k/league-system/repositories"
)

// KnockoutAdvanceResult reports what the pairing generator produced.
// Created counts every fixture written for the next phase, including a
// bye fixture when the winner count was odd.
type KnockoutAdvanceResult struct {
	Phase     models.PhaseType `json:"phase"`
	Created   int              `json:"created"`
	ByeTeamID *int             `json:"bye_team_id,omitempty"`
}

type PhaseService interface {
	// AdvancePhase drives manual progression: it creates the next
	// phase from the admin-selected set, or the explicitly requested
	// one. Rejects tournaments in auto progression.
	AdvancePhase(ctx context.Context, tournamentID int, requested *models.PhaseType) (*models.Phase, error)

	// AutoAdvanceKnockout drives auto progression: when every match of
	// the earliest populated knockout phase is finished and the next
	// knockout phase has no matches yet, winners are paired into new
	// fixtures. Rejects tournaments in manual progression.
	AutoAdvanceKnockout(ctx context.Context, tournamentID int) (*KnockoutAdvanceResult, error)
}

type phaseService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	phaseRepo      repositories.PhaseRepository
	matchRepo      repositories.MatchRepository
	hub            *live.Hub
	logger         *slog.Logger
	runTx          func(ctx context.Context, fn func(repositories.SQLExecutor) error) error
}

func NewPhaseService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	phaseRepo repositories.PhaseRepository,
	matchRepo repositories.MatchRepository,
	hub *live.Hub,
	logger *slog.Logger,
) PhaseService {
	s := &phaseService{
		db:             db,
		tournamentRepo: tournamentRepo,
		phaseRepo:      phaseRepo,
		matchRepo:      matchRepo,
		hub:            hub,
		logger:         logger,
	}
	s.runTx = s.inTx
	return s
}

func (s *phaseService) inTx(ctx context.Context, fn func(repositories.SQLExecutor) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit knockout advancement: %w", err)
	}
	return nil
}

func (s *phaseService) AdvancePhase(ctx context.Context, tournamentID int, requested *models.PhaseType) (*models.Phase, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Progression != models.ProgressionManual {
		return nil, ErrWrongProgressionMode
	}

	phases, err := s.phaseRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases for tournament %d: %w", tournamentID, err)
	}
	created := make([]models.PhaseType, len(phases))
	for i, p := range phases {
		created[i] = p.Type
	}

	var next models.PhaseType
	if requested != nil {
		next, err = s.validateRequestedPhase(*requested, tournament.SelectedPhases, created)
	} else {
		next, err = progression.NextPhase(created, tournament.SelectedPhases)
	}
	if err != nil {
		return nil, err
	}

	phase := &models.Phase{
		TournamentID: tournamentID,
		Type:         next,
		Name:         progression.DisplayName(next),
	}
	if err := s.phaseRepo.Create(ctx, nil, phase); err != nil {
		if errors.Is(err, repositories.ErrPhaseTypeConflict) {
			// Lost a race with a concurrent advance; the unique
			// constraint is the arbiter.
			return nil, ErrPhaseAlreadyExists
		}
		return nil, fmt.Errorf("failed to create phase %s: %w", next, err)
	}

	metrics.PhaseAdvances.Inc()
	s.broadcast(tournamentID, live.Event{Type: "PHASE_CREATED", Payload: phase})
	s.logger.Info("phase created",
		slog.Int("tournament_id", tournamentID),
		slog.String("phase", string(next)),
		slog.Int("order_index", phase.OrderIndex),
	)
	return phase, nil
}

func (s *phaseService) validateRequestedPhase(requested models.PhaseType, selected, created []models.PhaseType) (models.PhaseType, error) {
	if !requested.Valid() {
		return "", fmt.Errorf("%w: unknown phase type %q", ErrValidationFailed, requested)
	}
	inSelection := false
	for _, pt := range selected {
		if pt == requested {
			inSelection = true
			break
		}
	}
	if !inSelection {
		return "", ErrPhaseNotSelected
	}
	for _, pt := range created {
		if pt == requested {
			return "", ErrPhaseAlreadyExists
		}
	}
	return requested, nil
}

func (s *phaseService) AutoAdvanceKnockout(ctx context.Context, tournamentID int) (*KnockoutAdvanceResult, error) {
	tournament, err := s.getTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if tournament.Progression != models.ProgressionAuto {
		return nil, ErrWrongProgressionMode
	}

	current, currentMatches, err := s.findCurrentKnockoutPhase(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	for _, m := range currentMatches {
		if m.Status != models.MatchFinished {
			return nil, fmt.Errorf("%w: match %d in %s", ErrPhaseNotFinished, m.ID, current)
		}
	}

	next, ok := progression.NextKnockout(current)
	if !ok {
		return nil, progression.ErrAtFinalPhase
	}

	nextPhaseName := string(next)
	nextMatches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &nextPhaseName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s matches: %w", next, err)
	}
	if len(nextMatches) > 0 {
		return nil, ErrNextPhaseNotEmpty
	}

	pairing, err := progression.PairWinners(currentMatches)
	if err != nil {
		return nil, err
	}

	createdCount := 0
	err = s.runTx(ctx, func(tx repositories.SQLExecutor) error {
		phase := &models.Phase{
			TournamentID: tournamentID,
			Type:         next,
			Name:         progression.DisplayName(next),
		}
		if err := s.phaseRepo.Create(ctx, tx, phase); err != nil && !errors.Is(err, repositories.ErrPhaseTypeConflict) {
			return fmt.Errorf("failed to create phase %s: %w", next, err)
		}

		for _, p := range pairing.Pairings {
			home, away := p.HomeTeamID, p.AwayTeamID
			match := &models.Match{
				TournamentID: tournamentID,
				Phase:        nextPhaseName,
				HomeTeamID:   &home,
				AwayTeamID:   &away,
				Status:       models.MatchScheduled,
			}
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return fmt.Errorf("failed to create %s fixture: %w", next, err)
			}
			createdCount++
		}
		if pairing.ByeTeamID != nil {
			bye := *pairing.ByeTeamID
			// A walkover: the row is finished at creation so the byed
			// team flows straight into the next pairing round.
			match := &models.Match{
				TournamentID: tournamentID,
				Phase:        nextPhaseName,
				HomeTeamID:   &bye,
				Status:       models.MatchFinished,
			}
			if err := s.matchRepo.Create(ctx, tx, match); err != nil {
				return fmt.Errorf("failed to create bye fixture: %w", err)
			}
			createdCount++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &KnockoutAdvanceResult{
		Phase:     next,
		Created:   createdCount,
		ByeTeamID: pairing.ByeTeamID,
	}

	metrics.PhaseAdvances.Inc()
	s.broadcast(tournamentID, live.Event{Type: "KNOCKOUT_ADVANCED", Payload: result})
	s.logger.Info("knockout phase advanced",
		slog.Int("tournament_id", tournamentID),
		slog.String("from", string(current)),
		slog.String("to", string(next)),
		slog.Int("created", createdCount),
	)
	return result, nil
}

// findCurrentKnockoutPhase returns the earliest knockout stage that
// has at least one match, together with its matches.
func (s *phaseService) findCurrentKnockoutPhase(ctx context.Context, tournamentID int) (models.PhaseType, []models.Match, error) {
	for _, pt := range progression.KnockoutPhases() {
		phaseName := string(pt)
		matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, &phaseName, nil)
		if err != nil {
			return "", nil, fmt.Errorf("failed to list %s matches: %w", pt, err)
		}
		if len(matches) > 0 {
			return pt, matches, nil
		}
	}
	return "", nil, ErrNoKnockoutPhase
}

func (s *phaseService) getTournament(ctx context.Context, id int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", id, err)
	}
	return tournament, nil
}

func (s *phaseService) broadcast(tournamentID int, event live.Event) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom("tournament_"+strconv.Itoa(tournamentID), event)
}
