package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/yerlan-k/league-system/live"
	"github.com/yerlan-k/league-system/metrics"
	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/repositories"
)

type CreateMatchInput struct {
	TournamentID int     `json:"-"`
	Phase        string  `json:"phase"`
	HomeTeamID   *int    `json:"home_team_id,omitempty"`
	AwayTeamID   *int    `json:"away_team_id,omitempty"`
	Venue        *string `json:"venue,omitempty"`
	KickoffAt    *string `json:"kickoff_at,omitempty"`
}

type UpdateScheduleInput struct {
	HomeTeamID *int    `json:"home_team_id,omitempty"`
	AwayTeamID *int    `json:"away_team_id,omitempty"`
	Venue      *string `json:"venue,omitempty"`
	KickoffAt  *string `json:"kickoff_at,omitempty"`
}

type FinishMatchInput struct {
	HomeScore *int                 `json:"home_score"`
	AwayScore *int                 `json:"away_score"`
	Events    []models.PlayerEvent `json:"events"`
}

type ListMatchesFilter struct {
	Phase  *string
	Status *models.MatchStatus
}

type MatchService interface {
	Create(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, filter ListMatchesFilter) ([]models.Match, error)
	// Finish records the final score and per-player events. Results and
	// events stay editable afterwards; only the schedule freezes.
	Finish(ctx context.Context, id int, input FinishMatchInput) (*models.Match, error)
	UpdateSchedule(ctx context.Context, id int, input UpdateScheduleInput) (*models.Match, error)
	// ForceWinner resolves a drawn finished match by admin decision so
	// knockout pairing can proceed.
	ForceWinner(ctx context.Context, id int, winnerTeamID int) (*models.Match, error)
	Delete(ctx context.Context, id int) error
}

type matchService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	tournamentRepo repositories.TournamentRepository
	phaseRepo      repositories.PhaseRepository
	teamRepo       repositories.TeamRepository
	playerRepo     repositories.PlayerRepository
	hub            *live.Hub
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	tournamentRepo repositories.TournamentRepository,
	phaseRepo repositories.PhaseRepository,
	teamRepo repositories.TeamRepository,
	playerRepo repositories.PlayerRepository,
	hub *live.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		matchRepo:      matchRepo,
		tournamentRepo: tournamentRepo,
		phaseRepo:      phaseRepo,
		teamRepo:       teamRepo,
		playerRepo:     playerRepo,
		hub:            hub,
		logger:         logger,
	}
}

func (s *matchService) Create(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	input.Phase = strings.TrimSpace(input.Phase)
	if input.Phase == "" {
		return nil, fmt.Errorf("%w: phase is required", ErrValidationFailed)
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", input.TournamentID, err)
	}

	phases, err := s.phaseRepo.ListByTournament(ctx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	phaseExists := false
	for _, p := range phases {
		if string(p.Type) == input.Phase {
			phaseExists = true
			break
		}
	}
	if !phaseExists {
		return nil, fmt.Errorf("%w: phase %q has not been created for this tournament", ErrValidationFailed, input.Phase)
	}

	if err := s.validateTeams(ctx, tournament.ID, input.HomeTeamID, input.AwayTeamID); err != nil {
		return nil, err
	}

	kickoff, err := parseKickoff(input.KickoffAt)
	if err != nil {
		return nil, err
	}

	match := &models.Match{
		TournamentID: tournament.ID,
		Phase:        input.Phase,
		HomeTeamID:   input.HomeTeamID,
		AwayTeamID:   input.AwayTeamID,
		Venue:        input.Venue,
		KickoffAt:    kickoff,
		Status:       models.MatchScheduled,
		Events:       []models.PlayerEvent{},
	}
	if err := s.matchRepo.Create(ctx, nil, match); err != nil {
		if errors.Is(err, repositories.ErrMatchBadReference) {
			return nil, fmt.Errorf("%w: referenced team does not exist", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to create match: %w", err)
	}

	s.broadcast(match.TournamentID, live.Event{Type: "MATCH_CREATED", Payload: match})
	return match, nil
}

func (s *matchService) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to load match %d: %w", id, err)
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int, filter ListMatchesFilter) ([]models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, filter.Phase, filter.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (s *matchService) Finish(ctx context.Context, id int, input FinishMatchInput) (*models.Match, error) {
	match, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.HomeScore == nil || input.AwayScore == nil {
		return nil, ErrScoresRequired
	}
	if *input.HomeScore < 0 || *input.AwayScore < 0 {
		return nil, fmt.Errorf("%w: scores cannot be negative", ErrValidationFailed)
	}
	if match.HomeTeamID == nil || match.AwayTeamID == nil {
		return nil, fmt.Errorf("%w: both teams must be assigned before a result", ErrValidationFailed)
	}

	events := input.Events
	if events == nil {
		events = []models.PlayerEvent{}
	}
	if err := s.validateEvents(ctx, events, *match.HomeTeamID, *match.AwayTeamID); err != nil {
		return nil, err
	}

	if err := s.matchRepo.UpdateResult(ctx, id, input.HomeScore, input.AwayScore, models.MatchFinished, events); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to record result for match %d: %w", id, err)
	}

	// Re-recording a result on an already finished match is allowed;
	// only the first transition counts as a finish.
	if match.Status != models.MatchFinished {
		metrics.MatchesFinished.Inc()
	}
	match.Status = models.MatchFinished
	match.HomeScore = input.HomeScore
	match.AwayScore = input.AwayScore
	match.Events = events

	s.broadcast(match.TournamentID, live.Event{Type: "MATCH_FINISHED", Payload: match})
	s.logger.Info("match finished",
		slog.Int("match_id", id),
		slog.Int("home_score", *input.HomeScore),
		slog.Int("away_score", *input.AwayScore),
	)
	return match, nil
}

func (s *matchService) UpdateSchedule(ctx context.Context, id int, input UpdateScheduleInput) (*models.Match, error) {
	match, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if match.Status == models.MatchFinished {
		return nil, ErrMatchAlreadyFinished
	}

	if input.HomeTeamID != nil {
		match.HomeTeamID = input.HomeTeamID
	}
	if input.AwayTeamID != nil {
		match.AwayTeamID = input.AwayTeamID
	}
	if err := s.validateTeams(ctx, match.TournamentID, match.HomeTeamID, match.AwayTeamID); err != nil {
		return nil, err
	}
	if input.Venue != nil {
		match.Venue = input.Venue
	}
	if input.KickoffAt != nil {
		kickoff, err := parseKickoff(input.KickoffAt)
		if err != nil {
			return nil, err
		}
		match.KickoffAt = kickoff
	}

	if err := s.matchRepo.UpdateSchedule(ctx, id, match.HomeTeamID, match.AwayTeamID, match.Venue, match.KickoffAt); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		if errors.Is(err, repositories.ErrMatchBadReference) {
			return nil, fmt.Errorf("%w: referenced team does not exist", ErrValidationFailed)
		}
		return nil, fmt.Errorf("failed to update schedule for match %d: %w", id, err)
	}

	s.broadcast(match.TournamentID, live.Event{Type: "MATCH_UPDATED", Payload: match})
	return match, nil
}

func (s *matchService) ForceWinner(ctx context.Context, id int, winnerTeamID int) (*models.Match, error) {
	match, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if match.Status != models.MatchFinished {
		return nil, ErrMatchNotDrawn
	}
	if match.HomeScore == nil || match.AwayScore == nil || *match.HomeScore != *match.AwayScore {
		return nil, ErrMatchNotDrawn
	}
	inMatch := (match.HomeTeamID != nil && *match.HomeTeamID == winnerTeamID) ||
		(match.AwayTeamID != nil && *match.AwayTeamID == winnerTeamID)
	if !inMatch {
		return nil, ErrWinnerNotInMatch
	}

	if err := s.matchRepo.SetForcedWinner(ctx, id, winnerTeamID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to set forced winner for match %d: %w", id, err)
	}

	match.ForcedWinnerID = &winnerTeamID
	s.broadcast(match.TournamentID, live.Event{Type: "MATCH_WINNER_FORCED", Payload: match})
	s.logger.Info("forced winner recorded",
		slog.Int("match_id", id),
		slog.Int("winner_team_id", winnerTeamID),
	)
	return match, nil
}

func (s *matchService) Delete(ctx context.Context, id int) error {
	match, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.matchRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to delete match %d: %w", id, err)
	}
	s.broadcast(match.TournamentID, live.Event{Type: "MATCH_DELETED", Payload: map[string]int{"id": id}})
	return nil
}

// validateTeams checks that any assigned teams belong to the tournament
// and that a team does not face itself.
func (s *matchService) validateTeams(ctx context.Context, tournamentID int, homeTeamID, awayTeamID *int) error {
	if homeTeamID != nil && awayTeamID != nil && *homeTeamID == *awayTeamID {
		return fmt.Errorf("%w: a team cannot play itself", ErrValidationFailed)
	}
	for _, teamID := range []*int{homeTeamID, awayTeamID} {
		if teamID == nil {
			continue
		}
		team, err := s.teamRepo.GetByID(ctx, *teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return fmt.Errorf("%w: team %d does not exist", ErrValidationFailed, *teamID)
			}
			return fmt.Errorf("failed to load team %d: %w", *teamID, err)
		}
		if team.TournamentID != tournamentID {
			return fmt.Errorf("%w: team %d belongs to another tournament", ErrValidationFailed, *teamID)
		}
	}
	return nil
}

// validateEvents checks that every event references a real player from
// one of the two competing teams and that counters are sane.
func (s *matchService) validateEvents(ctx context.Context, events []models.PlayerEvent, homeTeamID, awayTeamID int) error {
	for i, ev := range events {
		if ev.PlayerID <= 0 {
			return fmt.Errorf("%w: events[%d].player_id is required", ErrValidationFailed, i)
		}
		if ev.Goals < 0 || ev.Fouls < 0 || ev.Yellow < 0 || ev.Red < 0 {
			return fmt.Errorf("%w: events[%d] counters cannot be negative", ErrValidationFailed, i)
		}
		player, err := s.playerRepo.GetByID(ctx, ev.PlayerID)
		if err != nil {
			if errors.Is(err, repositories.ErrPlayerNotFound) {
				return fmt.Errorf("%w: events[%d] references unknown player %d", ErrValidationFailed, i, ev.PlayerID)
			}
			return fmt.Errorf("failed to load player %d: %w", ev.PlayerID, err)
		}
		if player.TeamID != homeTeamID && player.TeamID != awayTeamID {
			return fmt.Errorf("%w: events[%d] player %d is not on either team", ErrValidationFailed, i, ev.PlayerID)
		}
	}
	return nil
}

func (s *matchService) broadcast(tournamentID int, event live.Event) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToRoom("tournament_"+strconv.Itoa(tournamentID), event)
}

func parseKickoff(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *raw)
	if err != nil {
		return nil, fmt.Errorf("%w: kickoff_at must be RFC 3339", ErrValidationFailed)
	}
	return &t, nil
}
