package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/progression"
	"github.com/yerlan-k/league-system/repositories"
)

type StandingsService interface {
	// GetStandings computes the table for a tournament, optionally
	// restricted to a single phase. The table is recomputed from match
	// data on every call; nothing is stored.
	GetStandings(ctx context.Context, tournamentID int, phase *string) ([]models.StandingRow, error)
}

type standingsService struct {
	tournamentRepo repositories.TournamentRepository
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
}

func NewStandingsService(
	tournamentRepo repositories.TournamentRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
) StandingsService {
	return &standingsService{
		tournamentRepo: tournamentRepo,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
	}
}

func (s *standingsService) GetStandings(ctx context.Context, tournamentID int, phase *string) ([]models.StandingRow, error) {
	if _, err := s.tournamentRepo.GetByID(ctx, tournamentID); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}

	var (
		matches []models.Match
		teams   []models.Team
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByTournament(gctx, tournamentID, phase, nil)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		teams, err = s.teamRepo.ListByTournament(gctx, tournamentID, nil)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := progression.ComputeStandings(matches)

	names := make(map[int]string, len(teams))
	for _, t := range teams {
		names[t.ID] = t.Name
	}
	for i := range table {
		table[i].TeamName = names[table[i].TeamID]
	}
	return table, nil
}
