package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/yerlan-k/league-system/models"
)

var (
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchBadReference = errors.New("match references a missing tournament or team")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int, phase *string, status *models.MatchStatus) ([]models.Match, error)
	// UpdateResult writes score, status and events. Team and phase
	// assignment are deliberately not touched here; they freeze once a
	// match is finished.
	UpdateResult(ctx context.Context, id int, homeScore, awayScore *int, status models.MatchStatus, events []models.PlayerEvent) error
	UpdateSchedule(ctx context.Context, id int, homeTeamID, awayTeamID *int, venue *string, kickoffAt *time.Time) error
	SetForcedWinner(ctx context.Context, id int, winnerTeamID int) error
	Delete(ctx context.Context, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)

	events, err := marshalEvents(m.Events)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO matches
			(tournament_id, phase, home_team_id, away_team_id, venue, kickoff_at,
			 status, home_score, away_score, events)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err = executor.QueryRowContext(ctx, query,
		m.TournamentID, m.Phase, m.HomeTeamID, m.AwayTeamID, m.Venue, m.KickoffAt,
		m.Status, m.HomeScore, m.AwayScore, events,
	).Scan(&m.ID, &m.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
		return ErrMatchBadReference
	}
	return err
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, phase, home_team_id, away_team_id, venue, kickoff_at,
		       status, home_score, away_score, forced_winner_id, events, created_at
		FROM matches
		WHERE id = $1`

	m := &models.Match{}
	var rawEvents []byte
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.TournamentID, &m.Phase, &m.HomeTeamID, &m.AwayTeamID, &m.Venue, &m.KickoffAt,
		&m.Status, &m.HomeScore, &m.AwayScore, &m.ForcedWinnerID, &rawEvents, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	if m.Events, err = unmarshalEvents(rawEvents); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int, phase *string, status *models.MatchStatus) ([]models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, tournament_id, phase, home_team_id, away_team_id, venue, kickoff_at,
		       status, home_score, away_score, forced_winner_id, events, created_at
		FROM matches
		WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if phase != nil {
		queryBuilder.WriteString(" AND phase = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *phase)
		placeholderIndex++
	}
	if status != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *status)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		var m models.Match
		var rawEvents []byte
		if err := rows.Scan(
			&m.ID, &m.TournamentID, &m.Phase, &m.HomeTeamID, &m.AwayTeamID, &m.Venue, &m.KickoffAt,
			&m.Status, &m.HomeScore, &m.AwayScore, &m.ForcedWinnerID, &rawEvents, &m.CreatedAt,
		); err != nil {
			return nil, err
		}
		if m.Events, err = unmarshalEvents(rawEvents); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id int, homeScore, awayScore *int, status models.MatchStatus, events []models.PlayerEvent) error {
	raw, err := marshalEvents(events)
	if err != nil {
		return err
	}

	query := `
		UPDATE matches
		SET home_score = $1, away_score = $2, status = $3, events = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, homeScore, awayScore, status, raw, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSchedule(ctx context.Context, id int, homeTeamID, awayTeamID *int, venue *string, kickoffAt *time.Time) error {
	query := `
		UPDATE matches
		SET home_team_id = $1, away_team_id = $2, venue = $3, kickoff_at = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, homeTeamID, awayTeamID, venue, kickoffAt, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchBadReference
		}
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetForcedWinner(ctx context.Context, id int, winnerTeamID int) error {
	query := `UPDATE matches SET forced_winner_id = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, winnerTeamID, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchBadReference
		}
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func marshalEvents(events []models.PlayerEvent) ([]byte, error) {
	if events == nil {
		events = []models.PlayerEvent{}
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal match events: %w", err)
	}
	return raw, nil
}

func unmarshalEvents(raw []byte) ([]models.PlayerEvent, error) {
	if len(raw) == 0 {
		return []models.PlayerEvent{}, nil
	}
	var events []models.PlayerEvent
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal match events: %w", err)
	}
	return events, nil
}
