package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/yerlan-k/league-system/models"
)

var (
	ErrTeamNotFound      = errors.New("team not found")
	ErrTeamNameConflict  = errors.New("team name is already taken in this tournament")
	ErrTeamBadTournament = errors.New("team references a missing tournament")
)

type TeamRepository interface {
	Create(ctx context.Context, exec SQLExecutor, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTournament(ctx context.Context, tournamentID int, status *models.TeamStatus) ([]models.Team, error)
	// CountByTournament counts teams in every approval status; pending
	// registrations hold a capacity slot.
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	UpdateStatus(ctx context.Context, id int, status models.TeamStatus) error
	UpdateLogoKey(ctx context.Context, id int, logoKey *string) error
	Delete(ctx context.Context, id int) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeamRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Team) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO teams (tournament_id, name, status)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query, t.TournamentID, t.Name, t.Status).
		Scan(&t.ID, &t.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrTeamNameConflict
		case "23503":
			return ErrTeamBadTournament
		}
	}
	return err
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, tournament_id, name, status, logo_key, created_at
		FROM teams
		WHERE id = $1`

	t := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.TournamentID, &t.Name, &t.Status, &t.LogoKey, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int, status *models.TeamStatus) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, status, logo_key, created_at
		FROM teams
		WHERE tournament_id = $1`
	args := []interface{}{tournamentID}

	if status != nil {
		query += " AND status = $2"
		args = append(args, *status)
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Status, &t.LogoKey, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM teams WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresTeamRepository) UpdateStatus(ctx context.Context, id int, status models.TeamStatus) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateLogoKey(ctx context.Context, id int, logoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE teams SET logo_key = $1 WHERE id = $2`, logoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
