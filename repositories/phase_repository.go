package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/yerlan-k/league-system/models"
)

var (
	ErrPhaseNotFound     = errors.New("phase not found")
	ErrPhaseTypeConflict = errors.New("phase of this type already exists for the tournament")
	ErrPhaseBadReference = errors.New("phase references a missing tournament")
)

type PhaseRepository interface {
	// Create assigns the next order index for the tournament inside
	// the insert itself, so creation sequence survives concurrent use.
	Create(ctx context.Context, exec SQLExecutor, phase *models.Phase) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Phase, error)
	Delete(ctx context.Context, id int) error
}

type postgresPhaseRepository struct {
	db *sql.DB
}

func NewPostgresPhaseRepository(db *sql.DB) PhaseRepository {
	return &postgresPhaseRepository{db: db}
}

func (r *postgresPhaseRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPhaseRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Phase) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO phases (tournament_id, type, name, order_index)
		VALUES ($1, $2, $3,
			(SELECT COALESCE(MAX(order_index), 0) + 1 FROM phases WHERE tournament_id = $1))
		RETURNING id, order_index, created_at`

	err := executor.QueryRowContext(ctx, query, p.TournamentID, p.Type, p.Name).
		Scan(&p.ID, &p.OrderIndex, &p.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			return ErrPhaseTypeConflict
		case "23503":
			return ErrPhaseBadReference
		}
	}
	return err
}

func (r *postgresPhaseRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Phase, error) {
	query := `
		SELECT id, tournament_id, type, name, order_index, created_at
		FROM phases
		WHERE tournament_id = $1
		ORDER BY order_index ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	phases := make([]models.Phase, 0)
	for rows.Next() {
		var p models.Phase
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.Type, &p.Name, &p.OrderIndex, &p.CreatedAt); err != nil {
			return nil, err
		}
		phases = append(phases, p)
	}
	return phases, rows.Err()
}

func (r *postgresPhaseRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM phases WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPhaseNotFound)
}
