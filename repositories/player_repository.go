package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/yerlan-k/league-system/models"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerBadTeam  = errors.New("player references a missing team")
)

type PlayerRepository interface {
	// CreateBatch inserts a whole roster, normally inside the same
	// transaction that created the team.
	CreateBatch(ctx context.Context, exec SQLExecutor, players []*models.Player) error
	GetByID(ctx context.Context, id int) (*models.Player, error)
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPlayerRepository) CreateBatch(ctx context.Context, exec SQLExecutor, players []*models.Player) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO players (team_id, full_name, document)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	for _, p := range players {
		err := executor.QueryRowContext(ctx, query, p.TeamID, p.FullName, p.Document).
			Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				return ErrPlayerBadTeam
			}
			return err
		}
	}
	return nil
}

func (r *postgresPlayerRepository) GetByID(ctx context.Context, id int) (*models.Player, error) {
	query := `
		SELECT id, team_id, full_name, document, photo_key, created_at
		FROM players
		WHERE id = $1`

	p := &models.Player{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.TeamID, &p.FullName, &p.Document, &p.PhotoKey, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresPlayerRepository) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	query := `
		SELECT id, team_id, full_name, document, photo_key, created_at
		FROM players
		WHERE team_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.FullName, &p.Document, &p.PhotoKey, &p.CreatedAt); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *postgresPlayerRepository) UpdatePhotoKey(ctx context.Context, id int, photoKey *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE players SET photo_key = $1 WHERE id = $2`, photoKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPlayerNotFound)
}
