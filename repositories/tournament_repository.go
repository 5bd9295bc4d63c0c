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
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict")
)

type ListTournamentsFilter struct {
	Category *models.TournamentCategory
	Status   *models.TournamentStatus
	Limit    int
	Offset   int
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error)
	Update(ctx context.Context, tournament *models.Tournament) error
	Delete(ctx context.Context, id int) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments
			(name, category, status, max_teams, registration_deadline, progression, selected_phases)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.Category, t.Status, t.MaxTeams, t.RegistrationDeadline,
		t.Progression, pq.Array(phaseTypesToStrings(t.SelectedPhases)),
	).Scan(&t.ID, &t.CreatedAt)

	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, category, status, max_teams, registration_deadline,
		       progression, selected_phases, created_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var selected pq.StringArray
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Category, &t.Status, &t.MaxTeams, &t.RegistrationDeadline,
		&t.Progression, &selected, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	t.SelectedPhases = stringsToPhaseTypes(selected)
	return t, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.Tournament, error) {
	query := `
		SELECT id, name, category, status, max_teams, registration_deadline,
		       progression, selected_phases, created_at
		FROM tournaments
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Category != nil {
		query += fmt.Sprintf(" AND category = $%d", argID)
		args = append(args, *filter.Category)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		var selected pq.StringArray
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.Category, &t.Status, &t.MaxTeams, &t.RegistrationDeadline,
			&t.Progression, &selected, &t.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		t.SelectedPhases = stringsToPhaseTypes(selected)
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments SET
			name = $1,
			category = $2,
			status = $3,
			max_teams = $4,
			registration_deadline = $5,
			selected_phases = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		t.Name, t.Category, t.Status, t.MaxTeams, t.RegistrationDeadline,
		pq.Array(phaseTypesToStrings(t.SelectedPhases)), t.ID,
	)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrTournamentNameConflict
	}
	return err
}

func phaseTypesToStrings(phases []models.PhaseType) []string {
	out := make([]string, len(phases))
	for i, p := range phases {
		out[i] = string(p)
	}
	return out
}

func stringsToPhaseTypes(values []string) []models.PhaseType {
	out := make([]models.PhaseType, len(values))
	for i, v := range values {
		out[i] = models.PhaseType(v)
	}
	return out
}
