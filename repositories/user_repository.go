package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/yerlan-k/league-system/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserEmailConflict = errors.New("email address is already in use")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	ListAdmins(ctx context.Context) ([]*models.User, error)
	SetActive(ctx context.Context, id int, active bool) error
}

type postgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, u *models.User) error {
	query := `
		INSERT INTO users (email, password_hash, admin, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Admin, u.Active,
	).Scan(&u.ID, &u.CreatedAt)

	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrUserEmailConflict
	}
	return err
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getByQuery(ctx, `SELECT id, email, password_hash, admin, active, created_at FROM users WHERE id = $1`, id)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getByQuery(ctx, `SELECT id, email, password_hash, admin, active, created_at FROM users WHERE email = $1`, email)
}

func (r *postgresUserRepository) getByQuery(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Admin, &u.Active, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *postgresUserRepository) ListAdmins(ctx context.Context) ([]*models.User, error) {
	query := `
		SELECT id, email, password_hash, admin, active, created_at
		FROM users
		WHERE admin = TRUE AND active = TRUE
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := make([]*models.User, 0)
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Admin, &u.Active, &u.CreatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, u)
	}
	return admins, rows.Err()
}

func (r *postgresUserRepository) SetActive(ctx context.Context, id int, active bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrUserNotFound)
}
