package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yerlan-k/league-system/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListByUser(ctx context.Context, userID int, includeDismissed bool) ([]models.Notification, error)
	// Dismiss is scoped to the owning user so one admin cannot clear
	// another's inbox.
	Dismiss(ctx context.Context, id, userID int) error
}

type postgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message)
		VALUES ($1, $2)
		RETURNING id, dismissed, created_at`

	return r.db.QueryRowContext(ctx, query, n.UserID, n.Message).
		Scan(&n.ID, &n.Dismissed, &n.CreatedAt)
}

func (r *postgresNotificationRepository) ListByUser(ctx context.Context, userID int, includeDismissed bool) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, message, dismissed, created_at
		FROM notifications
		WHERE user_id = $1`
	if !includeDismissed {
		query += " AND dismissed = FALSE"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Dismissed, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *postgresNotificationRepository) Dismiss(ctx context.Context, id, userID int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET dismissed = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrNotificationNotFound)
}
