package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yerlan-k/league-system/models"
	"github.com/yerlan-k/league-system/repositories"
)

type NotificationService interface {
	List(ctx context.Context, userID int, includeDismissed bool) ([]models.Notification, error)
	// Dismiss marks a notification as read. Users can only dismiss
	// their own notifications.
	Dismiss(ctx context.Context, id, userID int) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
}

func NewNotificationService(notificationRepo repositories.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(ctx context.Context, userID int, includeDismissed bool) ([]models.Notification, error) {
	notifications, err := s.notificationRepo.ListByUser(ctx, userID, includeDismissed)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) Dismiss(ctx context.Context, id, userID int) error {
	if err := s.notificationRepo.Dismiss(ctx, id, userID); err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to dismiss notification %d: %w", id, err)
	}
	return nil
}
