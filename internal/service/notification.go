package service

import (
	"context"

	"studyledger/internal/domain"
	"studyledger/internal/repository"
)

// DefaultNotificationLimit is how many notifications a listing shows
const DefaultNotificationLimit = 10

// NotificationService exposes a user's notifications
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// ListRecent returns the newest notifications of the user
func (s *NotificationService) ListRecent(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return s.notificationRepo.ListRecent(ctx, userID, limit)
}

// MarkAllRead marks every notification of the user as read
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
