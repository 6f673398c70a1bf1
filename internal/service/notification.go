package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	domainerrors "github.com/beenthereapp/beenthere-server/internal/errors"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

// NotificationService serves a user's notification inbox.
type NotificationService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewNotificationService creates a new notification service.
func NewNotificationService(st *store.Store, logger *slog.Logger) *NotificationService {
	return &NotificationService{
		store:  st,
		logger: logger,
	}
}

// List returns userID's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.store.ListNotificationsForUser(ctx, userID)
}

// MarkRead flags one of userID's notifications as read. Marking an
// already read notification is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	if err := s.store.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("notification not found")
		}
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// ClearRead removes all of userID's read notifications and reports how
// many were removed.
func (s *NotificationService) ClearRead(ctx context.Context, userID string) (int, error) {
	cleared, err := s.store.ClearReadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear read notifications: %w", err)
	}

	if cleared > 0 {
		s.logger.Info("cleared read notifications",
			"user_id", userID,
			"count", cleared,
		)
	}

	return cleared, nil
}

// UnreadCount returns how many of userID's notifications are unread.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.store.CountUnreadNotifications(ctx, userID)
}
