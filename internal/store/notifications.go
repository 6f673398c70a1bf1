package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/id"
	"github.com/beenthereapp/beenthere-server/internal/sse"
)

// CreateNotification persists a notification and pushes it to the
// recipient's SSE stream.
func (s *Store) CreateNotification(ctx context.Context, n *domain.Notification) error {
	if n.UserID == "" {
		return fmt.Errorf("notification requires a recipient")
	}

	n.ID = id.MustGenerate("ntf")
	n.CreatedAt = time.Now()

	if err := s.Notifications.Create(ctx, n.ID, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	s.eventEmitter.Emit(sse.NewNotificationCreatedEvent(n))

	return nil
}

// ListNotificationsForUser returns a user's notifications, newest first.
func (s *Store) ListNotificationsForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	notifications, err := s.Notifications.ListByIndexPrefix(ctx, "user", userID+":")
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	slices.SortFunc(notifications, func(a, b *domain.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return notifications, nil
}

// MarkNotificationRead flags a notification as read.
// Marking an already-read notification is a no-op.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, notificationID string) error {
	n, err := s.Notifications.Get(ctx, notificationID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get notification: %w", err)
	}

	// Recipients can only touch their own inbox.
	if n.UserID != userID {
		return ErrNotFound
	}
	if n.Read {
		return nil
	}

	n.Read = true
	if err := s.Notifications.Update(ctx, n.ID, n); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	return nil
}

// ClearReadNotifications deletes all of a user's read notifications and
// reports how many were removed.
func (s *Store) ClearReadNotifications(ctx context.Context, userID string) (int, error) {
	notifications, err := s.Notifications.ListByIndexPrefix(ctx, "user", userID+":")
	if err != nil {
		return 0, fmt.Errorf("list notifications: %w", err)
	}

	cleared := 0
	for _, n := range notifications {
		if !n.Read {
			continue
		}
		if err := s.Notifications.Delete(ctx, n.ID); err != nil {
			return cleared, fmt.Errorf("delete notification: %w", err)
		}
		cleared++
	}

	return cleared, nil
}

// CountUnreadNotifications returns how many unread notifications a user has.
func (s *Store) CountUnreadNotifications(ctx context.Context, userID string) (int, error) {
	notifications, err := s.Notifications.ListByIndexPrefix(ctx, "user", userID+":")
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	count := 0
	for _, n := range notifications {
		if !n.Read {
			count++
		}
	}

	return count, nil
}
