package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

// setupTestStore creates a temporary store for testing
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "beenthere-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := New(dbPath, nil, NewNoopEmitter())
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

// createTestThing resolves a manual catalog entry and returns it.
func createTestThing(t *testing.T, s *Store, title string) *domain.Thing {
	t.Helper()

	thing, _, err := s.ResolveManualThing(context.Background(), &domain.Thing{
		Title:     title,
		Category:  testCategory,
		CreatedBy: "user-test",
	})
	require.NoError(t, err)
	return thing
}

// testCategory keeps test fixtures on one category.
const testCategory = domain.CategoryPlace

func TestNotificationLifecycle(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	require.NoError(t, s.CreateNotification(ctx, &domain.Notification{
		UserID:  "user-a",
		Kind:    domain.NotificationRecommendationSaved,
		Message: "someone saved your rec",
	}))
	require.NoError(t, s.CreateNotification(ctx, &domain.Notification{
		UserID:  "user-a",
		Kind:    domain.NotificationInviteConverted,
		Message: "a friend joined",
	}))
	require.NoError(t, s.CreateNotification(ctx, &domain.Notification{
		UserID:  "user-b",
		Kind:    domain.NotificationTagReceived,
		Message: "you were tagged",
	}))

	inbox, err := s.ListNotificationsForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, inbox, 2)

	unread, err := s.CountUnreadNotifications(ctx, "user-a")
	require.NoError(t, err)
	require.Equal(t, 2, unread)

	require.NoError(t, s.MarkNotificationRead(ctx, "user-a", inbox[0].ID))
	// Second mark is a no-op.
	require.NoError(t, s.MarkNotificationRead(ctx, "user-a", inbox[0].ID))

	// Another user cannot read someone else's inbox entry.
	require.Error(t, s.MarkNotificationRead(ctx, "user-b", inbox[1].ID))

	unread, err = s.CountUnreadNotifications(ctx, "user-a")
	require.NoError(t, err)
	require.Equal(t, 1, unread)
}

func TestClearReadNotifications(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	for _, msg := range []string{"first", "second", "third"} {
		require.NoError(t, s.CreateNotification(ctx, &domain.Notification{
			UserID:  "user-a",
			Kind:    domain.NotificationTagReceived,
			Message: msg,
		}))
	}

	inbox, err := s.ListNotificationsForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, inbox, 3)

	require.NoError(t, s.MarkNotificationRead(ctx, "user-a", inbox[0].ID))
	require.NoError(t, s.MarkNotificationRead(ctx, "user-a", inbox[1].ID))
	survivorID := inbox[2].ID

	cleared, err := s.ClearReadNotifications(ctx, "user-a")
	require.NoError(t, err)
	require.Equal(t, 2, cleared)

	// Only the unread notification survives.
	inbox, err = s.ListNotificationsForUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Equal(t, survivorID, inbox[0].ID)
	require.False(t, inbox[0].Read)

	// Clearing again removes nothing.
	cleared, err = s.ClearReadNotifications(ctx, "user-a")
	require.NoError(t, err)
	require.Equal(t, 0, cleared)
}
