package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/cache"
	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "beenthere-service-test-*")
	require.NoError(t, err)

	st, err := store.New(tmpDir, nil, store.NewNoopEmitter())
	require.NoError(t, err)

	t.Cleanup(func() {
		st.Close()
		os.RemoveAll(tmpDir)
	})

	return st
}

func newTestFeedCache() *FeedCache {
	return cache.New[[]*domain.FeedThing](time.Minute)
}

// captureSink records delivered notifications for assertions.
type captureSink struct {
	mu        sync.Mutex
	delivered []*domain.Notification
}

func (c *captureSink) Deliver(_ context.Context, n *domain.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivered = append(c.delivered, n)
}

func (c *captureSink) byKind(kind domain.NotificationKind) []*domain.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	var matched []*domain.Notification
	for _, n := range c.delivered {
		if n.Kind == kind {
			matched = append(matched, n)
		}
	}
	return matched
}

func (c *captureSink) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.delivered)
}

func newTestDispatcher() (*Dispatcher, *captureSink) {
	sink := &captureSink{}
	return NewDispatcher(sink, testLogger()), sink
}

func createTestThing(t *testing.T, st *store.Store, title string) *domain.Thing {
	t.Helper()

	thing, _, err := st.ResolveManualThing(context.Background(), &domain.Thing{
		Title:     title,
		Category:  domain.CategoryPlace,
		CreatedBy: "user-creator",
	})
	require.NoError(t, err)
	return thing
}

func testUser(id, name string) *domain.User {
	return &domain.User{ID: id, DisplayName: name}
}

func logTestInteraction(t *testing.T, st *store.Store, userID, thingID string, rating int, visibility domain.Visibility) *domain.Interaction {
	t.Helper()

	saved, _, err := st.UpsertInteraction(context.Background(), &domain.Interaction{
		UserID:     userID,
		UserName:   userID,
		ThingID:    thingID,
		State:      domain.StateCompleted,
		Visibility: visibility,
		Rating:     rating,
	})
	require.NoError(t, err)
	return saved
}
