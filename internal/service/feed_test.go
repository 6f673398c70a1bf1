package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

func newFeedFixture(t *testing.T) (*FeedService, *SocialService, *store.Store) {
	t.Helper()

	st := newTestStore(t)
	feedCache := newTestFeedCache()
	feed := NewFeedService(st, feedCache, testLogger())
	social := NewSocialService(st, feedCache, store.NewNoopEmitter(), testLogger())
	return feed, social, st
}

func follow(t *testing.T, social *SocialService, followerID, followeeID string) {
	t.Helper()
	_, err := social.Follow(context.Background(), followerID, followeeID)
	require.NoError(t, err)
}

func TestBuildFeed_GroupsByThing(t *testing.T) {
	feed, social, st := newFeedFixture(t)
	thing := createTestThing(t, st, "Tsukiji Market")

	i1 := logTestInteraction(t, st, "user-a", thing.ID, 0, domain.VisibilityFriends)
	time.Sleep(5 * time.Millisecond)
	i2 := logTestInteraction(t, st, "user-b", thing.ID, 0, domain.VisibilityFriends)

	follow(t, social, "user-viewer", "user-a")
	follow(t, social, "user-viewer", "user-b")

	result, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)
	require.Len(t, result, 1, "both interactions group under one thing")

	group := result[0]
	assert.Equal(t, thing.ID, group.Thing.ID)
	require.Len(t, group.Interactions, 2)
	assert.Equal(t, i1.ID, group.Interactions[0].ID, "oldest first within a group")
	assert.Equal(t, i2.ID, group.Interactions[1].ID)
	assert.True(t, i2.CreatedAt.Equal(group.LastActivityAt))
	assert.Nil(t, group.ViewerInteraction)
}

func TestBuildFeed_AverageRating(t *testing.T) {
	feed, social, st := newFeedFixture(t)
	thing := createTestThing(t, st, "The Brutalist")

	logTestInteraction(t, st, "user-a", thing.ID, 4, domain.VisibilityFriends)
	logTestInteraction(t, st, "user-b", thing.ID, 5, domain.VisibilityFriends)
	logTestInteraction(t, st, "user-c", thing.ID, 0, domain.VisibilityFriends)

	follow(t, social, "user-viewer", "user-a")
	follow(t, social, "user-viewer", "user-b")
	follow(t, social, "user-viewer", "user-c")

	result, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)
	require.Len(t, result, 1)

	require.NotNil(t, result[0].AverageRating, "unrated interactions are excluded, not counted as zero")
	assert.InDelta(t, 4.5, *result[0].AverageRating, 0.001)
}

func TestBuildFeed_VisibilityFilter(t *testing.T) {
	feed, social, st := newFeedFixture(t)
	public := createTestThing(t, st, "Shared Spot")
	secret := createTestThing(t, st, "Secret Spot")

	logTestInteraction(t, st, "user-a", public.ID, 0, domain.VisibilityFriends)
	logTestInteraction(t, st, "user-a", secret.ID, 0, domain.VisibilityPrivate)
	logTestInteraction(t, st, "user-viewer", secret.ID, 0, domain.VisibilityPrivate)

	follow(t, social, "user-viewer", "user-a")

	result, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)
	require.Len(t, result, 2)

	for _, group := range result {
		for _, in := range group.Interactions {
			// Another user's private interaction never leaks into the feed.
			if in.UserID == "user-a" && in.ThingID == secret.ID {
				t.Fatalf("private interaction leaked into feed")
			}
		}
		if group.Thing.ID == secret.ID {
			require.Len(t, group.Interactions, 1)
			assert.Equal(t, "user-viewer", group.Interactions[0].UserID, "own private interactions stay visible")
		}
	}
}

func TestBuildFeed_NewestGroupFirst(t *testing.T) {
	feed, social, st := newFeedFixture(t)
	older := createTestThing(t, st, "Older Thing")
	newer := createTestThing(t, st, "Newer Thing")

	logTestInteraction(t, st, "user-a", older.ID, 0, domain.VisibilityFriends)
	time.Sleep(5 * time.Millisecond)
	logTestInteraction(t, st, "user-a", newer.ID, 0, domain.VisibilityFriends)

	follow(t, social, "user-viewer", "user-a")

	result, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, newer.ID, result[0].Thing.ID)
	assert.Equal(t, older.ID, result[1].Thing.ID)
}

func TestBuildFeed_FollowReflectedImmediately(t *testing.T) {
	feed, social, st := newFeedFixture(t)
	thing := createTestThing(t, st, "Hidden Gem")
	logTestInteraction(t, st, "user-x", thing.ID, 0, domain.VisibilityFriends)

	// Populate the viewer's cache before the follow.
	before, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)
	assert.Empty(t, before)

	follow(t, social, "user-viewer", "user-x")

	after, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)
	require.Len(t, after, 1, "new follow must be reflected before TTL expiry")
	assert.Equal(t, thing.ID, after[0].Thing.ID)
}

func TestBuildFeed_CachedBetweenCalls(t *testing.T) {
	feed, social, st := newFeedFixture(t)
	thing := createTestThing(t, st, "Cache Me")
	logTestInteraction(t, st, "user-a", thing.ID, 0, domain.VisibilityFriends)
	follow(t, social, "user-viewer", "user-a")

	first, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)

	// A second interaction appears only after invalidation or TTL; the
	// unchanged follow set serves the cached copy.
	logTestInteraction(t, st, "user-a", createTestThing(t, st, "Later Thing").ID, 0, domain.VisibilityFriends)

	second, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)
	assert.Len(t, second, len(first))

	feed.InvalidateViewer("user-viewer")

	third, err := feed.BuildFeed(context.Background(), "user-viewer")
	require.NoError(t, err)
	assert.Len(t, third, 2)
}
