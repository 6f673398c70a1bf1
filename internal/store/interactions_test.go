package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func testInteraction(userID, thingID string) *domain.Interaction {
	return &domain.Interaction{
		UserID:     userID,
		UserName:   "Tester",
		ThingID:    thingID,
		State:      domain.StateCompleted,
		Visibility: domain.VisibilityFriends,
	}
}

func TestUpsertInteraction_OnePerUserThing(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Upsert Target")

	first, created, err := s.UpsertInteraction(ctx, testInteraction("user-a", thing.ID))
	require.NoError(t, err)
	assert.True(t, created)

	update := testInteraction("user-a", thing.ID)
	update.State = domain.StateBucketList
	update.Rating = 4
	update.Notes = "second pass"

	second, created, err := s.UpsertInteraction(ctx, update)
	require.NoError(t, err)
	assert.False(t, created, "re-logging must update in place")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.StateBucketList, second.State)
	assert.Equal(t, 4, second.Rating)
	assert.Equal(t, "second pass", second.Notes)

	// Exactly one interaction exists for the pair.
	interactions, err := s.ListInteractionsByUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, interactions, 1)
}

func TestUpsertInteraction_ConcurrentSamePair(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Contended Target")

	const callers = 16
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.UpsertInteraction(ctx, testInteraction("user-a", thing.ID))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	// Duplicate concurrent logs converge; none of them surface a
	// transaction conflict.
	for err := range errs {
		require.NoError(t, err)
	}

	interactions, err := s.ListInteractionsByUser(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, interactions, 1)
}

func TestUpsertInteraction_RevivesSoftDeleted(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Revive Target")

	first, _, err := s.UpsertInteraction(ctx, testInteraction("user-a", thing.ID))
	require.NoError(t, err)

	require.NoError(t, s.DeleteInteraction(ctx, first.ID))

	_, err = s.GetInteraction(ctx, first.ID)
	assert.ErrorIs(t, err, ErrInteractionNotFound)

	revived, created, err := s.UpsertInteraction(ctx, testInteraction("user-a", thing.ID))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, revived.ID, "re-log revives the same record")
	assert.False(t, revived.IsDeleted())
}

func TestLikeInteraction_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Like Target")

	in, _, err := s.UpsertInteraction(ctx, testInteraction("user-a", thing.ID))
	require.NoError(t, err)

	added, err := s.LikeInteraction(ctx, in.ID, "user-b")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.LikeInteraction(ctx, in.ID, "user-b")
	require.NoError(t, err)
	assert.False(t, added, "second like is a no-op")

	got, err := s.GetInteraction(ctx, in.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-b"}, got.LikedBy)

	removed, err := s.UnlikeInteraction(ctx, in.ID, "user-b")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.UnlikeInteraction(ctx, in.ID, "user-b")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListInteractionsForUsers(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thingX := createTestThing(t, s, "Shared Thing X")
	thingY := createTestThing(t, s, "Shared Thing Y")

	_, _, err := s.UpsertInteraction(ctx, testInteraction("user-a", thingX.ID))
	require.NoError(t, err)
	_, _, err = s.UpsertInteraction(ctx, testInteraction("user-b", thingX.ID))
	require.NoError(t, err)
	_, _, err = s.UpsertInteraction(ctx, testInteraction("user-b", thingY.ID))
	require.NoError(t, err)
	_, _, err = s.UpsertInteraction(ctx, testInteraction("user-c", thingY.ID))
	require.NoError(t, err)

	interactions, err := s.ListInteractionsForUsers(ctx, []string{"user-a", "user-b"})
	require.NoError(t, err)
	assert.Len(t, interactions, 3)

	byThing, err := s.ListInteractionsByThing(ctx, thingY.ID)
	require.NoError(t, err)
	assert.Len(t, byThing, 2)
}
