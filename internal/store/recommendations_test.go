package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func TestFindOrCreateRecommendation_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Rec Target")

	rec := &domain.Recommendation{
		FromUserID: "user-a",
		ToUserID:   "user-b",
		ThingID:    thing.ID,
		Message:    "you'd love this",
	}

	first, created, err := s.FindOrCreateRecommendation(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotEmpty(t, first.ID)

	second, created, err := s.FindOrCreateRecommendation(ctx, &domain.Recommendation{
		FromUserID: "user-a",
		ToUserID:   "user-b",
		ThingID:    thing.ID,
		Message:    "different message, same triple",
	})
	require.NoError(t, err)
	assert.False(t, created, "identical triple returns the existing edge")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "you'd love this", second.Message)

	// Reversed direction is a distinct edge.
	reversed, created, err := s.FindOrCreateRecommendation(ctx, &domain.Recommendation{
		FromUserID: "user-b",
		ToUserID:   "user-a",
		ThingID:    thing.ID,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, reversed.ID)
}

func TestListRecommendations(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thingX := createTestThing(t, s, "Rec List X")
	thingY := createTestThing(t, s, "Rec List Y")

	_, _, err := s.FindOrCreateRecommendation(ctx, &domain.Recommendation{
		FromUserID: "user-a", ToUserID: "user-b", ThingID: thingX.ID,
	})
	require.NoError(t, err)
	_, _, err = s.FindOrCreateRecommendation(ctx, &domain.Recommendation{
		FromUserID: "user-c", ToUserID: "user-b", ThingID: thingY.ID,
	})
	require.NoError(t, err)

	received, err := s.ListRecommendationsReceived(ctx, "user-b")
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.False(t, received[0].CreatedAt.Before(received[1].CreatedAt), "newest first")

	given, err := s.ListRecommendationsGiven(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, given, 1)
	assert.Equal(t, thingX.ID, given[0].ThingID)
}
