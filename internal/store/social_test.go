package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFollow_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first, created, err := s.CreateFollow(ctx, "user-a", "user-b")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.CreateFollow(ctx, "user-a", "user-b")
	require.NoError(t, err)
	assert.False(t, created, "re-following returns the existing edge")
	assert.Equal(t, first.ID, second.ID)

	following, err := s.ListFollowing(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-b"}, following)
}

func TestCreateFollow_SelfRejected(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, _, err := s.CreateFollow(context.Background(), "user-a", "user-a")
	assert.Error(t, err)
}

func TestDeleteFollow(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, _, err := s.CreateFollow(ctx, "user-a", "user-b")
	require.NoError(t, err)

	following, err := s.IsFollowing(ctx, "user-a", "user-b")
	require.NoError(t, err)
	assert.True(t, following)

	require.NoError(t, s.DeleteFollow(ctx, "user-a", "user-b"))

	following, err = s.IsFollowing(ctx, "user-a", "user-b")
	require.NoError(t, err)
	assert.False(t, following)

	// Unfollowing again is a no-op.
	require.NoError(t, s.DeleteFollow(ctx, "user-a", "user-b"))

	ids, err := s.ListFollowing(ctx, "user-a")
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestListFollowers(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	_, _, err := s.CreateFollow(ctx, "user-a", "user-c")
	require.NoError(t, err)
	_, _, err = s.CreateFollow(ctx, "user-b", "user-c")
	require.NoError(t, err)

	followers, err := s.ListFollowers(ctx, "user-c")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"user-a", "user-b"}, followers)
}
