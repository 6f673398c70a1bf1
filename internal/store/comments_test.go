package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func TestCreateComment_BumpsThingCount(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Comment Target")
	require.Zero(t, thing.CommentCount)

	comment := &domain.Comment{
		ThingID:    thing.ID,
		AuthorID:   "user-a",
		AuthorName: "Commenter",
		Body:       "we should all go",
	}
	require.NoError(t, s.CreateComment(ctx, comment))

	got, err := s.GetThing(ctx, thing.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CommentCount)

	require.NoError(t, s.DeleteComment(ctx, comment.ID))
	// Deleting again is a no-op and must not double-decrement.
	require.NoError(t, s.DeleteComment(ctx, comment.ID))

	got, err = s.GetThing(ctx, thing.ID)
	require.NoError(t, err)
	assert.Zero(t, got.CommentCount)

	_, err = s.GetComment(ctx, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCreateComment_MissingThing(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	err := s.CreateComment(context.Background(), &domain.Comment{
		ThingID:  "thing-missing",
		AuthorID: "user-a",
		Body:     "hello?",
	})
	assert.ErrorIs(t, err, ErrThingNotFound)
}

func TestListCommentsByThing_OldestFirst(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Comment Thread")

	first := &domain.Comment{ThingID: thing.ID, AuthorID: "user-a", Body: "first"}
	require.NoError(t, s.CreateComment(ctx, first))
	second := &domain.Comment{ThingID: thing.ID, AuthorID: "user-b", Body: "second"}
	require.NoError(t, s.CreateComment(ctx, second))

	comments, err := s.ListCommentsByThing(ctx, thing.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "second", comments[1].Body)
}
