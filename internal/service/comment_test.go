package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func TestAddComment_NotifiesParticipants(t *testing.T) {
	st := newTestStore(t)
	dispatcher, sink := newTestDispatcher()
	svc := NewCommentService(st, dispatcher, testLogger())

	thing := createTestThing(t, st, "Commented Thing")
	logTestInteraction(t, st, "user-a", thing.ID, 0, domain.VisibilityFriends)
	logTestInteraction(t, st, "user-b", thing.ID, 0, domain.VisibilityFriends)

	comment, err := svc.AddComment(context.Background(), testUser("user-a", "Ada"), AddCommentRequest{
		ThingID: thing.ID,
		Body:    "we should all go back",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-a", comment.AuthorID)

	// Only the other participant hears about it.
	added := sink.byKind(domain.NotificationCommentAdded)
	require.Len(t, added, 1)
	assert.Equal(t, "user-b", added[0].UserID)
	assert.Equal(t, "user-a", added[0].ActorID)
}

func TestAddComment_MissingThing(t *testing.T) {
	st := newTestStore(t)
	dispatcher, _ := newTestDispatcher()
	svc := NewCommentService(st, dispatcher, testLogger())

	_, err := svc.AddComment(context.Background(), testUser("user-a", "Ada"), AddCommentRequest{
		ThingID: "thing-missing",
		Body:    "hello?",
	})
	assert.Error(t, err)
}

func TestDeleteComment_AuthorOnly(t *testing.T) {
	st := newTestStore(t)
	dispatcher, _ := newTestDispatcher()
	svc := NewCommentService(st, dispatcher, testLogger())

	thing := createTestThing(t, st, "Contested Thread")
	comment, err := svc.AddComment(context.Background(), testUser("user-a", "Ada"), AddCommentRequest{
		ThingID: thing.ID,
		Body:    "mine",
	})
	require.NoError(t, err)

	assert.Error(t, svc.DeleteComment(context.Background(), "user-b", comment.ID))
	assert.NoError(t, svc.DeleteComment(context.Background(), "user-a", comment.ID))
}
