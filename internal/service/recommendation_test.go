package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func TestCreateRecommendation_IdempotentSingleNotification(t *testing.T) {
	st := newTestStore(t)
	dispatcher, sink := newTestDispatcher()
	svc := NewRecommendationService(st, dispatcher, testLogger())

	thing := createTestThing(t, st, "Noma")
	alice := testUser("user-alice", "Alice")

	req := CreateRecommendationRequest{
		FromUserID: "user-alice",
		ToUserID:   "user-bob",
		ThingID:    thing.ID,
		Message:    "you have to go",
	}

	first, err := svc.CreateRecommendation(context.Background(), alice, req)
	require.NoError(t, err)

	second, err := svc.CreateRecommendation(context.Background(), alice, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)

	saved := sink.byKind(domain.NotificationRecommendationSaved)
	require.Len(t, saved, 1, "repeat creation must not notify again")
	assert.Equal(t, "user-alice", saved[0].UserID)
	assert.Equal(t, "user-bob", saved[0].ActorID)
}

func TestCreateRecommendation_SelfRejected(t *testing.T) {
	st := newTestStore(t)
	dispatcher, _ := newTestDispatcher()
	svc := NewRecommendationService(st, dispatcher, testLogger())

	thing := createTestThing(t, st, "Solo Trip")

	_, err := svc.CreateRecommendation(context.Background(), testUser("user-alice", "Alice"), CreateRecommendationRequest{
		FromUserID: "user-alice",
		ToUserID:   "user-alice",
		ThingID:    thing.ID,
	})
	assert.Error(t, err)
}

func TestCreateRecommendation_CallerMustParticipate(t *testing.T) {
	st := newTestStore(t)
	dispatcher, _ := newTestDispatcher()
	svc := NewRecommendationService(st, dispatcher, testLogger())

	thing := createTestThing(t, st, "Gossip")

	_, err := svc.CreateRecommendation(context.Background(), testUser("user-mallory", "Mallory"), CreateRecommendationRequest{
		FromUserID: "user-alice",
		ToUserID:   "user-bob",
		ThingID:    thing.ID,
	})
	assert.Error(t, err)
}

func TestCreateRecommendation_MissingThing(t *testing.T) {
	st := newTestStore(t)
	dispatcher, sink := newTestDispatcher()
	svc := NewRecommendationService(st, dispatcher, testLogger())

	_, err := svc.CreateRecommendation(context.Background(), testUser("user-alice", "Alice"), CreateRecommendationRequest{
		FromUserID: "user-alice",
		ToUserID:   "user-bob",
		ThingID:    "thing-missing",
	})
	assert.Error(t, err)
	assert.Zero(t, sink.count())
}
