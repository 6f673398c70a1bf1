package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

func newInvitationFixture(t *testing.T) (*InvitationService, *store.Store, *captureSink) {
	t.Helper()

	st := newTestStore(t)
	dispatcher, sink := newTestDispatcher()
	social := NewSocialService(st, newTestFeedCache(), store.NewNoopEmitter(), testLogger())
	svc := NewInvitationService(st, social, dispatcher, testLogger(), "https://beenthere.example")
	return svc, st, sink
}

func TestCreateInvitation(t *testing.T) {
	svc, st, _ := newInvitationFixture(t)
	thing := createTestThing(t, st, "Sushi Saito")
	inviter := testUser("user-inviter", "Ines")

	resp, err := svc.CreateInvitation(context.Background(), inviter, CreateInvitationRequest{ThingID: thing.ID})
	require.NoError(t, err)

	assert.Len(t, resp.Code, 8)
	assert.Equal(t, "https://beenthere.example/join/"+resp.Code, resp.URL)
	assert.Equal(t, "user-inviter", resp.InviterID)
	assert.Empty(t, resp.InteractionID, "inviter has not logged the thing")

	// Once the inviter has logged the thing, new invitations carry it.
	in := logTestInteraction(t, st, "user-inviter", thing.ID, 5, domain.VisibilityFriends)
	resp2, err := svc.CreateInvitation(context.Background(), inviter, CreateInvitationRequest{ThingID: thing.ID})
	require.NoError(t, err)
	assert.Equal(t, in.ID, resp2.InteractionID)
}

func TestRedeemInvitation_Idempotent(t *testing.T) {
	svc, st, sink := newInvitationFixture(t)
	thing := createTestThing(t, st, "Faroe Islands")
	inviter := testUser("user-inviter", "Ines")
	redeemer := testUser("user-redeemer", "Rudy")

	resp, err := svc.CreateInvitation(context.Background(), inviter, CreateInvitationRequest{ThingID: thing.ID})
	require.NoError(t, err)

	req := RedeemInvitationRequest{Code: resp.Code, IsNewAccount: true}

	for range 2 {
		result, err := svc.RedeemInvitation(context.Background(), redeemer, req)
		require.NoError(t, err)
		assert.True(t, result.Redeemed)
		assert.Equal(t, thing.ID, result.ThingID)
		assert.Equal(t, "user-inviter", result.InviterID)
	}

	// Exactly one follow edge.
	following, err := st.ListFollowing(context.Background(), "user-redeemer")
	require.NoError(t, err)
	assert.Equal(t, []string{"user-inviter"}, following)

	// Exactly one interaction, completed and friends-visible.
	interactions, err := st.ListInteractionsByUser(context.Background(), "user-redeemer")
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Equal(t, thing.ID, interactions[0].ThingID)
	assert.Equal(t, domain.StateCompleted, interactions[0].State)
	assert.Equal(t, domain.VisibilityFriends, interactions[0].Visibility)

	// Exactly one recommendation edge back to the inviter.
	recs, err := st.ListRecommendationsReceived(context.Background(), "user-inviter")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "user-redeemer", recs[0].FromUserID)

	// The conversion notification fires at most once.
	converted := sink.byKind(domain.NotificationInviteConverted)
	require.Len(t, converted, 1)
	assert.Equal(t, "user-inviter", converted[0].UserID)

	// Usage is recorded once per redeemer.
	inv, err := st.GetInvitationByCode(context.Background(), resp.Code)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-redeemer"}, inv.UsedBy)
	assert.Equal(t, []string{"user-redeemer"}, inv.ConvertedUsers)
}

func TestRedeemInvitation_ExistingAccountNoConversion(t *testing.T) {
	svc, st, sink := newInvitationFixture(t)
	thing := createTestThing(t, st, "Kyoto")
	inviter := testUser("user-inviter", "Ines")

	resp, err := svc.CreateInvitation(context.Background(), inviter, CreateInvitationRequest{ThingID: thing.ID})
	require.NoError(t, err)

	result, err := svc.RedeemInvitation(context.Background(), testUser("user-old", "Olaf"), RedeemInvitationRequest{
		Code:         resp.Code,
		IsNewAccount: false,
	})
	require.NoError(t, err)
	assert.True(t, result.Redeemed)
	assert.Empty(t, sink.byKind(domain.NotificationInviteConverted))
}

func TestRedeemInvitation_UnknownCode(t *testing.T) {
	svc, st, sink := newInvitationFixture(t)

	result, err := svc.RedeemInvitation(context.Background(), testUser("user-redeemer", "Rudy"), RedeemInvitationRequest{
		Code: "ZZZZZZZZ",
	})
	require.NoError(t, err)
	assert.False(t, result.Redeemed)
	assert.Zero(t, sink.count())

	following, err := st.ListFollowing(context.Background(), "user-redeemer")
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestRedeemInvitation_OwnCode(t *testing.T) {
	svc, st, _ := newInvitationFixture(t)
	thing := createTestThing(t, st, "Mirror Lake")
	inviter := testUser("user-inviter", "Ines")

	resp, err := svc.CreateInvitation(context.Background(), inviter, CreateInvitationRequest{ThingID: thing.ID})
	require.NoError(t, err)

	result, err := svc.RedeemInvitation(context.Background(), inviter, RedeemInvitationRequest{Code: resp.Code})
	require.NoError(t, err)
	assert.False(t, result.Redeemed)
}
