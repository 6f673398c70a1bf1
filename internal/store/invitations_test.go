package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/id"
)

func testInvitation(t *testing.T, code, inviterID, thingID string) *domain.Invitation {
	t.Helper()

	inv := &domain.Invitation{
		Code:        code,
		InviterID:   inviterID,
		InviterName: "Inviter",
		ThingID:     thingID,
	}
	inv.ID = id.MustGenerate("inv")
	inv.InitTimestamps()
	return inv
}

func TestCreateInvitation_CodeCollision(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Invite Target")

	require.NoError(t, s.CreateInvitation(ctx, testInvitation(t, "CODE2345", "user-a", thing.ID)))

	err := s.CreateInvitation(ctx, testInvitation(t, "CODE2345", "user-b", thing.ID))
	assert.ErrorIs(t, err, ErrInvitationCodeExists)
}

func TestGetInvitationByCode(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Invite Lookup")

	created := testInvitation(t, "LOOKUP99", "user-a", thing.ID)
	require.NoError(t, s.CreateInvitation(ctx, created))

	inv, err := s.GetInvitationByCode(ctx, "LOOKUP99")
	require.NoError(t, err)
	assert.Equal(t, created.ID, inv.ID)
	assert.Equal(t, "user-a", inv.InviterID)

	_, err = s.GetInvitationByCode(ctx, "MISSING1")
	assert.ErrorIs(t, err, ErrInvitationNotFound)
}

func TestRecordInvitationUse_Idempotent(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Invite Redeem")

	require.NoError(t, s.CreateInvitation(ctx, testInvitation(t, "REDEEM77", "user-a", thing.ID)))

	inv, firstUse, err := s.RecordInvitationUse(ctx, "REDEEM77", "user-b", true)
	require.NoError(t, err)
	assert.True(t, firstUse)
	assert.Equal(t, []string{"user-b"}, inv.UsedBy)
	assert.Equal(t, []string{"user-b"}, inv.ConvertedUsers)

	inv, firstUse, err = s.RecordInvitationUse(ctx, "REDEEM77", "user-b", true)
	require.NoError(t, err)
	assert.False(t, firstUse, "repeat redemption is not a first use")
	assert.Len(t, inv.UsedBy, 1)
	assert.Len(t, inv.ConvertedUsers, 1)

	// A different user can still redeem the same code.
	inv, firstUse, err = s.RecordInvitationUse(ctx, "REDEEM77", "user-c", false)
	require.NoError(t, err)
	assert.True(t, firstUse)
	assert.Len(t, inv.UsedBy, 2)
	assert.Len(t, inv.ConvertedUsers, 1, "existing accounts are not conversions")
}

func TestListInvitationsByInviter(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Invite List")

	require.NoError(t, s.CreateInvitation(ctx, testInvitation(t, "LIST0001", "user-a", thing.ID)))
	require.NoError(t, s.CreateInvitation(ctx, testInvitation(t, "LIST0002", "user-a", thing.ID)))
	require.NoError(t, s.CreateInvitation(ctx, testInvitation(t, "LIST0003", "user-b", thing.ID)))

	invitations, err := s.ListInvitationsByInviter(ctx, "user-a")
	require.NoError(t, err)
	assert.Len(t, invitations, 2)
}
