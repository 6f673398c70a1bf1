package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func testTag(interactionID, thingID string) *domain.Tag {
	return &domain.Tag{
		SourceInteractionID: interactionID,
		TaggerID:            "user-a",
		TaggerName:          "Tagger",
		TaggedUserID:        "user-b",
		TaggedName:          "Tagged",
		ThingID:             thingID,
		State:               domain.StateCompleted,
		Rating:              5,
	}
}

func TestCreateTag_OnePerInteractionAndUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Tag Target")
	in, _, err := s.UpsertInteraction(ctx, testInteraction("user-a", thing.ID))
	require.NoError(t, err)

	tag := testTag(in.ID, thing.ID)
	require.NoError(t, s.CreateTag(ctx, tag))
	assert.Equal(t, domain.TagPending, tag.Status)

	err = s.CreateTag(ctx, testTag(in.ID, thing.ID))
	assert.ErrorIs(t, err, ErrTagExists)

	// Tagging a different user on the same interaction is fine.
	other := testTag(in.ID, thing.ID)
	other.TaggedUserID = "user-c"
	require.NoError(t, s.CreateTag(ctx, other))
}

func TestResolveTag_TerminalOnce(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Tag Resolve")
	in, _, err := s.UpsertInteraction(ctx, testInteraction("user-a", thing.ID))
	require.NoError(t, err)

	tag := testTag(in.ID, thing.ID)
	require.NoError(t, s.CreateTag(ctx, tag))

	resolved, err := s.ResolveTag(ctx, tag.ID, domain.TagAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.TagAccepted, resolved.Status)

	// Re-acceptance and late decline are both rejected.
	_, err = s.ResolveTag(ctx, tag.ID, domain.TagAccepted)
	assert.ErrorIs(t, err, ErrTagResolved)
	_, err = s.ResolveTag(ctx, tag.ID, domain.TagDeclined)
	assert.ErrorIs(t, err, ErrTagResolved)

	// Pending is not a terminal status.
	_, err = s.ResolveTag(ctx, tag.ID, domain.TagPending)
	assert.Error(t, err)
}

func TestListPendingTagsForUser(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	thing := createTestThing(t, s, "Tag Inbox")
	in, _, err := s.UpsertInteraction(ctx, testInteraction("user-a", thing.ID))
	require.NoError(t, err)

	first := testTag(in.ID, thing.ID)
	require.NoError(t, s.CreateTag(ctx, first))

	otherThing := createTestThing(t, s, "Tag Inbox Two")
	otherIn, _, err := s.UpsertInteraction(ctx, testInteraction("user-a", otherThing.ID))
	require.NoError(t, err)

	second := testTag(otherIn.ID, otherThing.ID)
	require.NoError(t, s.CreateTag(ctx, second))

	pending, err := s.ListPendingTagsForUser(ctx, "user-b")
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = s.ResolveTag(ctx, first.ID, domain.TagDeclined)
	require.NoError(t, err)

	pending, err = s.ListPendingTagsForUser(ctx, "user-b")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}
