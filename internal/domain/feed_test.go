package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interactionAt(id, userID string, created time.Time, rating int) *Interaction {
	return &Interaction{
		Syncable: Syncable{
			ID:        id,
			CreatedAt: created,
			UpdatedAt: created,
		},
		UserID:     userID,
		ThingID:    "thing-x",
		State:      StateCompleted,
		Visibility: VisibilityFriends,
		Rating:     rating,
	}
}

func TestBuildFeedThing_OrderAndRecency(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	thing := &Thing{Syncable: Syncable{ID: "thing-x"}, Title: "Night Market", Category: CategoryPlace}

	// Deliberately out of order.
	i2 := interactionAt("int-2", "user-b", base.Add(time.Hour), 0)
	i1 := interactionAt("int-1", "user-a", base, 0)

	ft := BuildFeedThing(thing, []*Interaction{i2, i1}, "viewer")

	require.Len(t, ft.Interactions, 2)
	assert.Equal(t, "int-1", ft.Interactions[0].ID, "oldest first")
	assert.Equal(t, "int-2", ft.Interactions[1].ID)
	assert.Equal(t, base.Add(time.Hour), ft.LastActivityAt)
	assert.Nil(t, ft.ViewerInteraction)
}

func TestBuildFeedThing_AverageSkipsUnrated(t *testing.T) {
	base := time.Now()
	thing := &Thing{Syncable: Syncable{ID: "thing-x"}}

	ft := BuildFeedThing(thing, []*Interaction{
		interactionAt("int-1", "a", base, 4),
		interactionAt("int-2", "b", base.Add(time.Minute), 5),
		interactionAt("int-3", "c", base.Add(2*time.Minute), 0),
	}, "a")

	require.NotNil(t, ft.AverageRating)
	assert.InDelta(t, 4.5, *ft.AverageRating, 0.0001)
	require.NotNil(t, ft.ViewerInteraction)
	assert.Equal(t, "int-1", ft.ViewerInteraction.ID)
}

func TestBuildFeedThing_NoRatingsOmitsAverage(t *testing.T) {
	thing := &Thing{Syncable: Syncable{ID: "thing-x"}}
	ft := BuildFeedThing(thing, []*Interaction{
		interactionAt("int-1", "a", time.Now(), 0),
	}, "viewer")

	assert.Nil(t, ft.AverageRating)
}

func TestInteraction_LikeIdempotent(t *testing.T) {
	in := interactionAt("int-1", "a", time.Now(), 0)

	assert.True(t, in.AddLike("user-z"))
	assert.False(t, in.AddLike("user-z"), "second like is a no-op")
	assert.Len(t, in.LikedBy, 1)

	assert.True(t, in.RemoveLike("user-z"))
	assert.False(t, in.RemoveLike("user-z"), "second unlike is a no-op")
	assert.Empty(t, in.LikedBy)
}

func TestInvitation_RecordUse(t *testing.T) {
	inv := &Invitation{Code: "ABCD2345", InviterID: "user-a", ThingID: "thing-x"}

	assert.True(t, inv.RecordUse("user-b", true))
	assert.False(t, inv.RecordUse("user-b", true), "re-redemption is not a first use")

	assert.Equal(t, []string{"user-b"}, inv.UsedBy)
	assert.Equal(t, []string{"user-b"}, inv.ConvertedUsers)
}

func TestVisibility_VisibleTo(t *testing.T) {
	assert.True(t, VisibilityPrivate.VisibleTo("user-a", "user-a"), "owner always sees own")
	assert.False(t, VisibilityPrivate.VisibleTo("user-b", "user-a"))
	assert.True(t, VisibilityFriends.VisibleTo("user-b", "user-a"))
}

func TestTagStatus_Terminal(t *testing.T) {
	assert.False(t, TagPending.Terminal())
	assert.True(t, TagAccepted.Terminal())
	assert.True(t, TagDeclined.Terminal())
}
