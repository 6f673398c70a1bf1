package domain

import "slices"

// InteractionState tracks where an item sits in a user's relationship to it.
type InteractionState string

const (
	// StateBucketList means the user wants to experience the thing.
	StateBucketList InteractionState = "bucket_list"
	// StateCompleted means the user has experienced the thing.
	StateCompleted InteractionState = "completed"
)

// Valid checks if the state is valid. Transitions between valid states
// are unconstrained; either state is reachable from the other.
func (s InteractionState) Valid() bool {
	switch s {
	case StateBucketList, StateCompleted:
		return true
	default:
		return false
	}
}

// Visibility controls who may see an interaction.
type Visibility string

const (
	// VisibilityPrivate restricts the interaction to its owner.
	VisibilityPrivate Visibility = "private"
	// VisibilityFriends shows the interaction to followers of the owner.
	VisibilityFriends Visibility = "friends"
)

// Valid checks if the visibility is valid.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityFriends:
		return true
	default:
		return false
	}
}

// VisibleTo reports whether a viewer may see an interaction with this
// visibility authored by ownerID.
func (v Visibility) VisibleTo(viewerID, ownerID string) bool {
	if viewerID == ownerID {
		return true
	}
	return v == VisibilityFriends
}

// Interaction is one user's relationship to one Thing.
// Invariant: at most one interaction exists per (UserID, ThingID) pair.
// Subsequent logging actions update the existing record in place.
type Interaction struct {
	Syncable
	UserID       string           `json:"user_id"`
	UserName     string           `json:"user_name"` // denormalized for feed rendering without joins
	ThingID      string           `json:"thing_id"`
	State        InteractionState `json:"state"`
	Visibility   Visibility       `json:"visibility"`
	Rating       int              `json:"rating,omitempty"` // 1-5, zero means unrated
	Notes        string           `json:"notes,omitempty"`
	Content      string           `json:"content,omitempty"`
	PhotoPaths   []string         `json:"photo_paths,omitempty"` // opaque paths, storage is external
	LikedBy      []string         `json:"liked_by,omitempty"`
	CommentCount int              `json:"comment_count"` // always zero: comments attach to Things, the count lives there
}

// AddLike records a like from userID. Idempotent set-add.
// Returns true if the like was newly added.
func (i *Interaction) AddLike(userID string) bool {
	if slices.Contains(i.LikedBy, userID) {
		return false
	}
	i.LikedBy = append(i.LikedBy, userID)
	return true
}

// RemoveLike removes userID's like. Idempotent set-remove.
// Returns true if a like was actually removed.
func (i *Interaction) RemoveLike(userID string) bool {
	before := len(i.LikedBy)
	i.LikedBy = slices.DeleteFunc(i.LikedBy, func(id string) bool {
		return id == userID
	})
	return len(i.LikedBy) != before
}

// IsRated reports whether the interaction carries a positive rating.
func (i *Interaction) IsRated() bool {
	return i.Rating > 0
}
