package domain

// Follow is a directed social edge: FollowerID sees FolloweeID's
// friends-visible interactions in their feed. Creation is idempotent.
type Follow struct {
	Syncable
	FollowerID string `json:"follower_id"`
	FolloweeID string `json:"followee_id"`
}

// PairKey returns the deterministic uniqueness key for the edge.
func (f *Follow) PairKey() string {
	return FollowPairKey(f.FollowerID, f.FolloweeID)
}

// FollowPairKey builds the uniqueness key for a (follower, followee) pair.
func FollowPairKey(followerID, followeeID string) string {
	return followerID + ":" + followeeID
}
