package domain

// Recommendation is a directed edge recording that FromUserID surfaced a
// Thing to ToUserID. Edges are idempotent: recreating the identical
// (from, to, thing) triple returns the existing edge.
type Recommendation struct {
	Syncable
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	ThingID    string `json:"thing_id"`
	Message    string `json:"message,omitempty"`
}

// TripleKey returns the deterministic uniqueness key for the edge.
func (r *Recommendation) TripleKey() string {
	return RecommendationTripleKey(r.FromUserID, r.ToUserID, r.ThingID)
}

// RecommendationTripleKey builds the uniqueness key for a (from, to, thing) triple.
func RecommendationTripleKey(fromUserID, toUserID, thingID string) string {
	return fromUserID + ":" + toUserID + ":" + thingID
}
