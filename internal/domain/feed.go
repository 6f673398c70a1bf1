package domain

import (
	"slices"
	"time"
)

// FeedThing aggregates every visible interaction on one Thing for a
// viewer's feed. Computed on demand, never persisted.
type FeedThing struct {
	Thing *Thing `json:"thing"`

	// Interactions are ordered oldest-first for narrative order.
	Interactions []*Interaction `json:"interactions"`

	// ViewerInteraction is the viewer's own interaction, if any.
	ViewerInteraction *Interaction `json:"viewer_interaction,omitempty"`

	// AverageRating over interactions with a positive rating.
	// Nil when no member interaction is rated.
	AverageRating *float64 `json:"average_rating,omitempty"`

	// LastActivityAt is the creation time of the most recent member
	// interaction; groups sort by it, newest first.
	LastActivityAt time.Time `json:"last_activity_at"`
}

// BuildFeedThing assembles the read model for one group of interactions.
// Interactions must all reference thing; the slice is sorted in place.
func BuildFeedThing(thing *Thing, interactions []*Interaction, viewerID string) *FeedThing {
	slices.SortFunc(interactions, func(a, b *Interaction) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	ft := &FeedThing{
		Thing:        thing,
		Interactions: interactions,
	}

	var ratingSum, ratingCount int
	for _, in := range interactions {
		if in.UserID == viewerID {
			ft.ViewerInteraction = in
		}
		if in.IsRated() {
			ratingSum += in.Rating
			ratingCount++
		}
		if in.CreatedAt.After(ft.LastActivityAt) {
			ft.LastActivityAt = in.CreatedAt
		}
	}

	if ratingCount > 0 {
		avg := float64(ratingSum) / float64(ratingCount)
		ft.AverageRating = &avg
	}

	return ft
}
