package domain

import "time"

// NotificationKind identifies why a notification was produced.
type NotificationKind string

const (
	// NotificationRecommendationSaved tells a recommender their rec was acted on.
	NotificationRecommendationSaved NotificationKind = "recommendation_saved"
	// NotificationInviteConverted tells an inviter a new user joined via their link.
	NotificationInviteConverted NotificationKind = "invite_converted"
	// NotificationTagReceived tells a user someone asserted they co-experienced a thing.
	NotificationTagReceived NotificationKind = "tag_received"
	// NotificationCommentAdded tells participants a comment landed on a thing they logged.
	NotificationCommentAdded NotificationKind = "comment_added"
)

// Notification is a best-effort message for one user. Delivery is
// fire-and-forget; the only state the core owns is the read flag.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Message   string           `json:"message"`
	ThingID   string           `json:"thing_id,omitempty"`
	ActorID   string           `json:"actor_id,omitempty"`
	ActorName string           `json:"actor_name,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
