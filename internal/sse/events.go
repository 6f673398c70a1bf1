// Package sse implements Server-Sent Events for pushing data-change signals to clients.
package sse

import (
	"time"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

// The presentation layer subscribes to this stream and refreshes its own
// reactive stores; the server never tracks what a client rendered.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventThingCreated fires when a new catalog entry appears.
	EventThingCreated EventType = "thing.created"

	// EventInteractionUpserted fires when a user logs or re-logs a thing.
	EventInteractionUpserted EventType = "interaction.upserted"
	// EventInteractionDeleted fires when a user removes their interaction.
	EventInteractionDeleted EventType = "interaction.deleted"

	// EventRecommendationCreated fires on a new recommendation edge.
	EventRecommendationCreated EventType = "recommendation.created"

	// EventTagCreated fires when a user is tagged on someone else's log.
	EventTagCreated EventType = "tag.created"
	// EventTagResolved fires when a pending tag is accepted or declined.
	EventTagResolved EventType = "tag.resolved"

	// EventNotificationCreated fires when a notification lands in an inbox.
	EventNotificationCreated EventType = "notification.created"

	// EventFeedInvalidated tells a client its cached feed is stale and
	// should be refetched immediately (follow-graph change).
	EventFeedInvalidated EventType = "feed.invalidated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// UserID filters delivery to one user's connections.
	// Empty string broadcasts to all connected clients.
	UserID string `json:"-"`
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
	}
}

// NewThingCreatedEvent signals a new catalog entry.
func NewThingCreatedEvent(thing *domain.Thing) Event {
	return Event{
		Type:      EventThingCreated,
		Timestamp: time.Now(),
		Data:      thing,
	}
}

// NewInteractionUpsertedEvent signals a created or updated interaction.
// Private interactions are delivered only to their owner.
func NewInteractionUpsertedEvent(in *domain.Interaction) Event {
	e := Event{
		Type:      EventInteractionUpserted,
		Timestamp: time.Now(),
		Data:      in,
	}
	if in.Visibility == domain.VisibilityPrivate {
		e.UserID = in.UserID
	}
	return e
}

// NewInteractionDeletedEvent signals a removed interaction.
func NewInteractionDeletedEvent(in *domain.Interaction) Event {
	return Event{
		Type:      EventInteractionDeleted,
		Timestamp: time.Now(),
		Data:      map[string]string{"id": in.ID, "thing_id": in.ThingID, "user_id": in.UserID},
	}
}

// NewRecommendationCreatedEvent signals a new edge, delivered to the recipient.
func NewRecommendationCreatedEvent(rec *domain.Recommendation) Event {
	return Event{
		Type:      EventRecommendationCreated,
		Timestamp: time.Now(),
		Data:      rec,
		UserID:    rec.ToUserID,
	}
}

// NewTagCreatedEvent signals a pending tag, delivered to the tagged user.
func NewTagCreatedEvent(tag *domain.Tag) Event {
	return Event{
		Type:      EventTagCreated,
		Timestamp: time.Now(),
		Data:      tag,
		UserID:    tag.TaggedUserID,
	}
}

// NewTagResolvedEvent signals an accept/decline, delivered to the tagger.
func NewTagResolvedEvent(tag *domain.Tag) Event {
	return Event{
		Type:      EventTagResolved,
		Timestamp: time.Now(),
		Data:      tag,
		UserID:    tag.TaggerID,
	}
}

// NewNotificationCreatedEvent delivers a notification to its recipient.
func NewNotificationCreatedEvent(n *domain.Notification) Event {
	return Event{
		Type:      EventNotificationCreated,
		Timestamp: time.Now(),
		Data:      n,
		UserID:    n.UserID,
	}
}

// NewFeedInvalidatedEvent tells one viewer their feed cache is stale.
func NewFeedInvalidatedEvent(viewerID string) Event {
	return Event{
		Type:      EventFeedInvalidated,
		Timestamp: time.Now(),
		Data:      map[string]string{"viewer_id": viewerID},
		UserID:    viewerID,
	}
}
