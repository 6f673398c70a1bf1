package domain

// TagStatus is the lifecycle state of a co-experience assertion.
type TagStatus string

const (
	// TagPending awaits the recipient's decision.
	TagPending TagStatus = "pending"
	// TagAccepted is terminal; acceptance cloned the assertion into the
	// recipient's own interaction.
	TagAccepted TagStatus = "accepted"
	// TagDeclined is terminal with no side effect.
	TagDeclined TagStatus = "declined"
)

// Valid checks if the status is valid.
func (s TagStatus) Valid() bool {
	switch s {
	case TagPending, TagAccepted, TagDeclined:
		return true
	default:
		return false
	}
}

// Terminal reports whether the status admits no further transitions.
func (s TagStatus) Terminal() bool {
	return s == TagAccepted || s == TagDeclined
}

// Tag is a pending social assertion that TaggedUserID co-experienced a
// Thing alongside the tagger. State and Rating mirror the tagger's
// interaction at creation time so acceptance can clone them.
// Multiple tags may point at the same source interaction, one per
// invited recipient.
type Tag struct {
	Syncable
	SourceInteractionID string           `json:"source_interaction_id"`
	TaggerID            string           `json:"tagger_id"`
	TaggerName          string           `json:"tagger_name"`
	TaggedUserID        string           `json:"tagged_user_id"`
	TaggedName          string           `json:"tagged_name"`
	ThingID             string           `json:"thing_id"`
	State               InteractionState `json:"state"`
	Rating              int              `json:"rating,omitempty"`
	Status              TagStatus        `json:"status"`
}
