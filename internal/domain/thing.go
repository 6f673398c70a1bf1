// Package domain contains the core business entities and domain logic for the beenthere catalog and social graph.
package domain

// Category classifies a catalog entry by the kind of real-world item it represents.
type Category string

const (
	CategoryPlace  Category = "place"
	CategoryBook   Category = "book"
	CategoryMedia  Category = "media" // films and shows
	CategoryManual Category = "manual"
)

// Valid checks if the category is valid.
func (c Category) Valid() bool {
	switch c {
	case CategoryPlace, CategoryBook, CategoryMedia, CategoryManual:
		return true
	default:
		return false
	}
}

// ThingMetadata carries provider-specific identity and descriptive fields.
// ProviderIdentity is the authoritative dedup key for provider-sourced
// entries: place identifier, ISBN, or media identifier depending on source.
type ThingMetadata struct {
	ProviderIdentity string `json:"provider_identity,omitempty"`
	ProviderRawID    string `json:"provider_raw_id,omitempty"` // provider's own record id, fallback dedup key
	Address          string `json:"address,omitempty"`
	Author           string `json:"author,omitempty"`
	PublishYear      string `json:"publish_year,omitempty"`
	ReleaseYear      string `json:"release_year,omitempty"`
}

// IsZero reports whether no metadata field is populated.
func (m ThingMetadata) IsZero() bool {
	return m == ThingMetadata{}
}

// Thing is a canonical catalog entry for a real-world item.
// Things are shared and append-only: they are created on first sighting,
// never deleted, and only CommentCount mutates after creation.
type Thing struct {
	Syncable
	Title        string        `json:"title"`
	Category     Category      `json:"category"`
	Description  string        `json:"description,omitempty"`
	ImageURL     string        `json:"image_url,omitempty"`
	Metadata     ThingMetadata `json:"metadata,omitempty"`
	Source       string        `json:"source"` // provider name, or "manual"
	CreatedBy    string        `json:"created_by"`
	CommentCount int           `json:"comment_count"`
}

// IsProviderSourced reports whether the entry came from an external provider.
func (t *Thing) IsProviderSourced() bool {
	return t.Source != SourceManual
}

// SourceManual marks things entered by hand rather than resolved from a provider.
const SourceManual = "manual"
