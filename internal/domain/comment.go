package domain

// Comment is attached to a Thing, not to any single interaction, so the
// conversation survives individual interactions being removed.
type Comment struct {
	Syncable
	ThingID    string `json:"thing_id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Body       string `json:"body"`
}
