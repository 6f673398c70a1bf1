// Package provider implements read-only clients for the external catalogs
// that seed catalog entries: places, books, and films/shows.
package provider

import (
	"context"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

// Provider searches one external catalog for candidate entries.
// Each candidate carries a provider-specific stable identity used for dedup.
type Provider interface {
	// Name is the source tag stamped onto resolved catalog entries.
	Name() string
	// Category is the kind of entry this provider produces.
	Category() domain.Category
	// Search returns up to maxResults candidates for a free-text query.
	Search(ctx context.Context, query string) ([]*domain.Thing, error)
}

// maxResults caps the candidates returned per provider query.
const maxResults = 10

// htmlTagPattern matches common HTML tags to detect if a string contains HTML.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

func containsHTML(s string) bool {
	return htmlTagPattern.MatchString(strings.ToLower(s))
}

// cleanDescription converts HTML descriptions to Markdown.
// Plain text passes through unchanged, as does anything that fails to convert.
func cleanDescription(s string) string {
	if s == "" || !containsHTML(s) {
		return strings.TrimSpace(s)
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return strings.TrimSpace(s)
	}

	return strings.TrimSpace(markdown)
}
