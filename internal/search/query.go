package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

// Params configures a catalog search.
type Params struct {
	Query    string          // User's search query
	Category domain.Category // Optional category filter
	Limit    int
	Offset   int
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:  20,
		Offset: 0,
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
}

// Hit represents a single matching catalog entry.
type Hit struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Author   string  `json:"author,omitempty"`
	Address  string  `json:"address,omitempty"`
	Source   string  `json:"source"`
}

// Search executes a catalog search.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchQuery := buildSearchQuery(params)

	req := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	req.Fields = []string{"title", "category", "author", "address", "source"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["category"].(string); ok {
			h.Category = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			h.Author = v
		}
		if v, ok := hit.Fields["address"].(string); ok {
			h.Address = v
		}
		if v, ok := hit.Fields["source"].(string); ok {
			h.Source = v
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery combines full-text matching over the descriptive fields
// with an optional exact category filter.
func buildSearchQuery(params Params) query.Query {
	queryText := strings.TrimSpace(params.Query)

	var textQuery query.Query
	if queryText == "" {
		textQuery = bleve.NewMatchAllQuery()
	} else {
		match := bleve.NewMatchQuery(queryText)
		match.SetFuzziness(1)

		prefix := bleve.NewPrefixQuery(strings.ToLower(queryText))
		prefix.SetField("title")

		textQuery = bleve.NewDisjunctionQuery(match, prefix)
	}

	if params.Category == "" {
		return textQuery
	}

	categoryQuery := bleve.NewTermQuery(string(params.Category))
	categoryQuery.SetField("category")

	return bleve.NewConjunctionQuery(textQuery, categoryQuery)
}

// IndexThing adds or updates one catalog entry in the index.
// Implements the store's SearchIndexer seam.
func (s *Index) IndexThing(_ context.Context, thing *domain.Thing) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(thing.ID, documentForThing(thing))
}

// DeleteThing removes a catalog entry from the index.
func (s *Index) DeleteThing(_ context.Context, thingID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(thingID)
}
