package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/provider"
)

// stubProvider is a canned external catalog provider.
type stubProvider struct {
	name     string
	category domain.Category
	results  []*domain.Thing
	err      error
}

func (p *stubProvider) Name() string              { return p.name }
func (p *stubProvider) Category() domain.Category { return p.category }

func (p *stubProvider) Search(_ context.Context, _ string) ([]*domain.Thing, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

func providerThing(title string, category domain.Category, source, identity string) *domain.Thing {
	return &domain.Thing{
		Title:    title,
		Category: category,
		Source:   source,
		Metadata: domain.ThingMetadata{ProviderIdentity: identity},
	}
}

func TestSearchProviders_OutageDegradesToZeroCandidates(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, []provider.Provider{
		&stubProvider{name: "broken", category: domain.CategoryPlace, err: errors.New("upstream down")},
		&stubProvider{
			name:     "books",
			category: domain.CategoryBook,
			results:  []*domain.Thing{providerThing("Dune", domain.CategoryBook, "books", "isbn:123")},
		},
	}, nil, testLogger())

	candidates, err := svc.SearchProviders(context.Background(), "dune", "")
	require.NoError(t, err, "a provider outage is never fatal")
	require.Len(t, candidates, 1)
	assert.Equal(t, "Dune", candidates[0].Title)
}

func TestSearchProviders_CategoryFilter(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, []provider.Provider{
		&stubProvider{
			name:     "places",
			category: domain.CategoryPlace,
			results:  []*domain.Thing{providerThing("Cafe", domain.CategoryPlace, "places", "node/1")},
		},
		&stubProvider{
			name:     "books",
			category: domain.CategoryBook,
			results:  []*domain.Thing{providerThing("Novel", domain.CategoryBook, "books", "isbn:9")},
		},
	}, nil, testLogger())

	candidates, err := svc.SearchProviders(context.Background(), "anything", domain.CategoryBook)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, "Novel", candidates[0].Title)
}

func TestResolveThing_ProviderDedup(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, nil, nil, testLogger())

	req := ResolveThingRequest{
		Title:    "Dune",
		Category: domain.CategoryBook,
		Source:   "openlibrary",
		Metadata: domain.ThingMetadata{ProviderIdentity: "isbn:9780441172719"},
	}

	first, err := svc.ResolveThing(context.Background(), "user-a", req)
	require.NoError(t, err)

	second, err := svc.ResolveThing(context.Background(), "user-b", req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same provider identity resolves to one entry")
}

func TestResolveThing_Manual(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, nil, nil, testLogger())

	thing, err := svc.ResolveThing(context.Background(), "user-a", ResolveThingRequest{
		Title:    "Grandma's Kitchen",
		Category: domain.CategoryPlace,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SourceManual, thing.Source)
	assert.Equal(t, "user-a", thing.CreatedBy)
}

func TestResolveThing_InvalidCategory(t *testing.T) {
	st := newTestStore(t)
	svc := NewCatalogService(st, nil, nil, testLogger())

	_, err := svc.ResolveThing(context.Background(), "user-a", ResolveThingRequest{
		Title:    "Whatever",
		Category: "gadget",
	})
	assert.Error(t, err)
}
