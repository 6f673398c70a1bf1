package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func providerCandidate(title, identity, rawID string) *domain.Thing {
	return &domain.Thing{
		Title:    title,
		Category: domain.CategoryBook,
		Source:   "openlibrary",
		Metadata: domain.ThingMetadata{
			ProviderIdentity: identity,
			ProviderRawID:    rawID,
		},
		CreatedBy: "user-test",
	}
}

func TestResolveProviderThing_DedupByIdentity(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first, created, err := s.ResolveProviderThing(ctx, providerCandidate("The Stand", "isbn:9780307743688", "OL1"))
	require.NoError(t, err)
	assert.True(t, created)
	require.NotEmpty(t, first.ID)

	// Same identity, different raw id: must resolve to the same entry.
	second, created, err := s.ResolveProviderThing(ctx, providerCandidate("The Stand (reissue)", "isbn:9780307743688", "OL2"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolveProviderThing_RawIDFallback(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first, created, err := s.ResolveProviderThing(ctx, providerCandidate("Dune", "", "OL77"))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := s.ResolveProviderThing(ctx, providerCandidate("Dune", "", "OL77"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestResolveProviderThing_FillsBlankFields(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	sparse := providerCandidate("Hyperion", "isbn:9780553283686", "OL9")
	first, _, err := s.ResolveProviderThing(ctx, sparse)
	require.NoError(t, err)
	assert.Empty(t, first.Description)

	rich := providerCandidate("Hyperion", "isbn:9780553283686", "OL9")
	rich.Description = "The Shrike awaits."
	rich.ImageURL = "https://covers.example/ol9.jpg"

	second, _, err := s.ResolveProviderThing(ctx, rich)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "The Shrike awaits.", second.Description)
	assert.Equal(t, "https://covers.example/ol9.jpg", second.ImageURL)

	// A later blank candidate must not clear the populated fields.
	third, _, err := s.ResolveProviderThing(ctx, providerCandidate("Hyperion", "isbn:9780553283686", "OL9"))
	require.NoError(t, err)
	assert.Equal(t, "The Shrike awaits.", third.Description)
}

func TestResolveManualThing_DedupByTitleAndCategory(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	ctx := context.Background()

	first, created, err := s.ResolveManualThing(ctx, &domain.Thing{
		Title:    "Corner Bakery",
		Category: domain.CategoryPlace,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.SourceManual, first.Source)

	same, created, err := s.ResolveManualThing(ctx, &domain.Thing{
		Title:    "Corner Bakery",
		Category: domain.CategoryPlace,
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, same.ID)

	// Title match is case sensitive.
	different, created, err := s.ResolveManualThing(ctx, &domain.Thing{
		Title:    "corner bakery",
		Category: domain.CategoryPlace,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, different.ID)

	// Same title, different category is a different entry.
	otherCategory, created, err := s.ResolveManualThing(ctx, &domain.Thing{
		Title:    "Corner Bakery",
		Category: domain.CategoryBook,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, otherCategory.ID)
}

func TestGetThing_NotFound(t *testing.T) {
	s, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := s.GetThing(context.Background(), "thing-missing")
	assert.ErrorIs(t, err, ErrThingNotFound)
}
