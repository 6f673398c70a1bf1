package search

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func setupTestIndex(t *testing.T) *Index {
	t.Helper()

	idx, err := NewIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func indexedThing(id, title string, category domain.Category) *domain.Thing {
	thing := &domain.Thing{
		Title:    title,
		Category: category,
		Source:   "manual",
	}
	thing.ID = id
	thing.CreatedAt = time.Now()
	return thing
}

func TestSearchByTitle(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexThing(ctx, indexedThing("thing-1", "Midnight Ramen Bar", domain.CategoryPlace)))
	require.NoError(t, idx.IndexThing(ctx, indexedThing("thing-2", "The Left Hand of Darkness", domain.CategoryBook)))

	params := DefaultParams()
	params.Query = "ramen"

	res, err := idx.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "thing-1", res.Hits[0].ID)
	assert.Equal(t, "Midnight Ramen Bar", res.Hits[0].Title)
}

func TestSearchCategoryFilter(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexThing(ctx, indexedThing("thing-1", "Dune", domain.CategoryBook)))
	require.NoError(t, idx.IndexThing(ctx, indexedThing("thing-2", "Dune", domain.CategoryMedia)))

	params := DefaultParams()
	params.Query = "dune"
	params.Category = domain.CategoryMedia

	res, err := idx.Search(ctx, params)
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "thing-2", res.Hits[0].ID)
}

func TestDeleteThing(t *testing.T) {
	idx := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.IndexThing(ctx, indexedThing("thing-1", "Ephemeral Cafe", domain.CategoryPlace)))
	require.NoError(t, idx.DeleteThing(ctx, "thing-1"))

	params := DefaultParams()
	params.Query = "ephemeral"

	res, err := idx.Search(ctx, params)
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestIndexThingsBatch(t *testing.T) {
	idx := setupTestIndex(t)

	things := []*domain.Thing{
		indexedThing("thing-1", "First", domain.CategoryPlace),
		indexedThing("thing-2", "Second", domain.CategoryPlace),
		indexedThing("thing-3", "Third", domain.CategoryPlace),
	}
	require.NoError(t, idx.IndexThings(things))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}
