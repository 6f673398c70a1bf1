package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/beenthereapp/beenthere-server/internal/config"
	"github.com/beenthereapp/beenthere-server/internal/logger"
	"github.com/beenthereapp/beenthere-server/internal/search"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Store.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	// Wire to store so new catalog entries are indexed as they land.
	storeHandle.SetSearchIndexer(index)

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// TriggerCatalogReindexIfNeeded rebuilds the index when it is empty but the
// catalog is not. Should be called after all services are wired.
func TriggerCatalogReindexIfNeeded(i do.Injector) {
	catalogService := do.MustInvoke[*service.CatalogService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	things, err := storeHandle.ListAllThings(ctx)
	if err != nil || len(things) == 0 {
		return
	}

	log.Info("Search index is empty but catalog entries exist, triggering initial reindex",
		"thing_count", len(things),
	)

	go func() {
		if err := catalogService.ReindexAll(context.Background()); err != nil {
			log.Error("Initial catalog reindex failed", "error", err)
		}
	}()
}
