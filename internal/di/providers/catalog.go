package providers

import (
	"github.com/samber/do/v2"

	"github.com/beenthereapp/beenthere-server/internal/config"
	"github.com/beenthereapp/beenthere-server/internal/logger"
	"github.com/beenthereapp/beenthere-server/internal/provider"
)

// ProvideCatalogProviders provides the external catalog provider clients.
func ProvideCatalogProviders(i do.Injector) ([]provider.Provider, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	clients := []provider.Provider{
		provider.NewPlacesClient(cfg.Providers.Places.BaseURL, log.Logger),
		provider.NewBooksClient(cfg.Providers.Books.BaseURL, log.Logger),
		provider.NewMediaClient(cfg.Providers.Media.BaseURL, cfg.Providers.Media.APIKey, log.Logger),
	}

	log.Info("Catalog providers configured", "count", len(clients))

	return clients, nil
}
