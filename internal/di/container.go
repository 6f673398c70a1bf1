// Package di provides dependency injection configuration for the beenthere server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/beenthereapp/beenthere-server/internal/auth"
	"github.com/beenthereapp/beenthere-server/internal/config"
	"github.com/beenthereapp/beenthere-server/internal/di/providers"
	"github.com/beenthereapp/beenthere-server/internal/logger"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)

	// External catalog providers
	do.Provide(injector, providers.ProvideCatalogProviders)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideFeedCache)
	do.Provide(injector, providers.ProvideDispatcher)
	do.Provide(injector, providers.ProvideCatalogService)
	do.Provide(injector, providers.ProvideInteractionService)
	do.Provide(injector, providers.ProvideRecommendationService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvideInvitationService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideFeedService)
	do.Provide(injector, providers.ProvideCommentService)
	do.Provide(injector, providers.ProvideNotificationService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.CatalogService](injector)
	_ = do.MustInvoke[*service.InteractionService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)
	_ = do.MustInvoke[*service.InvitationService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.FeedService](injector)
	_ = do.MustInvoke[*service.CommentService](injector)
	_ = do.MustInvoke[*service.NotificationService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index when it is empty but the catalog is not
	providers.TriggerCatalogReindexIfNeeded(injector)

	return nil
}
