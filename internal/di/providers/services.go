package providers

import (
	"github.com/samber/do/v2"

	"github.com/beenthereapp/beenthere-server/internal/cache"
	"github.com/beenthereapp/beenthere-server/internal/config"
	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/logger"
	"github.com/beenthereapp/beenthere-server/internal/provider"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

// ProvideFeedCache provides the TTL cache for assembled feeds.
func ProvideFeedCache(i do.Injector) (*service.FeedCache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return cache.New[[]*domain.FeedThing](cfg.Feed.CacheTTL), nil
}

// ProvideDispatcher provides the notification dispatcher backed by the store.
func ProvideDispatcher(i do.Injector) (*service.Dispatcher, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	sink := service.NewStoreSink(storeHandle.Store, log.Logger)
	return service.NewDispatcher(sink, log.Logger), nil
}

// ProvideCatalogService provides the catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	clients := do.MustInvoke[[]provider.Provider](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(storeHandle.Store, clients, indexHandle.Index, log.Logger), nil
}

// ProvideInteractionService provides the interaction service.
func ProvideInteractionService(i do.Injector) (*service.InteractionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	feedCache := do.MustInvoke[*service.FeedCache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInteractionService(storeHandle.Store, feedCache, log.Logger), nil
}

// ProvideRecommendationService provides the recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dispatcher := do.MustInvoke[*service.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(storeHandle.Store, dispatcher, log.Logger), nil
}

// ProvideSocialService provides the follow-graph service.
func ProvideSocialService(i do.Injector) (*service.SocialService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	feedCache := do.MustInvoke[*service.FeedCache](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSocialService(storeHandle.Store, feedCache, sseHandle.Manager, log.Logger), nil
}

// ProvideInvitationService provides the invitation service.
func ProvideInvitationService(i do.Injector) (*service.InvitationService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	social := do.MustInvoke[*service.SocialService](i)
	dispatcher := do.MustInvoke[*service.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewInvitationService(storeHandle.Store, social, dispatcher, log.Logger, cfg.Server.BaseURL), nil
}

// ProvideTagService provides the tag propagation service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dispatcher := do.MustInvoke[*service.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, dispatcher, log.Logger), nil
}

// ProvideFeedService provides the feed aggregation service.
func ProvideFeedService(i do.Injector) (*service.FeedService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	feedCache := do.MustInvoke[*service.FeedCache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewFeedService(storeHandle.Store, feedCache, log.Logger), nil
}

// ProvideCommentService provides the comment service.
func ProvideCommentService(i do.Injector) (*service.CommentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	dispatcher := do.MustInvoke[*service.Dispatcher](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCommentService(storeHandle.Store, dispatcher, log.Logger), nil
}

// ProvideNotificationService provides the notification read-side service.
func ProvideNotificationService(i do.Injector) (*service.NotificationService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewNotificationService(storeHandle.Store, log.Logger), nil
}
