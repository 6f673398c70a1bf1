package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/beenthereapp/beenthere-server/internal/cache"
	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

// FeedCache caches built feeds per viewer. Keys are viewer plus sorted
// follow set, so a cached entry can never survive a follow-graph change
// unnoticed even before explicit invalidation lands.
type FeedCache = cache.Cache[[]*domain.FeedThing]

// FeedService assembles a viewer's feed: the friends-visible
// interactions of everyone they follow (plus their own), grouped by
// Thing and ordered by recency.
type FeedService struct {
	store     *store.Store
	feedCache *FeedCache
	logger    *slog.Logger
}

// NewFeedService creates a new feed service.
func NewFeedService(st *store.Store, feedCache *FeedCache, logger *slog.Logger) *FeedService {
	return &FeedService{
		store:     st,
		feedCache: feedCache,
		logger:    logger,
	}
}

// BuildFeed returns the viewer's feed, from cache when fresh.
func (s *FeedService) BuildFeed(ctx context.Context, viewerID string) ([]*domain.FeedThing, error) {
	following, err := s.store.ListFollowing(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}

	key := cache.FeedKey(viewerID, following)
	if cached, ok := s.feedCache.Get(key); ok {
		return cached, nil
	}

	feed, err := s.buildFeed(ctx, viewerID, following)
	if err != nil {
		return nil, err
	}

	s.feedCache.Set(key, feed)
	return feed, nil
}

// buildFeed gathers, filters, and groups interactions for one viewer.
func (s *FeedService) buildFeed(ctx context.Context, viewerID string, following []string) ([]*domain.FeedThing, error) {
	members := make([]string, 0, len(following)+1)
	members = append(members, following...)
	if !slices.Contains(members, viewerID) {
		members = append(members, viewerID)
	}

	interactions, err := s.store.ListInteractionsForUsers(ctx, members)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	groups := make(map[string][]*domain.Interaction)
	for _, in := range interactions {
		if !in.Visibility.VisibleTo(viewerID, in.UserID) {
			continue
		}
		groups[in.ThingID] = append(groups[in.ThingID], in)
	}

	feed := make([]*domain.FeedThing, 0, len(groups))
	for thingID, group := range groups {
		thing, err := s.store.GetThing(ctx, thingID)
		if err != nil {
			if errors.Is(err, store.ErrThingNotFound) {
				// Interactions referencing a missing thing are skipped
				// rather than failing the whole feed.
				s.logger.Warn("feed references missing thing",
					"thing_id", thingID,
					"viewer_id", viewerID,
				)
				continue
			}
			return nil, fmt.Errorf("get thing %s: %w", thingID, err)
		}
		feed = append(feed, domain.BuildFeedThing(thing, group, viewerID))
	}

	slices.SortFunc(feed, func(a, b *domain.FeedThing) int {
		return b.LastActivityAt.Compare(a.LastActivityAt)
	})

	return feed, nil
}

// InvalidateViewer drops every cached feed for one viewer.
func (s *FeedService) InvalidateViewer(viewerID string) {
	s.feedCache.InvalidatePrefix(cache.FeedKeyPrefix(viewerID))
}
