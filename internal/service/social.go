package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/beenthereapp/beenthere-server/internal/cache"
	"github.com/beenthereapp/beenthere-server/internal/domain"
	domainerrors "github.com/beenthereapp/beenthere-server/internal/errors"
	"github.com/beenthereapp/beenthere-server/internal/sse"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

// SocialService manages the follow graph. Follow-graph changes alter
// what a viewer's feed contains, so every mutation here invalidates the
// follower's cached feeds immediately and signals connected clients.
type SocialService struct {
	store     *store.Store
	feedCache *FeedCache
	events    store.EventEmitter
	logger    *slog.Logger
}

// NewSocialService creates a new social graph service.
func NewSocialService(st *store.Store, feedCache *FeedCache, events store.EventEmitter, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:     st,
		feedCache: feedCache,
		events:    events,
		logger:    logger,
	}
}

// Follow creates a follow edge. Re-following is a no-op returning the
// existing edge.
func (s *SocialService) Follow(ctx context.Context, followerID, followeeID string) (*domain.Follow, error) {
	if followerID == followeeID {
		return nil, domainerrors.Validation("cannot follow yourself")
	}

	follow, created, err := s.store.CreateFollow(ctx, followerID, followeeID)
	if err != nil {
		return nil, fmt.Errorf("create follow: %w", err)
	}

	if created {
		s.invalidateFeed(followerID)
		s.logger.Info("follow created",
			"follower_id", followerID,
			"followee_id", followeeID,
		)
	}

	return follow, nil
}

// Unfollow removes a follow edge. Unfollowing someone never followed is
// a no-op.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	if err := s.store.DeleteFollow(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	s.invalidateFeed(followerID)
	return nil
}

// Following returns the IDs of everyone userID follows.
func (s *SocialService) Following(ctx context.Context, userID string) ([]string, error) {
	return s.store.ListFollowing(ctx, userID)
}

// Followers returns the IDs of everyone following userID.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]string, error) {
	return s.store.ListFollowers(ctx, userID)
}

// IsFollowing reports whether follower follows followee.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.store.IsFollowing(ctx, followerID, followeeID)
}

// invalidateFeed drops the viewer's cached feeds and tells their
// connected clients to refetch.
func (s *SocialService) invalidateFeed(viewerID string) {
	s.feedCache.InvalidatePrefix(cache.FeedKeyPrefix(viewerID))
	s.events.Emit(sse.NewFeedInvalidatedEvent(viewerID))
}
