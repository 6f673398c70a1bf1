package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beenthereapp/beenthere-server/internal/cache"
	"github.com/beenthereapp/beenthere-server/internal/domain"
	domainerrors "github.com/beenthereapp/beenthere-server/internal/errors"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

// InteractionService owns the per-user relationship to catalog entries:
// logging, rating, visibility, likes.
type InteractionService struct {
	store     *store.Store
	feedCache *FeedCache
	logger    *slog.Logger
}

// NewInteractionService creates a new interaction service.
func NewInteractionService(st *store.Store, feedCache *FeedCache, logger *slog.Logger) *InteractionService {
	return &InteractionService{
		store:     st,
		feedCache: feedCache,
		logger:    logger,
	}
}

// LogInteractionRequest contains the data for logging a thing.
type LogInteractionRequest struct {
	ThingID    string                  `json:"thing_id" validate:"required"`
	State      domain.InteractionState `json:"state" validate:"required"`
	Visibility domain.Visibility       `json:"visibility" validate:"required"`
	Rating     int                     `json:"rating" validate:"min=0,max=5" required:"false"`
	Notes      string                  `json:"notes" validate:"max=5000" required:"false"`
	Content    string                  `json:"content" validate:"max=10000" required:"false"`
	PhotoPaths []string                `json:"photo_paths" validate:"max=10" required:"false"`
}

// LogInteraction creates or updates the user's interaction with a
// thing. At most one interaction exists per (user, thing); repeated
// logging updates that record in place.
func (s *InteractionService) LogInteraction(ctx context.Context, user *domain.User, req LogInteractionRequest) (*domain.Interaction, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if !req.State.Valid() {
		return nil, domainerrors.Validationf("invalid state: %s", req.State)
	}
	if !req.Visibility.Valid() {
		return nil, domainerrors.Validationf("invalid visibility: %s", req.Visibility)
	}

	if _, err := s.store.GetThing(ctx, req.ThingID); err != nil {
		if errors.Is(err, store.ErrThingNotFound) {
			return nil, domainerrors.NotFound("thing not found")
		}
		return nil, fmt.Errorf("get thing: %w", err)
	}

	interaction := &domain.Interaction{
		UserID:     user.ID,
		UserName:   user.DisplayName,
		ThingID:    req.ThingID,
		State:      req.State,
		Visibility: req.Visibility,
		Rating:     req.Rating,
		Notes:      req.Notes,
		Content:    req.Content,
		PhotoPaths: req.PhotoPaths,
	}

	saved, created, err := s.store.UpsertInteraction(ctx, interaction)
	if err != nil {
		return nil, fmt.Errorf("upsert interaction: %w", err)
	}

	// The user's own feed shows their interactions immediately.
	s.feedCache.InvalidatePrefix(cache.FeedKeyPrefix(user.ID))

	s.logger.Info("interaction logged",
		"interaction_id", saved.ID,
		"user_id", user.ID,
		"thing_id", req.ThingID,
		"state", req.State,
		"created", created,
	)

	return saved, nil
}

// GetInteraction retrieves one interaction.
func (s *InteractionService) GetInteraction(ctx context.Context, interactionID string) (*domain.Interaction, error) {
	interaction, err := s.store.GetInteraction(ctx, interactionID)
	if err != nil {
		if errors.Is(err, store.ErrInteractionNotFound) {
			return nil, domainerrors.NotFound("interaction not found")
		}
		return nil, fmt.Errorf("get interaction: %w", err)
	}
	return interaction, nil
}

// DeleteInteraction removes the caller's interaction. Only the owner may
// delete it.
func (s *InteractionService) DeleteInteraction(ctx context.Context, userID, interactionID string) error {
	interaction, err := s.store.GetInteraction(ctx, interactionID)
	if err != nil {
		if errors.Is(err, store.ErrInteractionNotFound) {
			return domainerrors.NotFound("interaction not found")
		}
		return fmt.Errorf("get interaction: %w", err)
	}
	if interaction.UserID != userID {
		return domainerrors.Forbidden("cannot delete another user's interaction")
	}

	if err := s.store.DeleteInteraction(ctx, interactionID); err != nil {
		return fmt.Errorf("delete interaction: %w", err)
	}

	s.feedCache.InvalidatePrefix(cache.FeedKeyPrefix(userID))
	return nil
}

// Like records userID's like on an interaction. Idempotent.
func (s *InteractionService) Like(ctx context.Context, userID, interactionID string) error {
	if _, err := s.store.LikeInteraction(ctx, interactionID, userID); err != nil {
		if errors.Is(err, store.ErrInteractionNotFound) {
			return domainerrors.NotFound("interaction not found")
		}
		return fmt.Errorf("like interaction: %w", err)
	}
	return nil
}

// Unlike removes userID's like on an interaction. Idempotent.
func (s *InteractionService) Unlike(ctx context.Context, userID, interactionID string) error {
	if _, err := s.store.UnlikeInteraction(ctx, interactionID, userID); err != nil {
		if errors.Is(err, store.ErrInteractionNotFound) {
			return domainerrors.NotFound("interaction not found")
		}
		return fmt.Errorf("unlike interaction: %w", err)
	}
	return nil
}

// ListMine returns every interaction owned by userID.
func (s *InteractionService) ListMine(ctx context.Context, userID string) ([]*domain.Interaction, error) {
	return s.store.ListInteractionsByUser(ctx, userID)
}

// ListForThing returns the interactions on a thing that viewerID may see.
func (s *InteractionService) ListForThing(ctx context.Context, viewerID, thingID string) ([]*domain.Interaction, error) {
	interactions, err := s.store.ListInteractionsByThing(ctx, thingID)
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}

	visible := make([]*domain.Interaction, 0, len(interactions))
	for _, in := range interactions {
		if in.Visibility.VisibleTo(viewerID, in.UserID) {
			visible = append(visible, in)
		}
	}
	return visible, nil
}
