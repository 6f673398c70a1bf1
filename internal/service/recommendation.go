package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	domainerrors "github.com/beenthereapp/beenthere-server/internal/errors"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

// RecommendationService maintains the directed graph of who surfaced a
// thing to whom. Edge creation is idempotent, so clients invoke it
// speculatively on every save action without producing duplicates.
type RecommendationService struct {
	store      *store.Store
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(st *store.Store, dispatcher *Dispatcher, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{
		store:      st,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateRecommendationRequest records that the caller surfaced a thing
// to another user.
type CreateRecommendationRequest struct {
	FromUserID string `json:"from_user_id" validate:"required"`
	ToUserID   string `json:"to_user_id" validate:"required"`
	ThingID    string `json:"thing_id" validate:"required"`
	Message    string `json:"message" validate:"max=500" required:"false"`
}

// CreateRecommendation finds or creates the edge for the exact
// (from, to, thing) triple. When a new edge is created the recommender
// is notified that the recipient engaged with their recommendation;
// recreating an existing edge sends nothing.
func (s *RecommendationService) CreateRecommendation(ctx context.Context, actor *domain.User, req CreateRecommendationRequest) (*domain.Recommendation, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if req.FromUserID == req.ToUserID {
		return nil, domainerrors.Validation("a recommendation needs two distinct users")
	}
	if actor.ID != req.FromUserID && actor.ID != req.ToUserID {
		return nil, domainerrors.Forbidden("caller must be part of the recommendation")
	}

	thing, err := s.store.GetThing(ctx, req.ThingID)
	if err != nil {
		if errors.Is(err, store.ErrThingNotFound) {
			return nil, domainerrors.NotFound("thing not found")
		}
		return nil, fmt.Errorf("get thing: %w", err)
	}

	rec := &domain.Recommendation{
		FromUserID: req.FromUserID,
		ToUserID:   req.ToUserID,
		ThingID:    req.ThingID,
		Message:    req.Message,
	}

	saved, created, err := s.store.FindOrCreateRecommendation(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("create recommendation: %w", err)
	}

	if created {
		s.logger.Info("recommendation created",
			"recommendation_id", saved.ID,
			"from_user_id", saved.FromUserID,
			"to_user_id", saved.ToUserID,
			"thing_id", saved.ThingID,
		)
		s.dispatcher.Dispatch(ctx, &domain.Notification{
			UserID:  saved.FromUserID,
			Kind:    domain.NotificationRecommendationSaved,
			Message: fmt.Sprintf("Your recommendation of %s was saved", thing.Title),
			ThingID: saved.ThingID,
			ActorID: saved.ToUserID,
		})
	}

	return saved, nil
}

// Received returns the recommendations made to userID, newest first.
func (s *RecommendationService) Received(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	return s.store.ListRecommendationsReceived(ctx, userID)
}

// Given returns the recommendations made by userID, newest first.
func (s *RecommendationService) Given(ctx context.Context, userID string) ([]*domain.Recommendation, error) {
	return s.store.ListRecommendationsGiven(ctx, userID)
}
