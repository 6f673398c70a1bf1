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

// CommentService manages the per-thing conversation thread.
type CommentService struct {
	store      *store.Store
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(st *store.Store, dispatcher *Dispatcher, logger *slog.Logger) *CommentService {
	return &CommentService{
		store:      st,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// AddCommentRequest contains the data for a new comment.
type AddCommentRequest struct {
	ThingID string `json:"thing_id" validate:"required"`
	Body    string `json:"body" validate:"required,max=2000"`
}

// AddComment attaches a comment to a thing and notifies everyone who
// logged that thing, except the author.
func (s *CommentService) AddComment(ctx context.Context, author *domain.User, req AddCommentRequest) (*domain.Comment, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	comment := &domain.Comment{
		ThingID:    req.ThingID,
		AuthorID:   author.ID,
		AuthorName: author.DisplayName,
		Body:       req.Body,
	}

	if err := s.store.CreateComment(ctx, comment); err != nil {
		if errors.Is(err, store.ErrThingNotFound) {
			return nil, domainerrors.NotFound("thing not found")
		}
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.dispatcher.Dispatch(ctx, s.participantEffects(ctx, comment, author)...)

	return comment, nil
}

// participantEffects builds one notification per distinct user who
// logged the commented thing, excluding the comment's author.
func (s *CommentService) participantEffects(ctx context.Context, comment *domain.Comment, author *domain.User) []*domain.Notification {
	interactions, err := s.store.ListInteractionsByThing(ctx, comment.ThingID)
	if err != nil {
		s.logger.Warn("could not list participants for comment",
			"thing_id", comment.ThingID,
			"error", err,
		)
		return nil
	}

	seen := make(map[string]bool)
	var effects []*domain.Notification
	for _, in := range interactions {
		if in.UserID == author.ID || seen[in.UserID] {
			continue
		}
		seen[in.UserID] = true
		effects = append(effects, &domain.Notification{
			UserID:    in.UserID,
			Kind:      domain.NotificationCommentAdded,
			Message:   fmt.Sprintf("%s commented on something you logged", author.DisplayName),
			ThingID:   comment.ThingID,
			ActorID:   author.ID,
			ActorName: author.DisplayName,
		})
	}
	return effects
}

// DeleteComment removes the caller's own comment.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID string) error {
	comment, err := s.store.GetComment(ctx, commentID)
	if err != nil {
		if errors.Is(err, store.ErrCommentNotFound) {
			return domainerrors.NotFound("comment not found")
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if comment.AuthorID != userID {
		return domainerrors.Forbidden("cannot delete another user's comment")
	}

	if err := s.store.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ListComments returns a thing's comments, oldest first.
func (s *CommentService) ListComments(ctx context.Context, thingID string) ([]*domain.Comment, error) {
	return s.store.ListCommentsByThing(ctx, thingID)
}
