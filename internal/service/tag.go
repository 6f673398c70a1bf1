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

// TagService lets a user assert that someone else co-experienced a
// thing with them. The assertion stays pending until the recipient
// accepts, which clones the tagger's state and rating into the
// recipient's own interaction, or declines, which does nothing.
type TagService struct {
	store      *store.Store
	dispatcher *Dispatcher
	logger     *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(st *store.Store, dispatcher *Dispatcher, logger *slog.Logger) *TagService {
	return &TagService{
		store:      st,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// CreateTagRequest tags another user on one of the caller's interactions.
type CreateTagRequest struct {
	InteractionID string `json:"interaction_id" validate:"required"`
	TaggedUserID  string `json:"tagged_user_id" validate:"required"`
	TaggedName    string `json:"tagged_name" validate:"max=100" required:"false"`
}

// CreateTag records a pending co-experience assertion. One tag per
// (interaction, tagged user); tagging the same person again on the same
// interaction is rejected.
func (s *TagService) CreateTag(ctx context.Context, tagger *domain.User, req CreateTagRequest) (*domain.Tag, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}
	if req.TaggedUserID == tagger.ID {
		return nil, domainerrors.Validation("cannot tag yourself")
	}

	interaction, err := s.store.GetInteraction(ctx, req.InteractionID)
	if err != nil {
		if errors.Is(err, store.ErrInteractionNotFound) {
			return nil, domainerrors.NotFound("interaction not found")
		}
		return nil, fmt.Errorf("get interaction: %w", err)
	}
	if interaction.UserID != tagger.ID {
		return nil, domainerrors.Forbidden("can only tag on your own interactions")
	}

	tag := &domain.Tag{
		SourceInteractionID: interaction.ID,
		TaggerID:            tagger.ID,
		TaggerName:          tagger.DisplayName,
		TaggedUserID:        req.TaggedUserID,
		TaggedName:          req.TaggedName,
		ThingID:             interaction.ThingID,
		State:               interaction.State,
		Rating:              interaction.Rating,
	}

	if err := s.store.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagExists) {
			return nil, domainerrors.AlreadyExists("user is already tagged on this interaction")
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}

	s.dispatcher.Dispatch(ctx, &domain.Notification{
		UserID:    tag.TaggedUserID,
		Kind:      domain.NotificationTagReceived,
		Message:   fmt.Sprintf("%s says you were there too", tagger.DisplayName),
		ThingID:   tag.ThingID,
		ActorID:   tagger.ID,
		ActorName: tagger.DisplayName,
	})

	s.logger.Info("tag created",
		"tag_id", tag.ID,
		"tagger_id", tagger.ID,
		"tagged_user_id", req.TaggedUserID,
		"thing_id", tag.ThingID,
	)

	return tag, nil
}

// AcceptTag accepts a pending tag addressed to user: the tagger's state
// and rating are cloned into the recipient's own interaction, then the
// tag becomes accepted. Accepting an already accepted tag is a no-op.
func (s *TagService) AcceptTag(ctx context.Context, user *domain.User, tagID string) (*domain.Tag, error) {
	tag, err := s.getOwnTag(ctx, user.ID, tagID)
	if err != nil {
		return nil, err
	}

	if tag.Status.Terminal() {
		if tag.Status == domain.TagAccepted {
			return tag, nil
		}
		return nil, domainerrors.Conflict("tag was already declined")
	}

	interaction := &domain.Interaction{
		UserID:     user.ID,
		UserName:   user.DisplayName,
		ThingID:    tag.ThingID,
		State:      tag.State,
		Visibility: domain.VisibilityFriends,
		Rating:     tag.Rating,
	}
	if _, _, err := s.store.UpsertInteraction(ctx, interaction); err != nil {
		return nil, fmt.Errorf("upsert interaction: %w", err)
	}

	resolved, err := s.store.ResolveTag(ctx, tagID, domain.TagAccepted)
	if err != nil {
		if errors.Is(err, store.ErrTagResolved) {
			// Lost a race with another resolution; report the final state.
			return s.getOwnTag(ctx, user.ID, tagID)
		}
		return nil, fmt.Errorf("resolve tag: %w", err)
	}

	s.logger.Info("tag accepted",
		"tag_id", tagID,
		"tagged_user_id", user.ID,
		"thing_id", tag.ThingID,
	)

	return resolved, nil
}

// DeclineTag declines a pending tag addressed to user. No interaction
// is created. Declining an already declined tag is a no-op.
func (s *TagService) DeclineTag(ctx context.Context, user *domain.User, tagID string) (*domain.Tag, error) {
	tag, err := s.getOwnTag(ctx, user.ID, tagID)
	if err != nil {
		return nil, err
	}

	if tag.Status.Terminal() {
		if tag.Status == domain.TagDeclined {
			return tag, nil
		}
		return nil, domainerrors.Conflict("tag was already accepted")
	}

	resolved, err := s.store.ResolveTag(ctx, tagID, domain.TagDeclined)
	if err != nil {
		if errors.Is(err, store.ErrTagResolved) {
			return s.getOwnTag(ctx, user.ID, tagID)
		}
		return nil, fmt.Errorf("resolve tag: %w", err)
	}

	return resolved, nil
}

// PendingTags returns the undecided tags addressed to userID.
func (s *TagService) PendingTags(ctx context.Context, userID string) ([]*domain.Tag, error) {
	return s.store.ListPendingTagsForUser(ctx, userID)
}

// GivenTags returns the tags userID has placed on others.
func (s *TagService) GivenTags(ctx context.Context, userID string) ([]*domain.Tag, error) {
	return s.store.ListTagsByTagger(ctx, userID)
}

// getOwnTag fetches a tag and checks it is addressed to userID.
func (s *TagService) getOwnTag(ctx context.Context, userID, tagID string) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		if errors.Is(err, store.ErrTagNotFound) {
			return nil, domainerrors.NotFound("tag not found")
		}
		return nil, fmt.Errorf("get tag: %w", err)
	}
	if tag.TaggedUserID != userID {
		return nil, domainerrors.Forbidden("tag is addressed to another user")
	}
	return tag, nil
}
