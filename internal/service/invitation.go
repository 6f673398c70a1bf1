package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	domainerrors "github.com/beenthereapp/beenthere-server/internal/errors"
	"github.com/beenthereapp/beenthere-server/internal/id"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

// maxCodeAttempts bounds share-code generation retries. Collisions are
// negligible at 31^8 codes but must be handled, not assumed away.
const maxCodeAttempts = 5

// InvitationService mints shareable referral codes and redeems them.
// Redemption fans out the full social side-effect chain: follow edge,
// interaction, recommendation edge back to the inviter, and a
// conversion notification. Every step is idempotent so a code can be
// redeemed at most once per recipient no matter how often it is retried.
type InvitationService struct {
	store      *store.Store
	social     *SocialService
	dispatcher *Dispatcher
	logger     *slog.Logger
	baseURL    string
}

// NewInvitationService creates a new invitation service.
func NewInvitationService(
	st *store.Store,
	social *SocialService,
	dispatcher *Dispatcher,
	logger *slog.Logger,
	baseURL string,
) *InvitationService {
	return &InvitationService{
		store:      st,
		social:     social,
		dispatcher: dispatcher,
		logger:     logger,
		baseURL:    baseURL,
	}
}

// CreateInvitationRequest contains the data needed to mint an invitation.
type CreateInvitationRequest struct {
	ThingID string `json:"thing_id" validate:"required"`
}

// InvitationResponse is returned after creating an invitation.
type InvitationResponse struct {
	*domain.Invitation
	URL string `json:"url"` // Full URL for sharing
}

// CreateInvitation mints a short code binding the inviter to a thing.
func (s *InvitationService) CreateInvitation(ctx context.Context, inviter *domain.User, req CreateInvitationRequest) (*InvitationResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	if _, err := s.store.GetThing(ctx, req.ThingID); err != nil {
		if errors.Is(err, store.ErrThingNotFound) {
			return nil, domainerrors.NotFound("thing not found")
		}
		return nil, fmt.Errorf("get thing: %w", err)
	}

	// Attach the inviter's own interaction when they have one, so the
	// landing page can show their rating and notes.
	interactionID := ""
	if in, err := s.store.GetInteractionForUserThing(ctx, inviter.ID, req.ThingID); err == nil {
		interactionID = in.ID
	} else if !errors.Is(err, store.ErrInteractionNotFound) {
		return nil, fmt.Errorf("get inviter interaction: %w", err)
	}

	var invitation *domain.Invitation
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := id.GenerateShareCode()
		if err != nil {
			return nil, fmt.Errorf("generate share code: %w", err)
		}

		inv := &domain.Invitation{
			Code:          code,
			InviterID:     inviter.ID,
			InviterName:   inviter.DisplayName,
			ThingID:       req.ThingID,
			InteractionID: interactionID,
		}
		inv.ID = id.MustGenerate("inv")
		inv.InitTimestamps()

		err = s.store.CreateInvitation(ctx, inv)
		if errors.Is(err, store.ErrInvitationCodeExists) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create invitation: %w", err)
		}

		invitation = inv
		break
	}
	if invitation == nil {
		return nil, domainerrors.Conflict("could not generate a unique invitation code")
	}

	s.logger.Info("invitation created",
		"invitation_id", invitation.ID,
		"code", invitation.Code,
		"inviter_id", inviter.ID,
		"thing_id", req.ThingID,
	)

	return &InvitationResponse{
		Invitation: invitation,
		URL:        s.baseURL + "/join/" + invitation.Code,
	}, nil
}

// GetInvitationByCode returns invitation details for a landing page.
func (s *InvitationService) GetInvitationByCode(ctx context.Context, code string) (*domain.Invitation, error) {
	inv, err := s.store.GetInvitationByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrInvitationNotFound) {
			return nil, domainerrors.NotFound("invitation not found")
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}
	return inv, nil
}

// RedeemInvitationRequest contains the data needed to redeem a code.
type RedeemInvitationRequest struct {
	Code         string `json:"code" validate:"required"`
	IsNewAccount bool   `json:"is_new_account" required:"false"`
}

// RedeemResult reports what a redemption did.
type RedeemResult struct {
	Redeemed  bool   `json:"redeemed"`
	ThingID   string `json:"thing_id,omitempty"`
	InviterID string `json:"inviter_id,omitempty"`
}

// RedeemInvitation applies the redemption side effects for user. An
// unknown code redeems nothing and is not an error. Repeating a
// redemption leaves exactly one follow edge, one interaction, one
// recommendation edge, and at most one conversion notification.
func (s *InvitationService) RedeemInvitation(ctx context.Context, user *domain.User, req RedeemInvitationRequest) (*RedeemResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	inv, err := s.store.GetInvitationByCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, store.ErrInvitationNotFound) {
			return &RedeemResult{Redeemed: false}, nil
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}

	// Inviters redeeming their own code would self-follow; skip quietly.
	if inv.InviterID == user.ID {
		return &RedeemResult{Redeemed: false}, nil
	}

	if _, err := s.social.Follow(ctx, user.ID, inv.InviterID); err != nil {
		return nil, fmt.Errorf("follow inviter: %w", err)
	}

	interaction := &domain.Interaction{
		UserID:     user.ID,
		UserName:   user.DisplayName,
		ThingID:    inv.ThingID,
		State:      domain.StateCompleted,
		Visibility: domain.VisibilityFriends,
	}
	if _, _, err := s.store.UpsertInteraction(ctx, interaction); err != nil {
		return nil, fmt.Errorf("upsert interaction: %w", err)
	}

	// The redeemer hands their proof-of-experience back to the inviter.
	rec := &domain.Recommendation{
		FromUserID: user.ID,
		ToUserID:   inv.InviterID,
		ThingID:    inv.ThingID,
	}
	if _, _, err := s.store.FindOrCreateRecommendation(ctx, rec); err != nil {
		return nil, fmt.Errorf("create recommendation: %w", err)
	}

	updated, firstUse, err := s.store.RecordInvitationUse(ctx, req.Code, user.ID, req.IsNewAccount)
	if err != nil {
		return nil, fmt.Errorf("record invitation use: %w", err)
	}

	if firstUse && req.IsNewAccount {
		s.dispatcher.Dispatch(ctx, &domain.Notification{
			UserID:    updated.InviterID,
			Kind:      domain.NotificationInviteConverted,
			Message:   fmt.Sprintf("%s joined through your invitation", user.DisplayName),
			ThingID:   updated.ThingID,
			ActorID:   user.ID,
			ActorName: user.DisplayName,
		})
	}

	if firstUse {
		s.logger.Info("invitation redeemed",
			"code", req.Code,
			"user_id", user.ID,
			"inviter_id", updated.InviterID,
			"new_account", req.IsNewAccount,
		)
	}

	return &RedeemResult{
		Redeemed:  true,
		ThingID:   updated.ThingID,
		InviterID: updated.InviterID,
	}, nil
}

// ListMine returns the invitations created by inviterID.
func (s *InvitationService) ListMine(ctx context.Context, inviterID string) ([]*domain.Invitation, error) {
	return s.store.ListInvitationsByInviter(ctx, inviterID)
}
