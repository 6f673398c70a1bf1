package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

func (s *Server) registerInvitationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createInvitation",
		Method:      http.MethodPost,
		Path:        "/api/v1/invitations",
		Summary:     "Create an invitation",
		Description: "Mints a short shareable code binding the caller to a thing",
		Tags:        []string{"Invitations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateInvitation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyInvitations",
		Method:      http.MethodGet,
		Path:        "/api/v1/invitations",
		Summary:     "List my invitations",
		Tags:        []string{"Invitations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyInvitations)

	huma.Register(s.api, huma.Operation{
		OperationID: "getInvitation",
		Method:      http.MethodGet,
		Path:        "/api/v1/invitations/{code}",
		Summary:     "Get invitation details",
		Description: "Returns invitation details for a landing page",
		Tags:        []string{"Invitations"},
	}, s.handleGetInvitation)

	huma.Register(s.api, huma.Operation{
		OperationID: "redeemInvitation",
		Method:      http.MethodPost,
		Path:        "/api/v1/invitations/redeem",
		Summary:     "Redeem an invitation",
		Description: "Applies the redemption side effects for the caller. Redeeming the same code twice changes nothing.",
		Tags:        []string{"Invitations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRedeemInvitation)
}

// === DTOs ===

// CreateInvitationInput wraps the invitation request body.
type CreateInvitationInput struct {
	Body service.CreateInvitationRequest
}

// InvitationOutput wraps an invitation with its share URL for huma.
type InvitationOutput struct {
	Body *service.InvitationResponse
}

// InvitationsResponse lists invitations.
type InvitationsResponse struct {
	Invitations []*domain.Invitation `json:"invitations"`
}

// InvitationsOutput wraps an invitation list for huma.
type InvitationsOutput struct {
	Body InvitationsResponse
}

// InvitationCodeInput identifies an invitation by its share code.
type InvitationCodeInput struct {
	Code string `path:"code" doc:"Invitation share code"`
}

// InvitationDetailsOutput wraps public invitation details for huma.
type InvitationDetailsOutput struct {
	Body *domain.Invitation
}

// RedeemInvitationInput wraps the redemption request body.
type RedeemInvitationInput struct {
	Body service.RedeemInvitationRequest
}

// RedeemOutput wraps the redemption result for huma.
type RedeemOutput struct {
	Body *service.RedeemResult
}

// === Handlers ===

func (s *Server) handleCreateInvitation(ctx context.Context, input *CreateInvitationInput) (*InvitationOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.services.Invitation.CreateInvitation(ctx, user, input.Body)
	if err != nil {
		return nil, err
	}

	return &InvitationOutput{Body: resp}, nil
}

func (s *Server) handleListMyInvitations(ctx context.Context, _ *struct{}) (*InvitationsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	invitations, err := s.services.Invitation.ListMine(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &InvitationsOutput{
		Body: InvitationsResponse{Invitations: invitations},
	}, nil
}

func (s *Server) handleGetInvitation(ctx context.Context, input *InvitationCodeInput) (*InvitationDetailsOutput, error) {
	inv, err := s.services.Invitation.GetInvitationByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}

	return &InvitationDetailsOutput{Body: inv}, nil
}

func (s *Server) handleRedeemInvitation(ctx context.Context, input *RedeemInvitationInput) (*RedeemOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Invitation.RedeemInvitation(ctx, user, input.Body)
	if err != nil {
		return nil, err
	}

	return &RedeemOutput{Body: result}, nil
}
