package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

func (s *Server) registerInteractionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "logInteraction",
		Method:      http.MethodPut,
		Path:        "/api/v1/interactions",
		Summary:     "Log an interaction",
		Description: "Creates or updates the caller's interaction with a thing. At most one interaction exists per (user, thing).",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLogInteraction)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyInteractions",
		Method:      http.MethodGet,
		Path:        "/api/v1/interactions",
		Summary:     "List my interactions",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyInteractions)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteInteraction",
		Method:      http.MethodDelete,
		Path:        "/api/v1/interactions/{id}",
		Summary:     "Delete an interaction",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteInteraction)

	huma.Register(s.api, huma.Operation{
		OperationID: "likeInteraction",
		Method:      http.MethodPost,
		Path:        "/api/v1/interactions/{id}/like",
		Summary:     "Like an interaction",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLikeInteraction)

	huma.Register(s.api, huma.Operation{
		OperationID: "unlikeInteraction",
		Method:      http.MethodDelete,
		Path:        "/api/v1/interactions/{id}/like",
		Summary:     "Remove a like",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnlikeInteraction)

	huma.Register(s.api, huma.Operation{
		OperationID: "listThingInteractions",
		Method:      http.MethodGet,
		Path:        "/api/v1/things/{id}/interactions",
		Summary:     "List a thing's interactions",
		Description: "Returns the interactions on a thing that the caller may see",
		Tags:        []string{"Interactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListThingInteractions)
}

// === DTOs ===

// LogInteractionInput wraps the interaction upsert body.
type LogInteractionInput struct {
	Body service.LogInteractionRequest
}

// InteractionOutput wraps a single interaction for huma.
type InteractionOutput struct {
	Body *domain.Interaction
}

// InteractionsResponse lists interactions.
type InteractionsResponse struct {
	Interactions []*domain.Interaction `json:"interactions"`
}

// InteractionsOutput wraps an interaction list for huma.
type InteractionsOutput struct {
	Body InteractionsResponse
}

// InteractionIDInput identifies one interaction.
type InteractionIDInput struct {
	ID string `path:"id" doc:"Interaction identifier"`
}

// === Handlers ===

func (s *Server) handleLogInteraction(ctx context.Context, input *LogInteractionInput) (*InteractionOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	interaction, err := s.services.Interaction.LogInteraction(ctx, user, input.Body)
	if err != nil {
		return nil, err
	}

	return &InteractionOutput{Body: interaction}, nil
}

func (s *Server) handleListMyInteractions(ctx context.Context, _ *struct{}) (*InteractionsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	interactions, err := s.services.Interaction.ListMine(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &InteractionsOutput{
		Body: InteractionsResponse{Interactions: interactions},
	}, nil
}

func (s *Server) handleDeleteInteraction(ctx context.Context, input *InteractionIDInput) (*struct{}, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Interaction.DeleteInteraction(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}

func (s *Server) handleLikeInteraction(ctx context.Context, input *InteractionIDInput) (*struct{}, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Interaction.Like(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}

func (s *Server) handleUnlikeInteraction(ctx context.Context, input *InteractionIDInput) (*struct{}, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Interaction.Unlike(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}

func (s *Server) handleListThingInteractions(ctx context.Context, input *GetThingInput) (*InteractionsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	interactions, err := s.services.Interaction.ListForThing(ctx, user.ID, input.ID)
	if err != nil {
		return nil, err
	}

	return &InteractionsOutput{
		Body: InteractionsResponse{Interactions: interactions},
	}, nil
}
