package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

func (s *Server) registerRecommendationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createRecommendation",
		Method:      http.MethodPost,
		Path:        "/api/v1/recommendations",
		Summary:     "Create a recommendation",
		Description: "Finds or creates the edge for the (from, to, thing) triple. Safe to call speculatively; duplicates are never created.",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateRecommendation)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecommendationsReceived",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/received",
		Summary:     "List recommendations received",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListReceived)

	huma.Register(s.api, huma.Operation{
		OperationID: "listRecommendationsGiven",
		Method:      http.MethodGet,
		Path:        "/api/v1/recommendations/given",
		Summary:     "List recommendations given",
		Tags:        []string{"Recommendations"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGiven)
}

// === DTOs ===

// CreateRecommendationInput wraps the recommendation request body.
type CreateRecommendationInput struct {
	Body service.CreateRecommendationRequest
}

// RecommendationOutput wraps a single recommendation for huma.
type RecommendationOutput struct {
	Body *domain.Recommendation
}

// RecommendationsResponse lists recommendations, newest first.
type RecommendationsResponse struct {
	Recommendations []*domain.Recommendation `json:"recommendations"`
}

// RecommendationsOutput wraps a recommendation list for huma.
type RecommendationsOutput struct {
	Body RecommendationsResponse
}

// === Handlers ===

func (s *Server) handleCreateRecommendation(ctx context.Context, input *CreateRecommendationInput) (*RecommendationOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	rec, err := s.services.Recommendation.CreateRecommendation(ctx, user, input.Body)
	if err != nil {
		return nil, err
	}

	return &RecommendationOutput{Body: rec}, nil
}

func (s *Server) handleListReceived(ctx context.Context, _ *struct{}) (*RecommendationsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.services.Recommendation.Received(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &RecommendationsOutput{
		Body: RecommendationsResponse{Recommendations: recs},
	}, nil
}

func (s *Server) handleListGiven(ctx context.Context, _ *struct{}) (*RecommendationsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	recs, err := s.services.Recommendation.Given(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &RecommendationsOutput{
		Body: RecommendationsResponse{Recommendations: recs},
	}, nil
}
