package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/search"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

func (s *Server) registerThingRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchProviders",
		Method:      http.MethodGet,
		Path:        "/api/v1/things/search",
		Summary:     "Search external providers",
		Description: "Queries the external catalog providers for candidate entries. Unavailable providers contribute zero candidates.",
		Tags:        []string{"Things"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchProviders)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/things/catalog",
		Summary:     "Search the local catalog",
		Description: "Full-text search over already-resolved catalog entries",
		Tags:        []string{"Things"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolveThing",
		Method:      http.MethodPost,
		Path:        "/api/v1/things/resolve",
		Summary:     "Resolve a thing",
		Description: "Deduplicates a provider candidate or manual entry into a canonical catalog entry",
		Tags:        []string{"Things"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleResolveThing)

	huma.Register(s.api, huma.Operation{
		OperationID: "getThing",
		Method:      http.MethodGet,
		Path:        "/api/v1/things/{id}",
		Summary:     "Get a thing",
		Tags:        []string{"Things"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetThing)
}

// === DTOs ===

// SearchProvidersInput contains provider search parameters.
type SearchProvidersInput struct {
	Query    string `query:"q" doc:"Free-text search query"`
	Category string `query:"category" enum:"place,book,media," doc:"Optional category filter"`
}

// CandidatesResponse lists provider candidates for resolution.
type CandidatesResponse struct {
	Candidates []*domain.Thing `json:"candidates" doc:"Candidate entries, not yet part of the catalog"`
}

// CandidatesOutput wraps provider search results for huma.
type CandidatesOutput struct {
	Body CandidatesResponse
}

// SearchCatalogInput contains local catalog search parameters.
type SearchCatalogInput struct {
	Query    string `query:"q" doc:"Free-text search query"`
	Category string `query:"category" enum:"place,book,media,manual," doc:"Optional category filter"`
	Limit    int    `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Max results"`
	Offset   int    `query:"offset" default:"0" minimum:"0" doc:"Results to skip"`
}

// SearchCatalogOutput wraps catalog search results for huma.
type SearchCatalogOutput struct {
	Body *search.Result
}

// ResolveThingInput wraps the resolve request body.
type ResolveThingInput struct {
	Body service.ResolveThingRequest
}

// ThingOutput wraps a single catalog entry for huma.
type ThingOutput struct {
	Body *domain.Thing
}

// GetThingInput identifies one catalog entry.
type GetThingInput struct {
	ID string `path:"id" doc:"Thing identifier"`
}

// === Handlers ===

func (s *Server) handleSearchProviders(ctx context.Context, input *SearchProvidersInput) (*CandidatesOutput, error) {
	if _, err := GetUser(ctx); err != nil {
		return nil, err
	}

	candidates, err := s.services.Catalog.SearchProviders(ctx, input.Query, domain.Category(input.Category))
	if err != nil {
		return nil, err
	}

	return &CandidatesOutput{
		Body: CandidatesResponse{Candidates: candidates},
	}, nil
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
	if _, err := GetUser(ctx); err != nil {
		return nil, err
	}

	result, err := s.services.Catalog.SearchCatalog(ctx, search.Params{
		Query:    input.Query,
		Category: domain.Category(input.Category),
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return nil, err
	}

	return &SearchCatalogOutput{Body: result}, nil
}

func (s *Server) handleResolveThing(ctx context.Context, input *ResolveThingInput) (*ThingOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	thing, err := s.services.Catalog.ResolveThing(ctx, user.ID, input.Body)
	if err != nil {
		return nil, err
	}

	return &ThingOutput{Body: thing}, nil
}

func (s *Server) handleGetThing(ctx context.Context, input *GetThingInput) (*ThingOutput, error) {
	if _, err := GetUser(ctx); err != nil {
		return nil, err
	}

	thing, err := s.services.Catalog.GetThing(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &ThingOutput{Body: thing}, nil
}
