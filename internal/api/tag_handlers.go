package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "createTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags",
		Summary:     "Tag a user",
		Description: "Records a pending assertion that another user co-experienced one of the caller's logged things",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPendingTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/pending",
		Summary:     "List pending tags",
		Description: "Returns the undecided tags addressed to the caller",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPendingTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGivenTags",
		Method:      http.MethodGet,
		Path:        "/api/v1/tags/given",
		Summary:     "List tags I created",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGivenTags)

	huma.Register(s.api, huma.Operation{
		OperationID: "acceptTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags/{id}/accept",
		Summary:     "Accept a tag",
		Description: "Clones the tagger's state and rating into the caller's own interaction",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAcceptTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "declineTag",
		Method:      http.MethodPost,
		Path:        "/api/v1/tags/{id}/decline",
		Summary:     "Decline a tag",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeclineTag)
}

// === DTOs ===

// CreateTagInput wraps the tag request body.
type CreateTagInput struct {
	Body service.CreateTagRequest
}

// TagOutput wraps a single tag for huma.
type TagOutput struct {
	Body *domain.Tag
}

// TagsResponse lists tags.
type TagsResponse struct {
	Tags []*domain.Tag `json:"tags"`
}

// TagsOutput wraps a tag list for huma.
type TagsOutput struct {
	Body TagsResponse
}

// TagIDInput identifies one tag.
type TagIDInput struct {
	ID string `path:"id" doc:"Tag identifier"`
}

// === Handlers ===

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.CreateTag(ctx, user, input.Body)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: tag}, nil
}

func (s *Server) handleListPendingTags(ctx context.Context, _ *struct{}) (*TagsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.PendingTags(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &TagsOutput{Body: TagsResponse{Tags: tags}}, nil
}

func (s *Server) handleListGivenTags(ctx context.Context, _ *struct{}) (*TagsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.GivenTags(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &TagsOutput{Body: TagsResponse{Tags: tags}}, nil
}

func (s *Server) handleAcceptTag(ctx context.Context, input *TagIDInput) (*TagOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.AcceptTag(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: tag}, nil
}

func (s *Server) handleDeclineTag(ctx context.Context, input *TagIDInput) (*TagOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	tag, err := s.services.Tag.DeclineTag(ctx, user, input.ID)
	if err != nil {
		return nil, err
	}

	return &TagOutput{Body: tag}, nil
}
