package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/service"
)

func (s *Server) registerCommentRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addComment",
		Method:      http.MethodPost,
		Path:        "/api/v1/comments",
		Summary:     "Add a comment",
		Description: "Attaches a comment to a thing's conversation thread",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteComment",
		Method:      http.MethodDelete,
		Path:        "/api/v1/comments/{id}",
		Summary:     "Delete a comment",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteComment)

	huma.Register(s.api, huma.Operation{
		OperationID: "listThingComments",
		Method:      http.MethodGet,
		Path:        "/api/v1/things/{id}/comments",
		Summary:     "List a thing's comments",
		Tags:        []string{"Comments"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListThingComments)
}

// === DTOs ===

// AddCommentInput wraps the comment request body.
type AddCommentInput struct {
	Body service.AddCommentRequest
}

// CommentOutput wraps a single comment for huma.
type CommentOutput struct {
	Body *domain.Comment
}

// CommentsResponse lists comments, oldest first.
type CommentsResponse struct {
	Comments []*domain.Comment `json:"comments"`
}

// CommentsOutput wraps a comment list for huma.
type CommentsOutput struct {
	Body CommentsResponse
}

// CommentIDInput identifies one comment.
type CommentIDInput struct {
	ID string `path:"id" doc:"Comment identifier"`
}

// === Handlers ===

func (s *Server) handleAddComment(ctx context.Context, input *AddCommentInput) (*CommentOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	comment, err := s.services.Comment.AddComment(ctx, user, input.Body)
	if err != nil {
		return nil, err
	}

	return &CommentOutput{Body: comment}, nil
}

func (s *Server) handleDeleteComment(ctx context.Context, input *CommentIDInput) (*struct{}, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Comment.DeleteComment(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}

func (s *Server) handleListThingComments(ctx context.Context, input *GetThingInput) (*CommentsOutput, error) {
	if _, err := GetUser(ctx); err != nil {
		return nil, err
	}

	comments, err := s.services.Comment.ListComments(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CommentsOutput{Body: CommentsResponse{Comments: comments}}, nil
}
