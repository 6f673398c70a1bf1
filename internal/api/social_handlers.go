package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPut,
		Path:        "/api/v1/follows/{userId}",
		Summary:     "Follow a user",
		Description: "Creates a follow edge from the caller. Re-following is a no-op.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/follows/{userId}",
		Summary:     "Unfollow a user",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/follows/following",
		Summary:     "List who I follow",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowing)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/follows/followers",
		Summary:     "List my followers",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListFollowers)
}

// === DTOs ===

// FollowUserInput identifies the user to follow or unfollow.
type FollowUserInput struct {
	UserID string `path:"userId" doc:"User to follow or unfollow"`
}

// FollowOutput wraps a follow edge for huma.
type FollowOutput struct {
	Body *domain.Follow
}

// UserIDsResponse lists user identifiers.
type UserIDsResponse struct {
	UserIDs []string `json:"user_ids"`
}

// UserIDsOutput wraps a user id list for huma.
type UserIDsOutput struct {
	Body UserIDsResponse
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *FollowUserInput) (*FollowOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	follow, err := s.services.Social.Follow(ctx, user.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	return &FollowOutput{Body: follow}, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *FollowUserInput) (*struct{}, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, user.ID, input.UserID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}

func (s *Server) handleListFollowing(ctx context.Context, _ *struct{}) (*UserIDsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.services.Social.Following(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UserIDsOutput{Body: UserIDsResponse{UserIDs: ids}}, nil
}

func (s *Server) handleListFollowers(ctx context.Context, _ *struct{}) (*UserIDsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	ids, err := s.services.Social.Followers(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &UserIDsOutput{Body: UserIDsResponse{UserIDs: ids}}, nil
}
