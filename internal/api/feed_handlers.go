package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Get my feed",
		Description: "Returns the friends-visible interactions of everyone the caller follows, grouped by thing and ordered by recency",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFeed)
}

// FeedResponse is the viewer's assembled feed.
type FeedResponse struct {
	Things []*domain.FeedThing `json:"things" doc:"Feed groups, newest activity first"`
}

// FeedOutput wraps the feed for huma.
type FeedOutput struct {
	Body FeedResponse
}

func (s *Server) handleGetFeed(ctx context.Context, _ *struct{}) (*FeedOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	feed, err := s.services.Feed.BuildFeed(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &FeedOutput{Body: FeedResponse{Things: feed}}, nil
}
