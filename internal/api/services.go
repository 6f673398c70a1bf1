package api

import (
	"github.com/beenthereapp/beenthere-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Catalog        *service.CatalogService
	Interaction    *service.InteractionService
	Recommendation *service.RecommendationService
	Invitation     *service.InvitationService
	Tag            *service.TagService
	Feed           *service.FeedService
	Social         *service.SocialService
	Comment        *service.CommentService
	Notification   *service.NotificationService
}
