package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/beenthereapp/beenthere-server/internal/domain"
)

func (s *Server) registerNotificationRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listNotifications",
		Method:      http.MethodGet,
		Path:        "/api/v1/notifications",
		Summary:     "List my notifications",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListNotifications)

	huma.Register(s.api, huma.Operation{
		OperationID: "markNotificationRead",
		Method:      http.MethodPost,
		Path:        "/api/v1/notifications/{id}/read",
		Summary:     "Mark a notification read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleMarkNotificationRead)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearReadNotifications",
		Method:      http.MethodDelete,
		Path:        "/api/v1/notifications/read",
		Summary:     "Clear read notifications",
		Description: "Removes every notification the caller has already read",
		Tags:        []string{"Notifications"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleClearReadNotifications)
}

// === DTOs ===

// NotificationsResponse lists notifications with the unread count.
type NotificationsResponse struct {
	Notifications []*domain.Notification `json:"notifications" doc:"Newest first"`
	UnreadCount   int                    `json:"unread_count"`
}

// NotificationsOutput wraps a notification list for huma.
type NotificationsOutput struct {
	Body NotificationsResponse
}

// NotificationIDInput identifies one notification.
type NotificationIDInput struct {
	ID string `path:"id" doc:"Notification identifier"`
}

// === Handlers ===

func (s *Server) handleListNotifications(ctx context.Context, _ *struct{}) (*NotificationsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	notifications, err := s.services.Notification.List(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	unread, err := s.services.Notification.UnreadCount(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &NotificationsOutput{
		Body: NotificationsResponse{
			Notifications: notifications,
			UnreadCount:   unread,
		},
	}, nil
}

// ClearedResponse reports how many notifications were removed.
type ClearedResponse struct {
	Cleared int `json:"cleared"`
}

// ClearedOutput wraps the clear result for huma.
type ClearedOutput struct {
	Body ClearedResponse
}

func (s *Server) handleClearReadNotifications(ctx context.Context, _ *struct{}) (*ClearedOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	cleared, err := s.services.Notification.ClearRead(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &ClearedOutput{Body: ClearedResponse{Cleared: cleared}}, nil
}

func (s *Server) handleMarkNotificationRead(ctx context.Context, input *NotificationIDInput) (*struct{}, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Notification.MarkRead(ctx, user.ID, input.ID); err != nil {
		return nil, err
	}

	return &struct{}{}, nil
}
