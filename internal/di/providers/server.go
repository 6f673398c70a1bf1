package providers

import (
	"context"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/beenthereapp/beenthere-server/internal/api"
	"github.com/beenthereapp/beenthere-server/internal/auth"
	"github.com/beenthereapp/beenthere-server/internal/config"
	"github.com/beenthereapp/beenthere-server/internal/logger"
	"github.com/beenthereapp/beenthere-server/internal/service"
	"github.com/beenthereapp/beenthere-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Catalog:        do.MustInvoke[*service.CatalogService](i),
		Interaction:    do.MustInvoke[*service.InteractionService](i),
		Recommendation: do.MustInvoke[*service.RecommendationService](i),
		Invitation:     do.MustInvoke[*service.InvitationService](i),
		Tag:            do.MustInvoke[*service.TagService](i),
		Feed:           do.MustInvoke[*service.FeedService](i),
		Social:         do.MustInvoke[*service.SocialService](i),
		Comment:        do.MustInvoke[*service.CommentService](i),
		Notification:   do.MustInvoke[*service.NotificationService](i),
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, tokens, log.Logger)

	handler := api.NewServer(storeHandle.Store, services, tokens, sseHandler, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "base_url", cfg.Server.BaseURL)

	return &HTTPServerHandle{Server: srv}, nil
}
