package service

import (
	"context"
	"log/slog"

	"github.com/beenthereapp/beenthere-server/internal/domain"
	"github.com/beenthereapp/beenthere-server/internal/store"
)

// Sink delivers one notification to one user. Delivery is best-effort
// and fire-and-forget; a failed delivery never fails the operation that
// produced it.
type Sink interface {
	Deliver(ctx context.Context, n *domain.Notification)
}

// Dispatcher hands the side-effect list an operation produced to the
// sink, after the core mutation has committed. Keeping dispatch separate
// from the mutation keeps the core logic testable without a live sink.
type Dispatcher struct {
	sink   Sink
	logger *slog.Logger
}

// NewDispatcher creates a dispatcher backed by sink.
func NewDispatcher(sink Sink, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		sink:   sink,
		logger: logger,
	}
}

// Dispatch delivers each notification in order.
func (d *Dispatcher) Dispatch(ctx context.Context, effects ...*domain.Notification) {
	for _, n := range effects {
		if n == nil {
			continue
		}
		d.sink.Deliver(ctx, n)
	}
}

// StoreSink persists notifications in the document store, which also
// pushes them to connected clients over SSE.
type StoreSink struct {
	store  *store.Store
	logger *slog.Logger
}

// NewStoreSink creates a sink backed by the store.
func NewStoreSink(st *store.Store, logger *slog.Logger) *StoreSink {
	return &StoreSink{
		store:  st,
		logger: logger,
	}
}

// Deliver implements Sink.
func (s *StoreSink) Deliver(ctx context.Context, n *domain.Notification) {
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Warn("notification delivery failed",
			"user_id", n.UserID,
			"kind", n.Kind,
			"error", err,
		)
	}
}
