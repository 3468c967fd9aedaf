package analytics

import (
	"context"

	"github.com/acbharath14/linkeshortenerproject/internal/shortener"
	"go.uber.org/zap"
)

// Handler turns analytics events into persisted records and click counts.
// Its methods are messaging.Handler funcs, consumed via the generic
// consumer in the messaging package.
type Handler struct {
	store  Store
	repo   shortener.Repository
	logger *zap.Logger
}

// NewHandler creates an analytics event handler. repo may be nil when no
// repository is available to count clicks against.
func NewHandler(store Store, repo shortener.Repository, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		repo:   repo,
		logger: logger,
	}
}

// HandleURLCreated persists a creation event.
func (h *Handler) HandleURLCreated(ctx context.Context, event *URLCreatedEvent) error {
	return h.store.SaveURLCreated(ctx, event)
}

// HandleURLAccessed persists an access event and bumps the click counter.
// A failed click increment is logged but does not fail (and so re-deliver)
// the event: the raw access record is the source of truth.
func (h *Handler) HandleURLAccessed(ctx context.Context, event *URLAccessedEvent) error {
	if err := h.store.SaveURLAccessed(ctx, event); err != nil {
		return err
	}

	if h.repo != nil {
		if err := h.repo.IncrementClicks(ctx, shortener.Code(event.Code)); err != nil {
			h.logger.Error("failed to increment click counter",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}
	}

	return nil
}
