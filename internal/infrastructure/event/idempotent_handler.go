package event

import (
	"context"
	"time"

	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/infrastructure/cache"
	"go.uber.org/zap"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotentHandler wraps an EventHandler so each event id is handled once
// per TTL. Processed ids are recorded in a cache.Store.
type IdempotentHandler struct {
	handler shared.EventHandler
	store   cache.Store
	ttl     time.Duration
	logger  *zap.Logger
}

// NewIdempotentHandler creates an idempotent wrapper. A non-positive ttl uses 24h.
func NewIdempotentHandler(handler shared.EventHandler, store cache.Store, ttl time.Duration, logger *zap.Logger) *IdempotentHandler {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotentHandler{handler: handler, store: store, ttl: ttl, logger: logger}
}

// EventTypes returns the wrapped handler's event types
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle skips events already processed and marks successful ones
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	key := "event:" + event.EventID().String()

	_, seen, err := h.store.Get(ctx, key)
	if err != nil {
		h.logger.Warn("failed to check idempotency, processing anyway",
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	} else if seen {
		h.logger.Debug("duplicate event skipped",
			zap.String("event_id", event.EventID().String()),
			zap.String("event_type", event.EventType()),
		)
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		return err
	}

	if err := h.store.Set(ctx, key, []byte(event.EventType()), h.ttl); err != nil {
		h.logger.Warn("failed to record processed event",
			zap.String("event_id", event.EventID().String()),
			zap.Error(err),
		)
	}
	return nil
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
