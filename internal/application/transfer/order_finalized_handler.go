package transfer

import (
	"context"
	"fmt"

	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"go.uber.org/zap"
)

// OrderFinalizedHandler opens one pending finished-product transfer per
// produced line when a production order is finalized
type OrderFinalizedHandler struct {
	repo           transfer.Repository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrderFinalizedHandler creates a new handler for production order finalized events
func NewOrderFinalizedHandler(
	repo transfer.Repository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *OrderFinalizedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderFinalizedHandler{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderFinalizedHandler) EventTypes() []string {
	return []string{production.EventTypeProductionOrderFinalized}
}

// Handle creates the packaging hand-off transfers
func (h *OrderFinalizedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	finalized, ok := event.(*production.ProductionOrderFinalizedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			production.EventTypeProductionOrderFinalized, event.EventType())
	}

	exists, err := h.repo.ExistsForOrder(ctx, finalized.OrderID)
	if err != nil {
		return fmt.Errorf("failed to check transfers for order: %w", err)
	}
	if exists {
		h.logger.Warn("transfers already opened for order, skipping",
			zap.String("order_id", finalized.OrderID.String()),
			zap.Int64("order_number", finalized.Number),
		)
		return nil
	}

	requester := transfer.Actor{ID: finalized.LabelerID, Name: finalized.LabelerName}
	transfers := make([]*transfer.Transfer, 0, len(finalized.Produced))
	for _, line := range finalized.Produced {
		t, err := transfer.NewFinishedFromOrder(finalized.OrderID, finalized.Number, line.MaterialRef, line.Quantity, line.Lot, requester)
		if err != nil {
			return fmt.Errorf("failed to build transfer for %s: %w", line.MaterialCode, err)
		}
		transfers = append(transfers, t)
	}

	// all of an order's transfers are stored in one transaction
	if err := h.repo.CreateBatch(ctx, transfers); err != nil {
		h.logger.Error("failed to create finished product transfers",
			zap.String("order_id", finalized.OrderID.String()),
			zap.Int("transfers", len(transfers)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to create transfers: %w", err)
	}

	created := make([]shared.DomainEvent, 0, len(transfers))
	for _, t := range transfers {
		created = append(created, t.GetDomainEvents()...)
		t.ClearDomainEvents()
	}

	h.logger.Info("finished product transfers opened",
		zap.String("order_id", finalized.OrderID.String()),
		zap.Int64("order_number", finalized.Number),
		zap.Int("transfers", len(created)),
	)
	if h.eventPublisher != nil && len(created) > 0 {
		if err := h.eventPublisher.Publish(ctx, created...); err != nil {
			h.logger.Warn("failed to publish transfer created events",
				zap.String("order_id", finalized.OrderID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

var _ shared.EventHandler = (*OrderFinalizedHandler)(nil)
