package production

import (
	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeProductionOrder = "ProductionOrder"
	AggregateTypeProductionPlan  = "ProductionPlan"
)

// Event type constants
const (
	EventTypeProductionOrderCreated   = "ProductionOrderCreated"
	EventTypeProductionOrderFinalized = "ProductionOrderFinalized"
	EventTypeProductionOrderCancelled = "ProductionOrderCancelled"
	EventTypeProductionPlanCreated    = "ProductionPlanCreated"
	EventTypeProductionPlanClosed     = "ProductionPlanClosed"
)

// ProductionOrderCreatedEvent is published when an order receives its number
type ProductionOrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	Number    int64     `json:"number"`
	PlaceID   uuid.UUID `json:"place_id"`
	LabelerID uuid.UUID `json:"labeler_id"`
}

// NewProductionOrderCreatedEvent creates a new ProductionOrderCreatedEvent
func NewProductionOrderCreatedEvent(o *ProductionOrder) *ProductionOrderCreatedEvent {
	return &ProductionOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCreated, AggregateTypeProductionOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		PlaceID:         o.PlaceID,
		LabelerID:       o.LabelerID,
	}
}

// FinalizedLine is a produced line carried by ProductionOrderFinalizedEvent
type FinalizedLine struct {
	catalog.MaterialRef
	Quantity decimal.Decimal `json:"quantity"`
	Lot      string          `json:"lot,omitempty"`
}

// ProductionOrderFinalizedEvent is published when an order is finalized.
// Produced lines become pending finished-product transfers.
type ProductionOrderFinalizedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	Number      int64           `json:"number"`
	LabelerID   uuid.UUID       `json:"labeler_id"`
	LabelerName string          `json:"labeler_name"`
	Produced    []FinalizedLine `json:"produced"`
}

// NewProductionOrderFinalizedEvent creates a new ProductionOrderFinalizedEvent
func NewProductionOrderFinalizedEvent(o *ProductionOrder) *ProductionOrderFinalizedEvent {
	produced := o.ItemsOf(ItemKindProduced)
	lines := make([]FinalizedLine, len(produced))
	for i, item := range produced {
		lines[i] = FinalizedLine{
			MaterialRef: item.MaterialRef,
			Quantity:    item.Quantity,
			Lot:         item.Lot,
		}
	}
	return &ProductionOrderFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderFinalized, AggregateTypeProductionOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		LabelerID:       o.LabelerID,
		LabelerName:     o.LabelerName,
		Produced:        lines,
	}
}

// ProductionOrderCancelledEvent is published when an order is voided
type ProductionOrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID uuid.UUID `json:"order_id"`
	Number  int64     `json:"number"`
	Reason  string    `json:"reason"`
}

// NewProductionOrderCancelledEvent creates a new ProductionOrderCancelledEvent
func NewProductionOrderCancelledEvent(o *ProductionOrder) *ProductionOrderCancelledEvent {
	return &ProductionOrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionOrderCancelled, AggregateTypeProductionOrder, o.ID),
		OrderID:         o.ID,
		Number:          o.Number,
		Reason:          o.CancelReason,
	}
}

// ProductionPlanEvent is published when a plan is created, completed or cancelled
type ProductionPlanEvent struct {
	shared.BaseDomainEvent
	PlanID     uuid.UUID  `json:"plan_id"`
	MaterialID uuid.UUID  `json:"material_id"`
	Status     PlanStatus `json:"status"`
}

// NewProductionPlanEvent creates a new ProductionPlanEvent
func NewProductionPlanEvent(eventType string, p *ProductionPlan) *ProductionPlanEvent {
	return &ProductionPlanEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProductionPlan, p.ID),
		PlanID:          p.ID,
		MaterialID:      p.MaterialID,
		Status:          p.Status,
	}
}
