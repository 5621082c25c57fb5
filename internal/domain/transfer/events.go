package transfer

import (
	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTransfer = "Transfer"

// Event type constants
const (
	EventTypeTransferCreated       = "TransferCreated"
	EventTypeTransferStatusChanged = "TransferStatusChanged"
)

// TransferCreatedEvent is published when a transfer receives its number
type TransferCreatedEvent struct {
	shared.BaseDomainEvent
	TransferID uuid.UUID       `json:"transfer_id"`
	Number     int64           `json:"number"`
	Kind       Kind            `json:"kind"`
	MaterialID uuid.UUID       `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// NewTransferCreatedEvent creates a new TransferCreatedEvent
func NewTransferCreatedEvent(t *Transfer) *TransferCreatedEvent {
	return &TransferCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferCreated, AggregateTypeTransfer, t.ID),
		TransferID:      t.ID,
		Number:          t.Number,
		Kind:            t.Kind,
		MaterialID:      t.MaterialID,
		Quantity:        t.Quantity,
	}
}

// TransferStatusChangedEvent is published on every transition
type TransferStatusChangedEvent struct {
	shared.BaseDomainEvent
	TransferID uuid.UUID `json:"transfer_id"`
	Number     int64     `json:"number"`
	Kind       Kind      `json:"kind"`
	FromStatus Status    `json:"from_status"`
	ToStatus   Status    `json:"to_status"`
	ActorID    uuid.UUID `json:"actor_id"`
	ActorName  string    `json:"actor_name"`
}

// NewTransferStatusChangedEvent creates a new TransferStatusChangedEvent
func NewTransferStatusChangedEvent(t *Transfer, from Status, actor Actor) *TransferStatusChangedEvent {
	return &TransferStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferStatusChanged, AggregateTypeTransfer, t.ID),
		TransferID:      t.ID,
		Number:          t.Number,
		Kind:            t.Kind,
		FromStatus:      from,
		ToStatus:        t.Status,
		ActorID:         actor.ID,
		ActorName:       actor.Name,
	}
}
