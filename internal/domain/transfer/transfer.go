package transfer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Actor is the employee performing a step
type Actor struct {
	ID   uuid.UUID
	Name string
}

// ActorFrom builds an Actor from an active labeler
func ActorFrom(l *plant.Labeler) (Actor, error) {
	if l == nil {
		return Actor{}, shared.NewDomainError("INVALID_LABELER", "Employee is required")
	}
	if err := l.RequireActive(); err != nil {
		return Actor{}, err
	}
	return Actor{ID: l.ID, Name: l.Name}, nil
}

// StatusLog records one transition of a transfer
type StatusLog struct {
	ID         uuid.UUID
	TransferID uuid.UUID
	FromStatus Status
	ToStatus   Status
	ActorID    *uuid.UUID
	ActorName  string
	Note       string
	CreatedAt  time.Time
}

// Transfer moves a quantity of material between plant stages
type Transfer struct {
	shared.BaseAggregateRoot
	Number int64
	Kind   Kind
	catalog.MaterialRef
	Quantity              decimal.Decimal
	ReceivedQuantity      decimal.Decimal
	ProductionOrderID     *uuid.UUID
	ProductionOrderNumber int64
	Lot                   string
	RequestedByID         uuid.UUID
	RequestedByName       string
	ReceivedByID          *uuid.UUID
	ReceivedByName        string
	ReceivedAt            *time.Time
	ForwardedByID         *uuid.UUID
	ForwardedByName       string
	ForwardedAt           *time.Time
	FinalizedByID         *uuid.UUID
	FinalizedByName       string
	FinalizedAt           *time.Time
	RejectedByID          *uuid.UUID
	RejectedByName        string
	RejectedAt            *time.Time
	RejectReason          string
	Notes                 string
	Status                Status
	History               []StatusLog

	newLogs []StatusLog
}

// NewTransfer opens a pending transfer after checking the material fits the kind
func NewTransfer(kind Kind, material *catalog.Material, quantity decimal.Decimal, requester Actor, notes string) (*Transfer, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Invalid transfer kind: "+string(kind))
	}
	if material == nil {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material is required")
	}
	if err := material.RequireType(kind.MaterialType()); err != nil {
		return nil, err
	}
	return newTransfer(kind, material.Ref(), quantity, requester, notes)
}

// NewFinishedFromOrder opens a pending finished-product transfer for a produced line
func NewFinishedFromOrder(orderID uuid.UUID, orderNumber int64, ref catalog.MaterialRef, quantity decimal.Decimal, lot string, requester Actor) (*Transfer, error) {
	t, err := newTransfer(KindFinishedProduct, ref, quantity, requester, fmt.Sprintf("Orden de producción #%d", orderNumber))
	if err != nil {
		return nil, err
	}
	t.ProductionOrderID = &orderID
	t.ProductionOrderNumber = orderNumber
	t.Lot = lot
	return t, nil
}

func newTransfer(kind Kind, ref catalog.MaterialRef, quantity decimal.Decimal, requester Actor, notes string) (*Transfer, error) {
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if requester.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REQUESTER", "Requesting employee is required")
	}

	t := &Transfer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		MaterialRef:       ref,
		Quantity:          quantity,
		RequestedByID:     requester.ID,
		RequestedByName:   requester.Name,
		Notes:             notes,
		Status:            StatusPending,
		History:           make([]StatusLog, 0),
	}
	t.appendLog("", StatusPending, requester, "")
	return t, nil
}

// AssignNumber sets the consecutive number allocated by the repository
func (t *Transfer) AssignNumber(number int64) error {
	if number <= 0 {
		return shared.NewDomainError("INVALID_NUMBER", "Transfer number must be positive")
	}
	if t.Number != 0 {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Transfer number is already assigned")
	}
	t.Number = number
	t.AddDomainEvent(NewTransferCreatedEvent(t))
	return nil
}

// CheckVersion fails when the caller saw a different version
func (t *Transfer) CheckVersion(expected *int) error {
	if expected != nil && *expected != t.Version {
		return shared.NewDomainError("CONCURRENCY_CONFLICT",
			fmt.Sprintf("Transfer is at version %d, request expected %d", t.Version, *expected))
	}
	return nil
}

// UpdatePending changes quantity and notes while the transfer is pending
func (t *Transfer) UpdatePending(quantity decimal.Decimal, notes string) error {
	if t.Status != StatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Transfer in %s status cannot be modified", t.Status))
	}
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	t.Quantity = quantity
	t.Notes = notes
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Receive accepts the transfer. A zero received quantity means the full quantity.
func (t *Transfer) Receive(actor Actor, receivedQty decimal.Decimal, note string) error {
	if receivedQty.IsZero() {
		receivedQty = t.Quantity
	}
	if receivedQty.IsNegative() || receivedQty.GreaterThan(t.Quantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive and not exceed the sent quantity")
	}
	if err := t.transition(StatusReceived, actor, note); err != nil {
		return err
	}
	now := t.UpdatedAt
	t.ReceivedQuantity = receivedQty
	t.ReceivedByID = &actor.ID
	t.ReceivedByName = actor.Name
	t.ReceivedAt = &now
	return nil
}

// Reject refuses the transfer. A reason is mandatory.
func (t *Transfer) Reject(actor Actor, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Reject reason is required")
	}
	if err := t.transition(StatusRejected, actor, reason); err != nil {
		return err
	}
	now := t.UpdatedAt
	t.RejectedByID = &actor.ID
	t.RejectedByName = actor.Name
	t.RejectedAt = &now
	t.RejectReason = reason
	return nil
}

// Forward sends a received finished product on to packaging
func (t *Transfer) Forward(actor Actor, note string) error {
	if err := t.transition(StatusPackaging, actor, note); err != nil {
		return err
	}
	now := t.UpdatedAt
	t.ForwardedByID = &actor.ID
	t.ForwardedByName = actor.Name
	t.ForwardedAt = &now
	return nil
}

// Finalize records the reception in the warehouse
func (t *Transfer) Finalize(actor Actor, note string) error {
	if err := t.transition(StatusFinalized, actor, note); err != nil {
		return err
	}
	now := t.UpdatedAt
	t.FinalizedByID = &actor.ID
	t.FinalizedByName = actor.Name
	t.FinalizedAt = &now
	return nil
}

// IsRepeatOf reports whether the transfer already sits in target by the same actor,
// so that a retried request can be answered without a second transition.
func (t *Transfer) IsRepeatOf(target Status, actorID uuid.UUID) bool {
	if t.Status != target {
		return false
	}
	var by *uuid.UUID
	switch target {
	case StatusReceived:
		by = t.ReceivedByID
	case StatusRejected:
		by = t.RejectedByID
	case StatusPackaging:
		by = t.ForwardedByID
	case StatusFinalized:
		by = t.FinalizedByID
	}
	return by != nil && *by == actorID
}

// CanDelete reports whether the transfer may be removed
func (t *Transfer) CanDelete() bool {
	return t.Status == StatusPending || t.Status == StatusRejected
}

// NewLogs returns the status logs not yet persisted
func (t *Transfer) NewLogs() []StatusLog {
	return t.newLogs
}

// ClearNewLogs marks the pending logs as persisted
func (t *Transfer) ClearNewLogs() {
	t.newLogs = nil
}

func (t *Transfer) transition(to Status, actor Actor, note string) error {
	if !CanTransition(t.Kind, t.Status, to) {
		return shared.NewDomainError("INVALID_TRANSITION",
			fmt.Sprintf("Cannot transition %s transfer from %s to %s", t.Kind, t.Status, to))
	}
	if actor.ID == uuid.Nil {
		return shared.NewDomainError("INVALID_ACTOR", "Acting employee is required")
	}

	from := t.Status
	t.Status = to
	t.Touch()
	t.IncrementVersion()
	t.appendLog(from, to, actor, note)

	t.AddDomainEvent(NewTransferStatusChangedEvent(t, from, actor))
	return nil
}

func (t *Transfer) appendLog(from, to Status, actor Actor, note string) {
	var actorID *uuid.UUID
	if actor.ID != uuid.Nil {
		id := actor.ID
		actorID = &id
	}
	log := StatusLog{
		ID:         uuid.New(),
		TransferID: t.ID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		ActorName:  actor.Name,
		Note:       note,
		CreatedAt:  time.Now(),
	}
	t.History = append(t.History, log)
	t.newLogs = append(t.newLogs, log)
}
