package production

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

// OrderStatus represents the status of a production order
type OrderStatus string

const (
	OrderStatusInProcess OrderStatus = "EN_PROCESO"
	OrderStatusFinalized OrderStatus = "FINALIZADA"
	OrderStatusCancelled OrderStatus = "ANULADA"
)

// IsValid checks if the status is valid
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusInProcess, OrderStatusFinalized, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusInProcess:
		return target == OrderStatusFinalized || target == OrderStatusCancelled
	default:
		return false
	}
}

// ItemKind classifies a production order line
type ItemKind string

const (
	ItemKindProduced  ItemKind = "PRODUCIDO"
	ItemKindByproduct ItemKind = "SUBPRODUCTO"
	ItemKindPackaging ItemKind = "EMPAQUE"
)

// IsValid checks if the item kind is valid
func (k ItemKind) IsValid() bool {
	switch k {
	case ItemKindProduced, ItemKindByproduct, ItemKindPackaging:
		return true
	}
	return false
}

// RequiredMaterialType returns the material type a line of this kind must use
func (k ItemKind) RequiredMaterialType() catalog.MaterialType {
	switch k {
	case ItemKindProduced:
		return catalog.MaterialTypeFinished
	case ItemKindByproduct:
		return catalog.MaterialTypeByproduct
	case ItemKindPackaging:
		return catalog.MaterialTypePackaging
	}
	return ""
}

// ProductionOrderItem is a produced, byproduct or packaging line of an order
type ProductionOrderItem struct {
	ID      uuid.UUID
	OrderID uuid.UUID
	Kind    ItemKind
	catalog.MaterialRef
	Quantity  decimal.Decimal
	Lot       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProductionOrderItem creates a line after checking the material fits the kind
func NewProductionOrderItem(orderID uuid.UUID, kind ItemKind, material *catalog.Material, quantity decimal.Decimal, lot string) (*ProductionOrderItem, error) {
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_KIND", "Invalid item kind: "+string(kind))
	}
	if material == nil {
		return nil, shared.NewDomainError("INVALID_MATERIAL", "Material is required")
	}
	if err := material.RequireType(kind.RequiredMaterialType()); err != nil {
		return nil, err
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &ProductionOrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		Kind:        kind,
		MaterialRef: material.Ref(),
		Quantity:    quantity,
		Lot:         strings.TrimSpace(lot),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// LineSpec describes a line to place on an order
type LineSpec struct {
	Kind     ItemKind
	Material *catalog.Material
	Quantity decimal.Decimal
	Lot      string
}

// ProductionOrder is a batch record of finished goods, byproducts and
// packaging materials from one production run.
type ProductionOrder struct {
	shared.BaseAggregateRoot
	Number         int64
	ProductionDate time.Time
	PlaceID        uuid.UUID
	PlaceName      string
	LabelerID      uuid.UUID
	LabelerName    string
	Status         OrderStatus
	Notes          string
	FinalizedAt    *time.Time
	CancelledAt    *time.Time
	CancelReason   string
	Items          []ProductionOrderItem
}

// NewProductionOrder creates an order in EN_PROCESO. The number is assigned on persistence.
func NewProductionOrder(date time.Time, place *plant.ProductionPlace, labeler *plant.Labeler) (*ProductionOrder, error) {
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Production date is required")
	}
	if err := requireHeaderRefs(place, labeler); err != nil {
		return nil, err
	}

	o := &ProductionOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductionDate:    shared.TruncateDay(date),
		PlaceID:           place.ID,
		PlaceName:         place.Name,
		LabelerID:         labeler.ID,
		LabelerName:       labeler.Name,
		Status:            OrderStatusInProcess,
		Items:             make([]ProductionOrderItem, 0),
	}
	return o, nil
}

func requireHeaderRefs(place *plant.ProductionPlace, labeler *plant.Labeler) error {
	if place == nil {
		return shared.NewDomainError("INVALID_PLACE", "Production place is required")
	}
	if err := place.RequireActive(); err != nil {
		return err
	}
	if labeler == nil {
		return shared.NewDomainError("INVALID_LABELER", "Labeler is required")
	}
	return labeler.RequireActive()
}

// AssignNumber sets the consecutive number allocated by the repository
func (o *ProductionOrder) AssignNumber(number int64) error {
	if number <= 0 {
		return shared.NewDomainError("INVALID_NUMBER", "Order number must be positive")
	}
	if o.Number != 0 {
		return shared.NewDomainError("NUMBER_ASSIGNED", "Order number is already assigned")
	}
	o.Number = number
	o.AddDomainEvent(NewProductionOrderCreatedEvent(o))
	return nil
}

// UpdateHeader changes date, place, labeler and notes
func (o *ProductionOrder) UpdateHeader(date time.Time, place *plant.ProductionPlace, labeler *plant.Labeler, notes string) error {
	if err := o.requireEditable(); err != nil {
		return err
	}
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Production date is required")
	}
	if err := requireHeaderRefs(place, labeler); err != nil {
		return err
	}

	o.ProductionDate = shared.TruncateDay(date)
	o.PlaceID = place.ID
	o.PlaceName = place.Name
	o.LabelerID = labeler.ID
	o.LabelerName = labeler.Name
	o.Notes = notes
	o.touch()
	return nil
}

// AddItem appends a line to the order
func (o *ProductionOrder) AddItem(spec LineSpec) (*ProductionOrderItem, error) {
	if err := o.requireEditable(); err != nil {
		return nil, err
	}
	item, err := NewProductionOrderItem(o.ID, spec.Kind, spec.Material, spec.Quantity, spec.Lot)
	if err != nil {
		return nil, err
	}
	o.Items = append(o.Items, *item)
	o.touch()
	return item, nil
}

// ReplaceItems swaps all lines for the given ones. Nothing changes when a line is invalid.
func (o *ProductionOrder) ReplaceItems(specs []LineSpec) error {
	if err := o.requireEditable(); err != nil {
		return err
	}
	items := make([]ProductionOrderItem, 0, len(specs))
	for i, spec := range specs {
		item, err := NewProductionOrderItem(o.ID, spec.Kind, spec.Material, spec.Quantity, spec.Lot)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		items = append(items, *item)
	}
	o.Items = items
	o.touch()
	return nil
}

// ItemsOf returns the lines of the given kind
func (o *ProductionOrder) ItemsOf(kind ItemKind) []ProductionOrderItem {
	out := make([]ProductionOrderItem, 0)
	for _, item := range o.Items {
		if item.Kind == kind {
			out = append(out, item)
		}
	}
	return out
}

// TotalOf sums the quantity of the lines of the given kind
func (o *ProductionOrder) TotalOf(kind ItemKind) decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		if item.Kind == kind {
			total = total.Add(item.Quantity)
		}
	}
	return total
}

// Finalize closes the order. It needs at least one produced line.
func (o *ProductionOrder) Finalize() error {
	if !o.Status.CanTransitionTo(OrderStatusFinalized) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot finalize order in %s status", o.Status))
	}
	if len(o.ItemsOf(ItemKindProduced)) == 0 {
		return shared.NewDomainError("NO_PRODUCED_ITEMS", "Order has no produced items")
	}

	now := time.Now()
	o.Status = OrderStatusFinalized
	o.FinalizedAt = &now
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewProductionOrderFinalizedEvent(o))
	return nil
}

// Cancel voids the order. A reason is mandatory.
func (o *ProductionOrder) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	o.AddDomainEvent(NewProductionOrderCancelledEvent(o))
	return nil
}

// CanDelete reports whether the order may be removed
func (o *ProductionOrder) CanDelete() bool {
	return o.Status == OrderStatusInProcess || o.Status == OrderStatusCancelled
}

func (o *ProductionOrder) requireEditable() error {
	if o.Status != OrderStatusInProcess {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order in %s status cannot be modified", o.Status))
	}
	return nil
}

func (o *ProductionOrder) touch() {
	o.Touch()
	o.IncrementVersion()
}
