package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/shopspring/decimal"
)

// ProductionOrderModel is the persistence model for the ProductionOrder aggregate root.
type ProductionOrderModel struct {
	AggregateModel
	Number         int64                      `gorm:"not null;uniqueIndex:idx_production_order_number"`
	ProductionDate time.Time                  `gorm:"type:date;not null;index"`
	PlaceID        uuid.UUID                  `gorm:"type:uuid;not null;index"`
	PlaceName      string                     `gorm:"type:varchar(100);not null"`
	LabelerID      uuid.UUID                  `gorm:"type:uuid;not null;index"`
	LabelerName    string                     `gorm:"type:varchar(150);not null"`
	Status         production.OrderStatus     `gorm:"type:varchar(20);not null;default:'EN_PROCESO';index"`
	Notes          string                     `gorm:"type:text"`
	FinalizedAt    *time.Time                 `gorm:""`
	CancelledAt    *time.Time                 `gorm:""`
	CancelReason   string                     `gorm:"type:varchar(500)"`
	Items          []ProductionOrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductionOrderModel) TableName() string {
	return "production_orders"
}

// ToDomain converts the persistence model to a domain ProductionOrder.
func (m *ProductionOrderModel) ToDomain() *production.ProductionOrder {
	o := &production.ProductionOrder{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		ProductionDate:    m.ProductionDate.UTC(),
		PlaceID:           m.PlaceID,
		PlaceName:         m.PlaceName,
		LabelerID:         m.LabelerID,
		LabelerName:       m.LabelerName,
		Status:            m.Status,
		Notes:             m.Notes,
		FinalizedAt:       m.FinalizedAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Items:             make([]production.ProductionOrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		o.Items[i] = *item.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain ProductionOrder.
func (m *ProductionOrderModel) FromDomain(o *production.ProductionOrder) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.Number = o.Number
	m.ProductionDate = o.ProductionDate
	m.PlaceID = o.PlaceID
	m.PlaceName = o.PlaceName
	m.LabelerID = o.LabelerID
	m.LabelerName = o.LabelerName
	m.Status = o.Status
	m.Notes = o.Notes
	m.FinalizedAt = o.FinalizedAt
	m.CancelledAt = o.CancelledAt
	m.CancelReason = o.CancelReason
	m.Items = make([]ProductionOrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = *ProductionOrderItemModelFromDomain(&o.Items[i])
	}
}

// ProductionOrderModelFromDomain creates a new persistence model from a domain ProductionOrder.
func ProductionOrderModelFromDomain(o *production.ProductionOrder) *ProductionOrderModel {
	m := &ProductionOrderModel{}
	m.FromDomain(o)
	return m
}

// ProductionOrderItemModel is the persistence model for a production order line.
type ProductionOrderItemModel struct {
	ID           uuid.UUID           `gorm:"type:uuid;primary_key"`
	OrderID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	Kind         production.ItemKind `gorm:"type:varchar(20);not null"`
	MaterialID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	MaterialCode string              `gorm:"type:varchar(50);not null"`
	MaterialName string              `gorm:"type:varchar(200);not null"`
	Unit         string              `gorm:"type:varchar(20);not null"`
	Quantity     decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Lot          string              `gorm:"type:varchar(100)"`
	CreatedAt    time.Time           `gorm:"not null"`
	UpdatedAt    time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductionOrderItemModel) TableName() string {
	return "production_order_items"
}

// ToDomain converts the persistence model to a domain ProductionOrderItem.
func (m *ProductionOrderItemModel) ToDomain() *production.ProductionOrderItem {
	return &production.ProductionOrderItem{
		ID:      m.ID,
		OrderID: m.OrderID,
		Kind:    m.Kind,
		MaterialRef: catalog.MaterialRef{
			MaterialID:   m.MaterialID,
			MaterialCode: m.MaterialCode,
			MaterialName: m.MaterialName,
			Unit:         m.Unit,
		},
		Quantity:  m.Quantity,
		Lot:       m.Lot,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ProductionOrderItemModelFromDomain creates a new persistence model from a domain ProductionOrderItem.
func ProductionOrderItemModelFromDomain(item *production.ProductionOrderItem) *ProductionOrderItemModel {
	return &ProductionOrderItemModel{
		ID:           item.ID,
		OrderID:      item.OrderID,
		Kind:         item.Kind,
		MaterialID:   item.MaterialID,
		MaterialCode: item.MaterialCode,
		MaterialName: item.MaterialName,
		Unit:         item.Unit,
		Quantity:     item.Quantity,
		Lot:          item.Lot,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}
