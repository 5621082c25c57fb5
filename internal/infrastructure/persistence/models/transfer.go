package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
)

// TransferModel is the persistence model for the Transfer aggregate root.
type TransferModel struct {
	AggregateModel
	Number                int64                    `gorm:"not null;uniqueIndex:idx_transfer_kind_number,priority:2"`
	Kind                  transfer.Kind            `gorm:"type:varchar(30);not null;uniqueIndex:idx_transfer_kind_number,priority:1"`
	MaterialID            uuid.UUID                `gorm:"type:uuid;not null;index"`
	MaterialCode          string                   `gorm:"type:varchar(50);not null"`
	MaterialName          string                   `gorm:"type:varchar(200);not null"`
	Unit                  string                   `gorm:"type:varchar(20);not null"`
	Quantity              decimal.Decimal          `gorm:"type:decimal(18,4);not null"`
	ReceivedQuantity      decimal.Decimal          `gorm:"type:decimal(18,4);not null;default:0"`
	ProductionOrderID     *uuid.UUID               `gorm:"type:uuid;index"`
	ProductionOrderNumber int64                    `gorm:"not null;default:0"`
	Lot                   string                   `gorm:"type:varchar(100)"`
	RequestedByID         uuid.UUID                `gorm:"type:uuid;not null;index"`
	RequestedByName       string                   `gorm:"type:varchar(150);not null"`
	ReceivedByID          *uuid.UUID               `gorm:"type:uuid"`
	ReceivedByName        string                   `gorm:"type:varchar(150)"`
	ReceivedAt            *time.Time               `gorm:""`
	ForwardedByID         *uuid.UUID               `gorm:"type:uuid"`
	ForwardedByName       string                   `gorm:"type:varchar(150)"`
	ForwardedAt           *time.Time               `gorm:""`
	FinalizedByID         *uuid.UUID               `gorm:"type:uuid"`
	FinalizedByName       string                   `gorm:"type:varchar(150)"`
	FinalizedAt           *time.Time               `gorm:""`
	RejectedByID          *uuid.UUID               `gorm:"type:uuid"`
	RejectedByName        string                   `gorm:"type:varchar(150)"`
	RejectedAt            *time.Time               `gorm:""`
	RejectReason          string                   `gorm:"type:varchar(500)"`
	Notes                 string                   `gorm:"type:text"`
	Status                transfer.Status          `gorm:"type:varchar(20);not null;default:'PENDIENTE';index"`
	SearchKey             string                   `gorm:"type:varchar(300);index"`
	History               []TransferStatusLogModel `gorm:"foreignKey:TransferID;references:ID"`
}

// TableName returns the table name for GORM
func (TransferModel) TableName() string {
	return "transfers"
}

// ToDomain converts the persistence model to a domain Transfer.
func (m *TransferModel) ToDomain() *transfer.Transfer {
	t := &transfer.Transfer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Number:            m.Number,
		Kind:              m.Kind,
		MaterialRef: catalog.MaterialRef{
			MaterialID:   m.MaterialID,
			MaterialCode: m.MaterialCode,
			MaterialName: m.MaterialName,
			Unit:         m.Unit,
		},
		Quantity:              m.Quantity,
		ReceivedQuantity:      m.ReceivedQuantity,
		ProductionOrderID:     m.ProductionOrderID,
		ProductionOrderNumber: m.ProductionOrderNumber,
		Lot:                   m.Lot,
		RequestedByID:         m.RequestedByID,
		RequestedByName:       m.RequestedByName,
		ReceivedByID:          m.ReceivedByID,
		ReceivedByName:        m.ReceivedByName,
		ReceivedAt:            m.ReceivedAt,
		ForwardedByID:         m.ForwardedByID,
		ForwardedByName:       m.ForwardedByName,
		ForwardedAt:           m.ForwardedAt,
		FinalizedByID:         m.FinalizedByID,
		FinalizedByName:       m.FinalizedByName,
		FinalizedAt:           m.FinalizedAt,
		RejectedByID:          m.RejectedByID,
		RejectedByName:        m.RejectedByName,
		RejectedAt:            m.RejectedAt,
		RejectReason:          m.RejectReason,
		Notes:                 m.Notes,
		Status:                m.Status,
		History:               make([]transfer.StatusLog, len(m.History)),
	}
	for i, log := range m.History {
		t.History[i] = *log.ToDomain()
	}
	return t
}

// FromDomain populates the persistence model from a domain Transfer.
// History is not copied; logs are appended separately.
func (m *TransferModel) FromDomain(t *transfer.Transfer) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Number = t.Number
	m.Kind = t.Kind
	m.MaterialID = t.MaterialID
	m.MaterialCode = t.MaterialCode
	m.MaterialName = t.MaterialName
	m.Unit = t.Unit
	m.Quantity = t.Quantity
	m.ReceivedQuantity = t.ReceivedQuantity
	m.ProductionOrderID = t.ProductionOrderID
	m.ProductionOrderNumber = t.ProductionOrderNumber
	m.Lot = t.Lot
	m.RequestedByID = t.RequestedByID
	m.RequestedByName = t.RequestedByName
	m.ReceivedByID = t.ReceivedByID
	m.ReceivedByName = t.ReceivedByName
	m.ReceivedAt = t.ReceivedAt
	m.ForwardedByID = t.ForwardedByID
	m.ForwardedByName = t.ForwardedByName
	m.ForwardedAt = t.ForwardedAt
	m.FinalizedByID = t.FinalizedByID
	m.FinalizedByName = t.FinalizedByName
	m.FinalizedAt = t.FinalizedAt
	m.RejectedByID = t.RejectedByID
	m.RejectedByName = t.RejectedByName
	m.RejectedAt = t.RejectedAt
	m.RejectReason = t.RejectReason
	m.Notes = t.Notes
	m.Status = t.Status
	m.refreshSearchKey()
}

// TransferModelFromDomain creates a new persistence model from a domain Transfer.
func TransferModelFromDomain(t *transfer.Transfer) *TransferModel {
	m := &TransferModel{}
	m.FromDomain(t)
	return m
}

// TransferStatusLogModel is the persistence model for one transfer transition.
type TransferStatusLogModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key"`
	TransferID uuid.UUID       `gorm:"type:uuid;not null;index"`
	FromStatus transfer.Status `gorm:"type:varchar(20)"`
	ToStatus   transfer.Status `gorm:"type:varchar(20);not null"`
	ActorID    *uuid.UUID      `gorm:"type:uuid"`
	ActorName  string          `gorm:"type:varchar(150)"`
	Note       string          `gorm:"type:varchar(500)"`
	CreatedAt  time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (TransferStatusLogModel) TableName() string {
	return "transfer_status_logs"
}

// ToDomain converts the persistence model to a domain StatusLog.
func (m *TransferStatusLogModel) ToDomain() *transfer.StatusLog {
	return &transfer.StatusLog{
		ID:         m.ID,
		TransferID: m.TransferID,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		ActorID:    m.ActorID,
		ActorName:  m.ActorName,
		Note:       m.Note,
		CreatedAt:  m.CreatedAt,
	}
}

// TransferStatusLogModelFromDomain creates a new persistence model from a domain StatusLog.
func TransferStatusLogModelFromDomain(log *transfer.StatusLog) *TransferStatusLogModel {
	return &TransferStatusLogModel{
		ID:         log.ID,
		TransferID: log.TransferID,
		FromStatus: log.FromStatus,
		ToStatus:   log.ToStatus,
		ActorID:    log.ActorID,
		ActorName:  log.ActorName,
		Note:       log.Note,
		CreatedAt:  log.CreatedAt,
	}
}
