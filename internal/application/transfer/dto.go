package transfer

import (
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest opens a raw or finished transfer
type CreateTransferRequest struct {
	MaterialID uuid.UUID       `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	EmployeeID uuid.UUID       `json:"employee_id" binding:"required"`
	Notes      string          `json:"notes" binding:"max=2000"`
}

// UpdateTransferRequest changes a pending transfer
type UpdateTransferRequest struct {
	Quantity        decimal.Decimal `json:"quantity"`
	Notes           string          `json:"notes" binding:"max=2000"`
	ExpectedVersion *int            `json:"expected_version"`
}

// ReceiveRequest accepts a transfer. A zero quantity receives everything sent.
type ReceiveRequest struct {
	EmployeeID       uuid.UUID       `json:"employee_id" binding:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	Note             string          `json:"note" binding:"max=500"`
	ExpectedVersion  *int            `json:"expected_version"`
}

// RejectRequest refuses a transfer
type RejectRequest struct {
	EmployeeID      uuid.UUID `json:"employee_id" binding:"required"`
	Reason          string    `json:"reason" binding:"required,min=1,max=500"`
	ExpectedVersion *int      `json:"expected_version"`
}

// StepRequest forwards or finalizes a finished transfer
type StepRequest struct {
	EmployeeID      uuid.UUID `json:"employee_id" binding:"required"`
	Note            string    `json:"note" binding:"max=500"`
	ExpectedVersion *int      `json:"expected_version"`
}

// StatusLogResponse is one history row
type StatusLogResponse struct {
	FromStatus string     `json:"from_status"`
	ToStatus   string     `json:"to_status"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	ActorName  string     `json:"actor_name"`
	Note       string     `json:"note"`
	At         time.Time  `json:"at"`
}

// TransferResponse represents a transfer in API responses
type TransferResponse struct {
	ID                    uuid.UUID           `json:"id"`
	Number                int64               `json:"number"`
	Kind                  string              `json:"kind"`
	MaterialID            uuid.UUID           `json:"material_id"`
	MaterialCode          string              `json:"material_code"`
	MaterialName          string              `json:"material_name"`
	Unit                  string              `json:"unit"`
	Quantity              decimal.Decimal     `json:"quantity"`
	ReceivedQuantity      decimal.Decimal     `json:"received_quantity"`
	ProductionOrderID     *uuid.UUID          `json:"production_order_id,omitempty"`
	ProductionOrderNumber int64               `json:"production_order_number,omitempty"`
	Lot                   string              `json:"lot,omitempty"`
	RequestedByID         uuid.UUID           `json:"requested_by_id"`
	RequestedByName       string              `json:"requested_by_name"`
	ReceivedByID          *uuid.UUID          `json:"received_by_id,omitempty"`
	ReceivedByName        string              `json:"received_by_name,omitempty"`
	ReceivedAt            *time.Time          `json:"received_at,omitempty"`
	ForwardedByID         *uuid.UUID          `json:"forwarded_by_id,omitempty"`
	ForwardedByName       string              `json:"forwarded_by_name,omitempty"`
	ForwardedAt           *time.Time          `json:"forwarded_at,omitempty"`
	FinalizedByID         *uuid.UUID          `json:"finalized_by_id,omitempty"`
	FinalizedByName       string              `json:"finalized_by_name,omitempty"`
	FinalizedAt           *time.Time          `json:"finalized_at,omitempty"`
	RejectedByID          *uuid.UUID          `json:"rejected_by_id,omitempty"`
	RejectedByName        string              `json:"rejected_by_name,omitempty"`
	RejectedAt            *time.Time          `json:"rejected_at,omitempty"`
	RejectReason          string              `json:"reject_reason,omitempty"`
	Notes                 string              `json:"notes"`
	Status                string              `json:"status"`
	NextStatuses          []string            `json:"next_statuses"`
	Terminal              bool                `json:"terminal"`
	History               []StatusLogResponse `json:"history,omitempty"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
	Version               int                 `json:"version"`
}

// SummaryRow is the count and quantity of one status
type SummaryRow struct {
	Status   string          `json:"status"`
	Count    int64           `json:"count"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SummaryResponse groups the transfers of a kind by status
type SummaryResponse struct {
	Kind          string          `json:"kind"`
	Rows          []SummaryRow    `json:"rows"`
	TotalCount    int64           `json:"total_count"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// ListFilter represents filter options for transfer lists
type ListFilter struct {
	Search            string `form:"search"`
	Status            string `form:"status" binding:"omitempty,oneof=PENDIENTE RECIBIDO RECHAZADO EN_EMPAQUE FINALIZADO"`
	MaterialID        string `form:"material_id" binding:"omitempty,uuid"`
	RequestedByID     string `form:"requested_by_id" binding:"omitempty,uuid"`
	ReceivedByID      string `form:"received_by_id" binding:"omitempty,uuid"`
	ProductionOrderID string `form:"production_order_id" binding:"omitempty,uuid"`
	DateFrom          string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo            string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page              int    `form:"page" binding:"omitempty,min=1"`
	PageSize          int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy           string `form:"order_by"`
	OrderDir          string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter builds the repository filter for one kind
func (f ListFilter) ToDomainFilter(kind transfer.Kind) (shared.Filter, error) {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  map[string]interface{}{"kind": string(kind)},
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "number"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	for key, value := range map[string]string{
		"material_id":         f.MaterialID,
		"requested_by_id":     f.RequestedByID,
		"received_by_id":      f.ReceivedByID,
		"production_order_id": f.ProductionOrderID,
	} {
		if value == "" {
			continue
		}
		id, err := uuid.Parse(value)
		if err != nil {
			return filter, shared.NewDomainError("INVALID_INPUT", "Invalid "+key)
		}
		filter.Filters[key] = id
	}
	dates, err := shared.ParseDateRange(f.DateFrom, f.DateTo)
	if err != nil {
		return filter, err
	}
	dates.Apply(filter.Filters)
	return filter, nil
}

// ToTransferResponse converts a domain Transfer to TransferResponse
func ToTransferResponse(t *transfer.Transfer) TransferResponse {
	resp := TransferResponse{
		ID:                    t.ID,
		Number:                t.Number,
		Kind:                  string(t.Kind),
		MaterialID:            t.MaterialID,
		MaterialCode:          t.MaterialCode,
		MaterialName:          t.MaterialName,
		Unit:                  t.Unit,
		Quantity:              t.Quantity,
		ReceivedQuantity:      t.ReceivedQuantity,
		ProductionOrderID:     t.ProductionOrderID,
		ProductionOrderNumber: t.ProductionOrderNumber,
		Lot:                   t.Lot,
		RequestedByID:         t.RequestedByID,
		RequestedByName:       t.RequestedByName,
		ReceivedByID:          t.ReceivedByID,
		ReceivedByName:        t.ReceivedByName,
		ReceivedAt:            t.ReceivedAt,
		ForwardedByID:         t.ForwardedByID,
		ForwardedByName:       t.ForwardedByName,
		ForwardedAt:           t.ForwardedAt,
		FinalizedByID:         t.FinalizedByID,
		FinalizedByName:       t.FinalizedByName,
		FinalizedAt:           t.FinalizedAt,
		RejectedByID:          t.RejectedByID,
		RejectedByName:        t.RejectedByName,
		RejectedAt:            t.RejectedAt,
		RejectReason:          t.RejectReason,
		Notes:                 t.Notes,
		Status:                string(t.Status),
		NextStatuses:          make([]string, 0),
		Terminal:              transfer.IsTerminal(t.Kind, t.Status),
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
		Version:               t.Version,
	}
	for _, next := range transfer.NextStatuses(t.Kind, t.Status) {
		resp.NextStatuses = append(resp.NextStatuses, string(next))
	}
	if len(t.History) > 0 {
		resp.History = make([]StatusLogResponse, len(t.History))
		for i, log := range t.History {
			resp.History[i] = StatusLogResponse{
				FromStatus: string(log.FromStatus),
				ToStatus:   string(log.ToStatus),
				ActorID:    log.ActorID,
				ActorName:  log.ActorName,
				Note:       log.Note,
				At:         log.CreatedAt,
			}
		}
	}
	return resp
}
