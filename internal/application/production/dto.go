package production

import (
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderLineRequest is one line of an order request
type OrderLineRequest struct {
	Kind       string          `json:"kind" binding:"required,oneof=PRODUCIDO SUBPRODUCTO EMPAQUE"`
	MaterialID uuid.UUID       `json:"material_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
	Lot        string          `json:"lot" binding:"max=50"`
}

// CreateOrderRequest represents a request to open a production order
type CreateOrderRequest struct {
	ProductionDate string             `json:"production_date" binding:"required,datetime=2006-01-02"`
	PlaceID        uuid.UUID          `json:"place_id" binding:"required"`
	LabelerID      uuid.UUID          `json:"labeler_id" binding:"required"`
	Notes          string             `json:"notes" binding:"max=2000"`
	Items          []OrderLineRequest `json:"items" binding:"omitempty,dive"`
}

// UpdateOrderRequest represents a request to change an order header
type UpdateOrderRequest struct {
	ProductionDate string    `json:"production_date" binding:"required,datetime=2006-01-02"`
	PlaceID        uuid.UUID `json:"place_id" binding:"required"`
	LabelerID      uuid.UUID `json:"labeler_id" binding:"required"`
	Notes          string    `json:"notes" binding:"max=2000"`
}

// ReplaceItemsRequest replaces every line of an order
type ReplaceItemsRequest struct {
	Items []OrderLineRequest `json:"items" binding:"dive"`
}

// CancelOrderRequest represents a request to void an order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	Kind         string          `json:"kind"`
	MaterialID   uuid.UUID       `json:"material_id"`
	MaterialCode string          `json:"material_code"`
	MaterialName string          `json:"material_name"`
	Unit         string          `json:"unit"`
	Quantity     decimal.Decimal `json:"quantity"`
	Lot          string          `json:"lot"`
}

// OrderResponse represents a production order in API responses
type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	Number         int64               `json:"number"`
	ProductionDate string              `json:"production_date"`
	PlaceID        uuid.UUID           `json:"place_id"`
	PlaceName      string              `json:"place_name"`
	LabelerID      uuid.UUID           `json:"labeler_id"`
	LabelerName    string              `json:"labeler_name"`
	Status         string              `json:"status"`
	Notes          string              `json:"notes"`
	ProducedTotal  decimal.Decimal     `json:"produced_total"`
	ByproductTotal decimal.Decimal     `json:"byproduct_total"`
	PackagingTotal decimal.Decimal     `json:"packaging_total"`
	FinalizedAt    *time.Time          `json:"finalized_at,omitempty"`
	CancelledAt    *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason   string              `json:"cancel_reason,omitempty"`
	Items          []OrderItemResponse `json:"items"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	Version        int                 `json:"version"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search    string `form:"search"`
	Status    string `form:"status" binding:"omitempty,oneof=EN_PROCESO FINALIZADA ANULADA"`
	PlaceID   string `form:"place_id" binding:"omitempty,uuid"`
	LabelerID string `form:"labeler_id" binding:"omitempty,uuid"`
	DateFrom  string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo    string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter builds the repository filter
func (f OrderListFilter) ToDomainFilter() (shared.Filter, error) {
	filter := baseFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir, f.Search, "number")
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if err := putUUID(filter.Filters, "place_id", f.PlaceID); err != nil {
		return filter, err
	}
	if err := putUUID(filter.Filters, "labeler_id", f.LabelerID); err != nil {
		return filter, err
	}
	dates, err := shared.ParseDateRange(f.DateFrom, f.DateTo)
	if err != nil {
		return filter, err
	}
	dates.Apply(filter.Filters)
	return filter, nil
}

// CreatePlanRequest represents a request to schedule production
type CreatePlanRequest struct {
	MaterialID      uuid.UUID       `json:"material_id" binding:"required"`
	PlaceID         *uuid.UUID      `json:"place_id"`
	PlannedDate     string          `json:"planned_date" binding:"required,datetime=2006-01-02"`
	PlannedQuantity decimal.Decimal `json:"planned_quantity"`
	Notes           string          `json:"notes" binding:"max=500"`
}

// UpdatePlanRequest represents a request to reschedule a plan
type UpdatePlanRequest struct {
	PlaceID         *uuid.UUID      `json:"place_id"`
	PlannedDate     string          `json:"planned_date" binding:"required,datetime=2006-01-02"`
	PlannedQuantity decimal.Decimal `json:"planned_quantity"`
	Notes           string          `json:"notes" binding:"max=500"`
}

// PlanResponse represents a production plan in API responses
type PlanResponse struct {
	ID              uuid.UUID       `json:"id"`
	MaterialID      uuid.UUID       `json:"material_id"`
	MaterialCode    string          `json:"material_code"`
	MaterialName    string          `json:"material_name"`
	Unit            string          `json:"unit"`
	PlaceID         *uuid.UUID      `json:"place_id,omitempty"`
	PlannedDate     string          `json:"planned_date"`
	PlannedQuantity decimal.Decimal `json:"planned_quantity"`
	Status          string          `json:"status"`
	Notes           string          `json:"notes"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PlanListFilter represents filter options for plans and the compliance report
type PlanListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=PROGRAMADO CUMPLIDO CANCELADO"`
	MaterialID string `form:"material_id" binding:"omitempty,uuid"`
	PlaceID    string `form:"place_id" binding:"omitempty,uuid"`
	DateFrom   string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo     string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter builds the repository filter
func (f PlanListFilter) ToDomainFilter() (shared.Filter, error) {
	filter := baseFilter(f.Page, f.PageSize, f.OrderBy, f.OrderDir, f.Search, "planned_date")
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	if err := putUUID(filter.Filters, "material_id", f.MaterialID); err != nil {
		return filter, err
	}
	if err := putUUID(filter.Filters, "place_id", f.PlaceID); err != nil {
		return filter, err
	}
	dates, err := shared.ParseDateRange(f.DateFrom, f.DateTo)
	if err != nil {
		return filter, err
	}
	dates.Apply(filter.Filters)
	return filter, nil
}

// ComplianceRow is one plan with its produced quantity
type ComplianceRow struct {
	PlanResponse
	ProducedQuantity decimal.Decimal `json:"produced_quantity"`
	PendingQuantity  decimal.Decimal `json:"pending_quantity"`
	ProgressPercent  decimal.Decimal `json:"progress_percent"`
}

// ComplianceReport compares planned and produced quantities
type ComplianceReport struct {
	DateFrom        string          `json:"date_from,omitempty"`
	DateTo          string          `json:"date_to,omitempty"`
	Rows            []ComplianceRow `json:"rows"`
	TotalPlanned    decimal.Decimal `json:"total_planned"`
	TotalProduced   decimal.Decimal `json:"total_produced"`
	ProgressPercent decimal.Decimal `json:"progress_percent"`
}

func baseFilter(page, pageSize int, orderBy, orderDir, search, defaultSort string) shared.Filter {
	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = defaultSort
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	return filter
}

func putUUID(filters map[string]interface{}, key, value string) error {
	if value == "" {
		return nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return shared.NewDomainError("INVALID_INPUT", "Invalid "+key)
	}
	filters[key] = id
	return nil
}

// ToOrderResponse converts a domain ProductionOrder to OrderResponse
func ToOrderResponse(o *production.ProductionOrder) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = OrderItemResponse{
			ID:           item.ID,
			Kind:         string(item.Kind),
			MaterialID:   item.MaterialID,
			MaterialCode: item.MaterialCode,
			MaterialName: item.MaterialName,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			Lot:          item.Lot,
		}
	}
	return OrderResponse{
		ID:             o.ID,
		Number:         o.Number,
		ProductionDate: o.ProductionDate.Format(shared.DayLayout),
		PlaceID:        o.PlaceID,
		PlaceName:      o.PlaceName,
		LabelerID:      o.LabelerID,
		LabelerName:    o.LabelerName,
		Status:         string(o.Status),
		Notes:          o.Notes,
		ProducedTotal:  o.TotalOf(production.ItemKindProduced),
		ByproductTotal: o.TotalOf(production.ItemKindByproduct),
		PackagingTotal: o.TotalOf(production.ItemKindPackaging),
		FinalizedAt:    o.FinalizedAt,
		CancelledAt:    o.CancelledAt,
		CancelReason:   o.CancelReason,
		Items:          items,
		CreatedAt:      o.CreatedAt,
		UpdatedAt:      o.UpdatedAt,
		Version:        o.Version,
	}
}

// ToPlanResponse converts a domain ProductionPlan to PlanResponse
func ToPlanResponse(p *production.ProductionPlan) PlanResponse {
	return PlanResponse{
		ID:              p.ID,
		MaterialID:      p.MaterialID,
		MaterialCode:    p.MaterialCode,
		MaterialName:    p.MaterialName,
		Unit:            p.Unit,
		PlaceID:         p.PlaceID,
		PlannedDate:     p.PlannedDate.Format(shared.DayLayout),
		PlannedQuantity: p.PlannedQuantity,
		Status:          string(p.Status),
		Notes:           p.Notes,
		CompletedAt:     p.CompletedAt,
		CancelledAt:     p.CancelledAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}
