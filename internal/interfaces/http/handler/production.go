package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	productionapp "github.com/prodtrack/backend/internal/application/production"
	"github.com/prodtrack/backend/internal/interfaces/http/dto"
)

// OrderService is the production order use case set served over HTTP
type OrderService interface {
	Create(ctx context.Context, req productionapp.CreateOrderRequest) (*productionapp.OrderResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*productionapp.OrderResponse, error)
	GetByNumber(ctx context.Context, number int64) (*productionapp.OrderResponse, error)
	List(ctx context.Context, filter productionapp.OrderListFilter) ([]productionapp.OrderResponse, int64, error)
	UpdateHeader(ctx context.Context, id uuid.UUID, req productionapp.UpdateOrderRequest) (*productionapp.OrderResponse, error)
	ReplaceItems(ctx context.Context, id uuid.UUID, req productionapp.ReplaceItemsRequest) (*productionapp.OrderResponse, error)
	Finalize(ctx context.Context, id uuid.UUID) (*productionapp.OrderResponse, error)
	Cancel(ctx context.Context, id uuid.UUID, req productionapp.CancelOrderRequest) (*productionapp.OrderResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlanService is the production plan use case set served over HTTP
type PlanService interface {
	Create(ctx context.Context, req productionapp.CreatePlanRequest) (*productionapp.PlanResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*productionapp.PlanResponse, error)
	List(ctx context.Context, filter productionapp.PlanListFilter) ([]productionapp.PlanResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req productionapp.UpdatePlanRequest) (*productionapp.PlanResponse, error)
	Complete(ctx context.Context, id uuid.UUID) (*productionapp.PlanResponse, error)
	Cancel(ctx context.Context, id uuid.UUID) (*productionapp.PlanResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Compliance(ctx context.Context, filter productionapp.PlanListFilter) (*productionapp.ComplianceReport, error)
}

// ProductionOrderHandler handles production order endpoints
type ProductionOrderHandler struct {
	BaseHandler
	orderService OrderService
}

// NewProductionOrderHandler creates a new ProductionOrderHandler
func NewProductionOrderHandler(orderService OrderService) *ProductionOrderHandler {
	return &ProductionOrderHandler{orderService: orderService}
}

// Create opens a production order
//
//	POST /production-orders
func (h *ProductionOrderHandler) Create(c *gin.Context) {
	var req productionapp.CreateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetByID returns an order with its lines and totals
func (h *ProductionOrderHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.orderService.GetByID)
}

// GetByNumber returns an order by its consecutive number
//
//	GET /production-orders/number/:number
func (h *ProductionOrderHandler) GetByNumber(c *gin.Context) {
	number, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || number <= 0 {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "Invalid number: must be a positive integer")
		return
	}

	order, err := h.orderService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns a page of orders
//
//	GET /production-orders?status=&place_id=&labeler_id=&date_from=&date_to=
func (h *ProductionOrderHandler) List(c *gin.Context) {
	var filter productionapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// Update changes the header of an order in process
//
//	PUT /production-orders/:id
func (h *ProductionOrderHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req productionapp.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.UpdateHeader(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ReplaceItems swaps the line items of an order in process
//
//	PUT /production-orders/:id/items
func (h *ProductionOrderHandler) ReplaceItems(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req productionapp.ReplaceItemsRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.ReplaceItems(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Finalize closes an order; finished transfers are opened for its produced lines
//
//	POST /production-orders/:id/finalize
func (h *ProductionOrderHandler) Finalize(c *gin.Context) {
	withID(&h.BaseHandler, c, h.orderService.Finalize)
}

// Cancel voids an order
//
//	POST /production-orders/:id/cancel (admin key)
func (h *ProductionOrderHandler) Cancel(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req productionapp.CancelOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes an order that was never finalized
//
//	DELETE /production-orders/:id (admin key)
func (h *ProductionOrderHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.orderService.Delete)
}

// ProductionPlanHandler handles production plan endpoints
type ProductionPlanHandler struct {
	BaseHandler
	planService PlanService
}

// NewProductionPlanHandler creates a new ProductionPlanHandler
func NewProductionPlanHandler(planService PlanService) *ProductionPlanHandler {
	return &ProductionPlanHandler{planService: planService}
}

// Create schedules production of a finished product
func (h *ProductionPlanHandler) Create(c *gin.Context) {
	var req productionapp.CreatePlanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, plan)
}

// GetByID returns a plan
func (h *ProductionPlanHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.planService.GetByID)
}

// List returns a page of plans
func (h *ProductionPlanHandler) List(c *gin.Context) {
	var filter productionapp.PlanListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	plans, total, err := h.planService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, plans, total, page, pageSize)
}

// Compliance compares planned against finalized production
//
//	GET /production-plans/compliance?date_from=&date_to=&material_id=&place_id=
func (h *ProductionPlanHandler) Compliance(c *gin.Context) {
	var filter productionapp.PlanListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	report, err := h.planService.Compliance(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Update reschedules a plan
func (h *ProductionPlanHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req productionapp.UpdatePlanRequest
	if !h.bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, plan)
}

// Complete marks a plan as fulfilled
func (h *ProductionPlanHandler) Complete(c *gin.Context) {
	withID(&h.BaseHandler, c, h.planService.Complete)
}

// Cancel drops a scheduled plan
func (h *ProductionPlanHandler) Cancel(c *gin.Context) {
	withID(&h.BaseHandler, c, h.planService.Cancel)
}

// Delete removes a plan
//
//	DELETE /production-plans/:id (admin key)
func (h *ProductionPlanHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.planService.Delete)
}
