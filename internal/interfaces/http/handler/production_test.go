package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	productionapp "github.com/prodtrack/backend/internal/application/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubOrderService tracks one order and the calls made to it
type stubOrderService struct {
	order      productionapp.OrderResponse
	lastCreate productionapp.CreateOrderRequest
	lastCancel productionapp.CancelOrderRequest
	lastFilter productionapp.OrderListFilter
	lastItems  productionapp.ReplaceItemsRequest
}

func newStubOrderService() *stubOrderService {
	return &stubOrderService{order: productionapp.OrderResponse{ID: uuid.New(), Number: 7, Status: "EN_PROCESO"}}
}

func (s *stubOrderService) find(id uuid.UUID) (*productionapp.OrderResponse, error) {
	if id != s.order.ID {
		return nil, shared.ErrNotFound
	}
	return &s.order, nil
}

func (s *stubOrderService) Create(_ context.Context, req productionapp.CreateOrderRequest) (*productionapp.OrderResponse, error) {
	s.lastCreate = req
	return &s.order, nil
}

func (s *stubOrderService) GetByID(_ context.Context, id uuid.UUID) (*productionapp.OrderResponse, error) {
	return s.find(id)
}

func (s *stubOrderService) GetByNumber(_ context.Context, number int64) (*productionapp.OrderResponse, error) {
	if number != s.order.Number {
		return nil, shared.ErrNotFound
	}
	return &s.order, nil
}

func (s *stubOrderService) List(_ context.Context, filter productionapp.OrderListFilter) ([]productionapp.OrderResponse, int64, error) {
	s.lastFilter = filter
	return []productionapp.OrderResponse{s.order}, 1, nil
}

func (s *stubOrderService) UpdateHeader(_ context.Context, id uuid.UUID, _ productionapp.UpdateOrderRequest) (*productionapp.OrderResponse, error) {
	return s.find(id)
}

func (s *stubOrderService) ReplaceItems(_ context.Context, id uuid.UUID, req productionapp.ReplaceItemsRequest) (*productionapp.OrderResponse, error) {
	s.lastItems = req
	return s.find(id)
}

func (s *stubOrderService) Finalize(_ context.Context, id uuid.UUID) (*productionapp.OrderResponse, error) {
	o, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if o.Status != "EN_PROCESO" {
		return nil, shared.NewDomainError("INVALID_TRANSITION", "Cannot finalize order in status "+o.Status)
	}
	o.Status = "FINALIZADA"
	return o, nil
}

func (s *stubOrderService) Cancel(_ context.Context, id uuid.UUID, req productionapp.CancelOrderRequest) (*productionapp.OrderResponse, error) {
	s.lastCancel = req
	o, err := s.find(id)
	if err != nil {
		return nil, err
	}
	o.Status = "ANULADA"
	return o, nil
}

func (s *stubOrderService) Delete(_ context.Context, id uuid.UUID) error {
	if _, err := s.find(id); err != nil {
		return err
	}
	if s.order.Status == "FINALIZADA" {
		return shared.ErrInvalidState
	}
	return nil
}

func orderRouter(svc OrderService) *gin.Engine {
	h := NewProductionOrderHandler(svc)
	router := newRouter()
	g := router.Group("/production-orders")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/number/:number", h.GetByNumber)
	g.GET("/:id", h.GetByID)
	g.PUT("/:id", h.Update)
	g.PUT("/:id/items", h.ReplaceItems)
	g.POST("/:id/finalize", h.Finalize)
	g.POST("/:id/cancel", h.Cancel)
	g.DELETE("/:id", h.Delete)
	return router
}

func TestProductionOrderHandler_Create(t *testing.T) {
	svc := newStubOrderService()
	router := orderRouter(svc)
	placeID, labelerID, materialID := uuid.New(), uuid.New(), uuid.New()

	body := `{"production_date":"2026-05-04","place_id":"` + placeID.String() + `","labeler_id":"` + labelerID.String() +
		`","items":[{"kind":"PRODUCIDO","material_id":"` + materialID.String() + `","quantity":"12.5","lot":"L-1"}]}`
	w := perform(router, http.MethodPost, "/production-orders", body)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.lastCreate.Items, 1)
	assert.True(t, decimal.RequireFromString("12.5").Equal(svc.lastCreate.Items[0].Quantity))
	assert.Equal(t, placeID, svc.lastCreate.PlaceID)

	w = perform(router, http.MethodPost, "/production-orders",
		`{"production_date":"04/05/2026","place_id":"`+placeID.String()+`","labeler_id":"`+labelerID.String()+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)

	w = perform(router, http.MethodPost, "/production-orders",
		`{"production_date":"2026-05-04","place_id":"`+placeID.String()+`","labeler_id":"`+labelerID.String()+
			`","items":[{"kind":"MERMA","material_id":"`+materialID.String()+`","quantity":"1"}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductionOrderHandler_FinalizeTwice(t *testing.T) {
	svc := newStubOrderService()
	router := orderRouter(svc)
	path := "/production-orders/" + svc.order.ID.String() + "/finalize"

	w := perform(router, http.MethodPost, path, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = perform(router, http.MethodPost, path, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidTransition, decodeResponse(t, w).Error.Code)

	w = perform(router, http.MethodDelete, "/production-orders/"+svc.order.ID.String(), "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidState, decodeResponse(t, w).Error.Code)
}

func TestProductionOrderHandler_CancelRequiresReason(t *testing.T) {
	svc := newStubOrderService()
	router := orderRouter(svc)
	path := "/production-orders/" + svc.order.ID.String() + "/cancel"

	w := perform(router, http.MethodPost, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = perform(router, http.MethodPost, path, `{"reason":"Lote contaminado"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lote contaminado", svc.lastCancel.Reason)
}

func TestProductionOrderHandler_LookupsAndList(t *testing.T) {
	svc := newStubOrderService()
	router := orderRouter(svc)

	assert.Equal(t, http.StatusOK, perform(router, http.MethodGet, "/production-orders/number/7", "").Code)
	assert.Equal(t, http.StatusNotFound, perform(router, http.MethodGet, "/production-orders/number/8", "").Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodGet, "/production-orders/number/x", "").Code)
	assert.Equal(t, http.StatusBadRequest, perform(router, http.MethodGet, "/production-orders/number/0", "").Code)

	placeID := uuid.NewString()
	w := perform(router, http.MethodGet, "/production-orders?status=FINALIZADA&place_id="+placeID+"&date_from=2026-05-01&date_to=2026-05-31", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "FINALIZADA", svc.lastFilter.Status)
	assert.Equal(t, placeID, svc.lastFilter.PlaceID)
	assert.Equal(t, "2026-05-01", svc.lastFilter.DateFrom)

	w = perform(router, http.MethodGet, "/production-orders?place_id=nope", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductionOrderHandler_ReplaceItems(t *testing.T) {
	svc := newStubOrderService()
	router := orderRouter(svc)
	materialID := uuid.NewString()

	w := perform(router, http.MethodPut, "/production-orders/"+svc.order.ID.String()+"/items",
		`{"items":[{"kind":"SUBPRODUCTO","material_id":"`+materialID+`","quantity":3},{"kind":"EMPAQUE","material_id":"`+materialID+`","quantity":"40"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.lastItems.Items, 2)
	assert.Equal(t, "SUBPRODUCTO", svc.lastItems.Items[0].Kind)
	assert.True(t, decimal.NewFromInt(40).Equal(svc.lastItems.Items[1].Quantity))
}

// stubPlanService answers the compliance report and records its filter
type stubPlanService struct {
	PlanService
	report     productionapp.ComplianceReport
	lastFilter productionapp.PlanListFilter
}

func (s *stubPlanService) Compliance(_ context.Context, filter productionapp.PlanListFilter) (*productionapp.ComplianceReport, error) {
	s.lastFilter = filter
	if filter.DateFrom > filter.DateTo && filter.DateTo != "" {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "date_from is after date_to")
	}
	return &s.report, nil
}

func TestProductionPlanHandler_Compliance(t *testing.T) {
	svc := &stubPlanService{report: productionapp.ComplianceReport{
		DateFrom:        "2026-05-04",
		DateTo:          "2026-05-05",
		TotalPlanned:    decimal.NewFromInt(120),
		TotalProduced:   decimal.NewFromInt(85),
		ProgressPercent: decimal.RequireFromString("70.83"),
	}}
	h := NewProductionPlanHandler(svc)
	router := newRouter()
	router.GET("/production-plans/compliance", h.Compliance)

	materialID := uuid.NewString()
	w := perform(router, http.MethodGet, "/production-plans/compliance?date_from=2026-05-04&date_to=2026-05-05&material_id="+materialID, "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, materialID, svc.lastFilter.MaterialID)
	assert.Contains(t, w.Body.String(), `"progress_percent":"70.83"`)

	w = perform(router, http.MethodGet, "/production-plans/compliance?date_from=2026-05-06&date_to=2026-05-05", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeValidation, decodeResponse(t, w).Error.Code)
}
