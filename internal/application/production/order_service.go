// Package production holds the production order and plan use cases.
package production

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/infrastructure/telemetry"
)

// OrderService handles production order operations
type OrderService struct {
	orderRepo      production.OrderRepository
	materialRepo   catalog.MaterialRepository
	placeRepo      plant.PlaceRepository
	labelerRepo    plant.LabelerRepository
	eventPublisher shared.EventPublisher
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo production.OrderRepository,
	materialRepo catalog.MaterialRepository,
	placeRepo plant.PlaceRepository,
	labelerRepo plant.LabelerRepository,
	eventPublisher shared.EventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:      orderRepo,
		materialRepo:   materialRepo,
		placeRepo:      placeRepo,
		labelerRepo:    labelerRepo,
		eventPublisher: eventPublisher,
	}
}

// Create opens an order with optional initial lines and assigns its number
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "production_order", "create")
	defer span.End()

	date, err := shared.ParseDay(req.ProductionDate)
	if err != nil {
		return nil, err
	}
	place, labeler, err := s.loadHeaderRefs(ctx, req.PlaceID, req.LabelerID)
	if err != nil {
		return nil, err
	}

	order, err := production.NewProductionOrder(date, place, labeler)
	if err != nil {
		return nil, err
	}
	order.Notes = req.Notes

	if len(req.Items) > 0 {
		specs, err := s.lineSpecs(ctx, req.Items)
		if err != nil {
			return nil, err
		}
		if err := order.ReplaceItems(specs); err != nil {
			return nil, err
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrOrderNumber, order.Number)
	s.publishDomainEvents(ctx, order)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetByID retrieves an order with its lines
func (s *OrderService) GetByID(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// GetByNumber retrieves an order by its consecutive number
func (s *OrderService) GetByNumber(ctx context.Context, number int64) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// List retrieves orders with filtering and pagination
func (s *OrderService) List(ctx context.Context, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter, err := filter.ToDomainFilter()
	if err != nil {
		return nil, 0, err
	}
	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// UpdateHeader changes date, place, labeler and notes
func (s *OrderService) UpdateHeader(ctx context.Context, id uuid.UUID, req UpdateOrderRequest) (*OrderResponse, error) {
	date, err := shared.ParseDay(req.ProductionDate)
	if err != nil {
		return nil, err
	}
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	place, labeler, err := s.loadHeaderRefs(ctx, req.PlaceID, req.LabelerID)
	if err != nil {
		return nil, err
	}
	if err := order.UpdateHeader(date, place, labeler, req.Notes); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// ReplaceItems swaps every line of an order in process
func (s *OrderService) ReplaceItems(ctx context.Context, id uuid.UUID, req ReplaceItemsRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	specs, err := s.lineSpecs(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if err := order.ReplaceItems(specs); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// Finalize closes the order. Its produced lines are handed to packaging.
func (s *OrderService) Finalize(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "production_order", "finalize",
		telemetry.SpanAttrOrderID, id.String())
	defer span.End()

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Finalize(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return s.save(ctx, order)
}

// Cancel voids an order in process
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID, req CancelOrderRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	return s.save(ctx, order)
}

// Delete removes an order in process or cancelled
func (s *OrderService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !order.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Order in %s status cannot be deleted", order.Status))
	}
	return s.orderRepo.Delete(ctx, id)
}

func (s *OrderService) save(ctx context.Context, order *production.ProductionOrder) (*OrderResponse, error) {
	if err := s.orderRepo.Save(ctx, order); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, order)
	response := ToOrderResponse(order)
	return &response, nil
}

func (s *OrderService) loadHeaderRefs(ctx context.Context, placeID, labelerID uuid.UUID) (*plant.ProductionPlace, *plant.Labeler, error) {
	place, err := s.placeRepo.FindByID(ctx, placeID)
	if err != nil {
		return nil, nil, referenceError(err, "INVALID_PLACE", "Production place not found")
	}
	labeler, err := s.labelerRepo.FindByID(ctx, labelerID)
	if err != nil {
		return nil, nil, referenceError(err, "INVALID_LABELER", "Labeler not found")
	}
	return place, labeler, nil
}

// lineSpecs resolves the materials of the requested lines
func (s *OrderService) lineSpecs(ctx context.Context, lines []OrderLineRequest) ([]production.LineSpec, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.MaterialID)
	}
	materials, err := s.materialRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*catalog.Material, len(materials))
	for i := range materials {
		byID[materials[i].ID] = &materials[i]
	}

	specs := make([]production.LineSpec, len(lines))
	for i, line := range lines {
		material, ok := byID[line.MaterialID]
		if !ok {
			return nil, shared.NewDomainError("INVALID_MATERIAL", fmt.Sprintf("line %d: material %s not found", i+1, line.MaterialID))
		}
		specs[i] = production.LineSpec{
			Kind:     production.ItemKind(line.Kind),
			Material: material,
			Quantity: line.Quantity,
			Lot:      line.Lot,
		}
	}
	return specs, nil
}

func (s *OrderService) publishDomainEvents(ctx context.Context, order *production.ProductionOrder) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
}

// referenceError turns a missing referenced record into a validation error
func referenceError(err error, code, message string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError(code, message)
	}
	return err
}
