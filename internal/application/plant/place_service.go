// Package plant holds the production place and labeler use cases.
package plant

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// PlaceService handles production place operations
type PlaceService struct {
	placeRepo      plant.PlaceRepository
	eventPublisher shared.EventPublisher
}

// NewPlaceService creates a new PlaceService
func NewPlaceService(placeRepo plant.PlaceRepository, eventPublisher shared.EventPublisher) *PlaceService {
	return &PlaceService{placeRepo: placeRepo, eventPublisher: eventPublisher}
}

// Create registers a production place
func (s *PlaceService) Create(ctx context.Context, req CreatePlaceRequest) (*PlaceResponse, error) {
	place, err := plant.NewProductionPlace(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	exists, err := s.placeRepo.ExistsByCode(ctx, place.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Production place with this code already exists")
	}
	place.Description = req.Description

	if err := s.placeRepo.Save(ctx, place); err != nil {
		return nil, err
	}
	publish(ctx, s.eventPublisher, place)

	response := ToPlaceResponse(place)
	return &response, nil
}

// GetByID retrieves a place by ID
func (s *PlaceService) GetByID(ctx context.Context, id uuid.UUID) (*PlaceResponse, error) {
	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPlaceResponse(place)
	return &response, nil
}

// List retrieves places with filtering and pagination
func (s *PlaceService) List(ctx context.Context, filter ListFilter) ([]PlaceResponse, int64, error) {
	domainFilter := filter.ToDomainFilter()
	delete(domainFilter.Filters, "role")

	places, err := s.placeRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.placeRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PlaceResponse, len(places))
	for i := range places {
		responses[i] = ToPlaceResponse(&places[i])
	}
	return responses, total, nil
}

// Update updates a place
func (s *PlaceService) Update(ctx context.Context, id uuid.UUID, req UpdatePlaceRequest) (*PlaceResponse, error) {
	return s.mutate(ctx, id, func(p *plant.ProductionPlace) error {
		return p.Update(req.Name, req.Description)
	})
}

// Activate activates a place
func (s *PlaceService) Activate(ctx context.Context, id uuid.UUID) (*PlaceResponse, error) {
	return s.mutate(ctx, id, (*plant.ProductionPlace).Activate)
}

// Deactivate deactivates a place
func (s *PlaceService) Deactivate(ctx context.Context, id uuid.UUID) (*PlaceResponse, error) {
	return s.mutate(ctx, id, (*plant.ProductionPlace).Deactivate)
}

func (s *PlaceService) mutate(ctx context.Context, id uuid.UUID, apply func(*plant.ProductionPlace) error) (*PlaceResponse, error) {
	place, err := s.placeRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(place); err != nil {
		return nil, err
	}
	if err := s.placeRepo.Save(ctx, place); err != nil {
		return nil, err
	}
	response := ToPlaceResponse(place)
	return &response, nil
}

// Delete deletes a place that no order or plan references
func (s *PlaceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.placeRepo.FindByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.placeRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("IN_USE", "Production place is used by orders or plans")
	}
	return s.placeRepo.Delete(ctx, id)
}

// publish publishes and clears an aggregate's pending events
func publish(ctx context.Context, publisher shared.EventPublisher, aggregate shared.AggregateRoot) {
	events := aggregate.GetDomainEvents()
	aggregate.ClearDomainEvents()
	if publisher != nil && len(events) > 0 {
		_ = publisher.Publish(ctx, events...)
	}
}
