// Package catalog holds the material catalog use cases.
package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// MaterialService handles material-related business operations
type MaterialService struct {
	materialRepo   catalog.MaterialRepository
	eventPublisher shared.EventPublisher
}

// NewMaterialService creates a new MaterialService
func NewMaterialService(materialRepo catalog.MaterialRepository, eventPublisher shared.EventPublisher) *MaterialService {
	return &MaterialService{
		materialRepo:   materialRepo,
		eventPublisher: eventPublisher,
	}
}

// Create creates a new material
func (s *MaterialService) Create(ctx context.Context, req CreateMaterialRequest) (*MaterialResponse, error) {
	material, err := catalog.NewMaterial(req.Code, req.Name, req.Unit, catalog.MaterialType(req.Type))
	if err != nil {
		return nil, err
	}

	exists, err := s.materialRepo.ExistsByCode(ctx, material.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Material with this code already exists")
	}

	material.Recipe = req.Recipe

	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, material)

	response := ToMaterialResponse(material)
	return &response, nil
}

// GetByID retrieves a material by ID
func (s *MaterialService) GetByID(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToMaterialResponse(material)
	return &response, nil
}

// GetByCode retrieves a material by code
func (s *MaterialService) GetByCode(ctx context.Context, code string) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToMaterialResponse(material)
	return &response, nil
}

// List retrieves materials with filtering and pagination
func (s *MaterialService) List(ctx context.Context, filter MaterialListFilter) ([]MaterialResponse, int64, error) {
	domainFilter := filter.ToDomainFilter()

	materials, err := s.materialRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.materialRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMaterialResponses(materials), total, nil
}

// Update changes the descriptive fields of a material
func (s *MaterialService) Update(ctx context.Context, id uuid.UUID, req UpdateMaterialRequest) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := material.Update(req.Name, req.Unit, catalog.MaterialType(req.Type), req.Recipe); err != nil {
		return nil, err
	}

	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, material)

	response := ToMaterialResponse(material)
	return &response, nil
}

// Activate activates a material
func (s *MaterialService) Activate(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Material).Activate)
}

// Deactivate deactivates a material
func (s *MaterialService) Deactivate(ctx context.Context, id uuid.UUID) (*MaterialResponse, error) {
	return s.changeStatus(ctx, id, (*catalog.Material).Deactivate)
}

func (s *MaterialService) changeStatus(ctx context.Context, id uuid.UUID, apply func(*catalog.Material) error) (*MaterialResponse, error) {
	material, err := s.materialRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(material); err != nil {
		return nil, err
	}
	if err := s.materialRepo.Save(ctx, material); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, material)

	response := ToMaterialResponse(material)
	return &response, nil
}

// Delete deletes a material that nothing references
func (s *MaterialService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.materialRepo.FindByID(ctx, id); err != nil {
		return err
	}

	referenced, err := s.materialRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("IN_USE", "Material is used by orders, transfers or plans")
	}

	return s.materialRepo.Delete(ctx, id)
}

// publishDomainEvents publishes and clears the material's pending events
func (s *MaterialService) publishDomainEvents(ctx context.Context, material *catalog.Material) {
	events := material.GetDomainEvents()
	material.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	// errors are logged by the event bus
	_ = s.eventPublisher.Publish(ctx, events...)
}
