package plant

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// LabelerService handles employee (labeler) operations
type LabelerService struct {
	labelerRepo    plant.LabelerRepository
	eventPublisher shared.EventPublisher
}

// NewLabelerService creates a new LabelerService
func NewLabelerService(labelerRepo plant.LabelerRepository, eventPublisher shared.EventPublisher) *LabelerService {
	return &LabelerService{labelerRepo: labelerRepo, eventPublisher: eventPublisher}
}

// Create registers an employee
func (s *LabelerService) Create(ctx context.Context, req CreateLabelerRequest) (*LabelerResponse, error) {
	labeler, err := plant.NewLabeler(req.Code, req.Name, req.Role)
	if err != nil {
		return nil, err
	}
	exists, err := s.labelerRepo.ExistsByCode(ctx, labeler.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Labeler with this code already exists")
	}

	if err := s.labelerRepo.Save(ctx, labeler); err != nil {
		return nil, err
	}
	publish(ctx, s.eventPublisher, labeler)

	response := ToLabelerResponse(labeler)
	return &response, nil
}

// GetByID retrieves a labeler by ID
func (s *LabelerService) GetByID(ctx context.Context, id uuid.UUID) (*LabelerResponse, error) {
	labeler, err := s.labelerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToLabelerResponse(labeler)
	return &response, nil
}

// List retrieves labelers with filtering and pagination
func (s *LabelerService) List(ctx context.Context, filter ListFilter) ([]LabelerResponse, int64, error) {
	domainFilter := filter.ToDomainFilter()

	labelers, err := s.labelerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.labelerRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LabelerResponse, len(labelers))
	for i := range labelers {
		responses[i] = ToLabelerResponse(&labelers[i])
	}
	return responses, total, nil
}

// Update updates a labeler
func (s *LabelerService) Update(ctx context.Context, id uuid.UUID, req UpdateLabelerRequest) (*LabelerResponse, error) {
	return s.mutate(ctx, id, func(l *plant.Labeler) error {
		return l.Update(req.Name, req.Role)
	})
}

// Activate activates a labeler
func (s *LabelerService) Activate(ctx context.Context, id uuid.UUID) (*LabelerResponse, error) {
	return s.mutate(ctx, id, (*plant.Labeler).Activate)
}

// Deactivate deactivates a labeler
func (s *LabelerService) Deactivate(ctx context.Context, id uuid.UUID) (*LabelerResponse, error) {
	return s.mutate(ctx, id, (*plant.Labeler).Deactivate)
}

func (s *LabelerService) mutate(ctx context.Context, id uuid.UUID, apply func(*plant.Labeler) error) (*LabelerResponse, error) {
	labeler, err := s.labelerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(labeler); err != nil {
		return nil, err
	}
	if err := s.labelerRepo.Save(ctx, labeler); err != nil {
		return nil, err
	}
	response := ToLabelerResponse(labeler)
	return &response, nil
}

// Delete deletes a labeler that no order or transfer names
func (s *LabelerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.labelerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	referenced, err := s.labelerRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewDomainError("IN_USE", "Labeler is named on orders or transfers")
	}
	return s.labelerRepo.Delete(ctx, id)
}
