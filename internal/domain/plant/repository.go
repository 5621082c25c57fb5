package plant

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// PlaceRepository defines the interface for production place persistence
type PlaceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionPlace, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionPlace, error)
	Save(ctx context.Context, place *ProductionPlace) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// IsReferenced reports whether any order or plan points at the place
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}

// LabelerRepository defines the interface for labeler persistence
type LabelerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Labeler, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Labeler, error)
	Save(ctx context.Context, labeler *Labeler) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// IsReferenced reports whether any order or transfer names the labeler
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}
