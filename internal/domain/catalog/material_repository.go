package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// MaterialRepository defines the interface for material persistence
type MaterialRepository interface {
	// FindByID finds a material by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Material, error)

	// FindByCode finds a material by its code
	FindByCode(ctx context.Context, code string) (*Material, error)

	// FindByIDs finds multiple materials by their IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Material, error)

	// FindAll finds all materials matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Material, error)

	// Save creates or updates a material
	Save(ctx context.Context, material *Material) error

	// Delete deletes a material
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts materials matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByCode checks if a material with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// IsReferenced reports whether any order item, transfer or plan points at the material
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}
