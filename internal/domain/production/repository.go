package production

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// OrderRepository defines the interface for production order persistence
type OrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionOrder, error)

	// FindByNumber finds an order by its consecutive number
	FindByNumber(ctx context.Context, number int64) (*ProductionOrder, error)

	// FindAll finds orders matching the filter, items included
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionOrder, error)

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create allocates the next consecutive number and inserts the order with its items
	Create(ctx context.Context, order *ProductionOrder) error

	// Save updates the order and replaces its items, checking the version
	Save(ctx context.Context, order *ProductionOrder) error

	// Delete deletes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// ProducedTotals aggregates produced and byproduct quantities of finalized orders in a date range
	ProducedTotals(ctx context.Context, dates shared.DateRange) ([]ProducedTotal, error)
}

// PlanRepository defines the interface for production plan persistence
type PlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionPlan, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]ProductionPlan, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, plan *ProductionPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
}
