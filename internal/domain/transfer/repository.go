package transfer

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StatusSummary is the count and total quantity of transfers in one status
type StatusSummary struct {
	Status   Status
	Count    int64
	Quantity decimal.Decimal
}

// Repository defines the interface for transfer persistence
type Repository interface {
	// FindByID finds a transfer with its status history
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)

	// FindAll finds transfers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Transfer, error)

	// Count counts transfers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Create allocates the next number for the kind and inserts the transfer with its logs
	Create(ctx context.Context, t *Transfer) error

	// CreateBatch inserts several transfers atomically, numbering each within its kind
	CreateBatch(ctx context.Context, transfers []*Transfer) error

	// Update persists a change with optimistic locking and appends new logs
	Update(ctx context.Context, t *Transfer) error

	// Delete deletes a transfer and its history
	Delete(ctx context.Context, id uuid.UUID) error

	// Summary groups transfers of a kind by status
	Summary(ctx context.Context, kind Kind) ([]StatusSummary, error)

	// ExistsForOrder reports whether transfers were already opened for a production order
	ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error)
}
