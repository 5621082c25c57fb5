package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/prodtrack/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormTransferRepository implements transfer.Repository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer with its status history
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*transfer.Transfer, error) {
	var model models.TransferModel
	err := r.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds transfers matching the filter. History is not loaded.
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]transfer.Transfer, error) {
	var rows []models.TransferModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TransferModel{}), filter)
	if err := applyPagination(query, filter, TransferSortFields, "number").Find(&rows).Error; err != nil {
		return nil, err
	}
	transfers := make([]transfer.Transfer, len(rows))
	for i := range rows {
		transfers[i] = *rows[i].ToDomain()
	}
	return transfers, nil
}

// Count counts transfers matching the filter
func (r *GormTransferRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.TransferModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create allocates the next number for the kind and inserts the transfer with its logs
func (r *GormTransferRepository) Create(ctx context.Context, t *transfer.Transfer) error {
	return r.CreateBatch(ctx, []*transfer.Transfer{t})
}

// CreateBatch inserts the transfers with consecutive numbers per kind in one transaction.
// Either every transfer is stored or none is.
func (r *GormTransferRepository) CreateBatch(ctx context.Context, transfers []*transfer.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}
	numbers := make([]int64, len(transfers))
	err := withNumberRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			next := make(map[transfer.Kind]int64)
			for i, t := range transfers {
				if _, ok := next[t.Kind]; !ok {
					kind := t.Kind
					n, err := nextNumber(tx, &models.TransferModel{}, func(q *gorm.DB) *gorm.DB {
						return q.Where("kind = ?", kind)
					})
					if err != nil {
						return err
					}
					next[kind] = n
				}
				model := models.TransferModelFromDomain(t)
				model.SetNumber(next[t.Kind])
				if err := tx.Omit("History").Create(model).Error; err != nil {
					return err
				}
				if err := insertLogs(tx, t.NewLogs()); err != nil {
					return err
				}
				numbers[i] = next[t.Kind]
				next[t.Kind]++
			}
			return nil
		})
	})
	if err != nil {
		return translateError(err)
	}
	for i, t := range transfers {
		t.ClearNewLogs()
		if err := t.AssignNumber(numbers[i]); err != nil {
			return err
		}
	}
	return nil
}

// Update persists a change with optimistic locking and appends new logs
func (r *GormTransferRepository) Update(ctx context.Context, t *transfer.Transfer) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.TransferModelFromDomain(t)
		result := tx.Model(&models.TransferModel{}).
			Where("id = ? AND version = ?", t.ID, t.Version-1).
			Updates(map[string]interface{}{
				"quantity":          model.Quantity,
				"received_quantity": model.ReceivedQuantity,
				"received_by_id":    model.ReceivedByID,
				"received_by_name":  model.ReceivedByName,
				"received_at":       model.ReceivedAt,
				"forwarded_by_id":   model.ForwardedByID,
				"forwarded_by_name": model.ForwardedByName,
				"forwarded_at":      model.ForwardedAt,
				"finalized_by_id":   model.FinalizedByID,
				"finalized_by_name": model.FinalizedByName,
				"finalized_at":      model.FinalizedAt,
				"rejected_by_id":    model.RejectedByID,
				"rejected_by_name":  model.RejectedByName,
				"rejected_at":       model.RejectedAt,
				"reject_reason":     model.RejectReason,
				"notes":             model.Notes,
				"status":            model.Status,
				"search_key":        model.SearchKey,
				"version":           model.Version,
				"updated_at":        model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return lockConflict(tx, &models.TransferModel{}, t.ID)
		}
		return insertLogs(tx, t.NewLogs())
	})
	if err != nil {
		return translateError(err)
	}
	t.ClearNewLogs()
	return nil
}

func insertLogs(tx *gorm.DB, logs []transfer.StatusLog) error {
	if len(logs) == 0 {
		return nil
	}
	rows := make([]*models.TransferStatusLogModel, len(logs))
	for i := range logs {
		rows[i] = models.TransferStatusLogModelFromDomain(&logs[i])
	}
	return tx.Create(&rows).Error
}

// Delete deletes a transfer and its history
func (r *GormTransferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("transfer_id = ?", id).Delete(&models.TransferStatusLogModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.TransferModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// summaryRow is one status group of the summary query
type summaryRow struct {
	Status   transfer.Status
	Count    int64
	Quantity decimal.Decimal
}

// Summary groups transfers of a kind by status
func (r *GormTransferRepository) Summary(ctx context.Context, kind transfer.Kind) ([]transfer.StatusSummary, error) {
	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Model(&models.TransferModel{}).
		Select("status, COUNT(*) AS count, COALESCE(SUM(quantity), 0) AS quantity").
		Where("kind = ?", kind).
		Group("status").
		Order("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]transfer.StatusSummary, len(rows))
	for i, row := range rows {
		out[i] = transfer.StatusSummary{Status: row.Status, Count: row.Count, Quantity: row.Quantity}
	}
	return out, nil
}

// ExistsForOrder reports whether transfers were already opened for a production order
func (r *GormTransferRepository) ExistsForOrder(ctx context.Context, orderID uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&models.TransferModel{}).Where("production_order_id = ?", orderID))
}

// applyFilter applies search and attribute filters
func (r *GormTransferRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("search_key LIKE ?", searchPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "kind":
			query = query.Where("kind = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "material_id":
			query = query.Where("material_id = ?", value)
		case "requested_by_id":
			query = query.Where("requested_by_id = ?", value)
		case "received_by_id":
			query = query.Where("received_by_id = ?", value)
		case "production_order_id":
			query = query.Where("production_order_id = ?", value)
		}
	}
	return applyDateRange(query, "created_at", dateRangeFrom(filter))
}

var _ transfer.Repository = (*GormTransferRepository)(nil)
