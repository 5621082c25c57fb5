package persistence

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

// FindByID finds an order with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionOrder, error) {
	var model models.ProductionOrderModel
	if err := preloadItems(r.db.WithContext(ctx)).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an order by its consecutive number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number int64) (*production.ProductionOrder, error) {
	var model models.ProductionOrderModel
	if err := preloadItems(r.db.WithContext(ctx)).Where("number = ?", number).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds orders matching the filter, items included
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionOrder, error) {
	var rows []models.ProductionOrderModel
	query := r.applyFilter(preloadItems(r.db.WithContext(ctx)).Model(&models.ProductionOrderModel{}), filter)
	if err := applyPagination(query, filter, OrderSortFields, "number").Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]production.ProductionOrder, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ProductionOrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create allocates the next consecutive number and inserts the order with its items
func (r *GormOrderRepository) Create(ctx context.Context, order *production.ProductionOrder) error {
	var number int64
	err := withNumberRetry(func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			next, err := nextNumber(tx, &models.ProductionOrderModel{}, nil)
			if err != nil {
				return err
			}
			model := models.ProductionOrderModelFromDomain(order)
			model.Number = next
			if err := tx.Omit("Items").Create(model).Error; err != nil {
				return err
			}
			if len(model.Items) > 0 {
				if err := tx.Create(&model.Items).Error; err != nil {
					return err
				}
			}
			number = next
			return nil
		})
	})
	if err != nil {
		return translateError(err)
	}
	return order.AssignNumber(number)
}

// Save updates the order and replaces its items, checking the version
func (r *GormOrderRepository) Save(ctx context.Context, order *production.ProductionOrder) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.ProductionOrderModelFromDomain(order)
		result := tx.Model(&models.ProductionOrderModel{}).
			Where("id = ? AND version = ?", order.ID, order.Version-1).
			Updates(map[string]interface{}{
				"production_date": model.ProductionDate,
				"place_id":        model.PlaceID,
				"place_name":      model.PlaceName,
				"labeler_id":      model.LabelerID,
				"labeler_name":    model.LabelerName,
				"status":          model.Status,
				"notes":           model.Notes,
				"finalized_at":    model.FinalizedAt,
				"cancelled_at":    model.CancelledAt,
				"cancel_reason":   model.CancelReason,
				"version":         model.Version,
				"updated_at":      model.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return lockConflict(tx, &models.ProductionOrderModel{}, order.ID)
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.ProductionOrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			return tx.Create(&model.Items).Error
		}
		return nil
	}))
}

// Delete deletes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.ProductionOrderItemModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.ProductionOrderModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// producedRow is one produced or byproduct line of a finalized order
type producedRow struct {
	MaterialID     uuid.UUID
	PlaceID        uuid.UUID
	ProductionDate time.Time
	Quantity       decimal.Decimal
}

// ProducedTotals aggregates produced and byproduct quantities of finalized orders in a date range
func (r *GormOrderRepository) ProducedTotals(ctx context.Context, dates shared.DateRange) ([]production.ProducedTotal, error) {
	var rows []producedRow
	query := r.db.WithContext(ctx).
		Table("production_order_items AS i").
		Select("i.material_id, o.place_id, o.production_date, i.quantity").
		Joins("JOIN production_orders AS o ON o.id = i.order_id").
		Where("o.status = ?", production.OrderStatusFinalized).
		Where("i.kind IN ?", []production.ItemKind{production.ItemKindProduced, production.ItemKindByproduct})
	query = applyDateRange(query, "o.production_date", dates)
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	type key struct {
		material uuid.UUID
		place    uuid.UUID
		day      time.Time
	}
	index := make(map[key]int)
	totals := make([]production.ProducedTotal, 0)
	for _, row := range rows {
		k := key{row.MaterialID, row.PlaceID, shared.TruncateDay(row.ProductionDate)}
		if i, ok := index[k]; ok {
			totals[i].Quantity = totals[i].Quantity.Add(row.Quantity)
			continue
		}
		index[k] = len(totals)
		totals = append(totals, production.ProducedTotal{
			MaterialID: k.material,
			PlaceID:    k.place,
			Date:       k.day,
			Quantity:   row.Quantity,
		})
	}
	return totals, nil
}

// applyFilter applies number search and attribute filters
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimPrefix(strings.TrimSpace(filter.Search), "#"); search != "" {
		if n, err := strconv.ParseInt(search, 10, 64); err == nil {
			query = query.Where("number = ?", n)
		} else {
			pattern := "%" + strings.ToLower(search) + "%"
			query = query.Where("LOWER(place_name) LIKE ? OR LOWER(labeler_name) LIKE ?", pattern, pattern)
		}
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "place_id":
			query = query.Where("place_id = ?", value)
		case "labeler_id":
			query = query.Where("labeler_id = ?", value)
		}
	}
	return applyDateRange(query, "production_date", dateRangeFrom(filter))
}

var _ production.OrderRepository = (*GormOrderRepository)(nil)
