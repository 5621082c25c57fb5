package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionPlan, error) {
	var plan production.ProductionPlan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, translateError(err)
	}
	return &plan, nil
}

// FindAll finds plans matching the filter
func (r *GormPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionPlan, error) {
	var plans []production.ProductionPlan
	query := r.applyFilter(r.db.WithContext(ctx).Model(&production.ProductionPlan{}), filter)
	if err := applyPagination(query, filter, PlanSortFields, "planned_date").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Count counts plans matching the filter
func (r *GormPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&production.ProductionPlan{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a plan
func (r *GormPlanRepository) Save(ctx context.Context, plan *production.ProductionPlan) error {
	return translateError(r.db.WithContext(ctx).Save(plan).Error)
}

// Delete deletes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&production.ProductionPlan{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies search and attribute filters
func (r *GormPlanRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(material_code) LIKE ? OR LOWER(material_name) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "material_id":
			query = query.Where("material_id = ?", value)
		case "place_id":
			query = query.Where("place_id = ?", value)
		}
	}
	return applyDateRange(query, "planned_date", dateRangeFrom(filter))
}

var _ production.PlanRepository = (*GormPlanRepository)(nil)
