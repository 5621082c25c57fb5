package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormMaterialRepository implements MaterialRepository using GORM
type GormMaterialRepository struct {
	db *gorm.DB
}

// NewGormMaterialRepository creates a new GormMaterialRepository
func NewGormMaterialRepository(db *gorm.DB) *GormMaterialRepository {
	return &GormMaterialRepository{db: db}
}

// FindByID finds a material by its ID
func (r *GormMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	var material catalog.Material
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&material).Error; err != nil {
		return nil, translateError(err)
	}
	return &material, nil
}

// FindByCode finds a material by its code
func (r *GormMaterialRepository) FindByCode(ctx context.Context, code string) (*catalog.Material, error) {
	var material catalog.Material
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).First(&material).Error; err != nil {
		return nil, translateError(err)
	}
	return &material, nil
}

// FindByIDs finds multiple materials by their IDs
func (r *GormMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Material, error) {
	if len(ids) == 0 {
		return []catalog.Material{}, nil
	}
	var materials []catalog.Material
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// FindAll finds all materials matching the filter
func (r *GormMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Material, error) {
	var materials []catalog.Material
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Material{}), filter)
	if err := applyPagination(query, filter, MaterialSortFields, "code").Find(&materials).Error; err != nil {
		return nil, err
	}
	return materials, nil
}

// Save creates or updates a material
func (r *GormMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	return translateError(r.db.WithContext(ctx).Save(material).Error)
}

// Delete deletes a material
func (r *GormMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Material{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts materials matching the filter
func (r *GormMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Material{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a material with the given code exists
func (r *GormMaterialRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Material{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))))
}

// IsReferenced reports whether any order item, transfer or plan points at the material
func (r *GormMaterialRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	for _, model := range []interface{}{
		&models.ProductionOrderItemModel{},
		&models.TransferModel{},
		&production.ProductionPlan{},
	} {
		found, err := exists(db.Model(model).Where("material_id = ?", id))
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}

// applyFilter applies search and attribute filters
func (r *GormMaterialRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("search_key LIKE ?", searchPattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}
	return query
}

// Ensure GormMaterialRepository implements MaterialRepository
var _ catalog.MaterialRepository = (*GormMaterialRepository)(nil)
