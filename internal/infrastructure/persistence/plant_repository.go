package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPlaceRepository implements PlaceRepository using GORM
type GormPlaceRepository struct {
	db *gorm.DB
}

// NewGormPlaceRepository creates a new GormPlaceRepository
func NewGormPlaceRepository(db *gorm.DB) *GormPlaceRepository {
	return &GormPlaceRepository{db: db}
}

// FindByID finds a production place by its ID
func (r *GormPlaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*plant.ProductionPlace, error) {
	var place plant.ProductionPlace
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&place).Error; err != nil {
		return nil, translateError(err)
	}
	return &place, nil
}

// FindAll finds production places matching the filter
func (r *GormPlaceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plant.ProductionPlace, error) {
	var places []plant.ProductionPlace
	query := applyPlantFilter(r.db.WithContext(ctx).Model(&plant.ProductionPlace{}), filter)
	if err := applyPagination(query, filter, PlantSortFields, "name").Find(&places).Error; err != nil {
		return nil, err
	}
	return places, nil
}

// Save creates or updates a production place
func (r *GormPlaceRepository) Save(ctx context.Context, place *plant.ProductionPlace) error {
	return translateError(r.db.WithContext(ctx).Save(place).Error)
}

// Delete deletes a production place
func (r *GormPlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&plant.ProductionPlace{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts production places matching the filter
func (r *GormPlaceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyPlantFilter(r.db.WithContext(ctx).Model(&plant.ProductionPlace{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a production place with the given code exists
func (r *GormPlaceRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&plant.ProductionPlace{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))))
}

// IsReferenced reports whether any order or plan points at the place
func (r *GormPlaceRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	found, err := exists(db.Model(&models.ProductionOrderModel{}).Where("place_id = ?", id))
	if err != nil || found {
		return found, err
	}
	return exists(db.Model(&production.ProductionPlan{}).Where("place_id = ?", id))
}

// GormLabelerRepository implements LabelerRepository using GORM
type GormLabelerRepository struct {
	db *gorm.DB
}

// NewGormLabelerRepository creates a new GormLabelerRepository
func NewGormLabelerRepository(db *gorm.DB) *GormLabelerRepository {
	return &GormLabelerRepository{db: db}
}

// FindByID finds a labeler by its ID
func (r *GormLabelerRepository) FindByID(ctx context.Context, id uuid.UUID) (*plant.Labeler, error) {
	var labeler plant.Labeler
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&labeler).Error; err != nil {
		return nil, translateError(err)
	}
	return &labeler, nil
}

// FindAll finds labelers matching the filter
func (r *GormLabelerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plant.Labeler, error) {
	var labelers []plant.Labeler
	query := applyPlantFilter(r.db.WithContext(ctx).Model(&plant.Labeler{}), filter)
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}
	if err := applyPagination(query, filter, PlantSortFields, "name").Find(&labelers).Error; err != nil {
		return nil, err
	}
	return labelers, nil
}

// Save creates or updates a labeler
func (r *GormLabelerRepository) Save(ctx context.Context, labeler *plant.Labeler) error {
	return translateError(r.db.WithContext(ctx).Save(labeler).Error)
}

// Delete deletes a labeler
func (r *GormLabelerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&plant.Labeler{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts labelers matching the filter
func (r *GormLabelerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := applyPlantFilter(r.db.WithContext(ctx).Model(&plant.Labeler{}), filter)
	if role, ok := filter.Filters["role"]; ok {
		query = query.Where("role = ?", role)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a labeler with the given code exists
func (r *GormLabelerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&plant.Labeler{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))))
}

// IsReferenced reports whether any order or transfer names the labeler
func (r *GormLabelerRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	db := r.db.WithContext(ctx)
	found, err := exists(db.Model(&models.ProductionOrderModel{}).Where("labeler_id = ?", id))
	if err != nil || found {
		return found, err
	}
	return exists(db.Model(&models.TransferModel{}).Where(
		"requested_by_id = ? OR received_by_id = ? OR forwarded_by_id = ? OR finalized_by_id = ? OR rejected_by_id = ?",
		id, id, id, id, id))
}

// applyPlantFilter filters places and labelers by code/name search and active flag
func applyPlantFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	return query
}

var (
	_ plant.PlaceRepository   = (*GormPlaceRepository)(nil)
	_ plant.LabelerRepository = (*GormLabelerRepository)(nil)
)
