package persistence

import (
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates all tables from the gorm mappings.
// It backs the sqlite driver; postgres deployments run the SQL migrations instead.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&catalog.Material{},
		&plant.ProductionPlace{},
		&plant.Labeler{},
		&production.ProductionPlan{},
		&models.ProductionOrderModel{},
		&models.ProductionOrderItemModel{},
		&models.TransferModel{},
		&models.TransferStatusLogModel{},
	)
}
