package persistence

import (
	"testing"
	"time"

	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), gormlogger.Default.LogMode(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func seedMaterial(t *testing.T, db *gorm.DB, code string, materialType catalog.MaterialType) *catalog.Material {
	t.Helper()
	m, err := catalog.NewMaterial(code, "Material "+code, "KG", materialType)
	require.NoError(t, err)
	require.NoError(t, NewGormMaterialRepository(db).Save(t.Context(), m))
	return m
}

func seedPlace(t *testing.T, db *gorm.DB, code string) *plant.ProductionPlace {
	t.Helper()
	p, err := plant.NewProductionPlace(code, "Línea "+code)
	require.NoError(t, err)
	require.NoError(t, NewGormPlaceRepository(db).Save(t.Context(), p))
	return p
}

func seedLabeler(t *testing.T, db *gorm.DB, code string) *plant.Labeler {
	t.Helper()
	l, err := plant.NewLabeler(code, "Operario "+code, "ROTULADOR")
	require.NoError(t, err)
	require.NoError(t, NewGormLabelerRepository(db).Save(t.Context(), l))
	return l
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
