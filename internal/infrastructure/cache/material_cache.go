package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

const materialKeyPrefix = "material:"

// CachedMaterialRepository decorates a MaterialRepository with cache-aside
// lookups by ID. Writes go to the repository and then evict the entry.
type CachedMaterialRepository struct {
	catalog.MaterialRepository
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedMaterialRepository wraps repo with store
func NewCachedMaterialRepository(repo catalog.MaterialRepository, store Store, ttl time.Duration, logger *zap.Logger) *CachedMaterialRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedMaterialRepository{
		MaterialRepository: repo,
		store:              store,
		ttl:                ttl,
		logger:             logger.Named("material_cache"),
	}
}

func materialKey(id uuid.UUID) string {
	return materialKeyPrefix + id.String()
}

// FindByID serves from the cache and loads from the repository on a miss.
// Cache failures degrade to a repository read.
func (r *CachedMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	key := materialKey(id)
	if raw, ok, err := r.store.Get(ctx, key); err != nil {
		r.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var m catalog.Material
		if err := json.Unmarshal(raw, &m); err == nil {
			return &m, nil
		}
		r.logger.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}

	m, err := r.MaterialRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(m); err == nil {
		if err := r.store.Set(ctx, key, raw, r.ttl); err != nil {
			r.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return m, nil
}

// Save writes through and evicts the cached copy
func (r *CachedMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	if err := r.MaterialRepository.Save(ctx, material); err != nil {
		return err
	}
	r.evict(ctx, material.ID)
	return nil
}

// Delete removes the material and its cached copy
func (r *CachedMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.MaterialRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.evict(ctx, id)
	return nil
}

func (r *CachedMaterialRepository) evict(ctx context.Context, id uuid.UUID) {
	if err := r.store.Delete(ctx, materialKey(id)); err != nil {
		r.logger.Warn("Cache eviction failed", zap.String("material_id", id.String()), zap.Error(err))
	}
}

var _ catalog.MaterialRepository = (*CachedMaterialRepository)(nil)
