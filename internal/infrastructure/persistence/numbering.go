package persistence

import (
	"errors"

	"github.com/prodtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// maxNumberAttempts bounds the retries when two writers race for the same number
const maxNumberAttempts = 3

// nextNumber returns max(number)+1 for the model's table within tx
func nextNumber(tx *gorm.DB, model interface{}, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	query := tx.Model(model)
	if scope != nil {
		query = scope(query)
	}
	var current int64
	if err := query.Select("COALESCE(MAX(number), 0)").Scan(&current).Error; err != nil {
		return 0, err
	}
	return current + 1, nil
}

// withNumberRetry runs fn until it stops failing on a duplicated number
func withNumberRetry(fn func() error) error {
	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		err = fn()
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// lockConflict tells apart a missing row from a stale version after a guarded update
func lockConflict(tx *gorm.DB, model interface{}, id interface{}) error {
	found, err := exists(tx.Model(model).Where("id = ?", id))
	if err != nil {
		return err
	}
	if !found {
		return shared.ErrNotFound
	}
	return shared.ErrConcurrencyConflict
}
