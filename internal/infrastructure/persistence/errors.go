package persistence

import (
	"errors"

	"github.com/prodtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps driver errors to domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// exists reports whether the query matches at least one row
func exists(query *gorm.DB) (bool, error) {
	var count int64
	if err := query.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
