package models

import (
	"strconv"

	"github.com/prodtrack/backend/internal/domain/shared"
)

// refreshSearchKey rebuilds the folded text matched by transfer searches
func (m *TransferModel) refreshSearchKey() {
	m.SearchKey = shared.SearchKey(
		strconv.FormatInt(m.Number, 10),
		m.MaterialCode,
		m.MaterialName,
		m.RequestedByName,
		m.Lot,
	)
}

// SetNumber sets the allocated number and refreshes the search key
func (m *TransferModel) SetNumber(number int64) {
	m.Number = number
	m.refreshSearchKey()
}
