package persistence

import (
	"strings"
	"time"

	"github.com/prodtrack/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// MaterialSortFields contains allowed sort fields for materials
var MaterialSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"type":       true,
	"status":     true,
}

// PlantSortFields contains allowed sort fields for production places and labelers
var PlantSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
}

// OrderSortFields contains allowed sort fields for production orders
var OrderSortFields = map[string]bool{
	"created_at":      true,
	"number":          true,
	"production_date": true,
	"status":          true,
}

// PlanSortFields contains allowed sort fields for production plans
var PlanSortFields = map[string]bool{
	"created_at":       true,
	"planned_date":     true,
	"planned_quantity": true,
	"material_code":    true,
	"status":           true,
}

// TransferSortFields contains allowed sort fields for transfers
var TransferSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"status":     true,
	"quantity":   true,
}

// applyPagination applies offset/limit and a whitelisted order
func applyPagination(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	return query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
}

// searchPattern returns a LIKE pattern over search_key columns
func searchPattern(search string) string {
	return "%" + shared.SearchKey(search) + "%"
}

// dateRangeFrom reads the date_from and date_to filters
func dateRangeFrom(filter shared.Filter) shared.DateRange {
	var dates shared.DateRange
	if from, ok := filter.Filters["date_from"].(time.Time); ok {
		from = shared.TruncateDay(from)
		dates.From = &from
	}
	if to, ok := filter.Filters["date_to"].(time.Time); ok {
		dates.To = &to
	}
	return dates
}

// applyDateRange restricts column to the days of the range
func applyDateRange(query *gorm.DB, column string, dates shared.DateRange) *gorm.DB {
	if dates.From != nil {
		query = query.Where(column+" >= ?", shared.TruncateDay(*dates.From))
	}
	if upper := dates.UpperBound(); upper != nil {
		query = query.Where(column+" < ?", *upper)
	}
	return query
}
