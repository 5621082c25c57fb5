package shared

import (
	"time"
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Paginated represents a paginated result
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// DateRange is an inclusive range of calendar days. A nil bound is open.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range, comparing by day.
func (r DateRange) Contains(t time.Time) bool {
	day := TruncateDay(t)
	if r.From != nil && day.Before(TruncateDay(*r.From)) {
		return false
	}
	if r.To != nil && day.After(TruncateDay(*r.To)) {
		return false
	}
	return true
}

// UpperBound returns the exclusive upper instant of To, i.e. the start of the
// following day.
func (r DateRange) UpperBound() *time.Time {
	if r.To == nil {
		return nil
	}
	next := TruncateDay(*r.To).AddDate(0, 0, 1)
	return &next
}

// TruncateDay drops the time-of-day part of t in UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayLayout is the wire format of calendar days
const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD day in UTC
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, NewDomainError("INVALID_DATE", "Invalid date "+s+", expected YYYY-MM-DD")
	}
	return t, nil
}

// ParseDateRange builds a range from optional YYYY-MM-DD bounds
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	if from != "" {
		t, err := ParseDay(from)
		if err != nil {
			return r, err
		}
		r.From = &t
	}
	if to != "" {
		t, err := ParseDay(to)
		if err != nil {
			return r, err
		}
		r.To = &t
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return DateRange{}, NewDomainError("INVALID_DATE_RANGE", "date_from must not be after date_to")
	}
	return r, nil
}

// Apply stores the bounds under the date_from and date_to filter keys
func (r DateRange) Apply(filters map[string]interface{}) {
	if r.From != nil {
		filters["date_from"] = *r.From
	}
	if r.To != nil {
		filters["date_to"] = *r.To
	}
}
