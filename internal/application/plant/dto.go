package plant

import (
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// CreatePlaceRequest represents a request to create a production place
type CreatePlaceRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// UpdatePlaceRequest represents a request to update a production place
type UpdatePlaceRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=2000"`
}

// PlaceResponse represents a production place in API responses
type PlaceResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateLabelerRequest represents a request to register an employee
type CreateLabelerRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=150"`
	Role string `json:"role" binding:"max=50"`
}

// UpdateLabelerRequest represents a request to update an employee
type UpdateLabelerRequest struct {
	Name string `json:"name" binding:"required,min=1,max=150"`
	Role string `json:"role" binding:"max=50"`
}

// LabelerResponse represents a labeler in API responses
type LabelerResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListFilter represents filter options for places and labelers
type ListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Role     string `form:"role"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter builds the repository filter
func (f ListFilter) ToDomainFilter() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
		if filter.OrderDir == "" {
			filter.OrderDir = "asc"
		}
	}
	if f.Active != nil {
		filter.Filters["active"] = *f.Active
	}
	if f.Role != "" {
		filter.Filters["role"] = f.Role
	}
	return filter
}

// ToPlaceResponse converts a domain ProductionPlace to PlaceResponse
func ToPlaceResponse(p *plant.ProductionPlace) PlaceResponse {
	return PlaceResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToLabelerResponse converts a domain Labeler to LabelerResponse
func ToLabelerResponse(l *plant.Labeler) LabelerResponse {
	return LabelerResponse{
		ID:        l.ID,
		Code:      l.Code,
		Name:      l.Name,
		Role:      l.Role,
		Active:    l.Active,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
