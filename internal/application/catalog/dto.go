package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/shared"
)

// CreateMaterialRequest represents a request to create a new material
type CreateMaterialRequest struct {
	Code   string `json:"code" binding:"required,min=1,max=50"`
	Name   string `json:"name" binding:"required,min=1,max=200"`
	Unit   string `json:"unit" binding:"required,min=1,max=20"`
	Type   string `json:"type" binding:"required,oneof=MATERIA_PRIMA PRODUCTO_TERMINADO SUBPRODUCTO EMPAQUE"`
	Recipe string `json:"recipe" binding:"max=5000"`
}

// UpdateMaterialRequest represents a request to update a material
type UpdateMaterialRequest struct {
	Name   string `json:"name" binding:"required,min=1,max=200"`
	Unit   string `json:"unit" binding:"required,min=1,max=20"`
	Type   string `json:"type" binding:"required,oneof=MATERIA_PRIMA PRODUCTO_TERMINADO SUBPRODUCTO EMPAQUE"`
	Recipe string `json:"recipe" binding:"max=5000"`
}

// MaterialResponse represents a material in API responses
type MaterialResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Unit      string    `json:"unit"`
	Type      string    `json:"type"`
	Recipe    string    `json:"recipe"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// MaterialListFilter represents filter options for the material list
type MaterialListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=MATERIA_PRIMA PRODUCTO_TERMINADO SUBPRODUCTO EMPAQUE"`
	Status   string `form:"status" binding:"omitempty,oneof=ACTIVO INACTIVO"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToDomainFilter builds the repository filter
func (f MaterialListFilter) ToDomainFilter() shared.Filter {
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
		filter.OrderBy = "code"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	if f.Type != "" {
		filter.Filters["type"] = f.Type
	}
	if f.Status != "" {
		filter.Filters["status"] = f.Status
	}
	return filter
}

// ToMaterialResponse converts a domain Material to MaterialResponse
func ToMaterialResponse(m *catalog.Material) MaterialResponse {
	return MaterialResponse{
		ID:        m.ID,
		Code:      m.Code,
		Name:      m.Name,
		Unit:      m.Unit,
		Type:      string(m.Type),
		Recipe:    m.Recipe,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Version:   m.Version,
	}
}

// ToMaterialResponses converts a slice of domain Materials
func ToMaterialResponses(materials []catalog.Material) []MaterialResponse {
	responses := make([]MaterialResponse, len(materials))
	for i := range materials {
		responses[i] = ToMaterialResponse(&materials[i])
	}
	return responses
}
