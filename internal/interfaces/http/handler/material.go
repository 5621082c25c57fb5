package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/prodtrack/backend/internal/application/catalog"
)

// MaterialService is the catalog use case set served over HTTP
type MaterialService interface {
	Create(ctx context.Context, req catalogapp.CreateMaterialRequest) (*catalogapp.MaterialResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.MaterialResponse, error)
	GetByCode(ctx context.Context, code string) (*catalogapp.MaterialResponse, error)
	List(ctx context.Context, filter catalogapp.MaterialListFilter) ([]catalogapp.MaterialResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req catalogapp.UpdateMaterialRequest) (*catalogapp.MaterialResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*catalogapp.MaterialResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*catalogapp.MaterialResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MaterialHandler handles material catalog endpoints
type MaterialHandler struct {
	BaseHandler
	materialService MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// Create registers a material
//
//	POST /materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req catalogapp.CreateMaterialRequest
	if !h.bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, material)
}

// GetByID returns a material
//
//	GET /materials/:id
func (h *MaterialHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.materialService.GetByID)
}

// GetByCode returns a material by its code
//
//	GET /materials/code/:code
func (h *MaterialHandler) GetByCode(c *gin.Context) {
	material, err := h.materialService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// List returns a page of materials
//
//	GET /materials?search=&type=&status=&page=&page_size=
func (h *MaterialHandler) List(c *gin.Context) {
	var filter catalogapp.MaterialListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	materials, total, err := h.materialService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, materials, total, page, pageSize)
}

// Update changes a material's name, unit, type and recipe
//
//	PUT /materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateMaterialRequest
	if !h.bindJSON(c, &req) {
		return
	}

	material, err := h.materialService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, material)
}

// Activate re-enables a material
func (h *MaterialHandler) Activate(c *gin.Context) {
	withID(&h.BaseHandler, c, h.materialService.Activate)
}

// Deactivate disables a material
func (h *MaterialHandler) Deactivate(c *gin.Context) {
	withID(&h.BaseHandler, c, h.materialService.Deactivate)
}

// Delete removes an unreferenced material
//
//	DELETE /materials/:id (admin key)
func (h *MaterialHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.materialService.Delete)
}

// pageOf mirrors the list defaults applied by the services
func pageOf(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return page, pageSize
}
