package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	plantapp "github.com/prodtrack/backend/internal/application/plant"
)

// PlaceService is the production place use case set served over HTTP
type PlaceService interface {
	Create(ctx context.Context, req plantapp.CreatePlaceRequest) (*plantapp.PlaceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*plantapp.PlaceResponse, error)
	List(ctx context.Context, filter plantapp.ListFilter) ([]plantapp.PlaceResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req plantapp.UpdatePlaceRequest) (*plantapp.PlaceResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*plantapp.PlaceResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*plantapp.PlaceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LabelerService is the employee use case set served over HTTP
type LabelerService interface {
	Create(ctx context.Context, req plantapp.CreateLabelerRequest) (*plantapp.LabelerResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*plantapp.LabelerResponse, error)
	List(ctx context.Context, filter plantapp.ListFilter) ([]plantapp.LabelerResponse, int64, error)
	Update(ctx context.Context, id uuid.UUID, req plantapp.UpdateLabelerRequest) (*plantapp.LabelerResponse, error)
	Activate(ctx context.Context, id uuid.UUID) (*plantapp.LabelerResponse, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*plantapp.LabelerResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PlaceHandler handles production place endpoints
type PlaceHandler struct {
	BaseHandler
	placeService PlaceService
}

// NewPlaceHandler creates a new PlaceHandler
func NewPlaceHandler(placeService PlaceService) *PlaceHandler {
	return &PlaceHandler{placeService: placeService}
}

// Create registers a production place
func (h *PlaceHandler) Create(c *gin.Context) {
	var req plantapp.CreatePlaceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	place, err := h.placeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, place)
}

// GetByID returns a production place
func (h *PlaceHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.placeService.GetByID)
}

// List returns a page of production places
func (h *PlaceHandler) List(c *gin.Context) {
	var filter plantapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	places, total, err := h.placeService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, places, total, page, pageSize)
}

// Update renames a production place
func (h *PlaceHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req plantapp.UpdatePlaceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	place, err := h.placeService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, place)
}

// Activate re-enables a production place
func (h *PlaceHandler) Activate(c *gin.Context) {
	withID(&h.BaseHandler, c, h.placeService.Activate)
}

// Deactivate disables a production place
func (h *PlaceHandler) Deactivate(c *gin.Context) {
	withID(&h.BaseHandler, c, h.placeService.Deactivate)
}

// Delete removes an unreferenced production place
func (h *PlaceHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.placeService.Delete)
}

// LabelerHandler handles labeler (employee) endpoints
type LabelerHandler struct {
	BaseHandler
	labelerService LabelerService
}

// NewLabelerHandler creates a new LabelerHandler
func NewLabelerHandler(labelerService LabelerService) *LabelerHandler {
	return &LabelerHandler{labelerService: labelerService}
}

// Create registers an employee
func (h *LabelerHandler) Create(c *gin.Context) {
	var req plantapp.CreateLabelerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	labeler, err := h.labelerService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, labeler)
}

// GetByID returns an employee
func (h *LabelerHandler) GetByID(c *gin.Context) {
	withID(&h.BaseHandler, c, h.labelerService.GetByID)
}

// List returns a page of employees
func (h *LabelerHandler) List(c *gin.Context) {
	var filter plantapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	labelers, total, err := h.labelerService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, labelers, total, page, pageSize)
}

// Update changes an employee's name and role
func (h *LabelerHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	var req plantapp.UpdateLabelerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	labeler, err := h.labelerService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, labeler)
}

// Activate re-enables an employee
func (h *LabelerHandler) Activate(c *gin.Context) {
	withID(&h.BaseHandler, c, h.labelerService.Activate)
}

// Deactivate disables an employee
func (h *LabelerHandler) Deactivate(c *gin.Context) {
	withID(&h.BaseHandler, c, h.labelerService.Deactivate)
}

// Delete removes an unreferenced employee
func (h *LabelerHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.labelerService.Delete)
}

// withID runs a by-id call and writes its result
func withID[T any](h *BaseHandler, c *gin.Context, call func(context.Context, uuid.UUID) (*T, error)) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	result, err := call(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// deleteByID runs a by-id delete and answers 204
func deleteByID(h *BaseHandler, c *gin.Context, call func(context.Context, uuid.UUID) error) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if err := call(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
