package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	transferapp "github.com/prodtrack/backend/internal/application/transfer"
	"github.com/prodtrack/backend/internal/domain/transfer"
)

// TransferService is the transfer use case set served over HTTP
type TransferService interface {
	Create(ctx context.Context, kind transfer.Kind, req transferapp.CreateTransferRequest) (*transferapp.TransferResponse, error)
	GetByID(ctx context.Context, kind transfer.Kind, id uuid.UUID) (*transferapp.TransferResponse, error)
	List(ctx context.Context, kind transfer.Kind, filter transferapp.ListFilter) ([]transferapp.TransferResponse, int64, error)
	Update(ctx context.Context, kind transfer.Kind, id uuid.UUID, req transferapp.UpdateTransferRequest) (*transferapp.TransferResponse, error)
	Receive(ctx context.Context, kind transfer.Kind, id uuid.UUID, req transferapp.ReceiveRequest) (*transferapp.TransferResponse, error)
	Reject(ctx context.Context, kind transfer.Kind, id uuid.UUID, req transferapp.RejectRequest) (*transferapp.TransferResponse, error)
	Forward(ctx context.Context, kind transfer.Kind, id uuid.UUID, req transferapp.StepRequest) (*transferapp.TransferResponse, error)
	Finalize(ctx context.Context, kind transfer.Kind, id uuid.UUID, req transferapp.StepRequest) (*transferapp.TransferResponse, error)
	Delete(ctx context.Context, kind transfer.Kind, id uuid.UUID) error
	Summary(ctx context.Context, kind transfer.Kind) (*transferapp.SummaryResponse, error)
}

// TransferHandler serves one transfer kind. Raw and finished transfers
// get separate instances mounted under their own prefixes.
type TransferHandler struct {
	BaseHandler
	kind            transfer.Kind
	transferService TransferService
}

// NewTransferHandler creates a handler bound to kind
func NewTransferHandler(kind transfer.Kind, transferService TransferService) *TransferHandler {
	return &TransferHandler{kind: kind, transferService: transferService}
}

// Kind returns the transfer kind served
func (h *TransferHandler) Kind() transfer.Kind {
	return h.kind
}

// Create opens a transfer
func (h *TransferHandler) Create(c *gin.Context) {
	var req transferapp.CreateTransferRequest
	if !h.bindJSON(c, &req) {
		return
	}

	t, err := h.transferService.Create(c.Request.Context(), h.kind, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, t)
}

// GetByID returns a transfer with its status history
func (h *TransferHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	t, err := h.transferService.GetByID(c.Request.Context(), h.kind, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, t)
}

// List returns a page of transfers
func (h *TransferHandler) List(c *gin.Context) {
	var filter transferapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	transfers, total, err := h.transferService.List(c.Request.Context(), h.kind, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, transfers, total, page, pageSize)
}

// Summary counts transfers per status
func (h *TransferHandler) Summary(c *gin.Context) {
	summary, err := h.transferService.Summary(c.Request.Context(), h.kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update changes a pending transfer
func (h *TransferHandler) Update(c *gin.Context) {
	var req transferapp.UpdateTransferRequest
	step(h, c, &req, h.transferService.Update)
}

// Receive accepts a transfer
func (h *TransferHandler) Receive(c *gin.Context) {
	var req transferapp.ReceiveRequest
	step(h, c, &req, h.transferService.Receive)
}

// Reject refuses a transfer (admin key)
func (h *TransferHandler) Reject(c *gin.Context) {
	var req transferapp.RejectRequest
	step(h, c, &req, h.transferService.Reject)
}

// Forward moves a received finished transfer to packaging
func (h *TransferHandler) Forward(c *gin.Context) {
	var req transferapp.StepRequest
	step(h, c, &req, h.transferService.Forward)
}

// Finalize closes a finished transfer in packaging (admin key)
func (h *TransferHandler) Finalize(c *gin.Context) {
	var req transferapp.StepRequest
	step(h, c, &req, h.transferService.Finalize)
}

// Delete removes a pending or rejected transfer (admin key)
func (h *TransferHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.transferService.Delete(c.Request.Context(), h.kind, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// step binds the body and runs one transition on the transfer in the path
func step[R any](
	h *TransferHandler,
	c *gin.Context,
	req *R,
	call func(context.Context, transfer.Kind, uuid.UUID, R) (*transferapp.TransferResponse, error),
) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}
	if !h.bindJSON(c, req) {
		return
	}

	t, err := call(c.Request.Context(), h.kind, id, *req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, t)
}
