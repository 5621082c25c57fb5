package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	exportapp "github.com/prodtrack/backend/internal/application/export"
	"github.com/prodtrack/backend/internal/interfaces/http/dto"
)

// ExportService renders and archives dataset workbooks
type ExportService interface {
	Export(ctx context.Context, dataset exportapp.Dataset, query exportapp.Query) (*exportapp.Workbook, error)
	Archive(ctx context.Context, dataset exportapp.Dataset, query exportapp.Query) (*exportapp.ArchiveResult, error)
}

// ExportHandler serves spreadsheet exports
type ExportHandler struct {
	BaseHandler
	exportService ExportService
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(exportService ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export streams the dataset as an .xlsx file, or archives it when archive=true
//
//	GET /exports/:dataset?archive=true&<list filters>
func (h *ExportHandler) Export(c *gin.Context) {
	dataset, err := exportapp.ParseDataset(c.Param("dataset"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	archive := false
	if raw := c.Query("archive"); raw != "" {
		archive, err = strconv.ParseBool(raw)
		if err != nil {
			h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, "archive must be true or false")
			return
		}
	}

	query, ok := h.bindDatasetQuery(c, dataset)
	if !ok {
		return
	}

	if archive {
		result, err := h.exportService.Archive(c.Request.Context(), dataset, query)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
		return
	}

	workbook, err := h.exportService.Export(c.Request.Context(), dataset, query)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+workbook.Filename)
	c.Header("X-Export-Rows", strconv.Itoa(workbook.Rows))
	c.Data(http.StatusOK, exportapp.ContentType, workbook.Data)
}

// bindDatasetQuery binds the list filter matching dataset
func (h *ExportHandler) bindDatasetQuery(c *gin.Context, dataset exportapp.Dataset) (exportapp.Query, bool) {
	var query exportapp.Query
	var target any
	switch dataset {
	case exportapp.DatasetMaterials:
		target = &query.Materials
	case exportapp.DatasetProductionOrders:
		target = &query.Orders
	case exportapp.DatasetProductionPlans:
		target = &query.Plans
	default:
		target = &query.Transfers
	}
	if !h.bindQuery(c, target) {
		return query, false
	}
	return query, true
}
