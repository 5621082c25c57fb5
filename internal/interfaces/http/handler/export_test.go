package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	exportapp "github.com/prodtrack/backend/internal/application/export"
	"github.com/prodtrack/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubExportService returns canned workbooks
type stubExportService struct {
	storage     bool
	lastDataset exportapp.Dataset
	lastQuery   exportapp.Query
}

func (s *stubExportService) Export(_ context.Context, dataset exportapp.Dataset, query exportapp.Query) (*exportapp.Workbook, error) {
	s.lastDataset, s.lastQuery = dataset, query
	return &exportapp.Workbook{
		Dataset:  dataset,
		Filename: string(dataset) + "_20260504_083015.xlsx",
		Data:     []byte("PK\x03\x04"),
		Rows:     2,
	}, nil
}

func (s *stubExportService) Archive(_ context.Context, dataset exportapp.Dataset, query exportapp.Query) (*exportapp.ArchiveResult, error) {
	s.lastDataset, s.lastQuery = dataset, query
	if !s.storage {
		return nil, exportapp.ErrStorageDisabled
	}
	filename := string(dataset) + "_20260504_083015.xlsx"
	return &exportapp.ArchiveResult{
		Dataset:   dataset,
		Filename:  filename,
		Key:       "exports/" + string(dataset) + "/" + filename,
		URL:       "https://bucket.example/" + filename + "?sig=1",
		ExpiresAt: time.Date(2026, 5, 4, 8, 45, 15, 0, time.UTC),
		Rows:      2,
	}, nil
}

func exportRouter(svc ExportService) *gin.Engine {
	router := newRouter()
	router.GET("/exports/:dataset", NewExportHandler(svc).Export)
	return router
}

func TestExportHandler_File(t *testing.T) {
	svc := &stubExportService{}
	router := exportRouter(svc)

	w := perform(router, http.MethodGet, "/exports/materials?type=MATERIA_PRIMA", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, exportapp.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=materials_20260504_083015.xlsx", w.Header().Get("Content-Disposition"))
	assert.Equal(t, "2", w.Header().Get("X-Export-Rows"))
	assert.Equal(t, []byte("PK\x03\x04"), w.Body.Bytes())
	assert.Equal(t, exportapp.DatasetMaterials, svc.lastDataset)
	assert.Equal(t, "MATERIA_PRIMA", svc.lastQuery.Materials.Type)
}

func TestExportHandler_BindsDatasetFilter(t *testing.T) {
	svc := &stubExportService{}
	router := exportRouter(svc)

	perform(router, http.MethodGet, "/exports/finished-product-transfers?status=EN_EMPAQUE", "")
	assert.Equal(t, "EN_EMPAQUE", svc.lastQuery.Transfers.Status)

	perform(router, http.MethodGet, "/exports/production-orders?status=FINALIZADA&date_from=2026-05-01", "")
	assert.Equal(t, "FINALIZADA", svc.lastQuery.Orders.Status)
	assert.Equal(t, "2026-05-01", svc.lastQuery.Orders.DateFrom)

	perform(router, http.MethodGet, "/exports/production-plans?status=PROGRAMADO", "")
	assert.Equal(t, "PROGRAMADO", svc.lastQuery.Plans.Status)

	w := perform(router, http.MethodGet, "/exports/raw-material-transfers?status=EN_EMPAQUE_X", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandler_Archive(t *testing.T) {
	t.Run("returns key and link", func(t *testing.T) {
		router := exportRouter(&stubExportService{storage: true})
		w := perform(router, http.MethodGet, "/exports/production-orders?archive=true", "")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
		var body struct {
			Success bool                    `json:"success"`
			Data    exportapp.ArchiveResult `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "exports/production-orders/production-orders_20260504_083015.xlsx", body.Data.Key)
		assert.NotEmpty(t, body.Data.URL)
	})

	t.Run("storage disabled", func(t *testing.T) {
		router := exportRouter(&stubExportService{})
		w := perform(router, http.MethodGet, "/exports/materials?archive=true", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, dto.ErrCodeStorageDisabled, decodeResponse(t, w).Error.Code)
	})

	t.Run("bad archive flag", func(t *testing.T) {
		router := exportRouter(&stubExportService{storage: true})
		w := perform(router, http.MethodGet, "/exports/materials?archive=maybe", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestExportHandler_UnknownDataset(t *testing.T) {
	svc := &stubExportService{}
	w := perform(exportRouter(svc), http.MethodGet, "/exports/invoices", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)
	assert.Empty(t, svc.lastDataset)
}
