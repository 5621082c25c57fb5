// Package export renders list datasets as Excel workbooks and archives them.
package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	catalogapp "github.com/prodtrack/backend/internal/application/catalog"
	productionapp "github.com/prodtrack/backend/internal/application/production"
	transferapp "github.com/prodtrack/backend/internal/application/transfer"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/prodtrack/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ContentType is the MIME type of generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DefaultMaxRows caps an export when no limit is configured
const DefaultMaxRows = 10000

// Dataset names an exportable list
type Dataset string

const (
	DatasetMaterials         Dataset = "materials"
	DatasetProductionOrders  Dataset = "production-orders"
	DatasetRawTransfers      Dataset = "raw-material-transfers"
	DatasetFinishedTransfers Dataset = "finished-product-transfers"
	DatasetProductionPlans   Dataset = "production-plans"
)

// ErrStorageDisabled is returned by Archive when no object storage is configured
var ErrStorageDisabled = shared.NewDomainError("STORAGE_DISABLED", "Export archive storage is not configured")

// ParseDataset validates a dataset name
func ParseDataset(name string) (Dataset, error) {
	switch d := Dataset(name); d {
	case DatasetMaterials, DatasetProductionOrders, DatasetRawTransfers, DatasetFinishedTransfers, DatasetProductionPlans:
		return d, nil
	}
	return "", shared.NewDomainError("UNKNOWN_DATASET", "Unknown export dataset: "+name)
}

// Query carries the list filters of every dataset. Only the one matching the dataset is read.
type Query struct {
	Materials catalogapp.MaterialListFilter
	Orders    productionapp.OrderListFilter
	Plans     productionapp.PlanListFilter
	Transfers transferapp.ListFilter
}

// MaterialSource lists materials
type MaterialSource interface {
	List(ctx context.Context, filter catalogapp.MaterialListFilter) ([]catalogapp.MaterialResponse, int64, error)
}

// OrderSource lists production orders
type OrderSource interface {
	List(ctx context.Context, filter productionapp.OrderListFilter) ([]productionapp.OrderResponse, int64, error)
}

// PlanSource builds the plan compliance report
type PlanSource interface {
	Compliance(ctx context.Context, filter productionapp.PlanListFilter) (*productionapp.ComplianceReport, error)
}

// TransferSource lists transfers of one kind
type TransferSource interface {
	List(ctx context.Context, kind transfer.Kind, filter transferapp.ListFilter) ([]transferapp.TransferResponse, int64, error)
}

// ArchiveStorage keeps generated workbooks and hands out download links
type ArchiveStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// Workbook is a rendered export
type Workbook struct {
	Dataset  Dataset
	Filename string
	Data     []byte
	Rows     int
}

// ArchiveResult points at an archived workbook
type ArchiveResult struct {
	Dataset   Dataset   `json:"dataset"`
	Filename  string    `json:"filename"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
	Rows      int       `json:"rows"`
}

// ExportService renders datasets as spreadsheets
type ExportService struct {
	materials MaterialSource
	orders    OrderSource
	plans     PlanSource
	transfers TransferSource
	storage   ArchiveStorage
	maxRows   int
	urlTTL    time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

// Option configures an ExportService
type Option func(*ExportService)

// WithStorage enables archiving to object storage
func WithStorage(storage ArchiveStorage, urlTTL time.Duration) Option {
	return func(s *ExportService) {
		s.storage = storage
		s.urlTTL = urlTTL
	}
}

// WithMaxRows sets the row cap
func WithMaxRows(maxRows int) Option {
	return func(s *ExportService) {
		if maxRows > 0 {
			s.maxRows = maxRows
		}
	}
}

// WithClock replaces the clock used for file names
func WithClock(now func() time.Time) Option {
	return func(s *ExportService) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *ExportService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewExportService creates a new ExportService
func NewExportService(
	materials MaterialSource,
	orders OrderSource,
	plans PlanSource,
	transfers TransferSource,
	opts ...Option,
) *ExportService {
	s := &ExportService{
		materials: materials,
		orders:    orders,
		plans:     plans,
		transfers: transfers,
		maxRows:   DefaultMaxRows,
		urlTTL:    15 * time.Minute,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StorageEnabled reports whether Archive can be used
func (s *ExportService) StorageEnabled() bool {
	return s.storage != nil
}

// Export renders one dataset
func (s *ExportService) Export(ctx context.Context, dataset Dataset, query Query) (*Workbook, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "export", "render", telemetry.SpanAttrDataset, string(dataset))
	defer span.End()

	sh, err := s.build(ctx, dataset, query)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	data, err := sh.render()
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrRows, len(sh.Rows))

	wb := &Workbook{
		Dataset:  dataset,
		Filename: fmt.Sprintf("%s_%s.xlsx", dataset, s.now().Format("20060102_150405")),
		Data:     data,
		Rows:     len(sh.Rows),
	}
	s.logger.Info("export rendered",
		zap.String("dataset", string(dataset)),
		zap.Int("rows", wb.Rows),
		zap.Int("bytes", len(data)),
	)
	return wb, nil
}

// Archive renders a dataset, uploads it under exports/<dataset>/ and returns a presigned link
func (s *ExportService) Archive(ctx context.Context, dataset Dataset, query Query) (*ArchiveResult, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	wb, err := s.Export(ctx, dataset, query)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("exports/%s/%s", dataset, wb.Filename)
	if err := s.storage.Upload(ctx, key, wb.Data, ContentType); err != nil {
		return nil, fmt.Errorf("failed to archive export: %w", err)
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, key, s.urlTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign export url: %w", err)
	}

	s.logger.Info("export archived", zap.String("key", key))
	return &ArchiveResult{
		Dataset:   dataset,
		Filename:  wb.Filename,
		Key:       key,
		URL:       url,
		ExpiresAt: expiresAt,
		Rows:      wb.Rows,
	}, nil
}

func (s *ExportService) build(ctx context.Context, dataset Dataset, query Query) (*sheet, error) {
	switch dataset {
	case DatasetMaterials:
		return s.materialSheet(ctx, query.Materials)
	case DatasetProductionOrders:
		return s.orderSheet(ctx, query.Orders)
	case DatasetRawTransfers:
		return s.transferSheet(ctx, dataset, transfer.KindRawMaterial, query.Transfers)
	case DatasetFinishedTransfers:
		return s.transferSheet(ctx, dataset, transfer.KindFinishedProduct, query.Transfers)
	case DatasetProductionPlans:
		return s.planSheet(ctx, query.Plans)
	}
	return nil, shared.NewDomainError("UNKNOWN_DATASET", "Unknown export dataset: "+string(dataset))
}

func (s *ExportService) materialSheet(ctx context.Context, filter catalogapp.MaterialListFilter) (*sheet, error) {
	filter.Page, filter.PageSize = 1, s.maxRows
	materials, _, err := s.materials.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sh := &sheet{
		Name: string(DatasetMaterials),
		Columns: []column{
			{Header: "Código", Width: 14},
			{Header: "Nombre", Width: 32},
			{Header: "Unidad", Width: 10},
			{Header: "Tipo", Width: 22},
			{Header: "Estado", Width: 12},
			{Header: "Receta", Width: 40},
			{Header: "Creado", Width: 12},
		},
	}
	for _, m := range materials {
		sh.Rows = append(sh.Rows, []any{
			m.Code, m.Name, m.Unit, m.Type, m.Status, m.Recipe, m.CreatedAt.Format(shared.DayLayout),
		})
	}
	return sh, nil
}

// orderSheet writes one row per order line with the header columns repeated
func (s *ExportService) orderSheet(ctx context.Context, filter productionapp.OrderListFilter) (*sheet, error) {
	filter.Page, filter.PageSize = 1, s.maxRows
	orders, _, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	sh := &sheet{
		Name: string(DatasetProductionOrders),
		Columns: []column{
			{Header: "Número", Width: 10},
			{Header: "Fecha", Width: 12},
			{Header: "Lugar", Width: 20},
			{Header: "Rotulador", Width: 24},
			{Header: "Estado", Width: 12},
			{Header: "Tipo línea", Width: 14},
			{Header: "Código material", Width: 16},
			{Header: "Material", Width: 30},
			{Header: "Unidad", Width: 10},
			{Header: "Cantidad", Width: 14, Numeric: true},
			{Header: "Lote", Width: 14},
			{Header: "Notas", Width: 30},
		},
	}
	for _, o := range orders {
		header := []any{strconv.FormatInt(o.Number, 10), o.ProductionDate, o.PlaceName, o.LabelerName, o.Status}
		if len(o.Items) == 0 {
			row := append(append([]any{}, header...), "", "", "", "", nil, "", o.Notes)
			if !s.appendCapped(sh, row) {
				break
			}
			continue
		}
		for _, item := range o.Items {
			row := append(append([]any{}, header...),
				item.Kind, item.MaterialCode, item.MaterialName, item.Unit, quantity(item.Quantity), item.Lot, o.Notes)
			if !s.appendCapped(sh, row) {
				return sh, nil
			}
		}
	}
	return sh, nil
}

func (s *ExportService) transferSheet(ctx context.Context, dataset Dataset, kind transfer.Kind, filter transferapp.ListFilter) (*sheet, error) {
	filter.Page, filter.PageSize = 1, s.maxRows
	transfers, _, err := s.transfers.List(ctx, kind, filter)
	if err != nil {
		return nil, err
	}
	sh := &sheet{
		Name: string(dataset),
		Columns: []column{
			{Header: "Número", Width: 10},
			{Header: "Fecha", Width: 12},
			{Header: "Código material", Width: 16},
			{Header: "Material", Width: 30},
			{Header: "Unidad", Width: 10},
			{Header: "Cantidad", Width: 14, Numeric: true},
			{Header: "Cantidad recibida", Width: 16, Numeric: true},
			{Header: "Estado", Width: 14},
			{Header: "Solicitado por", Width: 24},
			{Header: "Recibido por", Width: 24},
			{Header: "Orden", Width: 10},
			{Header: "Lote", Width: 14},
			{Header: "Motivo rechazo", Width: 30},
			{Header: "Notas", Width: 30},
		},
	}
	for _, t := range transfers {
		order := ""
		if t.ProductionOrderNumber > 0 {
			order = strconv.FormatInt(t.ProductionOrderNumber, 10)
		}
		var received any
		if !t.ReceivedQuantity.IsZero() {
			received = quantity(t.ReceivedQuantity)
		}
		sh.Rows = append(sh.Rows, []any{
			strconv.FormatInt(t.Number, 10),
			t.CreatedAt.Format(shared.DayLayout),
			t.MaterialCode,
			t.MaterialName,
			t.Unit,
			quantity(t.Quantity),
			received,
			t.Status,
			t.RequestedByName,
			t.ReceivedByName,
			order,
			t.Lot,
			t.RejectReason,
			t.Notes,
		})
	}
	return sh, nil
}

// planSheet writes the compliance report rows
func (s *ExportService) planSheet(ctx context.Context, filter productionapp.PlanListFilter) (*sheet, error) {
	report, err := s.plans.Compliance(ctx, filter)
	if err != nil {
		return nil, err
	}
	sh := &sheet{
		Name: string(DatasetProductionPlans),
		Columns: []column{
			{Header: "Fecha", Width: 12},
			{Header: "Código material", Width: 16},
			{Header: "Material", Width: 30},
			{Header: "Unidad", Width: 10},
			{Header: "Estado", Width: 12},
			{Header: "Planificado", Width: 14, Numeric: true},
			{Header: "Producido", Width: 14, Numeric: true},
			{Header: "Pendiente", Width: 14, Numeric: true},
			{Header: "Avance %", Width: 12, Numeric: true},
			{Header: "Notas", Width: 30},
		},
	}
	for _, row := range report.Rows {
		if !s.appendCapped(sh, []any{
			row.PlannedDate,
			row.MaterialCode,
			row.MaterialName,
			row.Unit,
			row.Status,
			quantity(row.PlannedQuantity),
			quantity(row.ProducedQuantity),
			quantity(row.PendingQuantity),
			quantity(row.ProgressPercent),
			row.Notes,
		}) {
			break
		}
	}
	return sh, nil
}

// appendCapped adds a row unless the sheet is full
func (s *ExportService) appendCapped(sh *sheet, row []any) bool {
	if len(sh.Rows) >= s.maxRows {
		return false
	}
	sh.Rows = append(sh.Rows, row)
	return true
}
