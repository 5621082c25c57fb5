//go:build integration

package integration

import (
	"os"
	"testing"

	catalogapp "github.com/prodtrack/backend/internal/application/catalog"
	plantapp "github.com/prodtrack/backend/internal/application/plant"
	productionapp "github.com/prodtrack/backend/internal/application/production"
	transferapp "github.com/prodtrack/backend/internal/application/transfer"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/prodtrack/backend/internal/infrastructure/event"
	"github.com/prodtrack/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

type services struct {
	materials *catalogapp.MaterialService
	places    *plantapp.PlaceService
	labelers  *plantapp.LabelerService
	orders    *productionapp.OrderService
	transfers *transferapp.TransferService
}

func newServices(tdb *TestDB) services {
	db := tdb.DB
	materialRepo := persistence.NewGormMaterialRepository(db)
	placeRepo := persistence.NewGormPlaceRepository(db)
	labelerRepo := persistence.NewGormLabelerRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	transferRepo := persistence.NewGormTransferRepository(db)

	bus := event.NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(transferapp.NewOrderFinalizedHandler(transferRepo, bus, zap.NewNop()))

	return services{
		materials: catalogapp.NewMaterialService(materialRepo, bus),
		places:    plantapp.NewPlaceService(placeRepo, bus),
		labelers:  plantapp.NewLabelerService(labelerRepo, bus),
		orders:    productionapp.NewOrderService(orderRepo, materialRepo, placeRepo, labelerRepo, bus),
		transfers: transferapp.NewTransferService(transferRepo, materialRepo, labelerRepo, bus),
	}
}

func TestProductionFlow_FinalizeOpensFinishedTransfers(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := t.Context()

	place, err := svc.places.Create(ctx, plantapp.CreatePlaceRequest{Code: "MEZ", Name: "Mezcladora"})
	require.NoError(t, err)
	labeler, err := svc.labelers.Create(ctx, plantapp.CreateLabelerRequest{Code: "EMP-001", Name: "Ana Pérez", Role: "ROTULADOR"})
	require.NoError(t, err)
	receiver, err := svc.labelers.Create(ctx, plantapp.CreateLabelerRequest{Code: "EMP-002", Name: "Luis Gómez"})
	require.NoError(t, err)
	product, err := svc.materials.Create(ctx, catalogapp.CreateMaterialRequest{Code: "PAN-001", Name: "Pan molde", Unit: "UN", Type: "PRODUCTO_TERMINADO"})
	require.NoError(t, err)

	order, err := svc.orders.Create(ctx, productionapp.CreateOrderRequest{
		ProductionDate: "2026-05-04",
		PlaceID:        place.ID,
		LabelerID:      labeler.ID,
		Items: []productionapp.OrderLineRequest{
			{Kind: "PRODUCIDO", MaterialID: product.ID, Quantity: decimal.NewFromInt(120), Lot: "L-1"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.Number)

	finalized, err := svc.orders.Finalize(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "FINALIZADA", finalized.Status)

	transfers, total, err := svc.transfers.List(ctx, transfer.KindFinishedProduct, transferapp.ListFilter{
		ProductionOrderID: order.ID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	opened := transfers[0]
	assert.Equal(t, "PENDIENTE", opened.Status)
	assert.Equal(t, "L-1", opened.Lot)
	assert.True(t, decimal.NewFromInt(120).Equal(opened.Quantity))

	received, err := svc.transfers.Receive(ctx, transfer.KindFinishedProduct, opened.ID, transferapp.ReceiveRequest{
		EmployeeID:      receiver.ID,
		ExpectedVersion: &opened.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, "RECIBIDO", received.Status)

	// a retried receive with the old version answers with the current state
	again, err := svc.transfers.Receive(ctx, transfer.KindFinishedProduct, opened.ID, transferapp.ReceiveRequest{
		EmployeeID:      receiver.ID,
		ExpectedVersion: &opened.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, received.Version, again.Version)

	summary, err := svc.transfers.Summary(ctx, transfer.KindFinishedProduct)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalCount)
}

func TestProductionFlow_NumbersAndCodesAreUnique(t *testing.T) {
	tdb := NewTestDB(t)
	svc := newServices(tdb)
	ctx := t.Context()

	_, err := svc.materials.Create(ctx, catalogapp.CreateMaterialRequest{Code: "HAR-001", Name: "Harina", Unit: "KG", Type: "MATERIA_PRIMA"})
	require.NoError(t, err)
	_, err = svc.materials.Create(ctx, catalogapp.CreateMaterialRequest{Code: "HAR-001", Name: "Harina 2", Unit: "KG", Type: "MATERIA_PRIMA"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	raw, err := svc.materials.GetByCode(ctx, "HAR-001")
	require.NoError(t, err)
	requester, err := svc.labelers.Create(ctx, plantapp.CreateLabelerRequest{Code: "EMP-010", Name: "Bodega"})
	require.NoError(t, err)

	for want := int64(1); want <= 3; want++ {
		tr, err := svc.transfers.Create(ctx, transfer.KindRawMaterial, transferapp.CreateTransferRequest{
			MaterialID: raw.ID,
			Quantity:   decimal.NewFromInt(25),
			EmployeeID: requester.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, want, tr.Number)
	}

	_, err = svc.transfers.Create(ctx, transfer.KindFinishedProduct, transferapp.CreateTransferRequest{
		MaterialID: raw.ID,
		Quantity:   decimal.NewFromInt(25),
		EmployeeID: requester.ID,
	})
	assert.Error(t, err, "a raw material cannot travel as finished product")
}
