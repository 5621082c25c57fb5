package transfer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func finalizedOrderEvent(t *testing.T) *production.ProductionOrderFinalizedEvent {
	t.Helper()
	place, err := plant.NewProductionPlace("L1", "Línea 1")
	require.NoError(t, err)
	labeler, err := plant.NewLabeler("E7", "Luis Paz", "ROTULADOR")
	require.NoError(t, err)
	order, err := production.NewProductionOrder(time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC), place, labeler)
	require.NoError(t, err)
	require.NoError(t, order.AssignNumber(21))

	for i, code := range []string{"PT-01", "PT-02"} {
		m, err := catalog.NewMaterial(code, "Pan "+code, "UN", catalog.MaterialTypeFinished)
		require.NoError(t, err)
		_, err = order.AddItem(production.LineSpec{
			Kind:     production.ItemKindProduced,
			Material: m,
			Quantity: decimal.NewFromInt(int64(10 * (i + 1))),
			Lot:      "L-" + code,
		})
		require.NoError(t, err)
	}
	bag, err := catalog.NewMaterial("EM-01", "Bolsa", "UN", catalog.MaterialTypePackaging)
	require.NoError(t, err)
	_, err = order.AddItem(production.LineSpec{Kind: production.ItemKindPackaging, Material: bag, Quantity: decimal.NewFromInt(30)})
	require.NoError(t, err)

	order.ClearDomainEvents()
	require.NoError(t, order.Finalize())
	events := order.GetDomainEvents()
	require.Len(t, events, 1)
	return events[0].(*production.ProductionOrderFinalizedEvent)
}

func TestOrderFinalizedHandler_OpensTransfers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransferRepository)
	publisher := &recordingPublisher{}
	handler := NewOrderFinalizedHandler(repo, publisher, nil)
	event := finalizedOrderEvent(t)

	var created []*transfer.Transfer
	repo.On("ExistsForOrder", mock.Anything, event.OrderID).Return(false, nil)
	repo.On("CreateBatch", mock.Anything, mock.AnythingOfType("[]*transfer.Transfer")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).([]*transfer.Transfer)
			for i, tr := range created {
				require.NoError(t, tr.AssignNumber(int64(i+1)))
			}
		}).Return(nil).Once()

	require.NoError(t, handler.Handle(ctx, event))

	require.Len(t, created, 2)
	for _, tr := range created {
		assert.Equal(t, transfer.KindFinishedProduct, tr.Kind)
		assert.Equal(t, transfer.StatusPending, tr.Status)
		assert.Equal(t, "Luis Paz", tr.RequestedByName)
		require.NotNil(t, tr.ProductionOrderID)
		assert.Equal(t, event.OrderID, *tr.ProductionOrderID)
		assert.Equal(t, int64(21), tr.ProductionOrderNumber)
	}
	assert.True(t, created[1].Quantity.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, "L-PT-02", created[1].Lot)
	assert.Len(t, publisher.events, 2)
}

func TestOrderFinalizedHandler_SkipsProcessedOrder(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTransferRepository)
	handler := NewOrderFinalizedHandler(repo, nil, nil)
	event := finalizedOrderEvent(t)

	repo.On("ExistsForOrder", mock.Anything, event.OrderID).Return(true, nil)

	require.NoError(t, handler.Handle(ctx, event))
	repo.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
}

// flakyTransferRepository stores batches in memory and fails the first one
type flakyTransferRepository struct {
	transfer.Repository
	failures int
	stored   []*transfer.Transfer
}

func (r *flakyTransferRepository) ExistsForOrder(_ context.Context, orderID uuid.UUID) (bool, error) {
	for _, tr := range r.stored {
		if tr.ProductionOrderID != nil && *tr.ProductionOrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (r *flakyTransferRepository) CreateBatch(_ context.Context, transfers []*transfer.Transfer) error {
	if r.failures > 0 {
		r.failures--
		return errors.New("connection reset")
	}
	for _, tr := range transfers {
		if err := tr.AssignNumber(int64(len(r.stored) + 1)); err != nil {
			return err
		}
		r.stored = append(r.stored, tr)
	}
	return nil
}

func TestOrderFinalizedHandler_RetryAfterFailureOpensEveryLine(t *testing.T) {
	ctx := context.Background()
	repo := &flakyTransferRepository{failures: 1}
	handler := NewOrderFinalizedHandler(repo, nil, nil)
	event := finalizedOrderEvent(t)

	err := handler.Handle(ctx, event)
	require.Error(t, err)
	assert.Empty(t, repo.stored)

	require.NoError(t, handler.Handle(ctx, event))
	require.Len(t, repo.stored, len(event.Produced))
	assert.Equal(t, "L-PT-01", repo.stored[0].Lot)
	assert.Equal(t, "L-PT-02", repo.stored[1].Lot)

	require.NoError(t, handler.Handle(ctx, event))
	assert.Len(t, repo.stored, 2)
}

func TestOrderFinalizedHandler_WrongEvent(t *testing.T) {
	handler := NewOrderFinalizedHandler(new(MockTransferRepository), nil, nil)
	other := production.NewProductionPlanEvent(production.EventTypeProductionPlanCreated, &production.ProductionPlan{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
	})
	err := handler.Handle(context.Background(), other)
	require.Error(t, err)
	assert.Equal(t, []string{production.EventTypeProductionOrderFinalized}, handler.EventTypes())
}
