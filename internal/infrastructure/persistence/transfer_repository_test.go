package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/prodtrack/backend/internal/domain/transfer"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createTestTransfer(t *testing.T, db *gorm.DB, material *catalog.Material, requester *plant.Labeler) *transfer.Transfer {
	t.Helper()
	actor, err := transfer.ActorFrom(requester)
	require.NoError(t, err)
	tr, err := transfer.NewTransfer(transfer.Kind(material.Type), material, decimal.NewFromInt(50), actor, "")
	require.NoError(t, err)
	require.NoError(t, NewGormTransferRepository(db).Create(t.Context(), tr))
	return tr
}

func TestGormTransferRepository_NumbersPerKind(t *testing.T) {
	db := setupTestDB(t)
	requester := seedLabeler(t, db, "EMP-001")
	raw := seedMaterial(t, db, "MP-001", catalog.MaterialTypeRaw)
	finished := seedMaterial(t, db, "PT-001", catalog.MaterialTypeFinished)

	r1 := createTestTransfer(t, db, raw, requester)
	r2 := createTestTransfer(t, db, raw, requester)
	f1 := createTestTransfer(t, db, finished, requester)

	assert.Equal(t, int64(1), r1.Number)
	assert.Equal(t, int64(2), r2.Number)
	assert.Equal(t, int64(1), f1.Number)
	assert.Empty(t, r1.NewLogs())
}

func TestGormTransferRepository_UpdateAppendsHistory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransferRepository(db)
	ctx := t.Context()
	requester := seedLabeler(t, db, "EMP-001")
	receiver := seedLabeler(t, db, "EMP-002")
	finished := seedMaterial(t, db, "PT-001", catalog.MaterialTypeFinished)
	created := createTestTransfer(t, db, finished, requester)

	tr, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, tr.History, 1)

	actor, err := transfer.ActorFrom(receiver)
	require.NoError(t, err)
	require.NoError(t, tr.Receive(actor, decimal.NewFromInt(48), "faltan 2"))
	require.NoError(t, repo.Update(ctx, tr))
	assert.Empty(t, tr.NewLogs())

	require.NoError(t, tr.Forward(actor, ""))
	require.NoError(t, repo.Update(ctx, tr))

	reloaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, transfer.StatusPackaging, reloaded.Status)
	assert.True(t, decimal.NewFromInt(48).Equal(reloaded.ReceivedQuantity))
	require.NotNil(t, reloaded.ReceivedByID)
	assert.Equal(t, receiver.ID, *reloaded.ReceivedByID)
	require.Len(t, reloaded.History, 3)
	assert.Equal(t, transfer.StatusReceived, reloaded.History[1].ToStatus)
	assert.Equal(t, "faltan 2", reloaded.History[1].Note)
	assert.Equal(t, transfer.StatusPackaging, reloaded.History[2].ToStatus)

	t.Run("stale version conflicts and writes no log", func(t *testing.T) {
		stale, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NoError(t, reloaded.Finalize(actor, ""))
		require.NoError(t, repo.Update(ctx, reloaded))

		require.NoError(t, stale.Reject(actor, "dañado"))
		assert.ErrorIs(t, repo.Update(ctx, stale), shared.ErrConcurrencyConflict)

		final, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, transfer.StatusFinalized, final.Status)
		assert.Len(t, final.History, 4)
	})
}

func TestGormTransferRepository_FilterSummaryAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransferRepository(db)
	ctx := t.Context()
	requester := seedLabeler(t, db, "EMP-001")
	raw := seedMaterial(t, db, "MP-001", catalog.MaterialTypeRaw)
	sugar, err := catalog.NewMaterial("MP-002", "Azúcar", "KG", catalog.MaterialTypeRaw)
	require.NoError(t, err)
	require.NoError(t, NewGormMaterialRepository(db).Save(ctx, sugar))

	first := createTestTransfer(t, db, raw, requester)
	second := createTestTransfer(t, db, sugar, requester)

	actor, err := transfer.ActorFrom(requester)
	require.NoError(t, err)
	require.NoError(t, second.Reject(actor, "humedad"))
	require.NoError(t, repo.Update(ctx, second))

	t.Run("filter by kind and status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["kind"] = string(transfer.KindRawMaterial)
		filter.Filters["status"] = string(transfer.StatusPending)
		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, first.ID, found[0].ID)
	})

	t.Run("accent insensitive search", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "AZUCAR"
		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("summary", func(t *testing.T) {
		summary, err := repo.Summary(ctx, transfer.KindRawMaterial)
		require.NoError(t, err)
		require.Len(t, summary, 2)
		byStatus := map[transfer.Status]transfer.StatusSummary{}
		for _, s := range summary {
			byStatus[s.Status] = s
		}
		assert.Equal(t, int64(1), byStatus[transfer.StatusPending].Count)
		assert.True(t, decimal.NewFromInt(50).Equal(byStatus[transfer.StatusRejected].Quantity))

		empty, err := repo.Summary(ctx, transfer.KindFinishedProduct)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("exists for order", func(t *testing.T) {
		orderID := uuid.New()
		ok, err := repo.ExistsForOrder(ctx, orderID)
		require.NoError(t, err)
		assert.False(t, ok)

		finished := seedMaterial(t, db, "PT-001", catalog.MaterialTypeFinished)
		tr, err := transfer.NewFinishedFromOrder(orderID, 7, finished.Ref(), decimal.NewFromInt(10), "L-7", actor)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, tr))

		ok, err = repo.ExistsForOrder(ctx, orderID)
		require.NoError(t, err)
		assert.True(t, ok)

		filter := shared.DefaultFilter()
		filter.Filters["production_order_id"] = orderID
		found, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, int64(7), found[0].ProductionOrderNumber)
	})

	t.Run("delete removes history", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, second.ID))
		_, err := repo.FindByID(ctx, second.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, second.ID), shared.ErrNotFound)

		var logs int64
		require.NoError(t, db.Table("transfer_status_logs").Where("transfer_id = ?", second.ID).Count(&logs).Error)
		assert.Zero(t, logs)
	})
}

func TestGormTransferRepository_CreateBatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormTransferRepository(db)
	ctx := t.Context()
	actor, err := transfer.ActorFrom(seedLabeler(t, db, "EMP-001"))
	require.NoError(t, err)
	bread := seedMaterial(t, db, "PT-001", catalog.MaterialTypeFinished)
	cake := seedMaterial(t, db, "PT-002", catalog.MaterialTypeFinished)

	newLine := func(orderID uuid.UUID, m *catalog.Material, lot string) *transfer.Transfer {
		tr, err := transfer.NewFinishedFromOrder(orderID, 3, m.Ref(), decimal.NewFromInt(40), lot, actor)
		require.NoError(t, err)
		return tr
	}

	t.Run("numbers consecutively", func(t *testing.T) {
		orderID := uuid.New()
		batch := []*transfer.Transfer{newLine(orderID, bread, "L-1"), newLine(orderID, cake, "L-2")}
		require.NoError(t, repo.CreateBatch(ctx, batch))
		assert.Equal(t, int64(1), batch[0].Number)
		assert.Equal(t, int64(2), batch[1].Number)

		stored, err := repo.FindByID(ctx, batch[1].ID)
		require.NoError(t, err)
		assert.Equal(t, "L-2", stored.Lot)
		assert.Len(t, stored.History, 1)
	})

	t.Run("failed line rolls back the order", func(t *testing.T) {
		orderID := uuid.New()
		first := newLine(orderID, bread, "L-3")
		second := newLine(orderID, cake, "L-4")
		second.ID = first.ID

		require.Error(t, repo.CreateBatch(ctx, []*transfer.Transfer{first, second}))
		ok, err := repo.ExistsForOrder(ctx, orderID)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, first.Number)
	})
}
