package transfer

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected domain error, got %v", err)
	return domainErr.Code
}

func actor(name string) Actor {
	return Actor{ID: uuid.New(), Name: name}
}

func newRaw(t *testing.T) *Transfer {
	t.Helper()
	m, err := catalog.NewMaterial("MP-1", "Harina", "KG", catalog.MaterialTypeRaw)
	require.NoError(t, err)
	tr, err := NewTransfer(KindRawMaterial, m, decimal.NewFromInt(50), actor("Bodega"), "")
	require.NoError(t, err)
	return tr
}

func newFinished(t *testing.T) *Transfer {
	t.Helper()
	m, err := catalog.NewMaterial("PT-1", "Pan", "UND", catalog.MaterialTypeFinished)
	require.NoError(t, err)
	tr, err := NewTransfer(KindFinishedProduct, m, decimal.NewFromInt(200), actor("Producción"), "")
	require.NoError(t, err)
	return tr
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		kind Kind
		from Status
		to   Status
		want bool
	}{
		{KindRawMaterial, StatusPending, StatusReceived, true},
		{KindRawMaterial, StatusPending, StatusRejected, true},
		{KindRawMaterial, StatusReceived, StatusPackaging, false},
		{KindRawMaterial, StatusPending, StatusFinalized, false},
		{KindFinishedProduct, StatusPending, StatusReceived, true},
		{KindFinishedProduct, StatusReceived, StatusPackaging, true},
		{KindFinishedProduct, StatusPackaging, StatusFinalized, true},
		{KindFinishedProduct, StatusPackaging, StatusRejected, true},
		{KindFinishedProduct, StatusPending, StatusPackaging, false},
		{KindFinishedProduct, StatusReceived, StatusFinalized, false},
		{KindFinishedProduct, StatusFinalized, StatusPending, false},
		{KindFinishedProduct, StatusRejected, StatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind)+":"+string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.kind, tt.from, tt.to))
		})
	}

	assert.True(t, IsTerminal(KindRawMaterial, StatusReceived))
	assert.False(t, IsTerminal(KindFinishedProduct, StatusReceived))
	assert.True(t, IsTerminal(KindFinishedProduct, StatusFinalized))
	assert.Equal(t, []Status{StatusFinalized, StatusRejected}, NextStatuses(KindFinishedProduct, StatusPackaging))
}

func TestNewTransfer(t *testing.T) {
	t.Run("opens pending transfer with initial log", func(t *testing.T) {
		tr := newRaw(t)
		assert.Equal(t, StatusPending, tr.Status)
		assert.Equal(t, "MP-1", tr.MaterialCode)
		assert.Equal(t, "Bodega", tr.RequestedByName)
		require.Len(t, tr.History, 1)
		assert.Equal(t, Status(""), tr.History[0].FromStatus)
		assert.Equal(t, StatusPending, tr.History[0].ToStatus)
		assert.Len(t, tr.NewLogs(), 1)
	})

	t.Run("rejects wrong material type", func(t *testing.T) {
		m, err := catalog.NewMaterial("PT-1", "Pan", "UND", catalog.MaterialTypeFinished)
		require.NoError(t, err)
		_, err = NewTransfer(KindRawMaterial, m, decimal.NewFromInt(1), actor("x"), "")
		assert.Equal(t, "INVALID_MATERIAL_TYPE", errCode(t, err))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		m, err := catalog.NewMaterial("MP-1", "Harina", "KG", catalog.MaterialTypeRaw)
		require.NoError(t, err)
		_, err = NewTransfer(KindRawMaterial, m, decimal.Zero, actor("x"), "")
		assert.Equal(t, "INVALID_QUANTITY", errCode(t, err))
	})

	t.Run("rejects missing requester", func(t *testing.T) {
		m, err := catalog.NewMaterial("MP-1", "Harina", "KG", catalog.MaterialTypeRaw)
		require.NoError(t, err)
		_, err = NewTransfer(KindRawMaterial, m, decimal.NewFromInt(1), Actor{}, "")
		assert.Equal(t, "INVALID_REQUESTER", errCode(t, err))
	})

	t.Run("from order carries order reference", func(t *testing.T) {
		orderID := uuid.New()
		ref := catalog.MaterialRef{MaterialID: uuid.New(), MaterialCode: "PT-2", MaterialName: "Torta", Unit: "UND"}
		tr, err := NewFinishedFromOrder(orderID, 12, ref, decimal.NewFromInt(30), "L7", actor("Ana"))
		require.NoError(t, err)
		assert.Equal(t, KindFinishedProduct, tr.Kind)
		assert.Equal(t, &orderID, tr.ProductionOrderID)
		assert.Equal(t, int64(12), tr.ProductionOrderNumber)
		assert.Equal(t, "L7", tr.Lot)
		assert.Contains(t, tr.Notes, "#12")
	})
}

func TestTransfer_RawMaterialFlow(t *testing.T) {
	t.Run("receive full quantity", func(t *testing.T) {
		tr := newRaw(t)
		receiver := actor("Producción")

		require.NoError(t, tr.Receive(receiver, decimal.Zero, "ok"))
		assert.Equal(t, StatusReceived, tr.Status)
		assert.True(t, tr.ReceivedQuantity.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, receiver.ID, *tr.ReceivedByID)
		assert.NotNil(t, tr.ReceivedAt)
		assert.Equal(t, 2, tr.Version)
		require.Len(t, tr.History, 2)
		assert.Equal(t, StatusPending, tr.History[1].FromStatus)
		assert.Equal(t, "ok", tr.History[1].Note)

		events := tr.GetDomainEvents()
		evt, ok := events[len(events)-1].(*TransferStatusChangedEvent)
		require.True(t, ok)
		assert.Equal(t, StatusPending, evt.FromStatus)
		assert.Equal(t, StatusReceived, evt.ToStatus)

		assert.Equal(t, "INVALID_TRANSITION", errCode(t, tr.Forward(receiver, "")))
		assert.False(t, tr.CanDelete())
	})

	t.Run("partial receipt", func(t *testing.T) {
		tr := newRaw(t)
		require.NoError(t, tr.Receive(actor("P"), decimal.NewFromInt(45), ""))
		assert.True(t, tr.ReceivedQuantity.Equal(decimal.NewFromInt(45)))
	})

	t.Run("receipt above sent quantity", func(t *testing.T) {
		tr := newRaw(t)
		assert.Equal(t, "INVALID_QUANTITY", errCode(t, tr.Receive(actor("P"), decimal.NewFromInt(51), "")))
		assert.Equal(t, StatusPending, tr.Status)
	})

	t.Run("reject requires reason", func(t *testing.T) {
		tr := newRaw(t)
		assert.Equal(t, "INVALID_REASON", errCode(t, tr.Reject(actor("P"), " ")))
		require.NoError(t, tr.Reject(actor("P"), "húmedo"))
		assert.Equal(t, StatusRejected, tr.Status)
		assert.Equal(t, "húmedo", tr.RejectReason)
		assert.True(t, tr.CanDelete())
		assert.Equal(t, "INVALID_TRANSITION", errCode(t, tr.Receive(actor("P"), decimal.Zero, "")))
	})

	t.Run("transition requires actor", func(t *testing.T) {
		tr := newRaw(t)
		assert.Equal(t, "INVALID_ACTOR", errCode(t, tr.Receive(Actor{}, decimal.Zero, "")))
	})
}

func TestTransfer_FinishedProductFlow(t *testing.T) {
	tr := newFinished(t)
	packer := actor("Empaque")
	keeper := actor("Almacén")

	assert.Equal(t, "INVALID_TRANSITION", errCode(t, tr.Finalize(keeper, "")))

	require.NoError(t, tr.Receive(packer, decimal.Zero, ""))
	require.NoError(t, tr.Forward(packer, "a empaque"))
	assert.Equal(t, StatusPackaging, tr.Status)
	assert.Equal(t, packer.ID, *tr.ForwardedByID)

	require.NoError(t, tr.Finalize(keeper, "en almacén"))
	assert.Equal(t, StatusFinalized, tr.Status)
	assert.Equal(t, "Almacén", tr.FinalizedByName)
	assert.NotNil(t, tr.FinalizedAt)
	assert.Equal(t, 4, tr.Version)
	assert.Len(t, tr.History, 4)
	assert.Len(t, tr.NewLogs(), 4)

	tr.ClearNewLogs()
	assert.Empty(t, tr.NewLogs())
	assert.Len(t, tr.History, 4)
}

func TestTransfer_WarehouseRejection(t *testing.T) {
	tr := newFinished(t)
	require.NoError(t, tr.Receive(actor("E"), decimal.Zero, ""))
	require.NoError(t, tr.Forward(actor("E"), ""))
	require.NoError(t, tr.Reject(actor("A"), "empaque roto"))
	assert.Equal(t, StatusRejected, tr.Status)
}

func TestTransfer_IsRepeatOf(t *testing.T) {
	tr := newRaw(t)
	receiver := actor("P")
	require.NoError(t, tr.Receive(receiver, decimal.Zero, ""))

	assert.True(t, tr.IsRepeatOf(StatusReceived, receiver.ID))
	assert.False(t, tr.IsRepeatOf(StatusReceived, uuid.New()))
	assert.False(t, tr.IsRepeatOf(StatusRejected, receiver.ID))
}

func TestTransfer_CheckVersion(t *testing.T) {
	tr := newRaw(t)
	one, two := 1, 2

	assert.NoError(t, tr.CheckVersion(nil))
	assert.NoError(t, tr.CheckVersion(&one))
	assert.Equal(t, "CONCURRENCY_CONFLICT", errCode(t, tr.CheckVersion(&two)))
}

func TestTransfer_UpdatePending(t *testing.T) {
	tr := newRaw(t)
	require.NoError(t, tr.UpdatePending(decimal.NewFromInt(60), "corregido"))
	assert.True(t, tr.Quantity.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, "INVALID_QUANTITY", errCode(t, tr.UpdatePending(decimal.Zero, "")))

	require.NoError(t, tr.Receive(actor("P"), decimal.Zero, ""))
	assert.Equal(t, "INVALID_STATE", errCode(t, tr.UpdatePending(decimal.NewFromInt(1), "")))
}

func TestActorFrom(t *testing.T) {
	l, err := plant.NewLabeler("E1", "Ana", "")
	require.NoError(t, err)

	a, err := ActorFrom(l)
	require.NoError(t, err)
	assert.Equal(t, l.ID, a.ID)
	assert.Equal(t, "Ana", a.Name)

	require.NoError(t, l.Deactivate())
	_, err = ActorFrom(l)
	assert.Equal(t, "LABELER_INACTIVE", errCode(t, err))

	_, err = ActorFrom(nil)
	assert.Equal(t, "INVALID_LABELER", errCode(t, err))
}

func TestTransfer_AssignNumber(t *testing.T) {
	tr := newRaw(t)
	require.NoError(t, tr.AssignNumber(3))
	assert.Equal(t, "NUMBER_ASSIGNED", errCode(t, tr.AssignNumber(4)))
	events := tr.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeTransferCreated, events[0].EventType())
}

func TestStatusesOf(t *testing.T) {
	assert.Equal(t, []Status{StatusPending, StatusReceived, StatusRejected}, StatusesOf(KindRawMaterial))
	for _, s := range StatusesOf(KindFinishedProduct) {
		assert.True(t, s.IsValid())
	}
	assert.Len(t, StatusesOf(KindFinishedProduct), 5)
}
