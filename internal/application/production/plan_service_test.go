package production

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type planFixture struct {
	plans     *MockPlanRepository
	materials *MockMaterialRepository
	places    *MockPlaceRepository
	orders    *MockOrderRepository
	publisher *recordingPublisher
	service   *PlanService
}

func newPlanFixture() *planFixture {
	f := &planFixture{
		plans:     new(MockPlanRepository),
		materials: new(MockMaterialRepository),
		places:    new(MockPlaceRepository),
		orders:    new(MockOrderRepository),
		publisher: &recordingPublisher{},
	}
	f.service = NewPlanService(f.plans, f.materials, f.places, f.orders, f.publisher)
	return f
}

func newPlan(t *testing.T, material *catalog.Material, placeID *uuid.UUID, date string, qty int64) *production.ProductionPlan {
	t.Helper()
	p, err := production.NewProductionPlan(material, placeID, day(date), decimal.NewFromInt(qty), "")
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestPlanService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("schedules finished product", func(t *testing.T) {
		f := newPlanFixture()
		bread := newMaterial(t, "PT-01", catalog.MaterialTypeFinished)
		f.materials.On("FindByID", mock.Anything, bread.ID).Return(bread, nil)
		f.plans.On("Save", mock.Anything, mock.AnythingOfType("*production.ProductionPlan")).Return(nil)

		resp, err := f.service.Create(ctx, CreatePlanRequest{
			MaterialID:      bread.ID,
			PlannedDate:     "2026-05-04",
			PlannedQuantity: decimal.NewFromInt(100),
		})
		require.NoError(t, err)
		assert.Equal(t, "PROGRAMADO", resp.Status)
		assert.Equal(t, "PT-01", resp.MaterialCode)
		assert.Equal(t, []string{production.EventTypeProductionPlanCreated}, f.publisher.types())
	})

	t.Run("rejects raw material", func(t *testing.T) {
		f := newPlanFixture()
		flour := newMaterial(t, "MP-01", catalog.MaterialTypeRaw)
		f.materials.On("FindByID", mock.Anything, flour.ID).Return(flour, nil)

		_, err := f.service.Create(ctx, CreatePlanRequest{
			MaterialID:      flour.ID,
			PlannedDate:     "2026-05-04",
			PlannedQuantity: decimal.NewFromInt(100),
		})
		require.Error(t, err)
		f.plans.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestPlanService_CompleteTwice(t *testing.T) {
	ctx := context.Background()
	f := newPlanFixture()
	plan := newPlan(t, newMaterial(t, "PT-01", catalog.MaterialTypeFinished), nil, "2026-05-04", 50)

	f.plans.On("FindByID", mock.Anything, plan.ID).Return(plan, nil)
	f.plans.On("Save", mock.Anything, plan).Return(nil)

	resp, err := f.service.Complete(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "CUMPLIDO", resp.Status)

	_, err = f.service.Cancel(ctx, plan.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidTransition)

	_, err = f.service.Update(ctx, plan.ID, UpdatePlanRequest{PlannedDate: "2026-05-05", PlannedQuantity: decimal.NewFromInt(5)})
	require.Error(t, err)
}

func TestPlanService_Compliance(t *testing.T) {
	ctx := context.Background()
	f := newPlanFixture()

	bread := newMaterial(t, "PT-01", catalog.MaterialTypeFinished)
	crumbs := newMaterial(t, "SP-01", catalog.MaterialTypeByproduct)
	line1, line2 := uuid.New(), uuid.New()

	atLine1 := newPlan(t, bread, &line1, "2026-05-04", 100)
	anyPlace := newPlan(t, crumbs, nil, "2026-05-05", 20)
	cancelled := newPlan(t, bread, nil, "2026-05-06", 30)
	require.NoError(t, cancelled.Cancel())

	f.plans.On("FindAll", mock.Anything, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.PageSize == 0
	})).Return([]production.ProductionPlan{*atLine1, *anyPlace, *cancelled}, nil)

	totals := []production.ProducedTotal{
		{MaterialID: bread.ID, PlaceID: line1, Date: day("2026-05-04"), Quantity: decimal.NewFromInt(60)},
		{MaterialID: bread.ID, PlaceID: line2, Date: day("2026-05-04"), Quantity: decimal.NewFromInt(99)},
		{MaterialID: crumbs.ID, PlaceID: line1, Date: day("2026-05-05"), Quantity: decimal.NewFromInt(15)},
		{MaterialID: crumbs.ID, PlaceID: line2, Date: day("2026-05-05"), Quantity: decimal.NewFromInt(10)},
	}
	f.orders.On("ProducedTotals", mock.Anything, mock.MatchedBy(func(r shared.DateRange) bool {
		return r.From != nil && r.To != nil &&
			r.From.Equal(day("2026-05-04")) && r.To.Equal(day("2026-05-05"))
	})).Return(totals, nil)

	report, err := f.service.Compliance(ctx, PlanListFilter{})
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	assert.True(t, report.Rows[0].ProducedQuantity.Equal(decimal.NewFromInt(60)))
	assert.True(t, report.Rows[0].PendingQuantity.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, "60", report.Rows[0].ProgressPercent.String())

	assert.True(t, report.Rows[1].ProducedQuantity.Equal(decimal.NewFromInt(25)))
	assert.True(t, report.Rows[1].PendingQuantity.IsZero())
	assert.Equal(t, "125", report.Rows[1].ProgressPercent.String())

	assert.True(t, report.TotalPlanned.Equal(decimal.NewFromInt(120)))
	assert.True(t, report.TotalProduced.Equal(decimal.NewFromInt(85)))
	assert.Equal(t, "70.83", report.ProgressPercent.String())
	assert.Equal(t, "2026-05-04", report.DateFrom)
	assert.Equal(t, "2026-05-05", report.DateTo)
}

func TestPlanService_ComplianceEmpty(t *testing.T) {
	ctx := context.Background()
	f := newPlanFixture()
	f.plans.On("FindAll", mock.Anything, mock.Anything).Return([]production.ProductionPlan{}, nil)

	report, err := f.service.Compliance(ctx, PlanListFilter{DateFrom: "2026-05-01", DateTo: "2026-05-31"})
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.True(t, report.ProgressPercent.IsZero())
	assert.Equal(t, "2026-05-01", report.DateFrom)
	f.orders.AssertNotCalled(t, "ProducedTotals", mock.Anything, mock.Anything)
}
