package production

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/production"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number int64) (*production.ProductionOrder, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]production.ProductionOrder), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *production.ProductionOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *production.ProductionOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOrderRepository) ProducedTotals(ctx context.Context, dates shared.DateRange) ([]production.ProducedTotal, error) {
	args := m.Called(ctx, dates)
	return args.Get(0).([]production.ProducedTotal), args.Error(1)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*production.ProductionPlan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*production.ProductionPlan), args.Error(1)
}

func (m *MockPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]production.ProductionPlan, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]production.ProductionPlan), args.Error(1)
}

func (m *MockPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanRepository) Save(ctx context.Context, plan *production.ProductionPlan) error {
	args := m.Called(ctx, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockMaterialRepository only answers the lookups the services make
type MockMaterialRepository struct {
	mock.Mock
	catalog.MaterialRepository
}

func (m *MockMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Material, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Material), args.Error(1)
}

type MockPlaceRepository struct {
	mock.Mock
	plant.PlaceRepository
}

func (m *MockPlaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*plant.ProductionPlace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plant.ProductionPlace), args.Error(1)
}

type MockLabelerRepository struct {
	mock.Mock
	plant.LabelerRepository
}

func (m *MockLabelerRepository) FindByID(ctx context.Context, id uuid.UUID) (*plant.Labeler, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plant.Labeler), args.Error(1)
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	types := make([]string, len(p.events))
	for i, e := range p.events {
		types[i] = e.EventType()
	}
	return types
}

func newMaterial(t *testing.T, code string, mt catalog.MaterialType) *catalog.Material {
	t.Helper()
	m, err := catalog.NewMaterial(code, "Material "+code, "KG", mt)
	require.NoError(t, err)
	return m
}

func newPlace(t *testing.T) *plant.ProductionPlace {
	t.Helper()
	p, err := plant.NewProductionPlace("L1", "Línea 1")
	require.NoError(t, err)
	return p
}

func newLabeler(t *testing.T) *plant.Labeler {
	t.Helper()
	l, err := plant.NewLabeler("E1", "Ana Ruiz", "ROTULADOR")
	require.NoError(t, err)
	return l
}

func day(s string) time.Time {
	t, _ := time.Parse(shared.DayLayout, s)
	return t
}
