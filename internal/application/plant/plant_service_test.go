package plant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/plant"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlaceRepository struct {
	mock.Mock
}

func (m *MockPlaceRepository) FindByID(ctx context.Context, id uuid.UUID) (*plant.ProductionPlace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plant.ProductionPlace), args.Error(1)
}

func (m *MockPlaceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plant.ProductionPlace, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]plant.ProductionPlace), args.Error(1)
}

func (m *MockPlaceRepository) Save(ctx context.Context, place *plant.ProductionPlace) error {
	return m.Called(ctx, place).Error(0)
}

func (m *MockPlaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPlaceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlaceRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPlaceRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockLabelerRepository struct {
	mock.Mock
}

func (m *MockLabelerRepository) FindByID(ctx context.Context, id uuid.UUID) (*plant.Labeler, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*plant.Labeler), args.Error(1)
}

func (m *MockLabelerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]plant.Labeler, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]plant.Labeler), args.Error(1)
}

func (m *MockLabelerRepository) Save(ctx context.Context, labeler *plant.Labeler) error {
	return m.Called(ctx, labeler).Error(0)
}

func (m *MockLabelerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLabelerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLabelerRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockLabelerRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type countingPublisher struct{ count int }

func (p *countingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.count += len(events)
	return nil
}

func TestPlaceService_Create(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPlaceRepository)
	pub := &countingPublisher{}
	svc := NewPlaceService(repo, pub)

	repo.On("ExistsByCode", mock.Anything, "L1").Return(false, nil).Once()
	repo.On("Save", mock.Anything, mock.AnythingOfType("*plant.ProductionPlace")).Return(nil)

	resp, err := svc.Create(ctx, CreatePlaceRequest{Code: "l1", Name: "Línea 1", Description: "Horno"})
	require.NoError(t, err)
	assert.Equal(t, "L1", resp.Code)
	assert.Equal(t, "Horno", resp.Description)
	assert.True(t, resp.Active)
	assert.Equal(t, 1, pub.count)

	repo.On("ExistsByCode", mock.Anything, "L1").Return(true, nil).Once()
	_, err = svc.Create(ctx, CreatePlaceRequest{Code: "L1", Name: "Línea 1"})
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestPlaceService_ListDropsRoleFilter(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPlaceRepository)
	svc := NewPlaceService(repo, nil)

	active := true
	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		_, hasRole := f.Filters["role"]
		return !hasRole && f.Filters["active"] == true
	})
	repo.On("FindAll", mock.Anything, matchFilter).Return([]plant.ProductionPlace{}, nil)
	repo.On("Count", mock.Anything, matchFilter).Return(int64(0), nil)

	items, total, err := svc.List(ctx, ListFilter{Active: &active, Role: "EMPAQUE"})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}

func TestPlaceService_DeleteInUse(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPlaceRepository)
	svc := NewPlaceService(repo, nil)

	place, err := plant.NewProductionPlace("L1", "Línea 1")
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, place.ID).Return(place, nil)
	repo.On("IsReferenced", mock.Anything, place.ID).Return(true, nil)

	assert.ErrorIs(t, svc.Delete(ctx, place.ID), shared.ErrInUse)
}

func TestLabelerService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLabelerRepository)
	svc := NewLabelerService(repo, nil)

	labeler, err := plant.NewLabeler("E-7", "Ana Pérez", "rotulador")
	require.NoError(t, err)
	repo.On("FindByID", mock.Anything, labeler.ID).Return(labeler, nil)
	repo.On("Save", mock.Anything, labeler).Return(nil)

	resp, err := svc.Update(ctx, labeler.ID, UpdateLabelerRequest{Name: "Ana M. Pérez", Role: "empaque"})
	require.NoError(t, err)
	assert.Equal(t, "EMPAQUE", resp.Role)

	resp, err = svc.Deactivate(ctx, labeler.ID)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	repo.On("IsReferenced", mock.Anything, labeler.ID).Return(false, nil)
	repo.On("Delete", mock.Anything, labeler.ID).Return(nil)
	require.NoError(t, svc.Delete(ctx, labeler.ID))
	repo.AssertExpectations(t)
}

func TestLabelerService_GetNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(MockLabelerRepository)
	svc := NewLabelerService(repo, nil)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

	_, err := svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
