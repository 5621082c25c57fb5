package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prodtrack/backend/internal/domain/catalog"
	"github.com/prodtrack/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMaterialRepository is a mock implementation of MaterialRepository
type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByCode(ctx context.Context, code string) (*catalog.Material, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Material, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Material, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Material), args.Error(1)
}

func (m *MockMaterialRepository) Save(ctx context.Context, material *catalog.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMaterialRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockMaterialRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}

func newTestMaterial(t *testing.T, code string, materialType catalog.MaterialType) *catalog.Material {
	t.Helper()
	m, err := catalog.NewMaterial(code, "Material "+code, "KG", materialType)
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

func TestMaterialService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and publishes", func(t *testing.T) {
		repo := new(MockMaterialRepository)
		pub := &recordingPublisher{}
		svc := NewMaterialService(repo, pub)

		repo.On("ExistsByCode", mock.Anything, "HAR-01").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Material")).Return(nil)

		resp, err := svc.Create(ctx, CreateMaterialRequest{
			Code: "har-01", Name: "Harina de trigo", Unit: "kg", Type: "MATERIA_PRIMA", Recipe: "n/a",
		})
		require.NoError(t, err)
		assert.Equal(t, "HAR-01", resp.Code)
		assert.Equal(t, "KG", resp.Unit)
		assert.Equal(t, "ACTIVO", resp.Status)
		assert.Equal(t, "n/a", resp.Recipe)
		assert.Equal(t, []string{catalog.EventTypeMaterialCreated}, pub.types())
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code", func(t *testing.T) {
		repo := new(MockMaterialRepository)
		svc := NewMaterialService(repo, nil)
		repo.On("ExistsByCode", mock.Anything, "HAR-01").Return(true, nil)

		_, err := svc.Create(ctx, CreateMaterialRequest{Code: "HAR-01", Name: "Harina", Unit: "KG", Type: "MATERIA_PRIMA"})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid type", func(t *testing.T) {
		svc := NewMaterialService(new(MockMaterialRepository), nil)
		_, err := svc.Create(ctx, CreateMaterialRequest{Code: "X", Name: "X", Unit: "KG", Type: "OTRO"})
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_TYPE", domainErr.Code)
	})
}

func TestMaterialService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMaterialRepository)
	svc := NewMaterialService(repo, nil)

	materials := []catalog.Material{*newTestMaterial(t, "A", catalog.MaterialTypeRaw)}
	matchFilter := mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1 && f.PageSize == 20 && f.OrderBy == "code" && f.Filters["type"] == "MATERIA_PRIMA" && f.Search == "har"
	})
	repo.On("FindAll", mock.Anything, matchFilter).Return(materials, nil)
	repo.On("Count", mock.Anything, matchFilter).Return(int64(1), nil)

	items, total, err := svc.List(ctx, MaterialListFilter{Search: "har", Type: "MATERIA_PRIMA"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Code)
}

func TestMaterialService_UpdateAndStatus(t *testing.T) {
	ctx := context.Background()
	repo := new(MockMaterialRepository)
	pub := &recordingPublisher{}
	svc := NewMaterialService(repo, pub)

	material := newTestMaterial(t, "PAN-01", catalog.MaterialTypeFinished)
	repo.On("FindByID", mock.Anything, material.ID).Return(material, nil)
	repo.On("Save", mock.Anything, material).Return(nil)

	resp, err := svc.Update(ctx, material.ID, UpdateMaterialRequest{
		Name: "Pan tajado", Unit: "und", Type: "PRODUCTO_TERMINADO", Recipe: "harina, agua",
	})
	require.NoError(t, err)
	assert.Equal(t, "Pan tajado", resp.Name)
	assert.Equal(t, "PAN-01", resp.Code)

	resp, err = svc.Deactivate(ctx, material.ID)
	require.NoError(t, err)
	assert.Equal(t, "INACTIVO", resp.Status)

	_, err = svc.Deactivate(ctx, material.ID)
	assert.Error(t, err)

	_, err = svc.Activate(ctx, material.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{
		catalog.EventTypeMaterialUpdated,
		catalog.EventTypeMaterialStatusChanged,
		catalog.EventTypeMaterialStatusChanged,
	}, pub.types())
}

func TestMaterialService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("in use", func(t *testing.T) {
		repo := new(MockMaterialRepository)
		svc := NewMaterialService(repo, nil)
		material := newTestMaterial(t, "A", catalog.MaterialTypeRaw)
		repo.On("FindByID", mock.Anything, material.ID).Return(material, nil)
		repo.On("IsReferenced", mock.Anything, material.ID).Return(true, nil)

		err := svc.Delete(ctx, material.ID)
		assert.ErrorIs(t, err, shared.ErrInUse)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(MockMaterialRepository)
		svc := NewMaterialService(repo, nil)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, svc.Delete(ctx, id), shared.ErrNotFound)
	})

	t.Run("unreferenced", func(t *testing.T) {
		repo := new(MockMaterialRepository)
		svc := NewMaterialService(repo, nil)
		material := newTestMaterial(t, "A", catalog.MaterialTypeRaw)
		repo.On("FindByID", mock.Anything, material.ID).Return(material, nil)
		repo.On("IsReferenced", mock.Anything, material.ID).Return(false, nil)
		repo.On("Delete", mock.Anything, material.ID).Return(nil)

		require.NoError(t, svc.Delete(ctx, material.ID))
		repo.AssertExpectations(t)
	})
}
