package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arinovich/bookwidget/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockExperienceRepository struct {
	mock.Mock
}

func (m *MockExperienceRepository) List(ctx context.Context, orgID int64) ([]domain.Experience, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).([]domain.Experience), args.Error(1)
}

func (m *MockExperienceRepository) GetByID(ctx context.Context, id int64) (*domain.Experience, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Experience), args.Error(1)
}

func (m *MockExperienceRepository) ListTicketTypes(ctx context.Context, experienceID int64) ([]domain.TicketType, error) {
	args := m.Called(ctx, experienceID)
	return args.Get(0).([]domain.TicketType), args.Error(1)
}

func (m *MockExperienceRepository) GetTicketType(ctx context.Context, id int64) (*domain.TicketType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TicketType), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetExperiences(ctx context.Context, orgID int64) ([]domain.Experience, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Experience), args.Error(1)
}

func (m *MockCache) SetExperiences(ctx context.Context, orgID int64, experiences []domain.Experience) error {
	args := m.Called(ctx, orgID, experiences)
	return args.Error(0)
}

func TestCatalogService_List_CacheMissFillsCache(t *testing.T) {
	repo := &MockExperienceRepository{}
	cache := &MockCache{}
	svc := NewCatalogService(repo, cache)
	ctx := context.Background()

	experiences := []domain.Experience{
		{ID: 1, OrgID: 7, Name: "The Vault", Capacity: 8, CreatedAt: time.Now()},
		{ID: 2, OrgID: 7, Name: "Night Train", Capacity: 6, CreatedAt: time.Now()},
	}

	cache.On("GetExperiences", ctx, int64(7)).Return(nil, nil).Once()
	repo.On("List", ctx, int64(7)).Return(experiences, nil).Once()
	cache.On("SetExperiences", ctx, int64(7), experiences).Return(nil).Once()

	result, err := svc.List(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, experiences, result)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_List_CacheHitSkipsRepo(t *testing.T) {
	repo := &MockExperienceRepository{}
	cache := &MockCache{}
	svc := NewCatalogService(repo, cache)
	ctx := context.Background()

	cached := []domain.Experience{{ID: 1, OrgID: 7, Name: "The Vault"}}
	cache.On("GetExperiences", ctx, int64(7)).Return(cached, nil).Once()

	result, err := svc.List(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, cached, result)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestCatalogService_List_NilCache(t *testing.T) {
	repo := &MockExperienceRepository{}
	svc := NewCatalogService(repo, nil)
	ctx := context.Background()

	experiences := []domain.Experience{{ID: 1, OrgID: 7, Name: "The Vault"}}
	repo.On("List", ctx, int64(7)).Return(experiences, nil).Once()

	result, err := svc.List(ctx, 7)

	assert.NoError(t, err)
	assert.Equal(t, experiences, result)
}

func TestCatalogService_List_RepoError(t *testing.T) {
	repo := &MockExperienceRepository{}
	cache := &MockCache{}
	svc := NewCatalogService(repo, cache)
	ctx := context.Background()

	cache.On("GetExperiences", ctx, int64(7)).Return(nil, errors.New("redis down")).Once()
	repo.On("List", ctx, int64(7)).Return([]domain.Experience(nil), errors.New("db down")).Once()

	_, err := svc.List(ctx, 7)
	assert.ErrorContains(t, err, "db down")
}

func TestCatalogService_GetByID(t *testing.T) {
	repo := &MockExperienceRepository{}
	svc := NewCatalogService(repo, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(3)).Return(nil, domain.ErrExperienceNotFound).Once()

	_, err := svc.GetByID(ctx, 3)
	assert.ErrorIs(t, err, domain.ErrExperienceNotFound)
}

func TestCatalogService_TicketTypes(t *testing.T) {
	repo := &MockExperienceRepository{}
	svc := NewCatalogService(repo, nil)
	ctx := context.Background()

	types := []domain.TicketType{
		{ID: 11, ExperienceID: 1, Name: "Adult", PriceCents: 3000},
		{ID: 12, ExperienceID: 1, Name: "Veteran", PriceCents: 2500},
	}
	repo.On("ListTicketTypes", ctx, int64(1)).Return(types, nil).Once()

	result, err := svc.TicketTypes(ctx, 1)

	assert.NoError(t, err)
	assert.Equal(t, types, result)
}
