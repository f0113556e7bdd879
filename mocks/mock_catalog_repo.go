package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"edifika/internal/domain"
)

// MockCatalogRepo is a testify mock for port.CatalogRepository.
type MockCatalogRepo struct {
	mock.Mock
}

func (m *MockCatalogRepo) ListCategories(ctx context.Context) ([]domain.ItemCategory, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItemCategory), args.Error(1)
}

func (m *MockCatalogRepo) ListUnits(ctx context.Context) ([]domain.ItemUnit, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ItemUnit), args.Error(1)
}
