package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"edifika/internal/domain"
	"edifika/internal/service"
)

// MockImportService is a testify mock for service.ImportService.
type MockImportService struct {
	mock.Mock
}

func (m *MockImportService) Upload(ctx context.Context, input service.ImportUploadInput) (*domain.ImportJob, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportJob), args.Error(1)
}

func (m *MockImportService) Process(ctx context.Context, userID, jobID uuid.UUID) (*domain.ImportJob, error) {
	args := m.Called(ctx, userID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportJob), args.Error(1)
}

func (m *MockImportService) GetByID(ctx context.Context, userID, jobID uuid.UUID) (*domain.ImportJob, error) {
	args := m.Called(ctx, userID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportJob), args.Error(1)
}

func (m *MockImportService) ListByCreator(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.ImportJob, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ImportJob), args.Int(1), args.Error(2)
}

func (m *MockImportService) Preview(ctx context.Context, userID, jobID uuid.UUID) (*service.ImportPreview, error) {
	args := m.Called(ctx, userID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ImportPreview), args.Error(1)
}

func (m *MockImportService) Apply(ctx context.Context, userID uuid.UUID, input service.ApplyImportInput) (*domain.Proposal, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Proposal), args.Error(1)
}
