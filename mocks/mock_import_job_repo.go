package mocks

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"edifika/internal/domain"
)

// MockImportJobRepo is a testify mock for port.ImportJobRepository.
type MockImportJobRepo struct {
	mock.Mock
}

func (m *MockImportJobRepo) Create(ctx context.Context, job *domain.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockImportJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportJob), args.Error(1)
}

func (m *MockImportJobRepo) ListByCreator(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.ImportJob, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ImportJob), args.Int(1), args.Error(2)
}

func (m *MockImportJobRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to domain.ImportStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *MockImportJobRepo) SaveExtractedText(ctx context.Context, id uuid.UUID, text string) error {
	args := m.Called(ctx, id, text)
	return args.Error(0)
}

func (m *MockImportJobRepo) SaveParsedJSON(ctx context.Context, id uuid.UUID, parsed json.RawMessage) error {
	args := m.Called(ctx, id, parsed)
	return args.Error(0)
}

func (m *MockImportJobRepo) MarkFailed(ctx context.Context, id uuid.UUID, message string) error {
	args := m.Called(ctx, id, message)
	return args.Error(0)
}

func (m *MockImportJobRepo) LinkProposal(ctx context.Context, id, proposalID uuid.UUID) error {
	args := m.Called(ctx, id, proposalID)
	return args.Error(0)
}
