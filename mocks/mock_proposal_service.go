package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"edifika/internal/domain"
	"edifika/internal/proposal"
	"edifika/internal/service"
)

// MockProposalService is a testify mock for service.ProposalService.
type MockProposalService struct {
	mock.Mock
}

func (m *MockProposalService) Create(ctx context.Context, createdBy uuid.UUID, input service.ProposalInput) (*domain.Proposal, error) {
	args := m.Called(ctx, createdBy, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Proposal), args.Error(1)
}

func (m *MockProposalService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Proposal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Proposal), args.Error(1)
}

func (m *MockProposalService) List(ctx context.Context, status *domain.ProposalStatus, offset, limit int) ([]domain.Proposal, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Proposal), args.Int(1), args.Error(2)
}

func (m *MockProposalService) Update(ctx context.Context, id uuid.UUID, input service.ProposalInput) (*domain.Proposal, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Proposal), args.Error(1)
}

func (m *MockProposalService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProposalStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockProposalService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProposalService) Items(p *domain.Proposal) ([]proposal.Item, error) {
	args := m.Called(p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]proposal.Item), args.Error(1)
}
