package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockEmailSender is a testify mock for port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendImportCompleted(ctx context.Context, toEmail, toName, originalName string, jobID uuid.UUID) error {
	args := m.Called(ctx, toEmail, toName, originalName, jobID)
	return args.Error(0)
}

func (m *MockEmailSender) SendImportFailed(ctx context.Context, toEmail, toName, originalName, reason string, jobID uuid.UUID) error {
	args := m.Called(ctx, toEmail, toName, originalName, reason, jobID)
	return args.Error(0)
}
