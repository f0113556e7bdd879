package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"edifika/internal/port"
)

// MockChatCompleter is a testify mock for port.ChatCompleter.
type MockChatCompleter struct {
	mock.Mock
}

func (m *MockChatCompleter) Complete(ctx context.Context, input port.CompletionInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}
