package llm

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector answers every prompt with a canned completion.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating completion",
		zap.Int("prompt_length", len(prompt)),
		zap.Int("max_tokens", maxTokens),
	)

	return "This is a mock answer generated without a model backend.", nil
}
