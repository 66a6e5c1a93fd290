package vectorindex

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	"go.uber.org/zap"
)

// MockConnector serves a fixed context for every query.
type MockConnector struct {
	logger *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		logger: logger,
	}
}

func (m *MockConnector) NearestOne(ctx context.Context, vector []float32) (*entity.RetrievedContext, error) {
	ctxzap.Info(ctx, "[MOCK] querying vector index", zap.Int("dimensions", len(vector)))

	return &entity.RetrievedContext{
		Text: "Tomato soup needs ripe tomatoes, a carrot, an onion and a good stock.",
	}, nil
}
