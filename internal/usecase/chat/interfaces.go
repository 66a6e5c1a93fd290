package chat

import (
	"context"

	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) bool
}

type EmbeddingConnector interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type VectorIndexConnector interface {
	NearestOne(ctx context.Context, vector []float32) (*entity.RetrievedContext, error)
}

type LLMConnector interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

type TokenProvider interface {
	Token(ctx context.Context) (*entity.AuthToken, error)
}

type ChannelConnector interface {
	Send(ctx context.Context, activity *entity.Activity, token *entity.AuthToken, text string) error
}
