package embedding

import (
	"context"
	"fmt"
	"net/http"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/mwalczyk-dev/ragbot-backend/internal/config"
	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	"github.com/mwalczyk-dev/ragbot-backend/internal/integration/common"
	pkghttp "github.com/mwalczyk-dev/ragbot-backend/pkg/http"
	"go.uber.org/zap"
)

type Connector struct {
	config    config.EmbeddingConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.EmbeddingConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Embed converts text into a vector using the embedding service. Empty
// text is embedded as-is; the model defines what that means.
func (c *Connector) Embed(ctx context.Context, text string) ([]float32, error) {
	ctxzap.Debug(ctx, "embedding text", zap.Int("text_length", len(text)))

	req := &entity.EmbedRequest{
		Model: c.config.Model,
		Text:  text,
	}

	var resp entity.EmbedResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.EmbedEndpoint, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if len(resp.Embedding) == 0 {
		return nil, fmt.Errorf("embedding service returned an empty vector")
	}

	ctxzap.Debug(ctx, "text embedded", zap.Int("dimensions", len(resp.Embedding)))

	return resp.Embedding, nil
}
