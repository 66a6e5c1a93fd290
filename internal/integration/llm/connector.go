package llm

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
	config    config.LLMConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.LLMConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// Complete generates text for the prompt, bounded by maxTokens. The call
// blocks for the whole generation; there is no streaming. An empty
// completion is an error, not a silent empty answer.
func (c *Connector) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctxzap.Info(ctx, "generating completion",
		zap.Int("prompt_length", len(prompt)),
		zap.Int("max_tokens", maxTokens),
	)

	req := &entity.CompleteRequest{
		Model:     c.config.Model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
	}

	var resp entity.CompleteResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.CompleteEndpoint, req, &resp)
	if err != nil {
		return "", fmt.Errorf("generate completion: %w", err)
	}

	if resp.Text == "" {
		return "", fmt.Errorf("invalid completion response: empty or missing text field")
	}

	ctxzap.Info(ctx, "completion generated", zap.Int("result_length", len(resp.Text)))

	return resp.Text, nil
}
