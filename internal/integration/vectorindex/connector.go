package vectorindex

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
	config    config.VectorIndexConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.VectorIndexConnectorConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

// NearestOne returns the single nearest neighbor of the query vector.
// Ties are broken by whatever order the index returns matches in; that
// order is not specified and must not be assumed stable. An empty index
// yields entity.ErrContextNotFound.
func (c *Connector) NearestOne(ctx context.Context, vector []float32) (*entity.RetrievedContext, error) {
	ctxzap.Debug(ctx, "querying vector index",
		zap.String("table", c.config.Table),
		zap.Int("dimensions", len(vector)),
	)

	req := &entity.VectorQueryRequest{
		Table:  c.config.Table,
		Vector: vector,
		Limit:  1,
	}

	var resp entity.VectorQueryResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, c.config.QueryEndpoint, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("query vector index: %w", err)
	}

	if len(resp.Matches) == 0 {
		return nil, entity.ErrContextNotFound
	}

	match := resp.Matches[0]
	ctxzap.Debug(ctx, "context retrieved",
		zap.Int("context_length", len(match.Item)),
		zap.Float32("distance", match.Distance),
	)

	return &entity.RetrievedContext{Text: match.Item}, nil
}
