package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/avast/retry-go/v4"
	pkgRetry "github.com/mwalczyk-dev/ragbot-backend/internal/pkg/retry"
	pkghttp "github.com/mwalczyk-dev/ragbot-backend/pkg/http"
	"go.uber.org/zap"
)

// KeySet holds the verification keys published by the channel. It is
// fetched once at startup and read-only afterwards: a key set that rotates
// server-side is only picked up on process restart.
type KeySet struct {
	kf keyfunc.Keyfunc
}

// NewKeySetFromJSON builds a KeySet from a raw JWKS document.
func NewKeySetFromJSON(raw json.RawMessage) (*KeySet, error) {
	kf, err := keyfunc.NewJWKSetJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("parse key set: %w", err)
	}
	return &KeySet{kf: kf}, nil
}

// FetchKeySet retrieves the JWKS document from its well-known URL. The
// fetch is retried per the configured policy; if it still fails the caller
// must refuse to start, since tokens cannot be verified without keys.
func FetchKeySet(ctx context.Context, jwksURL string, retryCfg *pkgRetry.RetryConfig, logger *zap.Logger) (*KeySet, error) {
	connector := pkghttp.NewConnector(&pkghttp.ConnectorConfig{
		BaseURL: jwksURL,
		Logger:  logger,
	})

	var raw json.RawMessage
	err := retry.Do(func() error {
		return connector.DoRequest(ctx, http.MethodGet, "", nil, &raw)
	}, append(retryCfg.ToRetryOptions(), retry.Context(ctx))...)
	if err != nil {
		return nil, fmt.Errorf("fetch key set from %s: %w", jwksURL, err)
	}

	keySet, err := NewKeySetFromJSON(raw)
	if err != nil {
		return nil, err
	}

	logger.Info("key set fetched", zap.String("jwks_url", jwksURL))
	return keySet, nil
}
