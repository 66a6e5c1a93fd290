package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/mwalczyk-dev/ragbot-backend/internal/config"
	"github.com/mwalczyk-dev/ragbot-backend/internal/entity"
	pkghttp "github.com/mwalczyk-dev/ragbot-backend/pkg/http"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const tokenCacheKey = "outbound-token"

// TokenProvider obtains outbound access tokens through the OAuth2
// client-credentials grant and caches them until they expire. It is the
// sole writer of the token; concurrent requests share one cached value and
// never race on a refresh.
type TokenProvider struct {
	cfg       config.BotAuthConfig
	connector *pkghttp.Connector
	logger    *zap.Logger

	// mu makes read-check-refresh-write one critical section, so two
	// requests arriving with an expired token trigger a single refresh.
	mu    sync.Mutex
	cache *cache.Cache

	now func() time.Time
}

func NewTokenProvider(cfg config.BotAuthConfig, logger *zap.Logger) *TokenProvider {
	connector := pkghttp.NewConnector(
		&pkghttp.ConnectorConfig{
			BaseURL: cfg.TokenEndpoint,
			Logger:  logger,
		},
		pkghttp.WithRequestTimeout(cfg.RequestTimeout),
		pkghttp.WithConnClientTimeout(cfg.ConnTimeout),
		pkghttp.WithClientKeepAlive(cfg.KeepAlive),
		pkghttp.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkghttp.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
	)

	return &TokenProvider{
		cfg:       cfg,
		connector: connector,
		logger:    logger,
		cache:     cache.New(cache.NoExpiration, 10*time.Minute),
		now:       time.Now,
	}
}

// Token returns a valid access token, reusing the cached one while it is
// inside its validity window and requesting a fresh one otherwise.
func (p *TokenProvider) Token(ctx context.Context) (*entity.AuthToken, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v, ok := p.cache.Get(tokenCacheKey); ok {
		token := v.(*entity.AuthToken)
		if !token.Expired(p.now()) {
			return token, nil
		}
	}

	token, err := p.requestToken(ctx)
	if err != nil {
		return nil, entity.NewAuthProviderError(err)
	}

	p.cache.Set(tokenCacheKey, token, time.Until(token.ExpiresAt))

	ctxzap.Info(ctx, "outbound token refreshed",
		zap.Time("expires_at", token.ExpiresAt),
	)

	return token, nil
}

func (p *TokenProvider) requestToken(ctx context.Context) (*entity.AuthToken, error) {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {p.cfg.ClientID},
		"client_secret": {p.cfg.ClientSecret},
		"scope":         {p.cfg.TokenScope},
	}

	var token entity.AuthToken
	if err := p.connector.DoFormRequest(ctx, http.MethodPost, "", form, &token); err != nil {
		return nil, err
	}

	if token.AccessToken == "" {
		return nil, errors.New("token response missing access_token")
	}

	issued := p.now()
	token.IssuedAt = issued
	// The refresh margin shaves the advertised lifetime so a token cannot
	// lapse between the authorizing and delivering stages.
	token.ExpiresAt = issued.Add(time.Duration(token.ExpiresIn)*time.Second - p.cfg.TokenRefreshMargin)

	return &token, nil
}
