package builder

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mwalczyk-dev/ragbot-backend/internal/api"
	botapi "github.com/mwalczyk-dev/ragbot-backend/internal/api/bot"
	"github.com/mwalczyk-dev/ragbot-backend/internal/auth"
	"github.com/mwalczyk-dev/ragbot-backend/internal/config"
	"github.com/mwalczyk-dev/ragbot-backend/internal/integration/channel"
	"github.com/mwalczyk-dev/ragbot-backend/internal/integration/embedding"
	"github.com/mwalczyk-dev/ragbot-backend/internal/integration/llm"
	"github.com/mwalczyk-dev/ragbot-backend/internal/integration/vectorindex"
	"github.com/mwalczyk-dev/ragbot-backend/internal/usecase/chat"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Fetch the verification key set. Without it inbound tokens cannot be
	// checked, so a failed fetch aborts startup.
	keySet, err := auth.FetchKeySet(ctx, cfg.BotAuthCfg.JWKSURL, &cfg.BotAuthCfg.KeySetRetry, logger)
	if err != nil {
		return nil, fmt.Errorf("fetch key set: %w", err)
	}

	verifier := auth.NewVerifier(keySet, cfg.BotAuthCfg.TokenIssuer, cfg.BotAuthCfg.ClientID)
	tokenProvider := auth.NewTokenProvider(cfg.BotAuthCfg, logger)
	logger.Info("Auth components initialized")

	// Initialize connectors (with mock support)
	var embeddingConnector chat.EmbeddingConnector
	var vectorConnector chat.VectorIndexConnector
	var llmConnector chat.LLMConnector

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		embeddingConnector = embedding.NewMockConnector(logger)
		vectorConnector = vectorindex.NewMockConnector(logger)
		llmConnector = llm.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		embeddingConnector = embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
		vectorConnector = vectorindex.NewConnector(cfg.VectorIndexConnectorCfg, logger)
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
	}

	channelConnector := channel.NewConnector(cfg.ChannelConnectorCfg, logger)
	logger.Info("Connectors initialized")

	// Initialize use case
	chatUC := chat.NewUsecase(
		verifier,
		embeddingConnector,
		vectorConnector,
		llmConnector,
		tokenProvider,
		channelConnector,
		cfg.PromptTemplate,
		cfg.LLMConnectorCfg.MaxTokens,
		cfg.LLMConnectorCfg.MaxConcurrent,
		logger,
	)
	logger.Info("Use cases initialized")

	// Setup API handler and router
	botHandler := botapi.NewHandler(chatUC)
	router := api.SetupRouter(botHandler, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}
