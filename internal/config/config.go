package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	pkgRetry "github.com/mwalczyk-dev/ragbot-backend/internal/pkg/retry"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Bot channel authentication (inbound JWT + outbound client credentials)
	BotAuthCfg BotAuthConfig `envPrefix:"BOT_"`

	// External service configurations
	EmbeddingConnectorCfg   EmbeddingConnectorConfig   `envPrefix:"EMBEDDING_"`
	VectorIndexConnectorCfg VectorIndexConnectorConfig `envPrefix:"VECTOR_"`
	LLMConnectorCfg         LLMConnectorConfig         `envPrefix:"LLM_"`
	ChannelConnectorCfg     ChannelConnectorConfig     `envPrefix:"CHANNEL_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// Prompt template (loaded from file, with a built-in default)
	PromptTemplatePath string `env:"PROMPT_TEMPLATE_PATH" envDefault:"configs/prompt_template.txt"`
	PromptTemplate     string

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS" envDefault:"false"`

	// Environment (set from flag, not from env var)
	Environment string
}

// BotAuthConfig holds everything needed to verify inbound channel tokens
// and to obtain outbound tokens through the client-credentials grant.
type BotAuthConfig struct {
	ClientID     string `env:"CLIENT_ID,notEmpty"`
	ClientSecret string `env:"CLIENT_SECRET,notEmpty"`

	// Inbound verification
	JWKSURL     string `env:"JWKS_URL" envDefault:"https://login.botframework.com/v1/.well-known/keys"`
	TokenIssuer string `env:"TOKEN_ISSUER" envDefault:"https://api.botframework.com"`

	// Outbound client-credentials grant
	TokenEndpoint      string        `env:"TOKEN_ENDPOINT" envDefault:"https://login.microsoftonline.com/botframework.com/oauth2/v2.0/token"`
	TokenScope         string        `env:"TOKEN_SCOPE" envDefault:"https://api.botframework.com/.default"`
	TokenRefreshMargin time.Duration `env:"TOKEN_REFRESH_MARGIN" envDefault:"1m"`

	// Startup key-set fetch policy; the key set is fetched once and the
	// process refuses to start without it.
	KeySetRetry pkgRetry.RetryConfig `envPrefix:"KEYSET_RETRY_"`

	HTTPClientConfig
}

type EmbeddingConnectorConfig struct {
	HTTPClientConfig
	EmbedEndpoint string `env:"EMBED_ENDPOINT" envDefault:"/api/embed"`
	Model         string `env:"MODEL"`
}

type VectorIndexConnectorConfig struct {
	HTTPClientConfig
	QueryEndpoint string `env:"QUERY_ENDPOINT" envDefault:"/api/query"`
	Table         string `env:"TABLE,notEmpty"`
}

type LLMConnectorConfig struct {
	HTTPClientConfig
	CompleteEndpoint string `env:"COMPLETE_ENDPOINT" envDefault:"/api/complete"`
	Model            string `env:"MODEL"`
	MaxTokens        int    `env:"MAX_TOKENS" envDefault:"2000"`
	// Number of generations allowed to run at once. The model runs on a
	// fixed accelerator budget; excess requests queue on a semaphore.
	MaxConcurrent int64 `env:"MAX_CONCURRENT" envDefault:"1"`
}

// ChannelConnectorConfig configures the reply dispatcher. Replies are
// posted to the serviceUrl carried by each incoming activity, so there is
// no base URL here, only client tuning.
type ChannelConnectorConfig struct {
	HTTPClientConfig
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT" envDefault:"30s"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT" envDefault:"10s"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE" envDefault:"90s"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT" envDefault:"90s"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT" envDefault:"30s"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL"`
}

// defaultPromptTemplate grounds the model on the retrieved context. The
// placeholders are substituted literally, in a single pass.
const defaultPromptTemplate = `[INST]Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.

Context:
{context}

Question:
{question}[/INST]`

func LoadConfig() (*Config, error) {
	envFlag := flag.String("env", "local", "Environment to run (local, prod, or custom)")
	flag.Parse()

	envFile := getEnvFile(*envFlag)
	// Try to load env file, but don't fail if it's missing.
	// In containerized/prod environments variables are usually set externally.
	if err := godotenv.Load(envFile); err != nil {
		fmt.Printf("Warning: could not load %s file (this is ok if env vars are set externally): %v\n", envFile, err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	cfg.Environment = *envFlag

	// Load prompt template from file, falling back to the default
	if err := loadPromptTemplate(cfg); err != nil {
		return nil, fmt.Errorf("load prompt template: %w", err)
	}

	// Validate configuration
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	var errs []string

	if cfg.LLMConnectorCfg.MaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("LLM_MAX_TOKENS must be positive, got %d", cfg.LLMConnectorCfg.MaxTokens))
	}

	if cfg.LLMConnectorCfg.MaxConcurrent < 1 || cfg.LLMConnectorCfg.MaxConcurrent > 64 {
		errs = append(errs, fmt.Sprintf("LLM_MAX_CONCURRENT must be between 1 and 64, got %d", cfg.LLMConnectorCfg.MaxConcurrent))
	}

	if cfg.BotAuthCfg.TokenRefreshMargin < 0 {
		errs = append(errs, fmt.Sprintf("BOT_TOKEN_REFRESH_MARGIN must not be negative, got %s", cfg.BotAuthCfg.TokenRefreshMargin))
	}

	if !strings.Contains(cfg.PromptTemplate, "{context}") || !strings.Contains(cfg.PromptTemplate, "{question}") {
		errs = append(errs, "prompt template must contain {context} and {question} placeholders")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func loadPromptTemplate(cfg *Config) error {
	if _, err := os.Stat(cfg.PromptTemplatePath); os.IsNotExist(err) {
		fmt.Printf("Warning: prompt template file not found at %s, using default template\n", cfg.PromptTemplatePath)
		cfg.PromptTemplate = defaultPromptTemplate
		return nil
	}

	data, err := os.ReadFile(cfg.PromptTemplatePath)
	if err != nil {
		return fmt.Errorf("read prompt template file: %w", err)
	}

	if len(data) == 0 {
		return fmt.Errorf("prompt template file is empty: %s", cfg.PromptTemplatePath)
	}

	cfg.PromptTemplate = string(data)

	fmt.Printf("Loaded prompt template from %s (%d bytes)\n", cfg.PromptTemplatePath, len(data))
	return nil
}

func getEnvFile(environment string) string {
	switch environment {
	case "prod", "production":
		return ".env.prod"
	case "local", "dev", "development":
		return ".env.local"
	default:
		return fmt.Sprintf(".env.%s", environment)
	}
}
