package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	pkgRetry "github.com/eduassist/chat-backend/internal/pkg/retry"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server configuration
	ServerAddr string `env:"SERVER_ADDR,notEmpty"`

	// Database configuration
	DatabaseURL         string        `env:"DATABASE_URL,notEmpty"`
	DBMaxConns          int           `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns          int           `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`

	// External service configurations
	RAGConnectorCfg        RAGConnectorConfig        `envPrefix:"RAG_"`
	EscalationConnectorCfg EscalationConnectorConfig `envPrefix:"ESCALATION_"`
	IdentityConnectorCfg   IdentityConnectorConfig   `envPrefix:"IDENTITY_"`

	// WhatsApp Cloud API configuration
	WhatsAppCfg WhatsAppConfig `envPrefix:"WHATSAPP_"`

	// Logging configuration
	LogLevel string `env:"LOG_LEVEL,notEmpty"`

	// File upload configuration
	FileUploadCfg FileUploadConfig `envPrefix:"FILE_UPLOAD_"`

	// Mock configuration
	EnableMocks bool `env:"ENABLE_MOCKS,notEmpty"`

	// Environment (set from flag, not from env var)
	Environment string
}

type RAGConnectorConfig struct {
	HTTPClientConfig
	AnswerEndpoint string               `env:"ANSWER_ENDPOINT,notEmpty"`
	Retry          pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type EscalationConnectorConfig struct {
	HTTPClientConfig
	EvaluateEndpoint string               `env:"EVALUATE_ENDPOINT,notEmpty"`
	Retry            pkgRetry.RetryConfig `envPrefix:"RETRY_"`
}

type IdentityConnectorConfig struct {
	HTTPClientConfig
	ProfileEndpoint string `env:"PROFILE_ENDPOINT,notEmpty"`
}

// WhatsAppConfig holds the Cloud API credentials and webhook secret
type WhatsAppConfig struct {
	HTTPClientConfig
	VerifyWebhookToken string               `env:"VERIFY_WEBHOOK_TOKEN,notEmpty"`
	PhoneNumberID      string               `env:"PHONE_NUMBER_ID,notEmpty"`
	Retry              pkgRetry.RetryConfig `envPrefix:"RETRY_"`
	// DispatchQueueSize bounds the per-sender webhook queues
	DispatchQueueSize int `env:"DISPATCH_QUEUE_SIZE" envDefault:"64"`
}

type HTTPClientConfig struct {
	RequestTimeout        time.Duration `env:"TIMEOUT,notEmpty"`
	ConnTimeout           time.Duration `env:"CONN_TIMEOUT,notEmpty"`
	KeepAlive             time.Duration `env:"KEEP_ALIVE,notEmpty"`
	IdleConnTimeout       time.Duration `env:"IDLE_CONN_TIMEOUT,notEmpty"`
	ResponseHeaderTimeout time.Duration `env:"RESPONSE_HEADER_TIMEOUT,notEmpty"`
	Token                 string        `env:"TOKEN"`
	Url                   string        `env:"SERVICE_URL,notEmpty"`
}

// FileUploadConfig holds document upload limits
type FileUploadConfig struct {
	MaxFileSize   int64  `env:"MAX_FILE_SIZE,notEmpty"`   // per file
	MaxTotalSize  int64  `env:"MAX_TOTAL_SIZE,notEmpty"`  // per request
	MaxFileCount  int    `env:"MAX_FILE_COUNT,notEmpty"`  // per request
	MaxUploadSize int64  `env:"MAX_UPLOAD_SIZE,notEmpty"` // multipart memory limit
	UploadDir     string `env:"DIR,notEmpty"`
}

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

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.DBMaxConns < 1 || cfg.DBMaxConns > 200 {
		return fmt.Errorf("DB_MAX_CONNS must be between 1 and 200, got %d", cfg.DBMaxConns)
	}

	if cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS(%d), got %d", cfg.DBMaxConns, cfg.DBMinConns)
	}

	if cfg.WhatsAppCfg.DispatchQueueSize < 1 || cfg.WhatsAppCfg.DispatchQueueSize > 1024 {
		return fmt.Errorf("WHATSAPP_DISPATCH_QUEUE_SIZE must be between 1 and 1024, got %d", cfg.WhatsAppCfg.DispatchQueueSize)
	}

	if cfg.FileUploadCfg.MaxFileCount < 1 || cfg.FileUploadCfg.MaxFileCount > 64 {
		return fmt.Errorf("FILE_UPLOAD_MAX_FILE_COUNT must be between 1 and 64, got %d", cfg.FileUploadCfg.MaxFileCount)
	}

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
