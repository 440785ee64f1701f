// Package config loads and validates the application's configuration.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"

	"github.com/codeguardian-ai/codeguardian/internal/logger"
)

// DBConfig holds the Postgres connection settings.
type DBConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	Database        string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Config holds the application's configuration values.
type Config struct {
	ServerPort string
	Logging    logger.Config

	// Shared secret GitHub uses to sign webhook deliveries.
	WebhookSecret string
	// Hex-encoded 32-byte AES key for access tokens at rest.
	EncryptionKey string

	LLMProvider        string
	GeminiAPIKey       string
	OllamaHost         string
	GeneratorModelName string

	// Diffs larger than this many bytes are skipped, not reviewed.
	MaxDiffBytes  int
	ReviewWorkers int

	Database DBConfig
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("LLM_PROVIDER", "gemini")
	viper.SetDefault("OLLAMA_HOST", "http://localhost:11434")
	viper.SetDefault("GENERATOR_MODEL_NAME", "models/gemini-2.5-pro")
	viper.SetDefault("MAX_DIFF_BYTES", 4000)
	viper.SetDefault("REVIEW_WORKERS", 5)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 5432)
	viper.SetDefault("DB_USER", "codeguardian")
	viper.SetDefault("DB_NAME", "codeguardian")
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DB_CONN_MAX_IDLE_TIME", "5m")

	// A missing .env file is fine; environment variables still apply.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		ServerPort: viper.GetString("SERVER_PORT"),
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
		WebhookSecret:      viper.GetString("WEBHOOK_SECRET"),
		EncryptionKey:      viper.GetString("ENCRYPTION_KEY"),
		LLMProvider:        viper.GetString("LLM_PROVIDER"),
		GeminiAPIKey:       viper.GetString("GEMINI_API_KEY"),
		OllamaHost:         viper.GetString("OLLAMA_HOST"),
		GeneratorModelName: viper.GetString("GENERATOR_MODEL_NAME"),
		MaxDiffBytes:       viper.GetInt("MAX_DIFF_BYTES"),
		ReviewWorkers:      viper.GetInt("REVIEW_WORKERS"),
		Database: DBConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			Username:        viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Database:        viper.GetString("DB_NAME"),
			ConnMaxLifetime: viper.GetDuration("DB_CONN_MAX_LIFETIME"),
			ConnMaxIdleTime: viper.GetDuration("DB_CONN_MAX_IDLE_TIME"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required configuration values are present and well formed.
func (c *Config) Validate() error {
	if c.WebhookSecret == "" {
		return fmt.Errorf("WEBHOOK_SECRET must be set")
	}

	key, err := hex.DecodeString(c.EncryptionKey)
	if err != nil {
		return fmt.Errorf("ENCRYPTION_KEY must be hex encoded: %w", err)
	}
	if len(key) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
	}

	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY must be set for the gemini provider")
		}
	case "ollama":
		if c.OllamaHost == "" {
			return fmt.Errorf("OLLAMA_HOST must be set for the ollama provider")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.LLMProvider)
	}

	if c.MaxDiffBytes <= 0 {
		return fmt.Errorf("MAX_DIFF_BYTES must be positive, got %d", c.MaxDiffBytes)
	}
	return nil
}
