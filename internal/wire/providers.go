package wire

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/sevigo/goframe/llms"
	"github.com/sevigo/goframe/llms/gemini"
	"github.com/sevigo/goframe/llms/ollama"

	"github.com/codeguardian-ai/codeguardian/internal/config"
	"github.com/codeguardian-ai/codeguardian/internal/crypto"
	"github.com/codeguardian-ai/codeguardian/internal/github"
	"github.com/codeguardian-ai/codeguardian/internal/logger"
)

// provideGeneratorLLM creates the generative model client for the configured provider.
func provideGeneratorLLM(ctx context.Context, cfg *config.Config, logger *slog.Logger) (llms.Model, error) {
	switch cfg.LLMProvider {
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is not set in environment for gemini provider")
		}
		return gemini.New(ctx,
			gemini.WithModel(cfg.GeneratorModelName),
			gemini.WithAPIKey(cfg.GeminiAPIKey),
		)
	case "ollama":
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaHost),
			ollama.WithHTTPClient(newModelHTTPClient()),
			ollama.WithModel(cfg.GeneratorModelName),
			ollama.WithLogger(logger),
		)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}
}

// provideTokenCipher builds the cipher that protects stored access tokens.
func provideTokenCipher(cfg *config.Config) (*crypto.TokenCipher, error) {
	return crypto.NewTokenCipher(cfg.EncryptionKey)
}

// provideClientFactory returns the factory the publisher uses to build a
// GitHub client per pipeline run.
func provideClientFactory(logger *slog.Logger) github.ClientFactory {
	return func(ctx context.Context, token string) github.Client {
		return github.NewTokenClient(ctx, token, logger)
	}
}

// provideDiffHTTPClient is the client used to download PR diffs.
func provideDiffHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

// newModelHTTPClient creates an HTTP client with generous timeouts for model
// requests, which can take a while to complete.
func newModelHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxConnsPerHost:     10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: 5 * time.Minute,
	}
}

func provideLoggerConfig(cfg *config.Config) logger.Config {
	return cfg.Logging
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stderr":
		return os.Stderr
	default:
		return os.Stdout
	}
}

func provideDBConfig(cfg *config.Config) *config.DBConfig {
	return &cfg.Database
}
