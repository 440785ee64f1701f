//go:build wireinject
// +build wireinject

package wire

import (
	"context"

	"github.com/google/wire"

	"github.com/codeguardian-ai/codeguardian/internal/app"
	"github.com/codeguardian-ai/codeguardian/internal/config"
	"github.com/codeguardian-ai/codeguardian/internal/db"
	"github.com/codeguardian-ai/codeguardian/internal/jobs"
	"github.com/codeguardian-ai/codeguardian/internal/llm"
	"github.com/codeguardian-ai/codeguardian/internal/logger"
	"github.com/codeguardian-ai/codeguardian/internal/server"
	"github.com/codeguardian-ai/codeguardian/internal/storage"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		config.LoadConfig,
		logger.NewLogger,
		db.NewDatabase,
		storage.NewStore,
		llm.NewPromptManager,
		llm.NewReviewer,
		jobs.NewPublisher,
		jobs.NewReviewJob,
		jobs.NewDispatcher,
		provideGeneratorLLM,
		provideTokenCipher,
		provideClientFactory,
		provideDiffHTTPClient,
		provideLoggerConfig,
		provideLogWriter,
		provideDBConfig,
	)
	return &app.App{}, nil, nil
}
