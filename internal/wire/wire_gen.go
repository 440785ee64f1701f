// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"

	"github.com/codeguardian-ai/codeguardian/internal/app"
	"github.com/codeguardian-ai/codeguardian/internal/config"
	"github.com/codeguardian-ai/codeguardian/internal/db"
	"github.com/codeguardian-ai/codeguardian/internal/github"
	"github.com/codeguardian-ai/codeguardian/internal/jobs"
	"github.com/codeguardian-ai/codeguardian/internal/llm"
	"github.com/codeguardian-ai/codeguardian/internal/logger"
	"github.com/codeguardian-ai/codeguardian/internal/server"
	"github.com/codeguardian-ai/codeguardian/internal/storage"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	slogLogger := logger.NewLogger(provideLoggerConfig(cfg), provideLogWriter(cfg))

	dbConn, dbCleanup, err := db.NewDatabase(provideDBConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	store := storage.NewStore(dbConn.DB)

	cipher, err := provideTokenCipher(cfg)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create token cipher: %w", err)
	}

	generatorLLM, err := provideGeneratorLLM(ctx, cfg, slogLogger)
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create generator LLM: %w", err)
	}

	promptMgr, err := llm.NewPromptManager()
	if err != nil {
		dbCleanup()
		return nil, nil, fmt.Errorf("failed to create prompt manager: %w", err)
	}

	reviewer := llm.NewReviewer(generatorLLM, promptMgr, cfg.LLMProvider, slogLogger)
	diffFetcher := github.NewDiffFetcher(provideDiffHTTPClient(), slogLogger)
	publisher := jobs.NewPublisher(store, cipher, provideClientFactory(slogLogger), slogLogger)
	reviewJob := jobs.NewReviewJob(cfg, diffFetcher, reviewer, publisher, slogLogger)
	dispatcher := jobs.NewDispatcher(reviewJob, cfg.ReviewWorkers, slogLogger)
	srv := server.NewServer(ctx, cfg, dispatcher, slogLogger)

	application := app.NewApp(cfg, srv, dispatcher, slogLogger)

	cleanup := func() {
		dbCleanup()
	}
	return application, cleanup, nil
}
