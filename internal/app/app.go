// Package app initializes and orchestrates the main components of the
// CodeGuardian application.
package app

import (
	"log/slog"

	"github.com/codeguardian-ai/codeguardian/internal/config"
	"github.com/codeguardian-ai/codeguardian/internal/core"
	"github.com/codeguardian-ai/codeguardian/internal/server"
)

// App holds the main application components.
type App struct {
	cfg        *config.Config
	server     *server.Server
	dispatcher core.JobDispatcher
	logger     *slog.Logger
}

// NewApp assembles the application from its already-constructed components.
func NewApp(cfg *config.Config, srv *server.Server, dispatcher core.JobDispatcher, logger *slog.Logger) *App {
	return &App{
		cfg:        cfg,
		server:     srv,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Start runs the HTTP server and blocks until shutdown.
func (a *App) Start() error {
	a.logger.Info("starting CodeGuardian",
		"server_port", a.cfg.ServerPort,
		"llm_provider", a.cfg.LLMProvider,
		"review_workers", a.cfg.ReviewWorkers,
	)
	return a.server.Start()
}

// Stop shuts the application down cleanly: the HTTP server first so no new
// deliveries arrive, then the dispatcher so in-flight reviews can finish.
func (a *App) Stop() error {
	a.logger.Info("shutting down CodeGuardian services")

	serverErr := a.server.Stop()
	if serverErr != nil {
		a.logger.Error("error during HTTP server shutdown", "error", serverErr)
	}

	a.dispatcher.Stop()

	if serverErr != nil {
		return serverErr
	}
	a.logger.Info("CodeGuardian stopped successfully")
	return nil
}
