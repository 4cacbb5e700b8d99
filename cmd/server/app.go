package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kofadam/asahi-x-family/internal/config"
	"github.com/kofadam/asahi-x-family/internal/engine"
	"github.com/kofadam/asahi-x-family/internal/events"
	"github.com/kofadam/asahi-x-family/internal/redact"
	"github.com/kofadam/asahi-x-family/internal/reminder"
	"github.com/kofadam/asahi-x-family/internal/service/auth"
	"github.com/kofadam/asahi-x-family/internal/service/progress"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *database

	engine          *engine.Engine
	jwtService      auth.JWTService
	progressService progress.ProgressService
	eventEmitter    *events.InMemoryEventEmitter
	reminders       *reminder.Scheduler
}

// newApplication creates a new application instance with all dependencies
// initialized around an already opened database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *database) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.engine, err = buildEngine(cfg)
	if err != nil {
		return nil, err
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(reminder.NewLogNotifier(logger))

	app.progressService = progress.NewProgressService(
		db.store,
		app.engine,
		logger,
		progress.WithEmitter(app.eventEmitter),
	)

	if cfg.Reminder.Enabled {
		app.reminders = reminder.NewScheduler(
			db.store,
			app.engine,
			app.eventEmitter,
			logger,
			reminder.WithInterval(cfg.Reminder.Interval),
		)
	}

	logger.Info("Application initialized successfully", "database_driver", db.driver)
	return app, nil
}

// Run starts the background jobs and the HTTP server and blocks until the
// server shuts down.
func (app *application) Run(ctx context.Context) error {
	if app.reminders != nil {
		if err := app.reminders.Start(ctx); err != nil {
			return err
		}
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.reminders != nil {
		app.reminders.Stop()
	}

	if app.db != nil && app.db.close != nil {
		if err := app.db.close(); err != nil {
			app.logger.Error("Error closing database connection", "error", redact.Error(err))
		}
	}

	app.logger.Info("Application shutdown completed")
}
