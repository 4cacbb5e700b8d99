package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kofadam/asahi-x-family/internal/config"
	"github.com/kofadam/asahi-x-family/internal/platform/postgres"
	"github.com/kofadam/asahi-x-family/internal/platform/sqlite"
	"github.com/kofadam/asahi-x-family/internal/store"
)

// database is an open Progress Store backend.
type database struct {
	driver  string
	store   store.ProgressStore
	migrate func(ctx context.Context, command string) error
	close   func() error
}

// openDatabase opens the backend selected by cfg.Driver.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*database, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.URL, cfg.MaxOpenConns)
		if err != nil {
			return nil, err
		}
		return &database{
			driver: cfg.Driver,
			store:  postgres.NewPostgresProgressStore(db, logger),
			migrate: func(ctx context.Context, command string) error {
				return postgres.Migrate(ctx, db, command, logger)
			},
			close: db.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		return &database{
			driver: cfg.Driver,
			store:  sqlite.NewSQLiteProgressStore(db, logger),
			migrate: func(ctx context.Context, command string) error {
				return sqlite.Migrate(ctx, db, command, logger)
			},
			close: db.Close,
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
