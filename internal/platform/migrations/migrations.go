// Package migrations runs embedded goose migrations for the progress stores.
package migrations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"
)

// Supported commands
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// ErrUnknownCommand is returned for commands other than the supported ones.
var ErrUnknownCommand = errors.New("unknown migration command")

// Commands lists the supported commands.
func Commands() []string {
	return []string{CommandUp, CommandDown, CommandReset, CommandStatus, CommandVersion}
}

// Run executes command against db using the migrations in fsys.
func Run(
	ctx context.Context,
	db *sql.DB,
	dialect goose.Dialect,
	fsys fs.FS,
	command string,
	logger *slog.Logger,
) error {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(
		slog.String("component", "migrations"),
		slog.String("command", command),
		slog.String("dialect", string(dialect)),
	)

	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	start := time.Now()
	switch command {
	case CommandUp:
		results, err := provider.Up(ctx)
		logResults(log, results)
		if err != nil {
			return fmt.Errorf("migration up failed: %w", err)
		}
	case CommandDown:
		result, err := provider.Down(ctx)
		if result != nil {
			logResults(log, []*goose.MigrationResult{result})
		}
		if err != nil && !errors.Is(err, goose.ErrNoNextVersion) {
			return fmt.Errorf("migration down failed: %w", err)
		}
	case CommandReset:
		results, err := provider.DownTo(ctx, 0)
		logResults(log, results)
		if err != nil {
			return fmt.Errorf("migration reset failed: %w", err)
		}
	case CommandStatus:
		statuses, err := provider.Status(ctx)
		if err != nil {
			return fmt.Errorf("migration status failed: %w", err)
		}
		for _, s := range statuses {
			log.Info("migration status",
				slog.Int64("version", s.Source.Version),
				slog.String("path", s.Source.Path),
				slog.String("state", string(s.State)))
		}
	case CommandVersion:
		version, err := provider.GetDBVersion(ctx)
		if err != nil {
			return fmt.Errorf("reading migration version failed: %w", err)
		}
		log.Info("current migration version", slog.Int64("version", version))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, command)
	}

	log.Info("migration command completed", slog.Duration("duration", time.Since(start)))
	return nil
}

func logResults(log *slog.Logger, results []*goose.MigrationResult) {
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		log.Info("applied migration",
			slog.Int64("version", r.Source.Version),
			slog.String("path", r.Source.Path),
			slog.String("direction", r.Direction),
			slog.Duration("duration", r.Duration))
	}
}
