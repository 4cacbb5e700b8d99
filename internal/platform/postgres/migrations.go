package postgres

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"log/slog"

	"github.com/kofadam/asahi-x-family/internal/platform/migrations"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the schema migrations of the PostgreSQL store.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		// ALLOW-PANIC: embedded directory is fixed at build time
		panic(err)
	}
	return sub
}

// Migrate runs a migration command against db.
func Migrate(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	return migrations.Run(ctx, db, goose.DialectPostgres, Migrations(), command, logger)
}
