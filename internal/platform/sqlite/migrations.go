package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/platform/migrate"
	"github.com/pressly/goose/v3"
)

// Migrations holds the goose migrations for the SQLite schema.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations that goose reads from.
const MigrationsDir = "migrations"

// Migrate applies the pending SQLite migrations to db.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	return migrate.Up(ctx, db, goose.DialectSQLite3, Migrations, MigrationsDir, logger)
}
