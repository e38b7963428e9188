package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/postgres"
	"github.com/phrazzld/scry-study/internal/platform/sqlite"
	"github.com/phrazzld/scry-study/internal/store"
	_ "modernc.org/sqlite"
)

// setupAppDatabase opens the configured database, applies its migrations and
// returns the blob store backed by it. The memory driver returns a nil
// database and an in-process store.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, store.BlobStore, error) {
	var (
		driverName string
		migrate    func(context.Context, *sql.DB, *slog.Logger) error
	)

	switch cfg.Database.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage; study data will not survive a restart")
		return nil, store.NewMemoryBlobStore(), nil
	case config.DriverPostgres:
		driverName, migrate = "pgx", postgres.Migrate
	case config.DriverSQLite:
		driverName, migrate = "sqlite", sqlite.Migrate
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	db, err := sql.Open(driverName, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		// a single connection serializes writers on the database file
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := migrate(ctx, db, logger); err != nil {
		closeDB(db, logger)
		return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	var blobs store.BlobStore
	if cfg.Database.Driver == config.DriverSQLite {
		blobs = sqlite.NewSQLiteBlobStore(db, logger)
	} else {
		blobs = postgres.NewPostgresBlobStore(db, logger)
	}

	logger.Info("Database connection established", "driver", cfg.Database.Driver)
	return db, blobs, nil
}

func closeDB(db *sql.DB, logger *slog.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("Error closing database connection", "error", err)
	}
}
