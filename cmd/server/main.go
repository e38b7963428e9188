// Package main implements the entry point for the Scry study server, which
// turns uploaded documents into quiz items, schedules them with SM-2 and
// relays chat messages to a language model.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("server error: %v", err)
		stop()
		os.Exit(1)
	}
}

// run loads configuration, builds the application and serves until ctx is done.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	l, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	l.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"llm_provider", cfg.LLM.Provider)

	db, blobs, err := setupAppDatabase(ctx, cfg, l)
	if err != nil {
		return err
	}

	completer, err := newCompleter(ctx, cfg, l)
	if err != nil {
		closeDB(db, l)
		return err
	}

	app, err := newApplication(cfg, l, db, blobs, completer)
	if err != nil {
		closeDB(db, l)
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
