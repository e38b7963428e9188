package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/platform/gemini"
	"github.com/phrazzld/scry-study/internal/platform/ollama"
	"github.com/phrazzld/scry-study/internal/relay"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/phrazzld/scry-study/internal/session"
	"github.com/phrazzld/scry-study/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	// db is nil for the memory driver.
	db *sql.DB

	jwtService   auth.JWTService
	srsService   srs.Service
	studyService service.StudyService
	relay        *relay.Relay
}

// newCompleter creates the chat relay's upstream client for the configured provider.
func newCompleter(ctx context.Context, cfg *config.Config, logger *slog.Logger) (relay.Completer, error) {
	switch cfg.LLM.Provider {
	case config.ProviderGemini:
		c, err := gemini.NewGeminiCompleter(ctx, logger, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini completer: %w", err)
		}
		return c, nil
	case config.ProviderOllama:
		c, err := ollama.NewOllamaCompleter(logger, cfg.LLM, &http.Client{})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize ollama completer: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}

// upstreamName is the provider name shown to clients in chat error events.
func upstreamName(provider string) string {
	switch provider {
	case config.ProviderGemini:
		return "Gemini"
	case config.ProviderOllama:
		return "Ollama"
	default:
		return provider
	}
}

// newApplication creates a new application instance with all dependencies
// initialized. The database, blob store and completer are established by the
// caller so tests can substitute them.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	blobs store.BlobStore,
	completer relay.Completer,
) (*application, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("config cannot be nil")
	case logger == nil:
		return nil, fmt.Errorf("logger cannot be nil")
	case blobs == nil:
		return nil, fmt.Errorf("blob store cannot be nil")
	case completer == nil:
		return nil, fmt.Errorf("completer cannot be nil")
	}

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
		"token_lifetime", cfg.Auth.TokenLifetime.String())

	kinds := make([]domain.ItemKind, 0, len(cfg.Study.DefaultKinds))
	for _, name := range cfg.Study.DefaultKinds {
		kind, err := domain.ParseItemKind(name)
		if err != nil {
			return nil, fmt.Errorf("invalid default item kind: %w", err)
		}
		kinds = append(kinds, kind)
	}

	app.srsService = srs.NewDefaultService()
	app.studyService, err = service.NewStudyService(
		store.NewSnapshotStore(blobs, logger),
		generation.NewHeuristicGenerator(logger, nil, nil),
		session.NewEngine(app.srsService, nil),
		app.srsService,
		service.StudyOptions{
			DefaultKinds:       kinds,
			ItemsPerGeneration: cfg.Study.ItemsPerGeneration,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create study service: %w", err)
	}

	app.relay = relay.NewRelay(completer, relay.Options{
		Upstream:   upstreamName(cfg.LLM.Provider),
		MaxRetries: cfg.LLM.MaxRetries,
		RetryDelay: cfg.LLM.RetryDelay,
		Timeout:    cfg.LLM.RequestTimeout,
	}, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run serves HTTP until ctx is done, then shuts down and releases resources.
func (app *application) Run(ctx context.Context) error {
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	closeDB(app.db, app.logger)
	app.logger.Info("Application shutdown completed")
}
