package ollama

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ollama/ollama/api"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/relay"
)

// chatClient is the part of *api.Client the completer uses.
type chatClient interface {
	Chat(ctx context.Context, req *api.ChatRequest, fn api.ChatResponseFunc) error
}

// OllamaCompleter implements relay.Completer against an Ollama server.
type OllamaCompleter struct {
	client chatClient
	model  string
	logger *slog.Logger
}

var _ relay.Completer = (*OllamaCompleter)(nil)

// NewOllamaCompleter creates an OllamaCompleter for cfg.OllamaURL. A nil
// httpClient uses http.DefaultClient; deadlines come from the request context.
func NewOllamaCompleter(logger *slog.Logger, cfg config.LLMConfig, httpClient *http.Client) (*OllamaCompleter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.OllamaModel == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", relay.ErrInvalidConfig)
	}
	base, err := url.Parse(cfg.OllamaURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: invalid ollama url %q", relay.ErrInvalidConfig, cfg.OllamaURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &OllamaCompleter{
		client: api.NewClient(base, httpClient),
		model:  cfg.OllamaModel,
		logger: logger.With(slog.String("component", "ollama"), slog.String("host", base.Host)),
	}, nil
}

// Complete implements relay.Completer.
func (o *OllamaCompleter) Complete(ctx context.Context, prompt string, onChunk func(string) error) error {
	stream := true
	req := &api.ChatRequest{
		Model:    o.model,
		Messages: []api.Message{{Role: "user", Content: prompt}},
		Stream:   &stream,
	}

	o.logger.DebugContext(ctx, "streaming Ollama chat",
		slog.String("model", o.model),
		slog.Int("prompt_length", len(prompt)))

	var callbackErr error
	err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		if resp.Message.Content == "" {
			return nil
		}
		if err := onChunk(resp.Message.Content); err != nil {
			callbackErr = err
			return err
		}
		return nil
	})
	if callbackErr != nil {
		return callbackErr
	}
	return mapError(err)
}

// mapError translates Ollama client errors into the relay error vocabulary.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %w", relay.ErrInvalidConfig, err)
		case statusErr.StatusCode == http.StatusTooManyRequests || statusErr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %w", relay.ErrTransientFailure, err)
		default:
			return fmt.Errorf("%w: %w", relay.ErrInvalidResponse, err)
		}
	}
	return fmt.Errorf("%w: %w", relay.ErrTransientFailure, err)
}
