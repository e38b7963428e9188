package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"

	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/relay"
	"google.golang.org/genai"
)

const roleUser = "user"

// streamFunc matches genai's Models.GenerateContentStream.
type streamFunc func(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) iter.Seq2[*genai.GenerateContentResponse, error]

// GeminiCompleter implements relay.Completer on the Gemini API.
type GeminiCompleter struct {
	logger *slog.Logger
	model  string
	stream streamFunc
}

var _ relay.Completer = (*GeminiCompleter)(nil)

// NewGeminiCompleter creates a GeminiCompleter from the LLM configuration.
func NewGeminiCompleter(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiCompleter, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	logger = logger.With(slog.String("component", "gemini"))

	if err := validateConfig(ctx, logger, cfg); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %w", relay.ErrInvalidConfig, err)
	}

	logger.InfoContext(ctx, "Gemini completer initialized", slog.String("model", cfg.GeminiModel))
	return &GeminiCompleter{logger: logger, model: cfg.GeminiModel, stream: client.Models.GenerateContentStream}, nil
}

// Complete implements relay.Completer.
func (g *GeminiCompleter) Complete(ctx context.Context, prompt string, onChunk func(string) error) error {
	contents := []*genai.Content{{
		Role:  roleUser,
		Parts: []*genai.Part{{Text: prompt}},
	}}

	g.logger.DebugContext(ctx, "streaming Gemini completion",
		slog.String("model", g.model),
		slog.Int("prompt_length", len(prompt)))

	for resp, err := range g.stream(ctx, g.model, contents, nil) {
		if err != nil {
			return mapError(err)
		}
		if resp == nil {
			continue
		}
		if fb := resp.PromptFeedback; fb != nil && fb.BlockReason != "" {
			return fmt.Errorf("%w: prompt blocked (%s)", relay.ErrContentBlocked, fb.BlockReason)
		}
		if len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
			continue
		}

		candidate := resp.Candidates[0]
		if candidate.FinishReason == genai.FinishReasonSafety {
			return fmt.Errorf("%w: content blocked by safety filters", relay.ErrContentBlocked)
		}
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			if err := onChunk(part.Text); err != nil {
				return err
			}
		}
	}
	return nil
}
