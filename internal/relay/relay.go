package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/redact"
)

// Completer streams a completion of prompt from an upstream model, calling
// onChunk for every text fragment in order. An error returned by onChunk
// aborts the completion and is returned unchanged.
type Completer interface {
	Complete(ctx context.Context, prompt string, onChunk func(string) error) error
}

// Emitter delivers an event to the client.
type Emitter func(Event) error

// Options tune a Relay. Zero values disable retries.
type Options struct {
	// Upstream names the model provider in client-facing error events.
	Upstream   string
	MaxRetries int
	RetryDelay time.Duration
	// Timeout bounds a whole relayed completion, retries included.
	Timeout time.Duration
}

// Relay forwards messages to a Completer and shapes the reply as events.
type Relay struct {
	completer Completer
	opts      Options
	logger    *slog.Logger
	sleep     func(ctx context.Context, d time.Duration) error
}

// errEmit marks failures of the client side of the stream.
type errEmit struct{ err error }

func (e errEmit) Error() string { return "emit: " + e.err.Error() }
func (e errEmit) Unwrap() error { return e.err }

// NewRelay creates a Relay. It panics if completer is nil.
func NewRelay(completer Completer, opts Options, logger *slog.Logger) *Relay {
	if completer == nil {
		panic("completer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Upstream == "" {
		opts.Upstream = "the model"
	}
	return &Relay{
		completer: completer,
		opts:      opts,
		logger:    logger.With(slog.String("component", "relay")),
		sleep:     sleepContext,
	}
}

// Stream relays message upstream and emits one event per non-empty chunk
// followed by exactly one terminal event. Upstream failures become an error
// event and are not returned. The returned error is ErrEmptyMessage, before
// anything is emitted, or a failure of emit itself.
func (r *Relay) Stream(ctx context.Context, message string, emit Emitter) error {
	if strings.TrimSpace(message) == "" {
		return ErrEmptyMessage
	}
	log := logger.FromContextOrDefault(ctx, r.logger)

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	var full strings.Builder
	onChunk := func(chunk string) error {
		if chunk == "" {
			return nil
		}
		full.WriteString(chunk)
		if err := emit(Event{Content: chunk, FullResponse: full.String()}); err != nil {
			return errEmit{err}
		}
		return nil
	}

	err := r.completeWithRetry(ctx, log, message, onChunk, func() bool { return full.Len() == 0 })
	var emitErr errEmit
	if errors.As(err, &emitErr) {
		log.WarnContext(ctx, "client went away during chat stream", slog.String("error", emitErr.err.Error()))
		return emitErr.err
	}

	if err != nil {
		detail := redact.Error(err)
		log.ErrorContext(ctx, "upstream completion failed",
			slog.String("upstream", r.opts.Upstream),
			slog.String("error", detail),
			slog.Int("streamed_bytes", full.Len()))
		return emit(Event{
			Error:  fmt.Sprintf("Error talking to %s", r.opts.Upstream),
			Detail: detail,
			Done:   true,
		})
	}

	log.DebugContext(ctx, "chat stream completed", slog.Int("response_length", full.Len()))
	return emit(Event{FullResponse: full.String(), Done: true})
}

// completeWithRetry retries transient failures with exponential backoff and
// jitter, but only while fresh reports that nothing has reached the client.
func (r *Relay) completeWithRetry(
	ctx context.Context,
	log *slog.Logger,
	prompt string,
	onChunk func(string) error,
	fresh func() bool,
) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = r.completer.Complete(ctx, prompt, onChunk)
		if err == nil {
			return nil
		}

		var emitErr errEmit
		switch {
		case errors.As(err, &emitErr), isPermanent(err), ctx.Err() != nil, !fresh():
			return err
		case attempt >= r.opts.MaxRetries:
			if r.opts.MaxRetries > 0 {
				return fmt.Errorf("%w: exceeded maximum retry attempts (%d): %w", ErrTransientFailure, r.opts.MaxRetries, err)
			}
			return err
		}

		// delay = base * 2^attempt * (0.5 + rand(0, 0.5))
		delay := time.Duration(float64(r.opts.RetryDelay<<attempt) * (0.5 + rand.Float64()*0.5))
		log.WarnContext(ctx, "retrying upstream completion",
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", redact.Error(err)))

		if serr := r.sleep(ctx, delay); serr != nil {
			return fmt.Errorf("%w: %w", ErrTransientFailure, serr)
		}
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
