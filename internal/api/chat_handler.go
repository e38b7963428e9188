package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/redact"
	"github.com/phrazzld/scry-study/internal/relay"
)

// ChatStreamer relays one chat message to a model as a stream of events.
type ChatStreamer interface {
	Stream(ctx context.Context, message string, emit relay.Emitter) error
}

// ChatHandler serves the chat relay as server-sent events.
type ChatHandler struct {
	streamer ChatStreamer
	logger   *slog.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(streamer ChatStreamer, logger *slog.Logger) *ChatHandler {
	if streamer == nil {
		panic("streamer cannot be nil for ChatHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ChatHandler")
	}
	return &ChatHandler{
		streamer: streamer,
		logger:   logger.With(slog.String("component", "chat_handler")),
	}
}

// ChatStream handles POST /api/chat-stream.
//
// A missing message is answered with a JSON 400 before any stream starts.
// Otherwise every event is written as one "data:" frame and flushed, and the
// stream always ends with exactly one event whose done flag is set.
func (h *ChatHandler) ChatStream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ChatRequest
	if err := shared.DecodeJSON(r, &req); err != nil && !errors.Is(err, shared.ErrEmptyBody) {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Message is required")
		return
	}

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	emit := func(ev relay.Event) error {
		payload, err := json.Marshal(ev)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
			return err
		}
		if err := rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
			return err
		}
		return nil
	}

	if err := h.streamer.Stream(r.Context(), req.Message, emit); err != nil {
		// the client is gone; nothing more can be written
		log.Warn("chat stream ended early", slog.String("error", redact.Error(err)))
	}
}
