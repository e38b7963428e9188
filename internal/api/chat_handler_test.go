package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedCompleter streams chunks and then returns err.
type scriptedCompleter struct {
	chunks []string
	err    error
	got    string
}

func (c *scriptedCompleter) Complete(_ context.Context, prompt string, onChunk func(string) error) error {
	c.got = prompt
	for _, chunk := range c.chunks {
		if err := onChunk(chunk); err != nil {
			return err
		}
	}
	return c.err
}

func newChatHandler(t *testing.T, completer relay.Completer) *ChatHandler {
	t.Helper()
	_, log := logger.NewTestLogger(t)
	return NewChatHandler(relay.NewRelay(completer, relay.Options{Upstream: "Ollama"}, log), log)
}

func postChat(h *ChatHandler, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, "/api/chat-stream", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ChatStream(w, r)
	return w
}

// sseEvents splits an event-stream body into its decoded data payloads.
func sseEvents(t *testing.T, body string) []map[string]any {
	t.Helper()
	var events []map[string]any
	for _, frame := range strings.Split(strings.TrimSuffix(body, "\n\n"), "\n\n") {
		require.True(t, strings.HasPrefix(frame, "data: "), "frame %q", frame)
		var ev map[string]any
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(frame, "data: ")), &ev))
		events = append(events, ev)
	}
	return events
}

func TestChatStreamRelaysChunks(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{chunks: []string{"Hel", "", "lo"}}
	w := postChat(newChatHandler(t, completer), `{"message":"Say hello"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.True(t, w.Flushed)
	assert.Equal(t, "Say hello", completer.got)

	events := sseEvents(t, w.Body.String())
	require.Len(t, events, 3)
	assert.Equal(t, map[string]any{"content": "Hel", "fullResponse": "Hel", "done": false}, events[0])
	assert.Equal(t, map[string]any{"content": "lo", "fullResponse": "Hello", "done": false}, events[1])
	assert.Equal(t, map[string]any{"content": "", "fullResponse": "Hello", "done": true}, events[2])
}

func TestChatStreamUpstreamFailure(t *testing.T) {
	t.Parallel()

	completer := &scriptedCompleter{
		chunks: []string{"partial"},
		err:    errors.New("connection reset talking to http://gpu-box.lab.example:11434"),
	}
	w := postChat(newChatHandler(t, completer), `{"message":"hi"}`)

	require.Equal(t, http.StatusOK, w.Code)
	events := sseEvents(t, w.Body.String())
	require.Len(t, events, 2)

	last := events[1]
	assert.Equal(t, "Error talking to Ollama", last["error"])
	assert.Equal(t, true, last["done"])
	assert.NotContains(t, last["detail"], "gpu-box.lab.example")

	terminal := 0
	for _, ev := range events {
		if ev["done"] == true {
			terminal++
		}
	}
	assert.Equal(t, 1, terminal, "exactly one terminal event")
}

func TestChatStreamRejectsMissingMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{"empty body", "", "Message is required"},
		{"no message field", `{}`, "Message is required"},
		{"blank message", `{"message":"   "}`, "Message is required"},
		{"malformed json", `{"message":`, "Invalid request format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			completer := &scriptedCompleter{}
			w := postChat(newChatHandler(t, completer), tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, `{"error":"`+tt.wantMessage+`"}`, w.Body.String())
			assert.Empty(t, completer.got, "upstream is not called")
		})
	}
}

func TestNewChatHandlerPanicsOnNil(t *testing.T) {
	t.Parallel()

	_, log := logger.NewTestLogger(t)
	assert.Panics(t, func() { NewChatHandler(nil, log) })
	assert.Panics(t, func() { NewChatHandler(&relay.Relay{}, nil) })
}
