package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ollama/ollama/api"
	"github.com/phrazzld/scry-study/internal/config"
	"github.com/phrazzld/scry-study/internal/platform/logger"
	"github.com/phrazzld/scry-study/internal/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCompleter(t *testing.T, handler http.HandlerFunc) *OllamaCompleter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	_, log := logger.NewTestLogger(t)
	c, err := NewOllamaCompleter(log, config.LLMConfig{OllamaURL: srv.URL, OllamaModel: "llama3.1"}, srv.Client())
	require.NoError(t, err)
	return c
}

func writeChunks(w http.ResponseWriter, chunks ...string) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	for _, c := range chunks {
		line, _ := json.Marshal(api.ChatResponse{
			Model:   "llama3.1",
			Message: api.Message{Role: "assistant", Content: c},
		})
		fmt.Fprintf(w, "%s\n", line)
	}
	done, _ := json.Marshal(api.ChatResponse{Model: "llama3.1", Done: true, DoneReason: "stop"})
	fmt.Fprintf(w, "%s\n", done)
}

func TestCompleteStreamsChunks(t *testing.T) {
	t.Parallel()

	var got api.ChatRequest
	c := newTestCompleter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeChunks(w, "Mito", "", "chondria")
	})

	var chunks []string
	err := c.Complete(context.Background(), "What is the powerhouse of the cell?", func(s string) error {
		chunks = append(chunks, s)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Mito", "chondria"}, chunks)
	assert.Equal(t, "llama3.1", got.Model)
	require.NotNil(t, got.Stream)
	assert.True(t, *got.Stream)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "What is the powerhouse of the cell?", got.Messages[0].Content)
}

func TestCompleteCallbackError(t *testing.T) {
	t.Parallel()

	c := newTestCompleter(t, func(w http.ResponseWriter, _ *http.Request) {
		writeChunks(w, "one", "two")
	})

	stop := errors.New("client gone")
	var calls int
	err := c.Complete(context.Background(), "hi", func(string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestCompleteUpstreamErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "error line",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				fmt.Fprintln(w, `{"error":"model runner crashed"}`)
			},
			wantErr: relay.ErrTransientFailure,
		},
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintln(w, `{}`)
			},
			wantErr: relay.ErrTransientFailure,
		},
		{
			name: "missing model",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprintln(w, `{}`)
			},
			wantErr: relay.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestCompleter(t, tt.handler)
			err := c.Complete(context.Background(), "hi", func(string) error { return nil })
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompleteUnreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, log := logger.NewTestLogger(t)
	c, err := NewOllamaCompleter(log, config.LLMConfig{OllamaURL: url, OllamaModel: "llama3.1"}, nil)
	require.NoError(t, err)

	err = c.Complete(context.Background(), "hi", func(string) error { return nil })
	assert.ErrorIs(t, err, relay.ErrTransientFailure)
}

func TestNewOllamaCompleterValidation(t *testing.T) {
	t.Parallel()

	_, log := logger.NewTestLogger(t)

	_, err := NewOllamaCompleter(nil, config.LLMConfig{OllamaURL: "http://localhost:11434", OllamaModel: "m"}, nil)
	assert.Error(t, err)

	_, err = NewOllamaCompleter(log, config.LLMConfig{OllamaURL: "http://localhost:11434"}, nil)
	assert.ErrorIs(t, err, relay.ErrInvalidConfig)

	_, err = NewOllamaCompleter(log, config.LLMConfig{OllamaURL: "localhost", OllamaModel: "m"}, nil)
	assert.ErrorIs(t, err, relay.ErrInvalidConfig)
}
