// Package relay forwards a single learner message to a language model and
// streams the reply back chunk by chunk.
//
// The upstream model is hidden behind the Completer interface; adapters for
// Gemini and Ollama live under internal/platform. Relay owns the event shape
// seen by clients and guarantees that every stream ends with exactly one
// terminal event, whether the upstream call succeeded or not.
package relay
