// Package ollama provides a relay.Completer backed by a local Ollama server,
// using the official Ollama API client in streaming chat mode.
package ollama
