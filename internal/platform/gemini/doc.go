// Package gemini provides a relay.Completer backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it connects the chat relay to
// the external Gemini service without exposing genai types to the rest of
// the application.
//
// Responses are streamed with GenerateContentStream. Each text part is handed
// to the relay as it arrives. Safety blocks are reported as
// relay.ErrContentBlocked, rate limiting and server errors as
// relay.ErrTransientFailure so the relay can decide whether to retry.
package gemini
