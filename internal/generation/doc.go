// Package generation turns the raw text of a document into quiz items.
//
// The generator is a deterministic heuristic over a sentence pool: it needs no
// external service, and all randomness comes from an injected Rand so that
// callers and tests can control the draw.
package generation
