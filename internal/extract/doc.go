// Package extract turns uploaded files into plain text for item generation.
//
// Only PDF and plain text uploads are accepted. Anything else is rejected with
// ErrUnsupportedKind before it reaches the generator.
package extract
