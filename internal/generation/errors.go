package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrInsufficientContent is returned when the text contains no sentence
	// long enough to build an item from.
	ErrInsufficientContent = errors.New("cannot generate: text has no usable sentences")

	// ErrInvalidRequest is returned when no kinds are requested or the count is not positive.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrGenerationFailed is returned when an item cannot be built from a chosen sentence.
	ErrGenerationFailed = errors.New("failed to generate items from text")
)
