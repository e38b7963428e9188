package extract

import "errors"

var (
	// ErrUnsupportedKind is returned for files that are neither PDF nor plain text.
	ErrUnsupportedKind = errors.New("unsupported document type")

	// ErrCorruptDocument is returned when a file claims a supported type but cannot be read.
	ErrCorruptDocument = errors.New("document could not be read")

	// ErrNoText is returned when a readable file contains no extractable text.
	ErrNoText = errors.New("document contains no text")
)
