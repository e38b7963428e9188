// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyContent is returned when required content is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrInvalidItemKind is returned when a quiz item kind is not one of the known kinds.
	ErrInvalidItemKind = errors.New("invalid item kind")

	// ErrInvalidDifficulty is returned when a difficulty label is not known.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidDocumentKind is returned when a document kind is not pdf or text.
	ErrInvalidDocumentKind = errors.New("invalid document kind")

	// ErrInvalidSchedule is returned when scheduling state violates its bounds.
	ErrInvalidSchedule = errors.New("invalid scheduling state")
)
