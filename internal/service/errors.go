package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/extract"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/session"
)

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is; the API layer maps them to HTTP status codes.
var (
	// ErrDocumentNotFound indicates the learner has no document with the given ID.
	// API layer should map this to HTTP 404 Not Found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidLearner indicates a missing learner identity.
	ErrInvalidLearner = errors.New("invalid learner")
)

// expected lists errors that describe a bad request rather than a failure.
// They are returned to callers unwrapped.
var expected = []error{
	ErrDocumentNotFound,
	ErrInvalidLearner,
	domain.ErrValidation,
	domain.ErrDocumentNameEmpty,
	domain.ErrDocumentTextEmpty,
	srs.ErrInvalidRating,
	generation.ErrInsufficientContent,
	generation.ErrInvalidRequest,
	extract.ErrUnsupportedKind,
	extract.ErrCorruptDocument,
	extract.ErrNoText,
	session.ErrNoItems,
	session.ErrSessionComplete,
	session.ErrInvalidSelection,
	session.ErrWrongKind,
	session.ErrNotRevealed,
	session.ErrAlreadyRevealed,
}

// StudyServiceError wraps unexpected errors from the study service with context.
type StudyServiceError struct {
	// Operation is the operation that failed (e.g., "upload_document", "generate")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for StudyServiceError.
func (e *StudyServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("study service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("study service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StudyServiceError) Unwrap() error {
	return e.Err
}

// NewStudyServiceError creates a new StudyServiceError.
// It returns known sentinel errors directly without wrapping.
func NewStudyServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}
	for _, target := range expected {
		if errors.Is(err, target) {
			return err
		}
	}
	return &StudyServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
