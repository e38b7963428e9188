package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-study/internal/api/shared"
	"github.com/phrazzld/scry-study/internal/domain"
	"github.com/phrazzld/scry-study/internal/domain/srs"
	"github.com/phrazzld/scry-study/internal/extract"
	"github.com/phrazzld/scry-study/internal/generation"
	"github.com/phrazzld/scry-study/internal/service"
	"github.com/phrazzld/scry-study/internal/service/auth"
	"github.com/phrazzld/scry-study/internal/session"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so that
// internal error types never reach clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidLearner):
		return http.StatusUnauthorized

	// Not found errors
	case errors.Is(err, service.ErrDocumentNotFound):
		return http.StatusNotFound

	// Unsupported uploads
	case errors.Is(err, extract.ErrUnsupportedKind):
		return http.StatusUnsupportedMediaType

	// Readable request, unusable content
	case errors.Is(err, extract.ErrCorruptDocument),
		errors.Is(err, extract.ErrNoText),
		errors.Is(err, domain.ErrDocumentTextEmpty),
		errors.Is(err, generation.ErrInsufficientContent):
		return http.StatusUnprocessableEntity

	// Session state conflicts
	case errors.Is(err, session.ErrInvalidSelection),
		errors.Is(err, session.ErrNotRevealed),
		errors.Is(err, session.ErrAlreadyRevealed),
		errors.Is(err, session.ErrWrongKind),
		errors.Is(err, session.ErrSessionComplete),
		errors.Is(err, session.ErrNoItems):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidItemKind),
		errors.Is(err, domain.ErrDocumentNameEmpty),
		errors.Is(err, generation.ErrInvalidRequest),
		errors.Is(err, srs.ErrInvalidRating):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that leaks no
// internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidLearner):
		return "Invalid token"

	case errors.Is(err, service.ErrDocumentNotFound):
		return "Document not found"

	case errors.Is(err, extract.ErrUnsupportedKind):
		return "Unsupported document type: upload a PDF or plain text file"
	case errors.Is(err, extract.ErrCorruptDocument):
		return "Document could not be read"
	case errors.Is(err, extract.ErrNoText),
		errors.Is(err, domain.ErrDocumentTextEmpty):
		return "Document contains no text"
	case errors.Is(err, generation.ErrInsufficientContent):
		return "cannot generate: the document has no usable sentences"

	case errors.Is(err, session.ErrInvalidSelection):
		return "Invalid selection"
	case errors.Is(err, session.ErrNotRevealed):
		return "Answer has not been revealed"
	case errors.Is(err, session.ErrAlreadyRevealed):
		return "Answer already revealed"
	case errors.Is(err, session.ErrWrongKind):
		return "Operation not supported for the current item"
	case errors.Is(err, session.ErrSessionComplete):
		return "Session is complete"
	case errors.Is(err, session.ErrNoItems):
		return "No study materials"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrInvalidItemKind):
		return "Invalid item kind"
	case errors.Is(err, domain.ErrDocumentNameEmpty):
		return "Document name is required"
	case errors.Is(err, generation.ErrInvalidRequest):
		return "Invalid generation request"
	case errors.Is(err, srs.ErrInvalidRating):
		return "Invalid rating"
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. defaultMsg
// replaces the generic message of internal errors.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	msg := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && defaultMsg != "" {
		msg = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, msg, err)
}

// SanitizeValidationError turns a validator error into a short message naming
// the first offending field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	fe := fieldErrs[0]
	field := strings.ToLower(fe.Field())
	if fe.Tag() == "" {
		return "Invalid " + field
	}
	return "Invalid " + field + ": " + getValidationTagMessage(fe.Tag())
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gte":
		return "too small"
	case "max", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
