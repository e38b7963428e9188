package relay

import "errors"

var (
	// ErrEmptyMessage is returned when the learner message is blank.
	ErrEmptyMessage = errors.New("message is required")

	// ErrInvalidConfig is returned when an upstream adapter is misconfigured.
	ErrInvalidConfig = errors.New("invalid relay configuration")

	// ErrContentBlocked is returned when the upstream model refuses to answer.
	// It is never retried.
	ErrContentBlocked = errors.New("content blocked by upstream safety filters")

	// ErrInvalidResponse is returned when the upstream reply cannot be understood.
	ErrInvalidResponse = errors.New("invalid response from upstream model")

	// ErrTransientFailure is returned when the upstream call failed in a way
	// that may succeed on a later attempt.
	ErrTransientFailure = errors.New("transient upstream failure")
)

// isPermanent reports whether retrying err cannot help.
func isPermanent(err error) bool {
	return errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, ErrInvalidResponse) ||
		errors.Is(err, ErrInvalidConfig)
}
