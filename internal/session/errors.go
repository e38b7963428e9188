package session

import "errors"

var (
	// ErrNoItems is returned when an operation needs a current item but the session is empty.
	ErrNoItems = errors.New("session has no items")

	// ErrSessionComplete is returned when every item of the session has been rated.
	ErrSessionComplete = errors.New("session is complete")

	// ErrInvalidSelection is returned when a selection is missing or not one of the item's options.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrWrongKind is returned when an operation does not apply to the current item's kind.
	ErrWrongKind = errors.New("operation not supported for this item kind")

	// ErrNotRevealed is returned when rating or continuing before the answer is revealed.
	ErrNotRevealed = errors.New("answer has not been revealed")

	// ErrAlreadyRevealed is returned when changing a selection after the answer is revealed.
	ErrAlreadyRevealed = errors.New("answer already revealed")
)
