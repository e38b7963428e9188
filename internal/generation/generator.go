package generation

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-study/internal/domain"
)

// Request describes one generation batch.
type Request struct {
	// Text is the raw document text.
	Text string

	// Kinds are the item kinds to produce. Duplicates are ignored.
	Kinds []domain.ItemKind

	// Count is the target number of items across all kinds.
	Count int

	// DocumentID links the generated items back to their source document.
	DocumentID uuid.UUID
}

// Generator defines the interface for generating quiz items from text.
type Generator interface {
	// Generate produces a batch of quiz items. Every item in the result shares
	// the same batch ID.
	//
	// Returns ErrInvalidRequest for an empty kind set or a non-positive count,
	// and ErrInsufficientContent when the text yields no usable sentence.
	Generate(ctx context.Context, req Request) ([]domain.QuizItem, error)
}
