package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document validation errors
var (
	// ErrDocumentNameEmpty is returned when a document has no name.
	ErrDocumentNameEmpty = errors.New("document name cannot be empty")

	// ErrDocumentTextEmpty is returned when a document carries no extracted text.
	ErrDocumentTextEmpty = errors.New("document text cannot be empty")
)

// DocumentKind is the source format of an uploaded document.
type DocumentKind string

const (
	DocumentKindPDF  DocumentKind = "pdf"
	DocumentKindText DocumentKind = "text"
)

// IsValid reports whether k is a supported document kind.
func (k DocumentKind) IsValid() bool {
	return k == DocumentKindPDF || k == DocumentKindText
}

// Document is source material uploaded by a learner.
type Document struct {
	ID               uuid.UUID    `json:"id"`
	Name             string       `json:"name"`
	Kind             DocumentKind `json:"kind"`
	RawText          string       `json:"raw_text"`
	PageCount        int          `json:"page_count"`
	UploadedAt       time.Time    `json:"uploaded_at"`
	DerivedItemCount int          `json:"derived_item_count"`
}

// NewDocument creates a Document from extracted text.
// A page count below 1 is recorded as a single page.
func NewDocument(name string, kind DocumentKind, rawText string, pageCount int, now time.Time) (Document, error) {
	if pageCount < 1 {
		pageCount = 1
	}
	doc := Document{
		ID:         uuid.New(),
		Name:       strings.TrimSpace(name),
		Kind:       kind,
		RawText:    rawText,
		PageCount:  pageCount,
		UploadedAt: now.UTC(),
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Validate checks if the Document has valid data.
func (d Document) Validate() error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("%w: document ID", ErrInvalidID)
	}
	if d.Name == "" {
		return ErrDocumentNameEmpty
	}
	if !d.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidDocumentKind, d.Kind)
	}
	if strings.TrimSpace(d.RawText) == "" {
		return ErrDocumentTextEmpty
	}
	return nil
}
