package extract

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"
	"github.com/phrazzld/scry-study/internal/domain"
)

const mimePDF = "application/pdf"

// Extraction is the text content of an uploaded file.
type Extraction struct {
	Kind      domain.DocumentKind
	Text      string
	PageCount int
}

// Extract reads the text out of data. The kind is decided by the file
// extension first and the sniffed content type second.
func Extract(filename string, data []byte) (Extraction, error) {
	if len(data) == 0 {
		return Extraction{}, ErrNoText
	}

	kind, err := detectKind(filename, data)
	if err != nil {
		return Extraction{}, err
	}

	switch kind {
	case domain.DocumentKindPDF:
		return extractPDF(data)
	default:
		return extractText(data)
	}
}

func detectKind(filename string, data []byte) (domain.DocumentKind, error) {
	detected := mimetype.Detect(data)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		if !detected.Is(mimePDF) {
			return "", fmt.Errorf("%w: %s is not a PDF", ErrCorruptDocument, filepath.Base(filename))
		}
		return domain.DocumentKindPDF, nil
	case ".txt", ".text":
		return domain.DocumentKindText, nil
	case "":
		// fall through to sniffing
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, filepath.Ext(filename))
	}

	switch {
	case detected.Is(mimePDF):
		return domain.DocumentKindPDF, nil
	case detected.Is("text/plain"):
		return domain.DocumentKindText, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, detected.String())
	}
}

func extractText(data []byte) (Extraction, error) {
	if !utf8.Valid(data) {
		return Extraction{}, fmt.Errorf("%w: text is not valid UTF-8", ErrCorruptDocument)
	}
	text := strings.TrimSpace(string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	if text == "" {
		return Extraction{}, ErrNoText
	}
	return Extraction{Kind: domain.DocumentKindText, Text: text, PageCount: 1}, nil
}

// extractPDF concatenates the plain text of every page. The pdf reader panics
// on some malformed inputs, so panics are turned into ErrCorruptDocument.
func extractPDF(data []byte) (ext Extraction, err error) {
	defer func() {
		if r := recover(); r != nil {
			ext = Extraction{}
			err = fmt.Errorf("%w: %v", ErrCorruptDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %w", ErrCorruptDocument, err)
	}

	pages := reader.NumPage()
	var sb strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Extraction{}, fmt.Errorf("%w: page %d: %w", ErrCorruptDocument, i, err)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.TrimSpace(text))
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return Extraction{}, ErrNoText
	}
	return Extraction{Kind: domain.DocumentKindPDF, Text: text, PageCount: max(pages, 1)}, nil
}
