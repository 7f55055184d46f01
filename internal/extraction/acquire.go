// Package extraction turns documents of unknown format into plain text via
// an ordered chain of acquisition strategies, and carries any container
// metadata the format embeds (DOCX core properties) for the citation merge.
package extraction

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Acceptance thresholds for acquisition strategies. The primary structured
// reader must clear a higher bar; later strategies are last resort and are
// accepted at a much lower one.
const (
	MinPrimaryChars  = 500
	MinFallbackChars = 50
)

// ContainerMetadata holds title/author/subject fields embedded in the
// document container itself (currently DOCX core properties). Text-derived
// citation data always takes precedence over these.
type ContainerMetadata struct {
	Title   string
	Author  string
	Subject string
}

// Document is the transient raw input of one pipeline run.
type Document struct {
	Path    string
	Format  string // lowercase extension without the dot
	Content []byte
}

// ReadDocument loads a file into a Document with its format tag.
func ReadDocument(path string) (*Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &ExtractionError{Path: path, Message: "read file", Cause: err}
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	return &Document{Path: path, Format: format, Content: content}, nil
}

// AcquireText extracts plain text from a document, trying strategies in
// priority order for the document's format. The returned text is already
// cleaned. Failure of every strategy yields an *ExtractionError.
func AcquireText(doc *Document) (string, *ContainerMetadata, error) {
	switch doc.Format {
	case "pdf":
		text, err := acquirePDFText(doc)
		if err != nil {
			return "", nil, err
		}
		return CleanText(text), nil, nil
	case "docx":
		text, meta, err := extractDOCX(doc.Content)
		if err != nil {
			return "", nil, &ExtractionError{Path: doc.Path, Message: "docx extraction", Cause: err}
		}
		if len(strings.TrimSpace(text)) < MinFallbackChars {
			return "", nil, &ExtractionError{Path: doc.Path, Message: fmt.Sprintf("docx text below %d characters", MinFallbackChars)}
		}
		return CleanText(text), meta, nil
	case "html", "htm":
		text, err := extractHTML(doc.Content)
		if err != nil {
			return "", nil, &ExtractionError{Path: doc.Path, Message: "html extraction", Cause: err}
		}
		if len(strings.TrimSpace(text)) < MinFallbackChars {
			return "", nil, &ExtractionError{Path: doc.Path, Message: fmt.Sprintf("html text below %d characters", MinFallbackChars)}
		}
		return CleanText(text), nil, nil
	case "txt", "md":
		text := string(doc.Content)
		if len(strings.TrimSpace(text)) < MinFallbackChars {
			return "", nil, &ExtractionError{Path: doc.Path, Message: fmt.Sprintf("text below %d characters", MinFallbackChars)}
		}
		return CleanText(text), nil, nil
	default:
		// Best-effort lossy decode for unknown binary formats.
		limit := len(doc.Content)
		if limit > 500000 {
			limit = 500000
		}
		text := strings.ToValidUTF8(string(doc.Content[:limit]), "")
		if len(strings.TrimSpace(text)) < MinFallbackChars {
			return "", nil, &ExtractionError{Path: doc.Path, Message: fmt.Sprintf("unsupported format %q", doc.Format)}
		}
		return CleanText(text), nil, nil
	}
}

// AcquireTextFromFile is a convenience wrapper combining ReadDocument and
// AcquireText.
func AcquireTextFromFile(path string) (string, *ContainerMetadata, error) {
	doc, err := ReadDocument(path)
	if err != nil {
		return "", nil, err
	}
	return AcquireText(doc)
}
