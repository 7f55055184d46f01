package extraction

import "fmt"

// ExtractionError indicates that no acquisition strategy produced usable
// text for a document. It is fatal for that document.
type ExtractionError struct {
	Path    string
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("text extraction failed for %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("text extraction failed for %s: %s", e.Path, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
