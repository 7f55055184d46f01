package parsing

import "fmt"

// InferenceError represents a failure of one model on one chunk. The
// extractor treats these as recoverable: the contribution is dropped and
// the remaining chunk/model pairs continue.
type InferenceError struct {
	Model   string
	Chunk   int
	Message string
	Cause   error
}

func (e *InferenceError) Error() string {
	msg := fmt.Sprintf("inference failed (model=%s, chunk=%d): %s", e.Model, e.Chunk, e.Message)
	if e.Cause != nil {
		msg += fmt.Sprintf(" (%v)", e.Cause)
	}
	return msg
}

func (e *InferenceError) Unwrap() error {
	return e.Cause
}
