package types

import (
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Submission describes one document handed to the pipeline for processing.
type Submission struct {
	SubmissionID string `json:"submission_id,omitempty" validate:"omitempty,uuid4"`
	Path         string `json:"path" validate:"required"`
	SourceTitle  string `json:"source_title,omitempty"`
	SourceURL    string `json:"source_url,omitempty" validate:"omitempty,url"`
	SourceText   string `json:"source_text,omitempty"`
	DryRun       bool   `json:"dry_run,omitempty"`
}

// Validate validates the Submission using the validator.
func (s *Submission) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// EnsureID fills in a fresh submission UUID when none was supplied and
// returns the effective id.
func (s *Submission) EnsureID() string {
	if s.SubmissionID == "" {
		s.SubmissionID = uuid.NewString()
	}
	return s.SubmissionID
}
