package types

// ExtractedRecord is the canonical shape every model response is normalized
// into before merging, regardless of whether the model returned an object, a
// bare string, or a list. One record describes one vulnerability with its
// nested options.
type ExtractedRecord struct {
	Question      string            `json:"question,omitempty"`
	Vulnerability string            `json:"vulnerability"`
	What          string            `json:"what,omitempty"`
	SoWhat        string            `json:"so_what,omitempty"`
	Sector        string            `json:"sector,omitempty"`
	Subsector     string            `json:"subsector,omitempty"`
	Discipline    string            `json:"discipline,omitempty"`
	Category      string            `json:"category,omitempty"`
	Severity      string            `json:"severity,omitempty"`
	Options       []ExtractedOption `json:"options_for_consideration,omitempty"`
}

// ExtractedOption is one option-for-consideration nested under an extracted
// vulnerability.
type ExtractedOption struct {
	Text        string `json:"option_text"`
	Description string `json:"description,omitempty"`
}

// DedupKey returns the merger's comparison text for the record.
func (r ExtractedRecord) DedupKey() string {
	if r.Question != "" {
		return r.Question
	}
	return r.Vulnerability
}
