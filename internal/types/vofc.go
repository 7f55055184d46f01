// Package types defines the core domain records shared across the VOFC
// extraction pipeline: vulnerabilities, options for consideration, sources,
// and the per-run result envelope.
package types

// Vulnerability is a described facility weakness extracted from a document.
// ID is minted once when the record is first accepted by the merger and is
// immutable afterwards.
type Vulnerability struct {
	ID           string `json:"id"`
	SubmissionID string `json:"submission_id,omitempty"`
	Question     string `json:"question,omitempty"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	What         string `json:"what,omitempty"`
	SoWhat       string `json:"so_what,omitempty"`
	Sector       string `json:"sector,omitempty"`
	Subsector    string `json:"subsector,omitempty"`
	Discipline   string `json:"discipline,omitempty"`
	Category     string `json:"category,omitempty"`
	Severity     string `json:"severity,omitempty"`
	Source       string `json:"source,omitempty"`
}

// DedupKey returns the text the merger compares when deciding whether two
// extracted vulnerabilities are the same record: the question when present,
// the title otherwise.
func (v Vulnerability) DedupKey() string {
	if v.Question != "" {
		return v.Question
	}
	return v.Title
}

// OptionForConsideration is a single actionable mitigation tied to a
// vulnerability. After orphan resolution VulnerabilityID always references a
// vulnerability present in the same result set.
type OptionForConsideration struct {
	ID              string  `json:"id"`
	SubmissionID    string  `json:"submission_id,omitempty"`
	VulnerabilityID string  `json:"vulnerability_id"`
	Title           string  `json:"title"`
	Description     string  `json:"description,omitempty"`
	Discipline      string  `json:"discipline,omitempty"`
	Confidence      float64 `json:"confidence"`
	Source          string  `json:"source,omitempty"`
}

// Source is provenance metadata describing where extracted facts originated.
// Sources are deduplicated by the (Title, URL, SourceText) tuple.
type Source struct {
	ID              string   `json:"id"`
	SubmissionID    string   `json:"submission_id,omitempty"`
	Title           string   `json:"title"`
	Authors         []string `json:"authors,omitempty"`
	Organization    string   `json:"organization,omitempty"`
	PublicationDate string   `json:"publication_date,omitempty"`
	DocumentNumber  string   `json:"document_number,omitempty"`
	URL             string   `json:"url,omitempty"`
	SourceText      string   `json:"source_text,omitempty"`
}

// Key returns the deduplication tuple for a source.
func (s Source) Key() [3]string {
	return [3]string{s.Title, s.URL, s.SourceText}
}

// Segment is a (category, vulnerability, OFC block) triple produced by
// segmentation.
type Segment struct {
	Category      string
	Vulnerability string
	OFCBlock      string
}

// LearnedLink is one entry of the reinforcement memory: a previously
// confirmed vulnerability↔OFC association with its similarity score. The
// memory is an append-only log shared across runs.
type LearnedLink struct {
	Vulnerability string  `json:"vulnerability"`
	OFC           string  `json:"ofc"`
	Similarity    float64 `json:"similarity"`
	Reinforced    bool    `json:"reinforced,omitempty"`
}

// LinkCounts summarizes the derived link records of a run. Both counts are
// reconstructible from the OFC records themselves.
type LinkCounts struct {
	VulnOFC    int `json:"vuln_ofc"`
	OFCSources int `json:"ofc_sources"`
}

// Result is the JSON-serializable pipeline output handed back to the caller.
type Result struct {
	SubmissionID    string                   `json:"submission_id"`
	Vulnerabilities []Vulnerability          `json:"vulnerabilities"`
	OFCs            []OptionForConsideration `json:"ofcs"`
	Links           LinkCounts               `json:"links"`
	Sources         []Source                 `json:"sources"`
	TimingSec       float64                  `json:"timing_sec"`
}
