// Package merge combines per-chunk, per-model extraction results into a
// single deduplicated vulnerability/OFC set. Merging is commutative over
// chunk contributions up to its tie-break rule: when two contributions are
// near-duplicates, whichever was processed first keeps its id and fields,
// which is why callers feed the primary model's results in first.
package merge

import (
	"regexp"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/google/uuid"

	"github.com/frostline/vofc-engine/internal/segmentation"
	"github.com/frostline/vofc-engine/internal/types"
)

// FuzzyThreshold is the normalized similarity above which two vulnerability
// keys are treated as the same record. Exclusive: a pair at exactly the
// threshold stays distinct.
const FuzzyThreshold = 0.8

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeText lower-cases and collapses whitespace for fuzzy comparison.
func NormalizeText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(strings.ToLower(s), " "))
}

// Similarity returns the normalized string-similarity ratio of two texts in
// [0, 1], computed over their normalized forms.
func Similarity(a, b string) float64 {
	return levenshtein.Similarity(NormalizeText(a), NormalizeText(b), nil)
}

// Merged is the deduplicated output of a merge pass.
type Merged struct {
	Vulnerabilities []types.Vulnerability
	OFCs            []types.OptionForConsideration
}

// Merge folds batches of extracted records into a deduplicated set. Batches
// are processed in order; within the defined tie-break, order does not
// affect which vulnerabilities exist, only which contribution names them.
func Merge(batches [][]types.ExtractedRecord, submissionID string) *Merged {
	m := &Merged{}
	acceptedKeys := make([]string, 0) // normalized key per accepted vulnerability
	acceptedIDs := make([]string, 0)  // parallel to acceptedKeys
	seenOFCs := make(map[string]bool) // normalized OFC text
	vulnIndex := make(map[string]int) // id -> index in m.Vulnerabilities

	for _, batch := range batches {
		for _, rec := range batch {
			key := NormalizeText(rec.DedupKey())
			if key == "" {
				continue
			}

			vulnID := ""
			for i, accepted := range acceptedKeys {
				if levenshtein.Similarity(key, accepted, nil) > FuzzyThreshold {
					vulnID = acceptedIDs[i]
					break
				}
			}

			if vulnID == "" {
				vulnID = uuid.NewString()
				acceptedKeys = append(acceptedKeys, key)
				acceptedIDs = append(acceptedIDs, vulnID)
				vulnIndex[vulnID] = len(m.Vulnerabilities)
				m.Vulnerabilities = append(m.Vulnerabilities, buildVulnerability(vulnID, submissionID, rec))
			}

			category := m.Vulnerabilities[vulnIndex[vulnID]].Category
			for _, opt := range rec.Options {
				text := strings.TrimSpace(opt.Text)
				if text == "" {
					continue
				}
				norm := NormalizeText(text)
				if seenOFCs[norm] {
					continue
				}
				seenOFCs[norm] = true
				m.OFCs = append(m.OFCs, types.OptionForConsideration{
					ID:              uuid.NewString(),
					SubmissionID:    submissionID,
					VulnerabilityID: vulnID,
					Title:           text,
					Description:     strings.TrimSpace(opt.Description),
					Discipline:      segmentation.GuessDiscipline(text, category),
				})
			}
		}
	}
	return m
}

// buildVulnerability maps an extracted record onto a Vulnerability, composing
// the human-readable description from whichever narrative fields are present.
func buildVulnerability(id, submissionID string, rec types.ExtractedRecord) types.Vulnerability {
	discipline := strings.TrimSpace(rec.Discipline)
	if discipline == "" {
		discipline = segmentation.GuessDiscipline(rec.Vulnerability+" "+rec.What, rec.Category)
	}

	return types.Vulnerability{
		ID:           id,
		SubmissionID: submissionID,
		Question:     strings.TrimSpace(rec.Question),
		Title:        strings.TrimSpace(rec.Vulnerability),
		Description:  BuildDescription(rec),
		What:         strings.TrimSpace(rec.What),
		SoWhat:       strings.TrimSpace(rec.SoWhat),
		Sector:       strings.TrimSpace(rec.Sector),
		Subsector:    strings.TrimSpace(rec.Subsector),
		Discipline:   discipline,
		Category:     strings.TrimSpace(rec.Category),
		Severity:     strings.TrimSpace(rec.Severity),
	}
}

// BuildDescription concatenates the narrative fields present on a record as
// labeled blocks.
func BuildDescription(rec types.ExtractedRecord) string {
	var blocks []string
	if w := strings.TrimSpace(rec.What); w != "" {
		blocks = append(blocks, "WHAT: "+w)
	}
	if sw := strings.TrimSpace(rec.SoWhat); sw != "" {
		blocks = append(blocks, "SO WHAT: "+sw)
	}
	if len(blocks) == 0 {
		return strings.TrimSpace(rec.Vulnerability)
	}
	return strings.Join(blocks, "\n\n")
}
