// Package citations pulls provenance metadata (title, authors,
// organization, date, document number, URL) out of a document's header
// region with layered heuristics, merging in container metadata only
// where the text yielded nothing.
package citations

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/frostline/vofc-engine/internal/extraction"
	"github.com/frostline/vofc-engine/internal/types"
)

// Header-region bounds. Citation data lives on the cover page, so scanning
// deeper than this only picks up false positives.
const (
	headerRegionLen = 10000
	detailRegionLen = 3000
	urlRegionLen    = 5000
)

const (
	titleMinLen = 10
	titleMaxLen = 200
)

var (
	authorLabelRe = regexp.MustCompile(`(?im)^\s*(?:Author[s]?|By|Prepared\s+by|Written\s+by)\s*[:\-]\s*(.+)$`)
	// A candidate name never spans lines; the separator deliberately
	// excludes newlines so the last word of one sentence and the first of
	// the next are not glued into a "name".
	properNamesRe = regexp.MustCompile(`\b([A-Z][a-z]+[^\S\n]+[A-Z][a-z]+(?:[^\S\n]+[A-Z][a-z]+)?)\b`)

	orgPatternRe = regexp.MustCompile(`\b((?:U\.?S\.? )?(?:Department|Office|Bureau|Agency|Administration|Division|Directorate) of [A-Z][A-Za-z& ]{2,60}|[A-Z][A-Za-z& ]{2,60} (?:Agency|Administration|Authority|Commission|Department|Institute))\b`)

	dateLabelRe = regexp.MustCompile(`(?im)^\s*(?:Date|Published|Publication\s+Date|Released)\s*[:\-]\s*(.+)$`)
	monthDateRe = regexp.MustCompile(`\b(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2},?\s+\d{4}\b`)
	slashDateRe = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)

	docNumberRe = regexp.MustCompile(`(?i)\b(?:Report|Document|Publication|Pub\.?|Assessment)\s*(?:No\.?|Number|#)\s*[:\s]?\s*([A-Z0-9][A-Z0-9\-\.\/]{1,30})`)

	urlRe = regexp.MustCompile(`https?://[^\s<>"')\]]+`)
)

// knownOrgs is a small set of acronyms that appear on assessment cover
// pages without the full agency name.
var knownOrgs = []string{"CISA", "DHS", "FBI", "FEMA", "TSA", "NIST", "FPS", "INFRAGARD", "ISC"}

// Extract derives a Source record from document text and optional container
// metadata. Text-derived fields always win; container metadata only fills
// fields the text heuristics left empty.
func Extract(text string, meta *extraction.ContainerMetadata) types.Source {
	header := clip(text, headerRegionLen)
	detail := clip(header, detailRegionLen)

	title := extractTitle(header)
	source := types.Source{
		ID:              uuid.New().String(),
		Title:           title,
		Authors:         extractAuthors(detail, title),
		Organization:    extractOrganization(detail),
		PublicationDate: extractDate(detail),
		DocumentNumber:  extractDocNumber(header),
		URL:             extractURL(clip(text, urlRegionLen)),
	}

	if meta != nil {
		if source.Title == "" {
			source.Title = strings.TrimSpace(meta.Title)
		}
		if len(source.Authors) == 0 && strings.TrimSpace(meta.Author) != "" {
			source.Authors = []string{strings.TrimSpace(meta.Author)}
		}
		if source.Organization == "" {
			source.Organization = strings.TrimSpace(meta.Subject)
		}
	}

	source.SourceText = composeSourceText(source)
	return source
}

// extractTitle returns the first plausible title line: capitalized, between
// the length bounds, and not a label or URL line.
func extractTitle(header string) string {
	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < titleMinLen || len(line) > titleMaxLen {
			continue
		}
		first := rune(line[0])
		if first < 'A' || first > 'Z' {
			continue
		}
		if strings.Contains(line, "://") || strings.ContainsRune(line, ':') {
			continue
		}
		return line
	}
	return ""
}

func extractAuthors(detail, title string) []string {
	if m := authorLabelRe.FindStringSubmatch(detail); m != nil {
		return splitAuthorList(m[1])
	}
	// No label; fall back to the first two proper-noun names, which on
	// cover pages are usually the authors. Names lifted from the title
	// line or common sentence openings are not authors.
	var authors []string
	for _, name := range properNamesRe.FindAllString(detail, -1) {
		if looksLikeSentenceStart(name) {
			continue
		}
		if title != "" && strings.Contains(title, name) {
			continue
		}
		authors = append(authors, name)
		if len(authors) == 2 {
			break
		}
	}
	return authors
}

// splitAuthorList breaks a labeled author line on commas, semicolons, and
// "and".
func splitAuthorList(raw string) []string {
	raw = strings.ReplaceAll(raw, " and ", ",")
	parts := strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' })
	var authors []string
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// looksLikeSentenceStart filters proper-noun matches that are ordinary
// sentence openings rather than names.
func looksLikeSentenceStart(name string) bool {
	for _, word := range []string{"The ", "This ", "These ", "During ", "Security ", "Options "} {
		if strings.HasPrefix(name, word) {
			return true
		}
	}
	return false
}

func extractOrganization(detail string) string {
	if m := orgPatternRe.FindString(detail); m != "" {
		return strings.TrimSpace(strings.Join(strings.Fields(m), " "))
	}
	upper := strings.ToUpper(detail)
	for _, org := range knownOrgs {
		if containsWord(upper, org) {
			return org
		}
	}
	return ""
}

// containsWord reports whether s contains word bounded by non-letters.
func containsWord(s, word string) bool {
	idx := 0
	for {
		pos := strings.Index(s[idx:], word)
		if pos < 0 {
			return false
		}
		pos += idx
		before := pos - 1
		after := pos + len(word)
		beforeOK := before < 0 || !isLetter(s[before])
		afterOK := after >= len(s) || !isLetter(s[after])
		if beforeOK && afterOK {
			return true
		}
		idx = pos + len(word)
	}
}

func isLetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func extractDate(detail string) string {
	if m := dateLabelRe.FindStringSubmatch(detail); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := monthDateRe.FindString(detail); m != "" {
		return m
	}
	return slashDateRe.FindString(detail)
}

func extractDocNumber(header string) string {
	if m := docNumberRe.FindStringSubmatch(header); m != nil {
		return strings.TrimRight(m[1], ".")
	}
	return ""
}

func extractURL(region string) string {
	return strings.TrimRight(urlRe.FindString(region), ".,;")
}

// composeSourceText builds the human-readable one-line citation.
func composeSourceText(s types.Source) string {
	var parts []string
	if s.Title != "" {
		parts = append(parts, s.Title)
	}
	var tail []string
	if s.Organization != "" {
		tail = append(tail, s.Organization)
	}
	if s.PublicationDate != "" {
		tail = append(tail, s.PublicationDate)
	}
	if len(tail) > 0 {
		parts = append(parts, strings.Join(tail, ", "))
	}
	return strings.Join(parts, " - ")
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
