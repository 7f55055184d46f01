package segmentation

import (
	"regexp"
	"strings"

	"github.com/frostline/vofc-engine/internal/extraction"
)

var (
	bulletLineRe  = regexp.MustCompile(`^\s*[\-\*••]\s+`)
	inlineSplitRe = regexp.MustCompile(`\s+[\-\*••]\s+`)
	actionVerbRe  = regexp.MustCompile(`(?i)\b(implement|develop|establish|conduct|train|install|test|exercise|coordinate|provide)\b`)
	sourceLineRe  = regexp.MustCompile(`(?i)^source\b[:：]`)
	sourceLabelRe = regexp.MustCompile(`(?i)\bSource\b[:：]`)
	urlRe         = regexp.MustCompile(`(?i)https?://`)
)

// ExtractOFCLines selects OFC candidates from an OFC block. A candidate line
// either carries a leading bullet glyph or contains an action verb; "Source:"
// lines are never candidates. Action-verb candidates must have at least 4
// words to weed out stray table fragments; bullet-marked lines are taken at
// 2 because the author already marked them as list items. Bullet glyphs
// appearing mid-line split the line into separate candidates, a layout PDF
// extraction produces constantly.
func ExtractOFCLines(block string) []string {
	var candidates []string
	for _, line := range strings.Split(block, "\n") {
		bulleted := bulletLineRe.MatchString(line)
		pieces := inlineSplitRe.Split(line, -1)
		for i, piece := range pieces {
			cleaned := extraction.CleanFragment(piece)
			if cleaned == "" || sourceLineRe.MatchString(cleaned) {
				continue
			}
			words := len(strings.Fields(cleaned))
			switch {
			case (bulleted || i > 0) && words >= 2:
				candidates = append(candidates, cleaned)
			case actionVerbRe.MatchString(cleaned) && words >= 4:
				candidates = append(candidates, cleaned)
			}
		}
	}
	return candidates
}

// ExtractSourceLines collects "Source:" and URL-bearing lines from document
// text, order-preserving and deduplicated. These seed the submission's
// source records when the caller supplied none.
func ExtractSourceLines(text string) []string {
	seen := make(map[string]bool)
	var hits []string
	for _, line := range strings.Split(text, "\n") {
		if !sourceLabelRe.MatchString(line) && !urlRe.MatchString(line) {
			continue
		}
		cleaned := extraction.CleanFragment(line)
		if cleaned == "" || seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		hits = append(hits, cleaned)
	}
	return hits
}
