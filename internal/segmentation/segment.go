// Package segmentation splits assessment text into (category, vulnerability,
// OFC-block) triples and selects OFC candidate lines from a block. Documents
// in the SAFE/IST style announce each weakness with a "Vulnerability ...
// Options for Consideration ..." span, optionally preceded by a
// "Category <name> Vulnerability" table header.
package segmentation

import (
	"regexp"
	"strings"

	"github.com/frostline/vofc-engine/internal/extraction"
	"github.com/frostline/vofc-engine/internal/types"
)

// categoryLookback bounds how far behind a vulnerability marker the category
// header is searched for.
const categoryLookback = 2000

// fallbackVulnTail is how much text before the first "Options for
// Consideration" header is treated as the vulnerability statement when the
// primary span pattern finds nothing.
const fallbackVulnTail = 600

var (
	vulnMarkerRe = regexp.MustCompile(`(?i)Vulnerability`)
	ofcHeaderRe  = regexp.MustCompile(`(?i)Options\s+for\s+Consideration\s*:?`)
	categoryRe   = regexp.MustCompile(`(?is)(?:^|\n)\s*Category\s+([^\n]+?)\s+Vulnerability`)
	blockEndRe   = regexp.MustCompile(`(?i)\n\s*Category\s+`)
)

// Segment splits document text into segments. The primary strategy pairs each
// "Vulnerability" marker with the next "Options for Consideration" header and
// ends the OFC block at the next category header; the fallback (used only
// when the primary finds nothing) splits on the OFC headers alone and treats
// the tail of the preceding text as the vulnerability statement.
func Segment(text string) []types.Segment {
	var segments []types.Segment

	pos := 0
	for pos < len(text) {
		vulnLoc := vulnMarkerRe.FindStringIndex(text[pos:])
		if vulnLoc == nil {
			break
		}
		vulnStart, vulnEnd := pos+vulnLoc[0], pos+vulnLoc[1]

		ofcLoc := ofcHeaderRe.FindStringIndex(text[vulnEnd:])
		if ofcLoc == nil {
			break
		}
		ofcStart, ofcEnd := vulnEnd+ofcLoc[0], vulnEnd+ofcLoc[1]

		blockEnd := len(text)
		if endLoc := blockEndRe.FindStringIndex(text[ofcEnd:]); endLoc != nil {
			blockEnd = ofcEnd + endLoc[0]
		}

		segments = append(segments, types.Segment{
			Category:      categoryFor(text, vulnStart, vulnEnd),
			Vulnerability: extraction.CleanFragment(text[vulnEnd:ofcStart]),
			OFCBlock:      text[ofcEnd:blockEnd],
		})
		pos = blockEnd
	}

	if len(segments) == 0 {
		segments = fallbackSegments(text)
	}
	return segments
}

// categoryFor looks backward from a vulnerability marker, within the bounded
// window, for the nearest "Category <name> Vulnerability" header. The window
// includes the marker itself so a directly attached header ("Category
// Perimeter Vulnerability ...") is recognized. Defaults to "General".
func categoryFor(text string, vulnStart, vulnEnd int) string {
	windowStart := vulnStart - categoryLookback
	if windowStart < 0 {
		windowStart = 0
	}
	matches := categoryRe.FindAllStringSubmatch(text[windowStart:vulnEnd], -1)
	if len(matches) == 0 {
		return "General"
	}
	category := strings.TrimSpace(matches[len(matches)-1][1])
	if category == "" {
		return "General"
	}
	return category
}

// fallbackSegments handles documents that never use the word "Vulnerability":
// split on the OFC headers and take the last part of the preceding text as
// the vulnerability statement.
func fallbackSegments(text string) []types.Segment {
	loc := ofcHeaderRe.FindStringIndex(text)
	if loc == nil {
		return nil
	}

	head := text[:loc[0]]
	if len(head) > fallbackVulnTail {
		head = head[len(head)-fallbackVulnTail:]
	}
	vuln := extraction.CleanFragment(head)

	return []types.Segment{{
		Category:      "General",
		Vulnerability: vuln,
		OFCBlock:      text[loc[1]:],
	}}
}
