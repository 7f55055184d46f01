package extraction

import (
	"regexp"
	"strings"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s+`)
	blankRunsRe  = regexp.MustCompile(`\n\n\n+`)
	leadBulletRe = regexp.MustCompile(`^[\-\*•]\s*`)
	punctSpaceRe = regexp.MustCompile(`\s([,.;:])`)
)

// CleanText normalizes acquired text while preserving the line structure
// segmentation depends on: bullet glyphs stay at the start of their line and
// line breaks are kept, since OFC candidate selection is line-oriented.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = blankRunsRe.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// cleanLine collapses interior whitespace but keeps a leading bullet glyph.
func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	for _, bullet := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(trimmed, bullet) {
			body := multiSpaceRe.ReplaceAllString(strings.TrimSpace(trimmed[len(bullet):]), " ")
			return strings.TrimRight(bullet, " ") + " " + body
		}
	}

	return multiSpaceRe.ReplaceAllString(trimmed, " ")
}

// CleanFragment collapses a candidate line or clause into a single-spaced
// sentence fragment, stripping bullet decorations and fixing the spacing
// before punctuation that PDF extraction tends to leave behind.
func CleanFragment(s string) string {
	s = multiSpaceRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " -•*•\t")
	s = leadBulletRe.ReplaceAllString(s, "")
	s = punctSpaceRe.ReplaceAllString(s, "$1")
	return strings.TrimSpace(s)
}
