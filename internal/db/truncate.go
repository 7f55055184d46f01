package db

import "unicode/utf8"

// Column width limits of the mirror schema. Values are clipped rather than
// rejected so an oversized field never fails a whole batch.
const (
	maxTitleLen      = 512
	maxURLLen        = 1024
	maxSourceTextLen = 2048
	maxBodyTextLen   = 5000
	maxCategoryLen   = 256
)

// truncate clips s to at most max bytes, backing up to a rune boundary so
// the result is always valid UTF-8. Postgres rejects a batch containing a
// half-cut multibyte sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}
