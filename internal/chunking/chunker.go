// Package chunking splits long document text into bounded chunks sized to
// fit inference-request limits. Splits happen only at line boundaries, so
// joining the chunks with newlines reconstructs the input exactly.
package chunking

import "strings"

// DefaultMaxLen is the default chunk size in characters.
const DefaultMaxLen = 6000

// Chunk splits text into chunks by accumulating whole lines until the
// accumulated length exceeds maxLen. No line is ever split across chunks.
func Chunk(text string, maxLen int) []string {
	if maxLen <= 0 {
		maxLen = DefaultMaxLen
	}
	if text == "" {
		return nil
	}

	var chunks []string
	var buf []string
	total := 0
	for _, line := range strings.Split(text, "\n") {
		buf = append(buf, line)
		total += len(line)
		if total > maxLen {
			chunks = append(chunks, strings.Join(buf, "\n"))
			buf, total = nil, 0
		}
	}
	if len(buf) > 0 {
		chunks = append(chunks, strings.Join(buf, "\n"))
	}
	return chunks
}

// Join reassembles chunks into the original text.
func Join(chunks []string) string {
	return strings.Join(chunks, "\n")
}
