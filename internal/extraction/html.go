package extraction

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// extractHTML strips markup from an HTML document, dropping script and style
// content, and returns one block element's text per line.
func extractHTML(content []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var lines []string
	doc.Find("p, li, h1, h2, h3, h4, h5, h6, td, div").Each(func(_ int, s *goquery.Selection) {
		// Skip containers whose text belongs to a nested block element.
		if s.Children().Is("p, li, h1, h2, h3, h4, h5, h6, td, div") {
			return
		}
		text := strings.TrimSpace(s.Text())
		if text != "" {
			lines = append(lines, text)
		}
	})

	if len(lines) == 0 {
		return strings.TrimSpace(doc.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}
