package extraction

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAcquireText_PlainText(t *testing.T) {
	content := strings.Repeat("Vulnerability narrative line.\n", 10)
	path := writeTestFile(t, "report.txt", content)

	text, meta, err := AcquireTextFromFile(path)
	require.NoError(t, err)
	assert.Nil(t, meta)
	assert.Contains(t, text, "Vulnerability narrative line.")
}

func TestAcquireText_TextBelowThreshold(t *testing.T) {
	path := writeTestFile(t, "tiny.txt", "too short")

	_, _, err := AcquireTextFromFile(path)
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, path, extErr.Path)
}

func TestAcquireText_HTMLStripsMarkup(t *testing.T) {
	html := `<html><head><style>p{color:red}</style></head><body>
		<h1>Facility Assessment</h1>
		<p>The perimeter gate is left unsecured during delivery windows.</p>
		<script>alert("ignored")</script>
	</body></html>`
	path := writeTestFile(t, "report.html", html)

	text, _, err := AcquireTextFromFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "Facility Assessment")
	assert.Contains(t, text, "perimeter gate is left unsecured")
	assert.NotContains(t, text, "alert(")
	assert.NotContains(t, text, "color:red")
}

func TestAcquireText_MissingFile(t *testing.T) {
	_, _, err := AcquireTextFromFile(filepath.Join(t.TempDir(), "absent.pdf"))
	var extErr *ExtractionError
	assert.True(t, errors.As(err, &extErr))
}

// buildTestDOCX assembles a minimal DOCX container in memory.
func buildTestDOCX(t *testing.T, paragraphs []string, title, creator string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	var body strings.Builder
	body.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	docFile, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = docFile.Write([]byte(body.String()))
	require.NoError(t, err)

	core, err := zw.Create("docProps/core.xml")
	require.NoError(t, err)
	_, err = core.Write([]byte(`<?xml version="1.0"?><cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/"><dc:title>` + title + `</dc:title><dc:creator>` + creator + `</dc:creator></cp:coreProperties>`))
	require.NoError(t, err)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestAcquireText_DOCXTextAndMetadata(t *testing.T) {
	paragraphs := []string{
		"Category Perimeter Vulnerability",
		"The loading dock gate is not monitored after hours and remains a persistent weakness for the facility.",
	}
	content := buildTestDOCX(t, paragraphs, "Facility Security Assessment", "J. Smith")
	path := filepath.Join(t.TempDir(), "report.docx")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	text, meta, err := AcquireTextFromFile(path)
	require.NoError(t, err)
	assert.Contains(t, text, "loading dock gate")
	require.NotNil(t, meta)
	assert.Equal(t, "Facility Security Assessment", meta.Title)
	assert.Equal(t, "J. Smith", meta.Author)
}

func TestAcquireText_DOCXCorruptContainer(t *testing.T) {
	path := writeTestFile(t, "broken.docx", "this is not a zip archive at all")

	_, _, err := AcquireTextFromFile(path)
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
}
