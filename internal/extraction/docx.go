package extraction

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// docxDocument mirrors the paragraph/run/text nesting of word/document.xml.
// Only the text runs matter here; everything else is skipped by the decoder.
type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []struct {
		Texts []string `xml:"t"`
	} `xml:"r"`
}

// docxCoreProps mirrors docProps/core.xml, the container metadata block.
type docxCoreProps struct {
	Title   string `xml:"title"`
	Creator string `xml:"creator"`
	Subject string `xml:"subject"`
}

// extractDOCX pulls paragraph text and core properties out of a DOCX
// container (a ZIP of XML parts).
func extractDOCX(content []byte) (string, *ContainerMetadata, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", nil, fmt.Errorf("open docx container: %w", err)
	}

	var text string
	var meta *ContainerMetadata
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			data, err := readZipFile(f)
			if err != nil {
				return "", nil, fmt.Errorf("read document.xml: %w", err)
			}
			text, err = docxParagraphText(data)
			if err != nil {
				return "", nil, err
			}
		case "docProps/core.xml":
			data, err := readZipFile(f)
			if err != nil {
				continue
			}
			var props docxCoreProps
			if xml.Unmarshal(data, &props) == nil {
				meta = &ContainerMetadata{
					Title:   strings.TrimSpace(props.Title),
					Author:  strings.TrimSpace(props.Creator),
					Subject: strings.TrimSpace(props.Subject),
				}
			}
		}
	}

	if text == "" {
		return "", meta, fmt.Errorf("no document.xml text in container")
	}
	return text, meta, nil
}

// docxParagraphText joins the text runs of each paragraph, one paragraph per
// line, skipping empty paragraphs.
func docxParagraphText(data []byte) (string, error) {
	var doc docxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}

	var lines []string
	for _, p := range doc.Body.Paragraphs {
		var sb strings.Builder
		for _, r := range p.Runs {
			for _, t := range r.Texts {
				sb.WriteString(t)
			}
		}
		if strings.TrimSpace(sb.String()) != "" {
			lines = append(lines, sb.String())
		}
	}
	return strings.Join(lines, "\n"), nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
