package extraction

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// acquirePDFText runs the PDF strategy chain: the native reader first,
// then the external pdftotext layout tool, then OCR for image-only scans.
// Each fallback exists because the previous strategy fails on a real class
// of input (encrypted files, exotic encodings, scanned pages).
func acquirePDFText(doc *Document) (string, error) {
	text, err := nativePDFText(doc.Content)
	if err == nil && len(strings.TrimSpace(text)) > MinPrimaryChars {
		return text, nil
	}
	if err != nil {
		fmt.Printf("Warning: native PDF reader failed for %s: %v\n", filepath.Base(doc.Path), err)
	}

	text, err = pdftotextText(doc.Path)
	if err == nil && len(strings.TrimSpace(text)) > MinFallbackChars {
		return text, nil
	}
	if err != nil {
		fmt.Printf("Warning: pdftotext failed for %s: %v\n", filepath.Base(doc.Path), err)
	}

	text, err = ocrPDFText(doc.Path)
	if err == nil && len(strings.TrimSpace(text)) > MinFallbackChars {
		return text, nil
	}
	if err != nil {
		fmt.Printf("Warning: OCR fallback failed for %s: %v\n", filepath.Base(doc.Path), err)
	}

	return "", &ExtractionError{Path: doc.Path, Message: "all PDF strategies produced too little text"}
}

// nativePDFText extracts text with the in-process PDF reader. Encrypted
// documents are retried once with an empty password; many "protected" PDFs
// are openable that way, and the external tools get their chance afterwards
// regardless.
func nativePDFText(content []byte) (string, error) {
	reader, err := pdf.NewReader(newBytesReaderAt(content), int64(len(content)))
	if err != nil {
		reader, err = pdf.NewReaderEncrypted(newBytesReaderAt(content), int64(len(content)), func() string { return "" })
		if err != nil {
			return "", fmt.Errorf("open PDF: %w", err)
		}
	}

	var textBuilder strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Some pages fail to parse; keep going.
			continue
		}
		if text != "" {
			if textBuilder.Len() > 0 {
				textBuilder.WriteString("\n\n")
			}
			textBuilder.WriteString(text)
		}
	}
	return textBuilder.String(), nil
}

// pdftotextText shells out to the poppler layout tool, which copes with
// encodings the native reader cannot.
func pdftotextText(path string) (string, error) {
	out, err := exec.Command("pdftotext", "-layout", path, "-").Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// ocrPDFText rasterizes pages with pdftoppm and runs tesseract over each
// image. Last resort for image-only scans.
func ocrPDFText(path string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "vofc-ocr-")
	if err != nil {
		return "", fmt.Errorf("ocr temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	prefix := filepath.Join(tmpDir, "page")
	if err := exec.Command("pdftoppm", "-png", "-r", "200", path, prefix).Run(); err != nil {
		return "", fmt.Errorf("pdftoppm: %w", err)
	}

	images, err := filepath.Glob(prefix + "*.png")
	if err != nil || len(images) == 0 {
		return "", fmt.Errorf("no page images produced")
	}

	var textBuilder strings.Builder
	for _, img := range images {
		out, err := exec.Command("tesseract", img, "stdout").Output()
		if err != nil {
			continue
		}
		textBuilder.Write(out)
		textBuilder.WriteString("\n")
	}
	return textBuilder.String(), nil
}

// bytesReaderAt implements io.ReaderAt for a byte slice; the PDF library
// wants a ReaderAt, not a stream.
type bytesReaderAt struct {
	data []byte
}

func newBytesReaderAt(data []byte) *bytesReaderAt {
	return &bytesReaderAt{data: data}
}

func (r *bytesReaderAt) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, fmt.Errorf("negative offset")
	}
	if off >= int64(len(r.data)) {
		return 0, io.EOF
	}
	n = copy(p, r.data[off:])
	if n < len(p) {
		err = io.EOF
	}
	return n, err
}
