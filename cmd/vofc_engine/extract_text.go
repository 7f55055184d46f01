package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frostline/vofc-engine/internal/extraction"
)

var extractTextCmd = &cobra.Command{
	Use:   "extract-text",
	Short: "Extract plain text from a document",
	Long:  "Run only the acquisition stage: convert a PDF, DOCX, HTML, or text document into cleaned plain text on stdout or a file.",
	RunE:  runExtractText,
}

var (
	extractFile string
	extractOut  string
)

func init() {
	extractTextCmd.Flags().StringVarP(&extractFile, "file", "f", "", "Path to the document (required)")
	extractTextCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Write text to this file instead of stdout")

	extractTextCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(extractTextCmd)
}

func runExtractText(cmd *cobra.Command, args []string) error {
	text, meta, err := extraction.AcquireTextFromFile(extractFile)
	if err != nil {
		return err
	}

	if meta != nil && meta.Title != "" {
		fmt.Fprintf(os.Stderr, "Embedded title: %s\n", meta.Title)
	}

	if extractOut != "" {
		if err := os.WriteFile(extractOut, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write text: %w", err)
		}
		fmt.Printf("Extracted %d characters to %s\n", len(text), extractOut)
		return nil
	}

	fmt.Print(text)
	return nil
}
