package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/frostline/vofc-engine/internal/extraction"
	"github.com/frostline/vofc-engine/internal/segmentation"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Show heuristic segmentation for a document",
	Long:  "Run acquisition and pattern-based segmentation only, printing the category/vulnerability/OFC triples as JSON. Useful for inspecting how a document will split before a full run.",
	RunE:  runSegment,
}

var segmentFile string

func init() {
	segmentCmd.Flags().StringVarP(&segmentFile, "file", "f", "", "Path to the document (required)")

	segmentCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(segmentCmd)
}

type segmentView struct {
	Category      string   `json:"category"`
	Vulnerability string   `json:"vulnerability"`
	Discipline    string   `json:"discipline"`
	Options       []string `json:"options"`
}

func runSegment(cmd *cobra.Command, args []string) error {
	text, _, err := extraction.AcquireTextFromFile(segmentFile)
	if err != nil {
		return err
	}

	var views []segmentView
	for _, seg := range segmentation.Segment(text) {
		views = append(views, segmentView{
			Category:      seg.Category,
			Vulnerability: seg.Vulnerability,
			Discipline:    segmentation.GuessDiscipline(seg.Vulnerability+" "+seg.OFCBlock, seg.Category),
			Options:       segmentation.ExtractOFCLines(seg.OFCBlock),
		})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(views); err != nil {
		return fmt.Errorf("failed to encode segments: %w", err)
	}
	return nil
}
