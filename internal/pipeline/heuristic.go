package pipeline

import (
	"github.com/frostline/vofc-engine/internal/segmentation"
	"github.com/frostline/vofc-engine/internal/types"
)

// heuristicRecords builds extraction records from pattern-based segmentation
// alone. This is the whole extraction stage when no inference client is
// configured, and the fallback when the model pass returns nothing.
func heuristicRecords(text string) []types.ExtractedRecord {
	var records []types.ExtractedRecord
	for _, seg := range segmentation.Segment(text) {
		record := types.ExtractedRecord{
			Vulnerability: seg.Vulnerability,
			Category:      seg.Category,
			Discipline:    segmentation.GuessDiscipline(seg.Vulnerability+" "+seg.OFCBlock, seg.Category),
		}
		for _, line := range segmentation.ExtractOFCLines(seg.OFCBlock) {
			record.Options = append(record.Options, types.ExtractedOption{Text: line})
		}
		records = append(records, record)
	}
	return records
}
