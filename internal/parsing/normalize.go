package parsing

import (
	"fmt"
	"strings"

	"github.com/frostline/vofc-engine/internal/types"
)

// Models drift between runs: the same prompt can come back as an array of
// objects, a single object, a wrapper object with a "vulnerabilities" key,
// or even bare strings, and field names wander ("sowhat", "title", "ofcs").
// Normalization folds every observed variant into ExtractedRecord so the
// rest of the pipeline only ever sees one shape.

var vulnerabilityKeys = []string{"vulnerability", "vulnerability_statement", "title", "text", "statement"}
var questionKeys = []string{"question", "assessment_question"}
var whatKeys = []string{"what", "observation"}
var soWhatKeys = []string{"so_what", "sowhat", "so what", "impact"}
var optionListKeys = []string{"options_for_consideration", "options", "ofcs", "recommendations", "mitigations"}
var optionTextKeys = []string{"option_text", "ofc", "option", "text", "title", "recommendation"}
var optionDescKeys = []string{"description", "rationale", "detail", "details"}
var wrapperKeys = []string{"vulnerabilities", "records", "results", "items"}

// NormalizeValue converts an arbitrary decoded JSON value into zero or more
// extraction records. Unrecognized shapes are dropped with a warning rather
// than failing the chunk.
func NormalizeValue(v any) []types.ExtractedRecord {
	switch val := v.(type) {
	case string:
		text := strings.TrimSpace(val)
		if text == "" {
			return nil
		}
		return []types.ExtractedRecord{{Vulnerability: text}}
	case []any:
		var records []types.ExtractedRecord
		for _, item := range val {
			records = append(records, NormalizeValue(item)...)
		}
		return records
	case map[string]any:
		return normalizeObject(val)
	default:
		if v != nil {
			fmt.Printf("Warning: dropping unrecognized extraction shape %T\n", v)
		}
		return nil
	}
}

func normalizeObject(obj map[string]any) []types.ExtractedRecord {
	// Wrapper objects hold the real records under a list key.
	for _, key := range wrapperKeys {
		if inner, ok := obj[key]; ok {
			return NormalizeValue(inner)
		}
	}

	record := types.ExtractedRecord{
		Question:      firstString(obj, questionKeys),
		Vulnerability: firstString(obj, vulnerabilityKeys),
		What:          firstString(obj, whatKeys),
		SoWhat:        firstString(obj, soWhatKeys),
		Sector:        firstString(obj, []string{"sector"}),
		Subsector:     firstString(obj, []string{"subsector", "sub_sector"}),
		Discipline:    firstString(obj, []string{"discipline"}),
		Category:      firstString(obj, []string{"category"}),
		Severity:      firstString(obj, []string{"severity", "risk_level"}),
	}

	for _, key := range optionListKeys {
		raw, ok := obj[key]
		if !ok {
			continue
		}
		record.Options = normalizeOptions(raw)
		break
	}

	if record.Vulnerability == "" && record.Question == "" && len(record.Options) == 0 {
		return nil
	}
	// Some models answer the question without restating it as a statement.
	if record.Vulnerability == "" && record.Question != "" {
		record.Vulnerability = record.Question
	}
	return []types.ExtractedRecord{record}
}

func normalizeOptions(raw any) []types.ExtractedOption {
	items, ok := raw.([]any)
	if !ok {
		if text, isString := raw.(string); isString && strings.TrimSpace(text) != "" {
			return []types.ExtractedOption{{Text: strings.TrimSpace(text)}}
		}
		return nil
	}

	var options []types.ExtractedOption
	for _, item := range items {
		switch opt := item.(type) {
		case string:
			if text := strings.TrimSpace(opt); text != "" {
				options = append(options, types.ExtractedOption{Text: text})
			}
		case map[string]any:
			text := firstString(opt, optionTextKeys)
			if text == "" {
				continue
			}
			options = append(options, types.ExtractedOption{
				Text:        text,
				Description: firstString(opt, optionDescKeys),
			})
		}
	}
	return options
}

// firstString returns the first non-empty string value found under any of
// the candidate keys, trimmed.
func firstString(obj map[string]any, keys []string) string {
	for _, key := range keys {
		if raw, ok := obj[key]; ok {
			if text, isString := raw.(string); isString {
				if trimmed := strings.TrimSpace(text); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}
