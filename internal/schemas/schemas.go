// Package schemas provides JSON Schema validation for structured
// extraction output before it enters the merge stage.
package schemas

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"

	"github.com/frostline/vofc-engine/internal/types"
)

//go:embed extraction_record.json
var extractionRecordSchema []byte

var (
	recordSchema     *gojsonschema.Schema
	recordSchemaOnce sync.Once
	recordSchemaErr  error
)

func compiledRecordSchema() (*gojsonschema.Schema, error) {
	recordSchemaOnce.Do(func() {
		loader := gojsonschema.NewBytesLoader(extractionRecordSchema)
		recordSchema, recordSchemaErr = gojsonschema.NewSchema(loader)
	})
	return recordSchema, recordSchemaErr
}

// ValidateRecord checks a normalized extraction record against the
// embedded record schema. A non-nil error describes every violation.
func ValidateRecord(record types.ExtractedRecord) error {
	schema, err := compiledRecordSchema()
	if err != nil {
		return fmt.Errorf("failed to compile record schema: %w", err)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return fmt.Errorf("record failed validation: %s", strings.Join(problems, "; "))
}
