// Package parsing turns cleaned document text into structured extraction
// records by prompting one or more models per chunk and normalizing their
// JSON output.
package parsing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/frostline/vofc-engine/internal/chunking"
	"github.com/frostline/vofc-engine/internal/llm"
	"github.com/frostline/vofc-engine/internal/prompts"
	"github.com/frostline/vofc-engine/internal/schemas"
	"github.com/frostline/vofc-engine/internal/segmentation"
	"github.com/frostline/vofc-engine/internal/types"
)

// DefaultPacing is the sleep between consecutive model calls. It keeps a
// local inference server from queueing an entire document at once.
const DefaultPacing = 300 * time.Millisecond

// ModelRole labels what a model contributes to the consensus pass.
type ModelRole string

const (
	RolePrimary    ModelRole = "primary"
	RoleValidation ModelRole = "validation"
	RoleCrossCheck ModelRole = "cross-check"
)

// ModelConfig names one model participating in extraction. Weight orders
// contributions into the merger: higher-weight batches are merged first, so
// their field values win conflicts.
type ModelConfig struct {
	Name   string
	Role   ModelRole
	Weight float64
}

// DefaultModels returns the standard three-model consensus roster. The
// primary model carries most of the weight; the other two exist to recover
// records the primary missed.
func DefaultModels(primary string) []ModelConfig {
	return []ModelConfig{
		{Name: primary, Role: RolePrimary, Weight: 0.6},
		{Name: "mistral:latest", Role: RoleValidation, Weight: 0.25},
		{Name: "llama3:latest", Role: RoleCrossCheck, Weight: 0.15},
	}
}

// DefaultTemperature keeps extraction output near-deterministic.
const DefaultTemperature = 0.1

// Extractor runs the chunked multi-model extraction pass.
type Extractor struct {
	client      llm.Client
	models      []ModelConfig
	pacing      time.Duration
	maxChunkLen int
	temperature float64
	template    string
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithModels overrides the model roster.
func WithModels(models []ModelConfig) ExtractorOption {
	return func(e *Extractor) {
		if len(models) > 0 {
			e.models = models
		}
	}
}

// WithPacing overrides the inter-call sleep. Zero disables pacing, which
// tests rely on.
func WithPacing(d time.Duration) ExtractorOption {
	return func(e *Extractor) { e.pacing = d }
}

// WithMaxChunkLen overrides the chunk size limit.
func WithMaxChunkLen(n int) ExtractorOption {
	return func(e *Extractor) {
		if n > 0 {
			e.maxChunkLen = n
		}
	}
}

// WithTemperature overrides the generation temperature.
func WithTemperature(t float64) ExtractorOption {
	return func(e *Extractor) {
		if t > 0 {
			e.temperature = t
		}
	}
}

// NewExtractor builds an extractor around an inference client.
func NewExtractor(client llm.Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client:      client,
		models:      DefaultModels(client.ModelName()),
		pacing:      DefaultPacing,
		maxChunkLen: chunking.DefaultMaxLen,
		temperature: DefaultTemperature,
		template:    prompts.MustGet("extraction.json", "extract-vofc"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pacing reports the configured inter-call sleep.
func (e *Extractor) Pacing() time.Duration { return e.pacing }

// MaxChunkLen reports the configured chunk size limit.
func (e *Extractor) MaxChunkLen() int { return e.maxChunkLen }

// Temperature reports the configured generation temperature.
func (e *Extractor) Temperature() float64 { return e.temperature }

// ExtractDocument chunks the document and runs every configured model over
// every chunk. It returns one record batch per model, ordered by descending
// weight, so the merger sees the primary model's records first. A failed
// chunk/model pair drops only that contribution.
func (e *Extractor) ExtractDocument(ctx context.Context, text string) ([][]types.ExtractedRecord, error) {
	chunks := chunking.Chunk(text, e.maxChunkLen)
	if len(chunks) == 0 {
		return nil, nil
	}
	fmt.Printf("Extracting from %d chunk(s) with %d model(s)\n", len(chunks), len(e.models))

	batches := make([][]types.ExtractedRecord, 0, len(e.models))
	for _, model := range e.models {
		var batch []types.ExtractedRecord
		for i, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			records, err := e.extractChunk(ctx, model, i, chunk)
			if err != nil {
				fmt.Printf("Warning: %v\n", err)
			} else {
				batch = append(batch, records...)
			}
			if e.pacing > 0 {
				time.Sleep(e.pacing)
			}
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// extractChunk prompts one model for one chunk and normalizes the response.
func (e *Extractor) extractChunk(ctx context.Context, model ModelConfig, chunkIdx int, chunk string) ([]types.ExtractedRecord, error) {
	prompt := prompts.Format(e.template, map[string]string{
		"Disciplines": strings.Join(segmentation.Disciplines(), ", "),
		"DocText":     chunk,
	})

	raw, err := e.client.Generate(ctx, prompt, llm.GenerateOptions{
		Model:       model.Name,
		Temperature: e.temperature,
	})
	if err != nil {
		return nil, &InferenceError{Model: model.Name, Chunk: chunkIdx, Message: "generation failed", Cause: err}
	}

	records, err := ParseResponse(raw)
	if err != nil {
		return nil, &InferenceError{Model: model.Name, Chunk: chunkIdx, Message: err.Error()}
	}
	return records, nil
}

// ParseResponse converts a raw model response into validated extraction
// records. It tolerates markdown fences, prose around the JSON, and the
// shape drift handled by NormalizeValue. Records that fail schema
// validation are dropped individually.
func ParseResponse(raw string) ([]types.ExtractedRecord, error) {
	cleaned := llm.CleanJSONBlock(raw)
	span, ok := llm.ExtractJSONSpan(cleaned)
	if !ok {
		return nil, fmt.Errorf("response contains no JSON value")
	}

	var decoded any
	if err := json.Unmarshal([]byte(span), &decoded); err != nil {
		return nil, fmt.Errorf("response JSON is malformed: %w", err)
	}

	candidates := NormalizeValue(decoded)
	records := make([]types.ExtractedRecord, 0, len(candidates))
	for _, record := range candidates {
		if err := schemas.ValidateRecord(record); err != nil {
			fmt.Printf("Warning: dropping record: %v\n", err)
			continue
		}
		records = append(records, record)
	}
	return records, nil
}
