// Package pipeline orchestrates a document's full journey from raw bytes to
// persisted, linked vulnerability/OFC records.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/frostline/vofc-engine/internal/citations"
	"github.com/frostline/vofc-engine/internal/extraction"
	"github.com/frostline/vofc-engine/internal/linking"
	"github.com/frostline/vofc-engine/internal/llm"
	"github.com/frostline/vofc-engine/internal/merge"
	"github.com/frostline/vofc-engine/internal/parsing"
	"github.com/frostline/vofc-engine/internal/segmentation"
	"github.com/frostline/vofc-engine/internal/types"
)

// Sink receives finalized results for storage.
type Sink interface {
	PersistResult(ctx context.Context, result *types.Result) error
}

// Pipeline wires the extraction stages together. A nil inference client
// selects heuristic-only mode: segmentation and keyword OFC selection
// without model-driven extraction or semantic linking.
type Pipeline struct {
	client    llm.Client
	extractor *parsing.Extractor
	linker    *linking.Linker
	sink      Sink
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithExtractor overrides the default extractor, primarily for tests.
func WithExtractor(e *parsing.Extractor) Option {
	return func(p *Pipeline) { p.extractor = e }
}

// WithSink attaches a persistence sink.
func WithSink(s Sink) Option {
	return func(p *Pipeline) { p.sink = s }
}

// New builds a pipeline. client may be nil for heuristic-only mode; memory
// may be nil to disable reinforcement.
func New(client llm.Client, memory linking.MemoryStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		client: client,
		linker: linking.NewLinker(linking.NewEmbedder(client), memory),
	}
	if client != nil {
		p.extractor = parsing.NewExtractor(client)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run processes one submission end to end and returns the finalized result.
// Acquisition failure is fatal for the document; every later stage degrades
// instead of aborting.
func (p *Pipeline) Run(ctx context.Context, sub *types.Submission) (*types.Result, error) {
	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("invalid submission: %w", err)
	}
	submissionID := sub.EnsureID()
	start := time.Now()
	fmt.Printf("Processing submission %s: %s\n", submissionID, sub.Path)

	rawText, meta, err := extraction.AcquireTextFromFile(sub.Path)
	if err != nil {
		return nil, err
	}
	text := extraction.CleanText(rawText)

	// The citation scan only reads the header region, so it runs alongside
	// the extraction pass.
	var source types.Source
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		source = citations.Extract(text, meta)
		applySubmissionSource(&source, sub)
		return nil
	})

	var batches [][]types.ExtractedRecord
	g.Go(func() error {
		var extractErr error
		batches, extractErr = p.extract(gctx, text)
		return extractErr
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := merge.Merge(batches, submissionID)

	ofcs, err := p.linker.SemanticDedupe(ctx, merged.OFCs)
	if err != nil {
		fmt.Printf("Warning: %v\n", err)
		ofcs = merged.OFCs
	}
	if _, err := p.linker.Link(ctx, merged.Vulnerabilities, ofcs); err != nil {
		fmt.Printf("Warning: linking degraded: %v\n", err)
	}

	vulns := resolveOrphans(merged.Vulnerabilities, ofcs, submissionID)
	linking.RankOFCs(ofcs)

	sources := assembleSources(source, text, submissionID)
	result := &types.Result{
		SubmissionID:    submissionID,
		Vulnerabilities: vulns,
		OFCs:            ofcs,
		Sources:         sources,
		Links: types.LinkCounts{
			VulnOFC:    len(ofcs),
			OFCSources: len(ofcs) * len(sources),
		},
		TimingSec: time.Since(start).Seconds(),
	}

	if p.sink != nil && !sub.DryRun {
		if err := p.sink.PersistResult(ctx, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// extract produces record batches, model-driven when a client is
// configured, heuristic otherwise. A model pass that yields nothing at all
// falls back to the heuristic segments.
func (p *Pipeline) extract(ctx context.Context, text string) ([][]types.ExtractedRecord, error) {
	if p.extractor == nil {
		return [][]types.ExtractedRecord{heuristicRecords(text)}, nil
	}

	batches, err := p.extractor.ExtractDocument(ctx, text)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, batch := range batches {
		total += len(batch)
	}
	if total == 0 {
		fmt.Printf("Model extraction produced no records, falling back to heuristics\n")
		return [][]types.ExtractedRecord{heuristicRecords(text)}, nil
	}
	return batches, nil
}

// assembleSources combines the header citation with any "Source:" or URL
// lines found in the body, deduplicated by the (title, url, text) tuple.
func assembleSources(primary types.Source, text, submissionID string) []types.Source {
	primary.SubmissionID = submissionID
	sources := []types.Source{primary}
	for _, line := range segmentation.ExtractSourceLines(text) {
		sources = append(sources, types.Source{
			ID:           uuid.NewString(),
			SubmissionID: submissionID,
			SourceText:   line,
		})
	}

	seen := make(map[[3]string]bool, len(sources))
	deduped := sources[:0]
	for _, s := range sources {
		if seen[s.Key()] {
			continue
		}
		seen[s.Key()] = true
		deduped = append(deduped, s)
	}
	return deduped
}

// applySubmissionSource fills source fields the caller supplied explicitly.
// Caller-supplied values win only where the document yielded nothing.
func applySubmissionSource(source *types.Source, sub *types.Submission) {
	if source.Title == "" {
		source.Title = sub.SourceTitle
	}
	if source.URL == "" {
		source.URL = sub.SourceURL
	}
	if source.SourceText == "" {
		source.SourceText = sub.SourceText
	}
}
