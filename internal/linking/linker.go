package linking

import (
	"context"
	"fmt"
	"sort"

	"github.com/frostline/vofc-engine/internal/merge"
	"github.com/frostline/vofc-engine/internal/types"
)

const (
	// LinkThreshold is the minimum cosine similarity (exclusive) for a
	// fresh vulnerability↔OFC link.
	LinkThreshold = 0.55
	// ReinforceThreshold is the minimum recorded similarity (exclusive)
	// for a memory entry to force its link on a later run.
	ReinforceThreshold = 0.65
	// DedupeThreshold is the minimum cosine similarity (inclusive) at
	// which two OFCs are considered the same option.
	DedupeThreshold = 0.88
)

// Linker assigns vulnerability↔OFC links from embedding similarity and a
// reinforcement memory of associations confirmed on previous runs.
type Linker struct {
	embedder *Embedder
	memory   MemoryStore

	// ReinforcementWins controls what happens when a remembered link and a
	// fresh high-confidence link disagree on an OFC's target vulnerability:
	// true lets the memory overwrite the fresh assignment, false keeps the
	// fresh one and only uses memory to fill unlinked OFCs.
	ReinforcementWins bool
}

// NewLinker builds a linker. Either argument may be nil: a nil embedder
// makes Link a no-op that preserves existing assignments; a nil memory
// disables reinforcement.
func NewLinker(embedder *Embedder, memory MemoryStore) *Linker {
	return &Linker{
		embedder:          embedder,
		memory:            memory,
		ReinforcementWins: true,
	}
}

// Link embeds vulnerabilities and OFCs, assigns each OFC the most similar
// vulnerability above the link threshold, then applies the reinforcement
// pass from memory. OFCs are modified in place. All newly accepted pairs
// are appended to the memory log and returned.
func (l *Linker) Link(ctx context.Context, vulns []types.Vulnerability, ofcs []types.OptionForConsideration) ([]types.LearnedLink, error) {
	if l.embedder == nil || len(vulns) == 0 || len(ofcs) == 0 {
		return nil, nil
	}

	vulnTexts := make([]string, len(vulns))
	for i, v := range vulns {
		vulnTexts[i] = vulnEmbedText(v)
	}
	ofcTexts := make([]string, len(ofcs))
	for i, o := range ofcs {
		ofcTexts[i] = ofcEmbedText(o)
	}

	vulnVecs, err := l.embedder.EmbedTexts(ctx, vulnTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed vulnerabilities: %w", err)
	}
	ofcVecs, err := l.embedder.EmbedTexts(ctx, ofcTexts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed options: %w", err)
	}

	var newEntries []types.LearnedLink
	best := make([]float64, len(ofcs))
	for j := range ofcs {
		for i := range vulns {
			sim := CosineSimilarity(vulnVecs[i], ofcVecs[j])
			if sim <= LinkThreshold {
				continue
			}
			newEntries = append(newEntries, types.LearnedLink{
				Vulnerability: vulns[i].Title,
				OFC:           ofcs[j].Title,
				Similarity:    sim,
			})
			if sim > best[j] {
				best[j] = sim
				ofcs[j].VulnerabilityID = vulns[i].ID
				ofcs[j].Confidence = sim
			}
		}
	}

	reinforced, err := l.reinforce(vulns, ofcs)
	if err != nil {
		fmt.Printf("Warning: reinforcement pass skipped: %v\n", err)
	} else {
		newEntries = append(newEntries, reinforced...)
	}

	if l.memory != nil && len(newEntries) > 0 {
		if err := l.memory.Append(newEntries); err != nil {
			return newEntries, fmt.Errorf("failed to append memory entries: %w", err)
		}
	}
	return newEntries, nil
}

// reinforce forces links recorded in memory above the reinforcement
// threshold, matching both sides by normalized title text.
func (l *Linker) reinforce(vulns []types.Vulnerability, ofcs []types.OptionForConsideration) ([]types.LearnedLink, error) {
	if l.memory == nil {
		return nil, nil
	}
	remembered, err := l.memory.Load()
	if err != nil {
		return nil, err
	}
	if len(remembered) == 0 {
		return nil, nil
	}

	vulnByNorm := make(map[string]int, len(vulns))
	for i, v := range vulns {
		vulnByNorm[merge.NormalizeText(v.Title)] = i
	}
	ofcByNorm := make(map[string]int, len(ofcs))
	for j, o := range ofcs {
		ofcByNorm[merge.NormalizeText(o.Title)] = j
	}

	var entries []types.LearnedLink
	for _, entry := range remembered {
		if entry.Similarity <= ReinforceThreshold {
			continue
		}
		i, haveVuln := vulnByNorm[merge.NormalizeText(entry.Vulnerability)]
		j, haveOFC := ofcByNorm[merge.NormalizeText(entry.OFC)]
		if !haveVuln || !haveOFC {
			continue
		}
		if ofcs[j].VulnerabilityID != "" && ofcs[j].VulnerabilityID != vulns[i].ID && !l.ReinforcementWins {
			continue
		}
		ofcs[j].VulnerabilityID = vulns[i].ID
		if entry.Similarity > ofcs[j].Confidence {
			ofcs[j].Confidence = entry.Similarity
		}
		entries = append(entries, types.LearnedLink{
			Vulnerability: vulns[i].Title,
			OFC:           ofcs[j].Title,
			Similarity:    entry.Similarity,
			Reinforced:    true,
		})
	}
	return entries, nil
}

// SemanticDedupe drops OFCs whose embedding is at or above the dedupe
// threshold against an earlier-kept OFC. Order is preserved and the earlier
// occurrence wins. Without an embedder the input is returned unchanged.
func (l *Linker) SemanticDedupe(ctx context.Context, ofcs []types.OptionForConsideration) ([]types.OptionForConsideration, error) {
	if l.embedder == nil || len(ofcs) < 2 {
		return ofcs, nil
	}

	texts := make([]string, len(ofcs))
	for i, o := range ofcs {
		texts[i] = ofcEmbedText(o)
	}
	vecs, err := l.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return ofcs, fmt.Errorf("failed to embed options for dedupe: %w", err)
	}

	kept := make([]types.OptionForConsideration, 0, len(ofcs))
	keptVecs := make([][]float64, 0, len(ofcs))
	for i, ofc := range ofcs {
		duplicate := false
		for _, keptVec := range keptVecs {
			if CosineSimilarity(vecs[i], keptVec) >= DedupeThreshold {
				duplicate = true
				break
			}
		}
		if duplicate {
			fmt.Printf("Dropping near-duplicate option: %q\n", ofc.Title)
			continue
		}
		kept = append(kept, ofc)
		keptVecs = append(keptVecs, vecs[i])
	}
	return kept, nil
}

// RankOFCs orders options by descending confidence, preserving input order
// among equals.
func RankOFCs(ofcs []types.OptionForConsideration) {
	sort.SliceStable(ofcs, func(i, j int) bool {
		return ofcs[i].Confidence > ofcs[j].Confidence
	})
}

func vulnEmbedText(v types.Vulnerability) string {
	if v.Description != "" {
		return v.Description
	}
	return v.Title
}

func ofcEmbedText(o types.OptionForConsideration) string {
	if o.Title != "" {
		return o.Title
	}
	return o.Description
}
