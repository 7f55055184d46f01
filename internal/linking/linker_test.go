package linking

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frostline/vofc-engine/internal/llm"
	"github.com/frostline/vofc-engine/internal/types"
)

// vectorClient returns fixed vectors keyed by exact input text.
type vectorClient struct {
	vectors map[string][]float64
}

func (c *vectorClient) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	return "", nil
}

func (c *vectorClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = c.vectors[text]
	}
	return out, nil
}

func (c *vectorClient) ModelName() string { return "embed-stub" }
func (c *vectorClient) Close() error      { return nil }

// vectorAt builds a 2-d unit vector whose cosine against [1, 0] equals sim.
func vectorAt(sim float64) []float64 {
	return []float64{sim, math.Sqrt(1 - sim*sim)}
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float64{1, 1}, []float64{-1, -1}), 1e-9)
	assert.Zero(t, CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3}))
	assert.Zero(t, CosineSimilarity([]float64{0, 0}, []float64{1, 2}))
	assert.Zero(t, CosineSimilarity(nil, nil))
}

func TestFallbackVector_DerivedFromLength(t *testing.T) {
	a := fallbackVector("abcd")
	b := fallbackVector("wxyz")
	c := fallbackVector("abcde")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, fallbackDim)
	assert.InDelta(t, 4.0/512.0, a[0], 1e-9)
}

func TestEmbedTexts_SubstitutesPlaceholders(t *testing.T) {
	client := &vectorClient{vectors: map[string][]float64{
		"known": {0.1, 0.2},
	}}
	embedder := NewEmbedder(client)

	vecs, err := embedder.EmbedTexts(context.Background(), []string{"known", "unknown"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float64{0.1, 0.2}, vecs[0])
	assert.Equal(t, fallbackVector("unknown"), vecs[1])
}

func TestLink_AssignsStrongestVulnerabilityAboveThreshold(t *testing.T) {
	vulns := []types.Vulnerability{
		{ID: "v1", Title: "Unsecured gate."},
		{ID: "v2", Title: "No lighting on perimeter."},
	}
	ofcs := []types.OptionForConsideration{
		{ID: "o1", Title: "Install bollards."},
		{ID: "o2", Title: "Review badge policy."},
	}

	client := &vectorClient{vectors: map[string][]float64{
		"Unsecured gate.":           vectorAt(1.0),
		"No lighting on perimeter.": vectorAt(0.0),
		"Install bollards.":         vectorAt(0.90), // 0.90 vs v1, 0.436 vs v2
		"Review badge policy.":      {0.30, -0.95},  // below threshold everywhere
	}}

	linker := NewLinker(NewEmbedder(client), nil)
	entries, err := linker.Link(context.Background(), vulns, ofcs)
	require.NoError(t, err)

	assert.Equal(t, "v1", ofcs[0].VulnerabilityID)
	assert.InDelta(t, 0.90, ofcs[0].Confidence, 1e-6)
	assert.Empty(t, ofcs[1].VulnerabilityID)

	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Greater(t, e.Similarity, LinkThreshold)
		assert.False(t, e.Reinforced)
	}
}

func TestLink_WithoutEmbedderPreservesExistingLinks(t *testing.T) {
	ofcs := []types.OptionForConsideration{{ID: "o1", Title: "Add lighting.", VulnerabilityID: "v9"}}
	linker := NewLinker(nil, nil)

	entries, err := linker.Link(context.Background(), []types.Vulnerability{{ID: "v1", Title: "x"}}, ofcs)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, "v9", ofcs[0].VulnerabilityID)
}

func TestLink_ReinforcementOverridesWeakFreshScore(t *testing.T) {
	// Memory remembers V1/O1 at 0.70; the fresh cosine for the pair is
	// 0.40, below the link threshold. The link must still be assigned and
	// the appended entry marked reinforced.
	memoryPath := filepath.Join(t.TempDir(), "memory.jsonl")
	store := NewFileMemoryStore(memoryPath)
	require.NoError(t, store.Append([]types.LearnedLink{
		{Vulnerability: "V1", OFC: "O1", Similarity: 0.70},
	}))

	client := &vectorClient{vectors: map[string][]float64{
		"V1": vectorAt(1.0),
		"O1": vectorAt(0.40),
	}}

	vulns := []types.Vulnerability{{ID: "v1", Title: "V1"}}
	ofcs := []types.OptionForConsideration{{ID: "o1", Title: "O1"}}

	linker := NewLinker(NewEmbedder(client), store)
	entries, err := linker.Link(context.Background(), vulns, ofcs)
	require.NoError(t, err)

	assert.Equal(t, "v1", ofcs[0].VulnerabilityID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Reinforced)
	assert.InDelta(t, 0.70, entries[0].Similarity, 1e-9)

	// The reinforced pair was appended, never rewritten.
	all, err := store.Load()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.False(t, all[0].Reinforced)
	assert.True(t, all[1].Reinforced)
}

func TestLink_ReinforcementBelowThresholdIgnored(t *testing.T) {
	store := NewFileMemoryStore(filepath.Join(t.TempDir(), "memory.jsonl"))
	require.NoError(t, store.Append([]types.LearnedLink{
		{Vulnerability: "V1", OFC: "O1", Similarity: 0.60},
	}))

	client := &vectorClient{vectors: map[string][]float64{
		"V1": vectorAt(1.0),
		"O1": vectorAt(0.40),
	}}
	linker := NewLinker(NewEmbedder(client), store)

	vulns := []types.Vulnerability{{ID: "v1", Title: "V1"}}
	ofcs := []types.OptionForConsideration{{ID: "o1", Title: "O1"}}
	_, err := linker.Link(context.Background(), vulns, ofcs)
	require.NoError(t, err)
	assert.Empty(t, ofcs[0].VulnerabilityID)
}

func TestLink_FreshAssignmentKeptWhenReinforcementDisabled(t *testing.T) {
	store := NewFileMemoryStore(filepath.Join(t.TempDir(), "memory.jsonl"))
	require.NoError(t, store.Append([]types.LearnedLink{
		{Vulnerability: "V2", OFC: "O1", Similarity: 0.90},
	}))

	client := &vectorClient{vectors: map[string][]float64{
		"V1": vectorAt(1.0),
		"V2": vectorAt(0.0),
		"O1": vectorAt(0.95), // strong fresh match to V1
	}}

	vulns := []types.Vulnerability{{ID: "v1", Title: "V1"}, {ID: "v2", Title: "V2"}}
	ofcs := []types.OptionForConsideration{{ID: "o1", Title: "O1"}}

	linker := NewLinker(NewEmbedder(client), store)
	linker.ReinforcementWins = false
	_, err := linker.Link(context.Background(), vulns, ofcs)
	require.NoError(t, err)
	assert.Equal(t, "v1", ofcs[0].VulnerabilityID)
}

func TestSemanticDedupe_ThresholdBoundary(t *testing.T) {
	client := &vectorClient{vectors: map[string][]float64{
		"anchor":    vectorAt(1.0),
		"kept":      vectorAt(0.879),
		"collapsed": vectorAt(0.881),
	}}
	linker := NewLinker(NewEmbedder(client), nil)

	distinct, err := linker.SemanticDedupe(context.Background(), []types.OptionForConsideration{
		{ID: "a", Title: "anchor"},
		{ID: "b", Title: "kept"},
	})
	require.NoError(t, err)
	assert.Len(t, distinct, 2, "similarity 0.879 stays distinct")

	merged, err := linker.SemanticDedupe(context.Background(), []types.OptionForConsideration{
		{ID: "a", Title: "anchor"},
		{ID: "b", Title: "collapsed"},
	})
	require.NoError(t, err)
	require.Len(t, merged, 1, "similarity 0.881 collapses")
	assert.Equal(t, "a", merged[0].ID, "earlier occurrence wins")
}

func TestRankOFCs_DescendingConfidenceStable(t *testing.T) {
	ofcs := []types.OptionForConsideration{
		{ID: "a", Confidence: 0.2},
		{ID: "b", Confidence: 0.9},
		{ID: "c", Confidence: 0.2},
	}
	RankOFCs(ofcs)
	assert.Equal(t, []string{"b", "a", "c"}, []string{ofcs[0].ID, ofcs[1].ID, ofcs[2].ID})
}

func appendRawLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(line)
	return err
}

func TestFileMemoryStore_LoadMissingAndMalformed(t *testing.T) {
	store := NewFileMemoryStore(filepath.Join(t.TempDir(), "memory.jsonl"))

	entries, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, store.Append([]types.LearnedLink{
		{Vulnerability: "V1", OFC: "O1", Similarity: 0.8},
	}))

	// Inject a corrupt line, then a valid one; Load skips only the corrupt
	// record.
	require.NoError(t, appendRawLine(store.path, "not json\n"))
	require.NoError(t, store.Append([]types.LearnedLink{
		{Vulnerability: "V2", OFC: "O2", Similarity: 0.9},
	}))

	entries, err = store.Load()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "V1", entries[0].Vulnerability)
	assert.Equal(t, "V2", entries[1].Vulnerability)
}
