package linking

import (
	"context"
	"fmt"

	"github.com/frostline/vofc-engine/internal/llm"
)

// fallbackDim is the dimensionality of the deterministic placeholder vector
// substituted for failed embeddings.
const fallbackDim = 10

// Embedder wraps an inference client's embedding call and guarantees that
// every input text yields a usable vector: when the provider returns an
// empty or missing vector, a deterministic placeholder derived from the text
// length is substituted so downstream similarity math stays defined.
type Embedder struct {
	client llm.Client
}

// NewEmbedder builds an embedder over an inference client. A nil client
// yields a nil embedder, which the linker treats as "embeddings unavailable".
func NewEmbedder(client llm.Client) *Embedder {
	if client == nil {
		return nil
	}
	return &Embedder{client: client}
}

// EmbedTexts returns one vector per input text, substituting placeholder
// vectors for any position the provider failed to fill.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	vectors, err := e.client.Embed(ctx, texts)
	if err != nil {
		fmt.Printf("Warning: embedding call failed, using placeholder vectors: %v\n", err)
		vectors = make([][]float64, len(texts))
	}
	if len(vectors) != len(texts) {
		padded := make([][]float64, len(texts))
		copy(padded, vectors)
		vectors = padded
	}

	for i, vec := range vectors {
		if len(vec) == 0 {
			vectors[i] = fallbackVector(texts[i])
		}
	}
	return vectors, nil
}

// fallbackVector derives a low-dimensional deterministic vector from text
// length alone. Identical lengths embed identically, which is acceptable for
// a last-resort placeholder.
func fallbackVector(text string) []float64 {
	value := float64(len(text)%512) / 512.0
	vec := make([]float64, fallbackDim)
	for i := range vec {
		vec[i] = value
	}
	return vec
}
