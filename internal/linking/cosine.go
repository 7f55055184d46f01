// Package linking assigns vulnerability↔OFC associations by embedding both
// sides, scoring pairwise cosine similarity, and reinforcing associations
// confirmed on previous runs through an append-only memory log.
package linking

import "math"

// CosineSimilarity computes the normalized dot product of two vectors.
// Mismatched lengths or zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
