package domain

import "math"

// CosineSimilarity returns the normalized dot product of a and b in
// [-1, 1]. ok is false when the vectors cannot be scored: mismatched
// dimensionality or a zero-norm operand. Scores are used purely for
// ranking, never thresholded.
func CosineSimilarity(a, b []float32) (score float64, ok bool) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, false
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
