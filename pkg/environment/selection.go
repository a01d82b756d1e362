package environment

import (
	"math"
	"math/rand"
)

// normalizeWeights turns raw weights into probabilities. Non-positive and
// non-finite weights count as zero; if nothing is left every entry gets an
// equal share.
func normalizeWeights(weights []float64) []float64 {
	normalized := make([]float64, len(weights))

	var total float64
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 1) {
			normalized[i] = w
			total += w
		}
	}

	if total > 0 {
		for i := range normalized {
			normalized[i] /= total
		}
		return normalized
	}

	// If all weights are zero, use equal weights
	equalWeight := 1.0 / float64(len(weights))
	for i := range normalized {
		normalized[i] = equalWeight
	}
	return normalized
}

// weightedIndex draws an index with probability proportional to weights
func weightedIndex(rng *rand.Rand, weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	probabilities := normalizeWeights(weights)

	r := rng.Float64()
	cumulative := 0.0
	last := -1
	for i, p := range probabilities {
		if p == 0 {
			continue
		}
		cumulative += p
		last = i
		if r < cumulative {
			return i
		}
	}

	// Rounding can leave cumulative just under 1.0
	return last
}
