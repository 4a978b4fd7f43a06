package semantic

import (
	"math"

	"github.com/poiesic/docfind/text"
)

const bigramWeight = 0.5

// SparseVector is a bag-of-features weight map over unigrams and
// bigrams, with a precomputed Euclidean norm. It gives cheap cosine
// similarity without a trained embedding model.
type SparseVector struct {
	Weights map[string]float64
	Norm    float64
}

// BuildSparseVector tokenizes text and builds a weight map of unigram
// counts plus bigram counts at half weight. The norm is floored at 1
// to avoid division by zero on degenerate input.
func BuildSparseVector(input string) *SparseVector {
	tokens := text.Tokenize(input)

	weights := make(map[string]float64, len(tokens)*2)
	for i, token := range tokens {
		weights[token]++
		if i+1 < len(tokens) {
			weights[tokens[i]+"__"+tokens[i+1]] += bigramWeight
		}
	}

	sumSquares := 0.0
	for _, w := range weights {
		sumSquares += w * w
	}
	norm := math.Sqrt(sumSquares)
	if norm < 1 {
		norm = 1
	}

	return &SparseVector{Weights: weights, Norm: norm}
}

// Cosine computes the cosine similarity of two sparse vectors by
// iterating the smaller weight map. Returns a value in [0,1] for
// non-degenerate inputs.
func Cosine(a, b *SparseVector) float64 {
	if a == nil || b == nil {
		return 0
	}

	smaller, larger := a, b
	if len(b.Weights) < len(a.Weights) {
		smaller, larger = b, a
	}

	dot := 0.0
	for feature, weight := range smaller.Weights {
		if other, ok := larger.Weights[feature]; ok {
			dot += weight * other
		}
	}

	return dot / (a.Norm * b.Norm)
}
