package retriever

import (
	"math"
	"sort"
)

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. A zero vector has no direction; its similarity against anything
// is defined as exactly 0 so a degenerate embedding is never preferred over
// a real match. Mismatched dimensions also score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		normA += va * va
		normB += vb * vb
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Match pairs a corpus index with its similarity score.
type Match struct {
	Index int
	Score float64
}

// TopK scores every corpus vector against the query and returns the best
// min(k, len(corpus)) matches, descending by score. The scan is exhaustive;
// corpora are textbook-scale, so no index structure is warranted.
func TopK(query []float32, corpus [][]float32, k int) []Match {
	if k <= 0 {
		return nil
	}

	matches := make([]Match, len(corpus))
	for i, vec := range corpus {
		matches[i] = Match{Index: i, Score: CosineSimilarity(query, vec)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if k < len(matches) {
		matches = matches[:k]
	}
	return matches
}
