// Package vector holds the similarity primitives shared by the ontology
// enrichment and the community detector.
package vector

import (
	"math"
	"sort"
)

// Sparse is a feature vector keyed by feature name.
type Sparse map[string]float64

// Keys returns the feature names in sorted order.
func (s Sparse) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Norm returns the euclidean length of s.
func (s Sparse) Norm() float64 {
	var sum float64
	for _, k := range s.Keys() {
		sum += s[k] * s[k]
	}
	return math.Sqrt(sum)
}

// CosineSparse returns the cosine similarity of two sparse vectors, 0 when
// either is a zero vector. Keys are visited in sorted order so the result is
// bit-for-bit reproducible.
func CosineSparse(a, b Sparse) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}

	var dot float64
	for _, k := range a.Keys() {
		if v, ok := b[k]; ok {
			dot += a[k] * v
		}
	}

	return clamp(dot / (na * nb))
}

// Cosine returns the cosine similarity of two dense vectors of equal length,
// 0 for mismatched lengths or zero vectors.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}

	return clamp(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
