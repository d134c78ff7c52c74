package facematch

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrDegenerateEmbedding is returned for vectors that cannot be
// normalized: empty, containing NaN/Inf, or with zero magnitude.
var ErrDegenerateEmbedding = errors.New("degenerate embedding vector")

// Normalize validates a raw embedding and scales it to unit L2 norm.
// The input slice is not modified.
func Normalize(raw []float64) ([]float64, error) {
	if len(raw) == 0 {
		return nil, ErrDegenerateEmbedding
	}
	for _, v := range raw {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, ErrDegenerateEmbedding
		}
	}

	norm := floats.Norm(raw, 2)
	if norm == 0 {
		return nil, ErrDegenerateEmbedding
	}

	out := make([]float64, len(raw))
	copy(out, raw)
	floats.Scale(1/norm, out)
	return out, nil
}

// Valid reports whether v would survive Normalize. Used to filter
// gallery entries defensively even though stored vectors are expected
// to be normalized already.
func Valid(v []float64) bool {
	if len(v) == 0 {
		return false
	}
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return floats.Norm(v, 2) != 0
}

// Distance returns the Euclidean distance between two vectors of equal
// dimension. Both sides are expected to be unit-normalized, which makes
// the distance a strictly decreasing function of cosine similarity.
func Distance(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, ErrDimensionMismatch
	}
	if len(a) == 0 {
		return 0, ErrDegenerateEmbedding
	}
	return floats.Distance(a, b, 2), nil
}

// ErrDimensionMismatch is returned by Distance when the two vectors
// come from different embedding models.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")
