// Package transform turns raw per-item model outputs into usable vectors and
// scores: pooling, normalization, SPLADE sparse encoding, late-interaction
// extraction, MaxSim scoring and cross-encoder score extraction.
package transform

import (
	"errors"
	"fmt"
	"math"

	"github.com/hyperjump/bekutoru/internal/models"
)

// ErrInvalidPoolingStrategy is returned by Pool for an unrecognized strategy.
var ErrInvalidPoolingStrategy = errors.New("invalid pooling strategy")

// MeanPool averages token rows weighted by the attention mask. A fully masked
// input produces the zero vector: the zero denominator is forced to 1 so the
// result is never NaN.
func MeanPool(rows [][]float32, mask []int64) []float32 {
	if len(rows) == 0 {
		return nil
	}
	dim := len(rows[0])
	out := make([]float32, dim)
	var weight float64
	for s, row := range rows {
		if s >= len(mask) || mask[s] == 0 {
			continue
		}
		w := float32(mask[s])
		for j, v := range row {
			out[j] += v * w
		}
		weight += float64(mask[s])
	}
	if weight == 0 {
		weight = 1
	}
	inv := float32(1 / weight)
	for j := range out {
		out[j] *= inv
	}
	return out
}

// CLSPool returns a copy of the first sequence position; the mask is ignored.
func CLSPool(rows [][]float32) []float32 {
	if len(rows) == 0 {
		return nil
	}
	out := make([]float32, len(rows[0]))
	copy(out, rows[0])
	return out
}

// Normalize scales x in place to unit L2 norm. The zero vector is left
// unchanged rather than producing NaN or Inf.
func Normalize(x []float32) {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range x {
		x[i] *= inv
	}
}

// Pool dispatches to the pooler for strategy and optionally normalizes.
func Pool(strategy models.PoolingStrategy, rows [][]float32, mask []int64, normalize bool) ([]float32, error) {
	var out []float32
	switch strategy {
	case models.PoolingMean:
		out = MeanPool(rows, mask)
	case models.PoolingCLS:
		out = CLSPool(rows)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPoolingStrategy, string(strategy))
	}
	if normalize {
		Normalize(out)
	}
	return out, nil
}

// L2Norm returns the Euclidean norm of x.
func L2Norm(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
