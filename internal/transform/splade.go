package transform

import (
	"math"

	"github.com/hyperjump/bekutoru/internal/models"
)

// SpladeEncode turns per-token vocabulary logits into a sparse vector. Each
// logit is transformed with ln(1 + max(logit, 0)) and max-pooled across
// unmasked sequence positions, so every vocabulary term keeps its single
// strongest activation anywhere in the sequence. ReLU discards negative
// activations; log1p bounds any single term's dominance. Only strictly
// positive accumulated weights are emitted, in ascending vocabulary order.
// A fully masked sequence yields an empty vector, which is valid.
func SpladeEncode(rows [][]float32, mask []int64) models.SparseVector {
	if len(rows) == 0 {
		return models.SparseVector{}
	}
	vocab := len(rows[0])
	acc := make([]float32, vocab)
	for s, row := range rows {
		if s >= len(mask) || mask[s] == 0 {
			continue
		}
		for v, logit := range row {
			if logit <= 0 {
				continue
			}
			w := float32(math.Log1p(float64(logit)))
			if w > acc[v] {
				acc[v] = w
			}
		}
	}

	var nnz int
	for _, w := range acc {
		if w > 0 {
			nnz++
		}
	}
	out := models.SparseVector{
		Indices: make([]uint32, 0, nnz),
		Weights: make([]float32, 0, nnz),
	}
	for v, w := range acc {
		if w > 0 {
			out.Indices = append(out.Indices, uint32(v))
			out.Weights = append(out.Weights, w)
		}
	}
	return out
}
