package transform

import (
	"sort"

	"github.com/hyperjump/bekutoru/internal/models"
)

// CrossEncoderScore extracts the scalar relevance logit from one item's raw
// output: the first value of the model's first output. No pooling or
// normalization is applied; the score is a raw, unbounded-sign logit.
func CrossEncoderScore(rows [][]float32) float32 {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0
	}
	return rows[0][0]
}

// SortByScore stable-sorts results by descending score in place; ties keep
// their original order.
func SortByScore(results []models.ScoreResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
}

// TopK truncates results to the top k entries. Negative k keeps everything,
// k >= len keeps everything, zero yields an empty slice.
func TopK(results []models.ScoreResult, k int) []models.ScoreResult {
	if k < 0 || k >= len(results) {
		return results
	}
	return results[:k]
}
