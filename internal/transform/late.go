package transform

import "github.com/hyperjump/bekutoru/internal/models"

// LateInteraction keeps the token vectors at unmasked positions, L2-normalizes
// each one independently, and preserves original sequence order. An item with
// no surviving tokens yields an empty vector, which is a valid degenerate
// result.
func LateInteraction(rows [][]float32, mask []int64) models.LateInteractionVector {
	out := models.LateInteractionVector{}
	for s, row := range rows {
		if s >= len(mask) || mask[s] == 0 {
			continue
		}
		token := make([]float32, len(row))
		copy(token, row)
		Normalize(token)
		out.Tokens = append(out.Tokens, token)
	}
	return out
}
