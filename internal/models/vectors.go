package models

// SparseVector is a vocabulary-indexed sparse embedding. Indices and Weights are
// parallel slices; indices are unique and ascending, weights strictly positive.
type SparseVector struct {
	Indices []uint32  `json:"indices"`
	Weights []float32 `json:"weights"`
}

// NNZ returns the number of non-zero entries.
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// LateInteractionVector holds one unit-normalized vector per surviving token,
// in original sequence-position order. Masked-out positions are not present.
type LateInteractionVector struct {
	Tokens [][]float32 `json:"tokens"`
}

// TokenCount returns the number of surviving token vectors.
func (v LateInteractionVector) TokenCount() int {
	return len(v.Tokens)
}
