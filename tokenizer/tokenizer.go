// Package tokenizer defines the tokenizer contract consumed by the batch
// pipeline, plus a deterministic fallback implementation.
package tokenizer

// PadID is the padding token id used to fill encodings to the fixed length.
const PadID = 0

// Encoding is one tokenized text: parallel id/mask/type slices of equal length.
type Encoding struct {
	IDs           []int64
	AttentionMask []int64
	TypeIDs       []int64
}

// Tokenizer converts texts to fixed-length encodings. Padding and truncation
// length are configured once at load time; implementations must be safe for
// concurrent use.
type Tokenizer interface {
	// EncodeBatch tokenizes each text independently.
	EncodeBatch(texts []string) ([]Encoding, error)
	// EncodePairs tokenizes (query, document) pairs jointly as a single
	// sequence with segment type ids, for cross-encoder models.
	EncodePairs(queries, documents []string) ([]Encoding, error)
}
