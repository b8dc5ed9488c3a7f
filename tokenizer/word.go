package tokenizer

import "fmt"

// BERT-style special token ids.
const (
	clsID = 101
	sepID = 102
)

// WordTokenizer is a word-split tokenizer with hash-based token IDs. It is a
// deterministic stand-in for a real subword tokenizer: the same text always
// produces the same ids, which is enough for tests and offline use.
type WordTokenizer struct {
	maxTokens int
}

// NewWordTokenizer returns a tokenizer padding and truncating to maxTokens.
func NewWordTokenizer(maxTokens int) *WordTokenizer {
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &WordTokenizer{maxTokens: maxTokens}
}

// EncodeBatch tokenizes each text as [CLS] words... [SEP] padded to the fixed length.
func (t *WordTokenizer) EncodeBatch(texts []string) ([]Encoding, error) {
	encodings := make([]Encoding, len(texts))
	for i, text := range texts {
		encodings[i] = t.encode(SplitWords(text), nil)
	}
	return encodings, nil
}

// EncodePairs tokenizes each pair as [CLS] query [SEP] document [SEP], with
// type id 1 on the document segment.
func (t *WordTokenizer) EncodePairs(queries, documents []string) ([]Encoding, error) {
	if len(queries) != len(documents) {
		return nil, fmt.Errorf("pair count mismatch: %d queries, %d documents", len(queries), len(documents))
	}
	encodings := make([]Encoding, len(queries))
	for i := range queries {
		encodings[i] = t.encode(SplitWords(queries[i]), SplitWords(documents[i]))
	}
	return encodings, nil
}

func (t *WordTokenizer) encode(first, second []string) Encoding {
	n := t.maxTokens
	enc := Encoding{
		IDs:           make([]int64, n),
		AttentionMask: make([]int64, n),
		TypeIDs:       make([]int64, n),
	}

	enc.IDs[0] = clsID
	enc.AttentionMask[0] = 1

	pos := 1
	for _, word := range first {
		if pos >= n-1 {
			break
		}
		enc.IDs[pos] = int64(HashString(word) % 30000)
		enc.AttentionMask[pos] = 1
		pos++
	}
	if pos < n {
		enc.IDs[pos] = sepID
		enc.AttentionMask[pos] = 1
		pos++
	}
	if second != nil {
		for _, word := range second {
			if pos >= n-1 {
				break
			}
			enc.IDs[pos] = int64(HashString(word) % 30000)
			enc.AttentionMask[pos] = 1
			enc.TypeIDs[pos] = 1
			pos++
		}
		if pos < n {
			enc.IDs[pos] = sepID
			enc.AttentionMask[pos] = 1
			enc.TypeIDs[pos] = 1
		}
	}
	return enc
}

// SplitWords splits text on whitespace and returns non-empty words.
func SplitWords(text string) []string {
	var words []string
	word := ""
	for _, r := range text {
		if r == ' ' || r == '\n' || r == '\t' {
			if word != "" {
				words = append(words, word)
				word = ""
			}
		} else {
			word += string(r)
		}
	}
	if word != "" {
		words = append(words, word)
	}
	return words
}

// HashString returns a deterministic hash for use as a simple token ID.
func HashString(s string) int {
	h := 0
	for _, c := range s {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	return h
}
