package tokenizer

import "testing"

func TestEncodeBatch_FixedLengthAndPadding(t *testing.T) {
	tok := NewWordTokenizer(8)
	encs, err := tok.EncodeBatch([]string{"hello world"})
	if err != nil {
		t.Fatal(err)
	}
	enc := encs[0]
	if len(enc.IDs) != 8 || len(enc.AttentionMask) != 8 || len(enc.TypeIDs) != 8 {
		t.Fatalf("lengths = %d/%d/%d, want 8", len(enc.IDs), len(enc.AttentionMask), len(enc.TypeIDs))
	}
	// [CLS] hello world [SEP] then padding with pad id 0 and mask 0.
	if enc.IDs[0] != clsID || enc.AttentionMask[0] != 1 {
		t.Error("missing CLS")
	}
	if enc.IDs[3] != sepID {
		t.Errorf("expected SEP at position 3, got %d", enc.IDs[3])
	}
	for pos := 4; pos < 8; pos++ {
		if enc.IDs[pos] != PadID || enc.AttentionMask[pos] != 0 {
			t.Errorf("position %d not padded: id=%d mask=%d", pos, enc.IDs[pos], enc.AttentionMask[pos])
		}
	}
}

func TestEncodeBatch_Deterministic(t *testing.T) {
	tok := NewWordTokenizer(16)
	a, _ := tok.EncodeBatch([]string{"same text"})
	b, _ := tok.EncodeBatch([]string{"same text"})
	for i := range a[0].IDs {
		if a[0].IDs[i] != b[0].IDs[i] {
			t.Fatal("tokenization is not deterministic")
		}
	}
}

func TestEncodeBatch_Truncation(t *testing.T) {
	tok := NewWordTokenizer(4)
	encs, _ := tok.EncodeBatch([]string{"one two three four five six"})
	if len(encs[0].IDs) != 4 {
		t.Fatalf("length = %d, want 4", len(encs[0].IDs))
	}
}

func TestEncodePairs_SegmentTypeIDs(t *testing.T) {
	tok := NewWordTokenizer(16)
	encs, err := tok.EncodePairs([]string{"q"}, []string{"doc text"})
	if err != nil {
		t.Fatal(err)
	}
	enc := encs[0]
	// [CLS] q [SEP] doc text [SEP]: query segment type 0, document segment type 1.
	if enc.TypeIDs[1] != 0 {
		t.Error("query token has type id 1")
	}
	if enc.TypeIDs[3] != 1 || enc.TypeIDs[4] != 1 {
		t.Errorf("document tokens missing type id 1: %v", enc.TypeIDs[:6])
	}
}

func TestEncodePairs_CountMismatch(t *testing.T) {
	tok := NewWordTokenizer(8)
	if _, err := tok.EncodePairs([]string{"a", "b"}, []string{"x"}); err == nil {
		t.Error("expected error for mismatched pair counts")
	}
}

func TestSplitWords(t *testing.T) {
	words := SplitWords("  foo\tbar\nbaz  ")
	if len(words) != 3 || words[0] != "foo" || words[2] != "baz" {
		t.Errorf("got %v", words)
	}
}

func TestHashString_DeterministicNonNegative(t *testing.T) {
	if HashString("abc") != HashString("abc") {
		t.Error("hash not deterministic")
	}
	if HashString("abc") < 0 {
		t.Error("hash negative")
	}
}
