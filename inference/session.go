// Package inference defines the inference session contract and its ONNX
// Runtime implementation.
package inference

// Canonical raw-output names, tried in order before falling back to the
// model's first declared output.
var canonicalOutputs = []string{"last_hidden_state", "token_embeddings", "logits"}

// Feed holds the named input tensors for one batch, all [batch][seq].
// TypeIDs is only consumed when the session declares a token_type_ids input.
type Feed struct {
	InputIDs      [][]int64
	AttentionMask [][]int64
	TypeIDs       [][]int64
}

// Result is the raw model output for one batch: flat row-major data with its
// shape, e.g. [batch, seq, hidden] for encoders or [batch, 1] for cross-encoders.
type Result struct {
	Shape []int64
	Data  []float32
}

// Rows returns the per-item rows for batch item i. For a 3-D output the result
// is seq rows of the trailing width; a 2-D output yields a single row.
func (r *Result) Rows(i int) [][]float32 {
	switch len(r.Shape) {
	case 3:
		seq, width := int(r.Shape[1]), int(r.Shape[2])
		rows := make([][]float32, seq)
		base := i * seq * width
		for s := 0; s < seq; s++ {
			rows[s] = r.Data[base+s*width : base+(s+1)*width]
		}
		return rows
	case 2:
		width := int(r.Shape[1])
		return [][]float32{r.Data[i*width : (i+1)*width]}
	default:
		return nil
	}
}

// Session runs model inference. Implementations must be safe for concurrent
// use; the pipeline performs exactly one Run call per batch and blocks on it.
type Session interface {
	// Run executes one forward pass over the batch in feed.
	Run(feed Feed) (*Result, error)
	// HasTokenTypeIDs reports whether the model declares a token_type_ids input.
	HasTokenTypeIDs() bool
	Close() error
}

// selectOutput picks the raw output name: canonical names first, then the
// first declared output.
func selectOutput(names []string) string {
	for _, want := range canonicalOutputs {
		for _, name := range names {
			if name == want {
				return name
			}
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return ""
}
