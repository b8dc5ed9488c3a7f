package bekutoru

import (
	"context"

	"github.com/hyperjump/bekutoru/future"
	"github.com/hyperjump/bekutoru/internal/transform"
)

// SparseTextEmbedding produces SPLADE sparse vectors: vocabulary-indexed
// weights from ReLU'd, log-scaled logits max-pooled across the sequence.
type SparseTextEmbedding struct {
	base
}

// NewSparseTextEmbedding loads the sparse model name.
func NewSparseTextEmbedding(ctx context.Context, name string, opts ...ModelOption) (*SparseTextEmbedding, error) {
	cfg := newLoadConfig(opts)
	b, err := loadBase(ctx, name, cfg)
	if err != nil {
		return nil, err
	}
	return &SparseTextEmbedding{base: *b}, nil
}

// Embed returns one sparse vector per input text, in input order. A text whose
// tokens are all masked yields an empty vector.
func (m *SparseTextEmbedding) Embed(ctx context.Context, input any, opts ...EmbedOption) ([]SparseVector, error) {
	call := m.call(opts)
	stream, err := m.pipe.Embed(ctx, input, call.batchSize, call.progress)
	if err != nil {
		return nil, err
	}
	out := make([]SparseVector, 0, stream.Count())
	for stream.Scan() {
		item := stream.Item()
		out = append(out, transform.SpladeEncode(item.Rows, item.Mask))
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// EmbedAsync runs Embed on a background goroutine and returns its future.
func (m *SparseTextEmbedding) EmbedAsync(ctx context.Context, input any, opts ...EmbedOption) *future.Future[[]SparseVector] {
	return future.Go(func() ([]SparseVector, error) {
		return m.Embed(ctx, input, opts...)
	}, future.WithLogger(m.logger))
}
