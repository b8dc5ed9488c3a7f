package bekutoru

import (
	"context"

	"github.com/hyperjump/bekutoru/future"
	"github.com/hyperjump/bekutoru/internal/transform"
)

// LateInteractionTextEmbedding produces one unit-normalized vector per token
// (ColBERT style); documents and queries are scored against each other with
// MaxSim.
type LateInteractionTextEmbedding struct {
	base
}

// NewLateInteractionTextEmbedding loads the late-interaction model name.
func NewLateInteractionTextEmbedding(ctx context.Context, name string, opts ...ModelOption) (*LateInteractionTextEmbedding, error) {
	cfg := newLoadConfig(opts)
	b, err := loadBase(ctx, name, cfg)
	if err != nil {
		return nil, err
	}
	return &LateInteractionTextEmbedding{base: *b}, nil
}

// Embed returns one token-vector sequence per input text, in input order.
// Masked-out positions are dropped; surviving vectors keep their sequence
// order and are each independently normalized.
func (m *LateInteractionTextEmbedding) Embed(ctx context.Context, input any, opts ...EmbedOption) ([]LateInteractionVector, error) {
	call := m.call(opts)
	stream, err := m.pipe.Embed(ctx, input, call.batchSize, call.progress)
	if err != nil {
		return nil, err
	}
	out := make([]LateInteractionVector, 0, stream.Count())
	for stream.Scan() {
		item := stream.Item()
		out = append(out, transform.LateInteraction(item.Rows, item.Mask))
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// EmbedAsync runs Embed on a background goroutine and returns its future.
func (m *LateInteractionTextEmbedding) EmbedAsync(ctx context.Context, input any, opts ...EmbedOption) *future.Future[[]LateInteractionVector] {
	return future.Go(func() ([]LateInteractionVector, error) {
		return m.Embed(ctx, input, opts...)
	}, future.WithLogger(m.logger))
}
