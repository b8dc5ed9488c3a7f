package bekutoru

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/bekutoru/future"
	"github.com/hyperjump/bekutoru/internal/cache"
	"github.com/hyperjump/bekutoru/internal/pipeline"
	"github.com/hyperjump/bekutoru/internal/transform"
)

// TextEmbedding produces dense vectors: the raw token output is pooled per the
// model's strategy and optionally L2-normalized.
type TextEmbedding struct {
	base
	lru   *cache.LRU
	store *cache.SQLiteStore
}

// NewTextEmbedding loads the dense model name, fetching artifacts on a cache miss.
func NewTextEmbedding(ctx context.Context, name string, opts ...ModelOption) (*TextEmbedding, error) {
	cfg := newLoadConfig(opts)
	b, err := loadBase(ctx, name, cfg)
	if err != nil {
		return nil, err
	}
	store, err := cfg.newStore()
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	return &TextEmbedding{base: *b, lru: cfg.newLRU(), store: store}, nil
}

// Embed returns one vector per input text, in input order. Input may be a
// single string or a collection of strings; the whole collection is validated
// before any batch is dispatched. Cached texts skip inference entirely.
func (m *TextEmbedding) Embed(ctx context.Context, input any, opts ...EmbedOption) ([][]float32, error) {
	call := m.call(opts)
	texts, err := pipeline.NormalizeInputs(input)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, len(texts))
	var missTexts []string
	var missIdx []int
	for i, text := range texts {
		if vec, ok := m.cached(text); ok {
			out[i] = vec
			continue
		}
		missTexts = append(missTexts, text)
		missIdx = append(missIdx, i)
	}
	if len(missTexts) == 0 {
		return out, nil
	}

	stream, err := m.pipe.Embed(ctx, missTexts, call.batchSize, call.progress)
	if err != nil {
		return nil, err
	}
	j := 0
	for stream.Scan() {
		item := stream.Item()
		vec, err := transform.Pool(m.desc.Pooling, item.Rows, item.Mask, m.desc.Normalize)
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", m.desc.Name, err)
		}
		out[missIdx[j]] = vec
		m.remember(missTexts[j], vec)
		j++
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// EmbedAsync runs Embed on a background goroutine and returns its future.
func (m *TextEmbedding) EmbedAsync(ctx context.Context, input any, opts ...EmbedOption) *future.Future[[][]float32] {
	return future.Go(func() ([][]float32, error) {
		return m.Embed(ctx, input, opts...)
	}, future.WithLogger(m.logger))
}

// cached consults the in-memory then persistent cache.
func (m *TextEmbedding) cached(text string) ([]float32, bool) {
	if m.lru != nil {
		if vec, ok := m.lru.Get(text); ok {
			return vec, true
		}
	}
	if m.store != nil {
		vec, ok, err := m.store.Get(m.desc.Name, text)
		if err != nil {
			m.logger.Warn("persistent cache lookup failed", zap.Error(err))
			return nil, false
		}
		if ok {
			if m.lru != nil {
				m.lru.Set(text, vec)
			}
			return vec, true
		}
	}
	return nil, false
}

// remember writes through to the configured caches.
func (m *TextEmbedding) remember(text string, vec []float32) {
	if m.lru != nil {
		m.lru.Set(text, vec)
	}
	if m.store != nil {
		if err := m.store.Put(m.desc.Name, text, vec); err != nil {
			m.logger.Warn("persistent cache write failed", zap.Error(err))
		}
	}
}

// Close releases the session and the persistent cache.
func (m *TextEmbedding) Close() error {
	err := m.base.Close()
	if m.store != nil {
		if cerr := m.store.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
