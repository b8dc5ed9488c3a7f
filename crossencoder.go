package bekutoru

import (
	"context"

	"github.com/hyperjump/bekutoru/future"
	"github.com/hyperjump/bekutoru/internal/models"
	"github.com/hyperjump/bekutoru/internal/transform"
)

// TextCrossEncoder scores (query, document) pairs jointly: each candidate is
// encoded as a single paired sequence and the model's first output yields one
// raw relevance logit per pair. Scores are unbounded in sign; no pooling or
// normalization is applied.
type TextCrossEncoder struct {
	base
}

// NewTextCrossEncoder loads the cross-encoder model name.
func NewTextCrossEncoder(ctx context.Context, name string, opts ...ModelOption) (*TextCrossEncoder, error) {
	cfg := newLoadConfig(opts)
	b, err := loadBase(ctx, name, cfg)
	if err != nil {
		return nil, err
	}
	return &TextCrossEncoder{base: *b}, nil
}

// Rerank returns one score per document, in input document order.
func (m *TextCrossEncoder) Rerank(ctx context.Context, query string, documents any, opts ...EmbedOption) ([]float32, error) {
	call := m.call(opts)
	stream, err := m.pipe.EmbedPairs(ctx, query, documents, call.batchSize, call.progress)
	if err != nil {
		return nil, err
	}
	scores := make([]float32, 0, stream.Count())
	for stream.Scan() {
		scores = append(scores, transform.CrossEncoderScore(stream.Item().Rows))
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	return scores, nil
}

// RerankTopK scores every document and returns results stable-sorted by
// descending score (ties keep input order), truncated to topK. A negative
// topK keeps all results; zero yields an empty slice.
func (m *TextCrossEncoder) RerankTopK(ctx context.Context, query string, documents any, topK int, opts ...EmbedOption) ([]ScoreResult, error) {
	docs, err := normalizeDocuments(documents)
	if err != nil {
		return nil, err
	}
	scores, err := m.Rerank(ctx, query, docs, opts...)
	if err != nil {
		return nil, err
	}
	results := make([]models.ScoreResult, len(scores))
	for i, score := range scores {
		results[i] = models.ScoreResult{Index: i, Score: score, Document: docs[i]}
	}
	transform.SortByScore(results)
	return transform.TopK(results, topK), nil
}

// RerankAsync runs Rerank on a background goroutine and returns its future.
func (m *TextCrossEncoder) RerankAsync(ctx context.Context, query string, documents any, opts ...EmbedOption) *future.Future[[]float32] {
	return future.Go(func() ([]float32, error) {
		return m.Rerank(ctx, query, documents, opts...)
	}, future.WithLogger(m.logger))
}

// RerankTopKAsync runs RerankTopK on a background goroutine and returns its future.
func (m *TextCrossEncoder) RerankTopKAsync(ctx context.Context, query string, documents any, topK int, opts ...EmbedOption) *future.Future[[]ScoreResult] {
	return future.Go(func() ([]ScoreResult, error) {
		return m.RerankTopK(ctx, query, documents, topK, opts...)
	}, future.WithLogger(m.logger))
}
