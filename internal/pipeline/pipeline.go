// Package pipeline slices inputs into batches, drives the tokenizer and
// inference session per batch, and yields raw per-item outputs lazily.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hyperjump/bekutoru/inference"
	"github.com/hyperjump/bekutoru/internal/models"
	"github.com/hyperjump/bekutoru/tokenizer"
)

// DefaultBatchSize is used when a caller passes a non-positive batch size.
const DefaultBatchSize = 256

// ProgressFunc is invoked exactly once per completed batch. It never fires for
// empty input.
type ProgressFunc func(models.BatchProgress)

// RawOutput is one item's raw model output: its rows (seq x width for token
// outputs, a single row for scalar outputs) and its attention mask.
type RawOutput struct {
	Rows [][]float32
	Mask []int64
}

// Pipeline drives tokenization and inference batch by batch. It has no
// internal concurrency: one Embed call processes its batches strictly
// sequentially on the calling goroutine.
type Pipeline struct {
	tok    tokenizer.Tokenizer
	sess   inference.Session
	logger *zap.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger attaches a logger for per-batch debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = logger }
}

// New creates a pipeline over the given tokenizer and session.
func New(tok tokenizer.Tokenizer, sess inference.Session, opts ...Option) *Pipeline {
	p := &Pipeline{tok: tok, sess: sess, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Embed validates input and returns a fresh stream of raw per-item outputs.
// Each call allocates a new stream; streams are not restartable but every call
// starts from the first item. Empty input yields an empty stream with zero
// inference calls.
func (p *Pipeline) Embed(ctx context.Context, input any, batchSize int, onProgress ProgressFunc) (*Stream, error) {
	texts, err := NormalizeInputs(input)
	if err != nil {
		return nil, err
	}
	return p.newStream(ctx, texts, nil, batchSize, onProgress), nil
}

// EmbedPairs returns a stream of raw outputs for (query, document) pairs
// encoded jointly, one per document. Used by cross-encoder models.
func (p *Pipeline) EmbedPairs(ctx context.Context, query string, documents any, batchSize int, onProgress ProgressFunc) (*Stream, error) {
	docs, err := NormalizeInputs(documents)
	if err != nil {
		return nil, err
	}
	queries := make([]string, len(docs))
	for i := range queries {
		queries[i] = query
	}
	return p.newStream(ctx, docs, queries, batchSize, onProgress), nil
}

func (p *Pipeline) newStream(ctx context.Context, texts, pairQueries []string, batchSize int, onProgress ProgressFunc) *Stream {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	total := (len(texts) + batchSize - 1) / batchSize
	return &Stream{
		ctx:         ctx,
		pipe:        p,
		texts:       texts,
		pairQueries: pairQueries,
		batchSize:   batchSize,
		total:       total,
		onProgress:  onProgress,
	}
}

// Stream is a lazy, finite sequence of raw per-item outputs. It follows the
// bufio.Scanner shape: Scan advances, Item returns the current output, Err
// reports the first failure.
type Stream struct {
	ctx         context.Context
	pipe        *Pipeline
	texts       []string
	pairQueries []string
	batchSize   int
	total       int
	onProgress  ProgressFunc

	pos     int
	batch   int
	pending []*RawOutput
	current *RawOutput
	err     error
}

// Scan advances to the next item, running the next batch when the current one
// is exhausted. It returns false at the end of input or on error.
func (s *Stream) Scan() bool {
	if s.err != nil {
		return false
	}
	if len(s.pending) == 0 {
		if s.pos >= len(s.texts) {
			return false
		}
		if err := s.nextBatch(); err != nil {
			s.err = err
			return false
		}
	}
	s.current = s.pending[0]
	s.pending = s.pending[1:]
	return true
}

// Item returns the output for the most recent Scan.
func (s *Stream) Item() *RawOutput {
	return s.current
}

// Err returns the first error encountered while streaming.
func (s *Stream) Err() error {
	return s.err
}

// Count returns the total number of items the stream will produce.
func (s *Stream) Count() int {
	return len(s.texts)
}

// nextBatch tokenizes and runs the next contiguous chunk, blocking until the
// inference call returns, then fires the progress callback.
func (s *Stream) nextBatch() error {
	if s.ctx != nil {
		if err := s.ctx.Err(); err != nil {
			return err
		}
	}
	end := s.pos + s.batchSize
	if end > len(s.texts) {
		end = len(s.texts)
	}
	chunk := s.texts[s.pos:end]

	var encodings []tokenizer.Encoding
	var err error
	if s.pairQueries != nil {
		encodings, err = s.pipe.tok.EncodePairs(s.pairQueries[s.pos:end], chunk)
	} else {
		encodings, err = s.pipe.tok.EncodeBatch(chunk)
	}
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	feed := inference.Feed{
		InputIDs:      make([][]int64, len(encodings)),
		AttentionMask: make([][]int64, len(encodings)),
	}
	for i, enc := range encodings {
		feed.InputIDs[i] = enc.IDs
		feed.AttentionMask[i] = enc.AttentionMask
	}
	// token_type_ids are fed only when the model declares that input.
	if s.pipe.sess.HasTokenTypeIDs() {
		feed.TypeIDs = make([][]int64, len(encodings))
		for i, enc := range encodings {
			feed.TypeIDs[i] = enc.TypeIDs
		}
	}

	result, err := s.pipe.sess.Run(feed)
	if err != nil {
		return err
	}

	s.pending = make([]*RawOutput, len(encodings))
	for i := range encodings {
		s.pending[i] = &RawOutput{Rows: result.Rows(i), Mask: encodings[i].AttentionMask}
	}
	s.pos = end
	s.batch++

	s.pipe.logger.Debug("batch complete",
		zap.Int("batch", s.batch),
		zap.Int("total", s.total),
		zap.Int("items", len(encodings)))
	if s.onProgress != nil {
		s.onProgress(models.BatchProgress{Current: s.batch, Total: s.total, BatchSize: s.batchSize})
	}
	return nil
}
