// Package bekutoru computes text embeddings for semantic search and ranking:
// dense vectors (pooling plus normalization), SPLADE sparse vectors, ColBERT
// late-interaction token vectors with MaxSim scoring, and cross-encoder
// relevance scores. Models run on an ONNX inference session; artifacts are
// downloaded and cached on first use.
package bekutoru

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hyperjump/bekutoru/inference"
	"github.com/hyperjump/bekutoru/internal/artifact"
	"github.com/hyperjump/bekutoru/internal/cache"
	"github.com/hyperjump/bekutoru/internal/models"
	"github.com/hyperjump/bekutoru/internal/pipeline"
	"github.com/hyperjump/bekutoru/internal/registry"
	"github.com/hyperjump/bekutoru/internal/transform"
	"github.com/hyperjump/bekutoru/tokenizer"
)

// Re-exported data types. Consumers receive these from the model entry points.
type (
	ModelDescriptor       = models.ModelDescriptor
	PoolingStrategy       = models.PoolingStrategy
	Quantization          = models.Quantization
	SparseVector          = models.SparseVector
	LateInteractionVector = models.LateInteractionVector
	ScoreResult           = models.ScoreResult
	BatchProgress         = models.BatchProgress
	ProgressFunc          = pipeline.ProgressFunc
	Registry              = registry.Registry
)

const (
	PoolingMean = models.PoolingMean
	PoolingCLS  = models.PoolingCLS
	PoolingNone = models.PoolingNone

	QuantizationFP32  = models.QuantizationFP32
	QuantizationFP16  = models.QuantizationFP16
	QuantizationInt8  = models.QuantizationInt8
	QuantizationUint8 = models.QuantizationUint8
	QuantizationQ4    = models.QuantizationQ4
)

// NewRegistry returns a registry backed by the static model catalog; custom
// descriptors can be added with Register before loading a model.
func NewRegistry() *Registry {
	return registry.New()
}

// MaxSim scores a query against a document by late interaction: the sum over
// query tokens of the maximum dot product against any document token. Both
// sides must come from the same model.
func MaxSim(query, doc LateInteractionVector) float64 {
	return transform.MaxSim(query.Tokens, doc.Tokens)
}

// normalizeDocuments validates a document collection ahead of reranking so
// score results can carry the document text.
func normalizeDocuments(documents any) ([]string, error) {
	return pipeline.NormalizeInputs(documents)
}

// base holds what every model type shares: the descriptor, the batch pipeline
// over its tokenizer and session, and per-model defaults.
type base struct {
	desc      *models.ModelDescriptor
	sess      inference.Session
	pipe      *pipeline.Pipeline
	logger    *zap.Logger
	batchSize int
}

// Descriptor returns the model's immutable descriptor.
func (b *base) Descriptor() *ModelDescriptor { return b.desc }

// Dimensions returns the output dimension; 0 for cross-encoders.
func (b *base) Dimensions() int { return b.desc.Dim }

// Close releases the inference session.
func (b *base) Close() error { return b.sess.Close() }

// loadBase resolves the model, ensures artifacts are local, and wires the
// tokenizer and session. Injected sessions skip artifact resolution entirely.
func loadBase(ctx context.Context, name string, cfg *loadConfig) (*base, error) {
	reg := cfg.registry
	if reg == nil {
		reg = registry.New()
	}
	desc, err := reg.Resolve(name)
	if err != nil {
		return nil, err
	}
	if cfg.quantization != nil {
		// Resolve returns a private copy, so the override stays local.
		desc.Quantization = *cfg.quantization
		if _, err := desc.Quantization.Suffix(); err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
	}

	sess := cfg.session
	if sess == nil {
		root := cfg.cacheRoot
		if root == "" {
			root = defaultCacheRoot()
		}
		resolverOpts := []artifact.ResolverOption{artifact.WithLogger(cfg.logger)}
		if cfg.httpClient != nil {
			resolverOpts = append(resolverOpts, artifact.WithHTTPClient(cfg.httpClient))
		}
		resolver := artifact.NewResolver(reg, root, resolverOpts...)
		dir, err := resolver.EnsureLocal(ctx, desc)
		if err != nil {
			return nil, err
		}
		modelFile, err := artifact.QuantizedPath(desc.ModelFile, desc.Quantization)
		if err != nil {
			return nil, err
		}
		onnx, err := inference.NewONNXSession(filepath.Join(dir, filepath.FromSlash(modelFile)))
		if err != nil {
			return nil, fmt.Errorf("model %q: %w", name, err)
		}
		sess = onnx
	}

	tok := cfg.tok
	if tok == nil {
		tok = tokenizer.NewWordTokenizer(desc.MaxSequenceLength)
	}

	b := &base{
		desc:      desc,
		sess:      sess,
		pipe:      pipeline.New(tok, sess, pipeline.WithLogger(cfg.logger)),
		logger:    cfg.logger,
		batchSize: cfg.batchSize,
	}
	b.logger.Info("model loaded",
		zap.String("model", desc.Name),
		zap.Int("dim", desc.Dim),
		zap.String("pooling", string(desc.Pooling)))
	return b, nil
}

// defaultCacheRoot is <user cache dir>/bekutoru, falling back to a local
// directory when the user cache dir is unavailable.
func defaultCacheRoot() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "bekutoru")
	}
	return ".bekutoru-cache"
}

// embedCall resolves per-call settings against the model defaults.
type embedCall struct {
	batchSize int
	progress  ProgressFunc
}

func (b *base) call(opts []EmbedOption) embedCall {
	c := embedCall{batchSize: b.batchSize}
	for _, opt := range opts {
		opt(&c)
	}
	if c.batchSize <= 0 {
		c.batchSize = pipeline.DefaultBatchSize
	}
	return c
}

// loadConfig collects model-level options.
type loadConfig struct {
	registry     *registry.Registry
	cacheRoot    string
	httpClient   *http.Client
	session      inference.Session
	tok          tokenizer.Tokenizer
	logger       *zap.Logger
	quantization *models.Quantization
	batchSize    int
	lruSize      int
	cachePath    string
}

func newLoadConfig(opts []ModelOption) *loadConfig {
	cfg := &loadConfig{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// newLRU returns the configured in-memory cache, or nil when disabled.
func (cfg *loadConfig) newLRU() *cache.LRU {
	if cfg.lruSize <= 0 {
		return nil
	}
	return cache.NewLRU(cfg.lruSize)
}

// newStore opens the configured persistent cache, or returns nil when disabled.
func (cfg *loadConfig) newStore() (*cache.SQLiteStore, error) {
	if cfg.cachePath == "" {
		return nil, nil
	}
	return cache.NewSQLiteStore(cfg.cachePath)
}
