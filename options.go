package bekutoru

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/bekutoru/inference"
	"github.com/hyperjump/bekutoru/internal/models"
	"github.com/hyperjump/bekutoru/tokenizer"
)

// ModelOption configures model loading.
type ModelOption func(*loadConfig)

// WithRegistry resolves the model against reg instead of a fresh catalog-only
// registry; use this to load custom-registered models.
func WithRegistry(reg *Registry) ModelOption {
	return func(c *loadConfig) { c.registry = reg }
}

// WithCacheRoot overrides the artifact cache root directory.
func WithCacheRoot(root string) ModelOption {
	return func(c *loadConfig) { c.cacheRoot = root }
}

// WithHTTPClient replaces the HTTP client used for artifact downloads.
func WithHTTPClient(client *http.Client) ModelOption {
	return func(c *loadConfig) { c.httpClient = client }
}

// WithSession injects an inference session directly, skipping artifact
// resolution and download. Used by tests and by callers that manage their own
// runtime.
func WithSession(sess inference.Session) ModelOption {
	return func(c *loadConfig) { c.session = sess }
}

// WithTokenizer replaces the default tokenizer.
func WithTokenizer(tok tokenizer.Tokenizer) ModelOption {
	return func(c *loadConfig) { c.tok = tok }
}

// WithLogger attaches a logger to loading, downloads and the batch pipeline.
func WithLogger(logger *zap.Logger) ModelOption {
	return func(c *loadConfig) { c.logger = logger }
}

// WithQuantization selects a precision variant of the model weights.
func WithQuantization(q Quantization) ModelOption {
	return func(c *loadConfig) {
		qq := models.Quantization(q)
		c.quantization = &qq
	}
}

// WithDefaultBatchSize sets the batch size used when a call does not specify one.
func WithDefaultBatchSize(n int) ModelOption {
	return func(c *loadConfig) { c.batchSize = n }
}

// WithLRUCache enables an in-memory cache of up to n dense embeddings.
func WithLRUCache(n int) ModelOption {
	return func(c *loadConfig) { c.lruSize = n }
}

// WithPersistentCache enables a SQLite-backed embedding cache at path.
func WithPersistentCache(path string) ModelOption {
	return func(c *loadConfig) { c.cachePath = path }
}

// EmbedOption configures a single embed or rerank call.
type EmbedOption func(*embedCall)

// WithBatchSize sets the batch size for this call.
func WithBatchSize(n int) EmbedOption {
	return func(c *embedCall) { c.batchSize = n }
}

// WithProgress registers a callback fired once per completed batch.
func WithProgress(fn ProgressFunc) EmbedOption {
	return func(c *embedCall) { c.progress = fn }
}
