package artifact

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hyperjump/bekutoru/internal/models"
	"github.com/hyperjump/bekutoru/internal/registry"
)

// maxRedirects is the hard cap on redirect hops per artifact download.
const maxRedirects = 10

// ErrTooManyRedirects is returned when a download chain exceeds maxRedirects hops.
var ErrTooManyRedirects = errors.New("too many redirects")

// DownloadError reports a terminal non-success response for a required artifact.
type DownloadError struct {
	URL        string
	StatusCode int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download failed: %s returned %d", e.URL, e.StatusCode)
}

// Resolver resolves model names to descriptors and local cache directories,
// fetching missing artifacts from the descriptor's source.
type Resolver struct {
	registry *registry.Registry
	root     string
	client   *http.Client
	logger   *zap.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithLogger attaches a logger for download progress and skipped files.
func WithLogger(logger *zap.Logger) ResolverOption {
	return func(r *Resolver) { r.logger = logger }
}

// WithHTTPClient replaces the HTTP client (used by tests against local servers).
func WithHTTPClient(client *http.Client) ResolverOption {
	return func(r *Resolver) { r.client = client }
}

// NewResolver creates a resolver caching under root. Redirects are followed
// manually so the hop limit and relative Location handling stay under our control.
func NewResolver(reg *registry.Registry, root string, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		registry: reg,
		root:     root,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	// Never let a caller-supplied client auto-follow; the hop accounting below
	// assumes one response per request.
	if r.client.CheckRedirect == nil {
		r.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return r
}

// Resolve returns the descriptor for name without touching the filesystem.
func (r *Resolver) Resolve(name string) (*models.ModelDescriptor, error) {
	return r.registry.Resolve(name)
}

// EnsureLocal returns the model's cache directory for d, fetching artifacts
// first when the cache is incomplete. The caller passes the descriptor rather
// than a name so variant overrides (quantization) reach the fetch. A cache hit
// performs no network access.
func (r *Resolver) EnsureLocal(ctx context.Context, d *models.ModelDescriptor) (string, error) {
	dir := CachePath(r.root, d)
	if IsCached(dir, d) {
		return dir, nil
	}
	if err := r.fetch(ctx, d, dir); err != nil {
		return "", err
	}
	return dir, nil
}

// fetch downloads the primary artifact and the fixed auxiliary set into dir.
// Files already present are skipped, so a partially fetched model resumes
// where it left off.
func (r *Resolver) fetch(ctx context.Context, d *models.ModelDescriptor, dir string) error {
	modelFile, err := QuantizedPath(d.ModelFile, d.Quantization)
	if err != nil {
		return fmt.Errorf("model %q: %w", d.Name, err)
	}

	required := map[string]bool{modelFile: true, TokenizerFile: true}
	files := append([]string{modelFile, TokenizerFile}, auxiliaryFiles...)
	for _, rel := range files {
		dest := filepath.Join(dir, filepath.FromSlash(rel))
		if _, err := os.Stat(dest); err == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
		srcURL := d.Source + "/resolve/main/" + rel
		data, err := r.download(ctx, srcURL)
		if err != nil {
			if !required[rel] {
				r.logger.Debug("optional artifact skipped",
					zap.String("model", d.Name),
					zap.String("file", rel),
					zap.Error(err))
				continue
			}
			return fmt.Errorf("model %q: %w", d.Name, err)
		}
		// Fully buffered above; the final path never holds a partial file.
		if err := os.WriteFile(dest, data, 0644); err != nil {
			return fmt.Errorf("failed to write artifact: %w", err)
		}
		r.logger.Info("artifact downloaded",
			zap.String("model", d.Name),
			zap.String("file", rel),
			zap.Int("bytes", len(data)))
	}
	return nil
}

// download GETs rawURL and returns the full body, following up to maxRedirects
// redirect hops. Relative Location headers are resolved against the current URL.
func (r *Resolver) download(ctx context.Context, rawURL string) ([]byte, error) {
	current, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid artifact URL %q: %w", rawURL, err)
	}
	for hop := 0; hop <= maxRedirects; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current.String(), nil)
		if err != nil {
			return nil, err
		}
		resp, err := r.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		if resp.StatusCode >= 300 && resp.StatusCode < 400 {
			loc := resp.Header.Get("Location")
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			if loc == "" {
				return nil, &DownloadError{URL: current.String(), StatusCode: resp.StatusCode}
			}
			next, err := url.Parse(loc)
			if err != nil {
				return nil, fmt.Errorf("invalid redirect location %q: %w", loc, err)
			}
			current = current.ResolveReference(next)
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			return nil, &DownloadError{URL: current.String(), StatusCode: resp.StatusCode}
		}
		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact body: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("%w: %s exceeded %d hops", ErrTooManyRedirects, rawURL, maxRedirects)
}
