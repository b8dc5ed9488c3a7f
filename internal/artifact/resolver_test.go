package artifact

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/hyperjump/bekutoru/internal/models"
	"github.com/hyperjump/bekutoru/internal/registry"
)

// newArtifactServer serves a fake model repo: model and tokenizer exist, the
// auxiliary files 404. Returns the server and a request counter.
func newArtifactServer(t *testing.T) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var requests atomic.Int64
	r := chi.NewRouter()
	r.Get("/acme/tiny/resolve/main/*", func(w http.ResponseWriter, req *http.Request) {
		requests.Add(1)
		switch chi.URLParam(req, "*") {
		case "onnx/model.onnx":
			_, _ = w.Write([]byte("model-bytes"))
		case "tokenizer.json":
			_, _ = w.Write([]byte("{}"))
		default:
			http.NotFound(w, req)
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, &requests
}

func newTestRegistry(t *testing.T, source string) *registry.Registry {
	t.Helper()
	reg := registry.New()
	err := reg.Register(&models.ModelDescriptor{
		Name:              "acme/tiny",
		Dim:               2,
		Pooling:           models.PoolingMean,
		MaxSequenceLength: 16,
		ModelFile:         "onnx/model.onnx",
		Source:            source,
	})
	if err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestEnsureLocal_FetchesRequiredAndSkipsMissingAuxiliary(t *testing.T) {
	srv, _ := newArtifactServer(t)
	reg := newTestRegistry(t, srv.URL+"/acme/tiny")
	root := t.TempDir()

	resolver := NewResolver(reg, root)
	d, err := resolver.Resolve("acme/tiny")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	dir, err := resolver.EnsureLocal(context.Background(), d)
	if err != nil {
		t.Fatalf("EnsureLocal: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "onnx", "model.onnx"))
	if err != nil {
		t.Fatalf("model not written: %v", err)
	}
	if string(data) != "model-bytes" {
		t.Errorf("model content = %q", data)
	}
	if _, err := os.Stat(filepath.Join(dir, TokenizerFile)); err != nil {
		t.Errorf("tokenizer not written: %v", err)
	}
	// Auxiliary 404s are skipped, not fatal.
	if _, err := os.Stat(filepath.Join(dir, "config.json")); !os.IsNotExist(err) {
		t.Error("missing auxiliary file should not be created")
	}
}

func TestEnsureLocal_CacheHitMakesNoRequests(t *testing.T) {
	srv, requests := newArtifactServer(t)
	reg := newTestRegistry(t, srv.URL+"/acme/tiny")
	root := t.TempDir()

	resolver := NewResolver(reg, root)
	d, err := resolver.Resolve("acme/tiny")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := resolver.EnsureLocal(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	before := requests.Load()
	if _, err := resolver.EnsureLocal(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	if requests.Load() != before {
		t.Errorf("cache hit made %d extra requests", requests.Load()-before)
	}
}

func TestEnsureLocal_SkipsAlreadyPresentFiles(t *testing.T) {
	srv, requests := newArtifactServer(t)
	reg := newTestRegistry(t, srv.URL+"/acme/tiny")
	root := t.TempDir()

	d, _ := reg.Resolve("acme/tiny")
	dir := CachePath(root, d)
	if err := os.MkdirAll(filepath.Join(dir, "onnx"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "onnx", "model.onnx"), []byte("local"), 0644); err != nil {
		t.Fatal(err)
	}

	resolver := NewResolver(reg, root)
	if _, err := resolver.EnsureLocal(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	// The pre-existing model file is kept, only the remaining files are requested.
	data, _ := os.ReadFile(filepath.Join(dir, "onnx", "model.onnx"))
	if string(data) != "local" {
		t.Errorf("present file was re-downloaded: %q", data)
	}
	if requests.Load() == 0 {
		t.Error("expected at least the tokenizer to be fetched")
	}
}

func TestResolve_UnknownModel(t *testing.T) {
	resolver := NewResolver(registry.New(), t.TempDir())
	_, err := resolver.Resolve("acme/nope")
	if !errors.Is(err, registry.ErrUnknownModel) {
		t.Errorf("expected ErrUnknownModel, got %v", err)
	}
}

func TestEnsureLocal_FetchesQuantizedVariant(t *testing.T) {
	var paths []string
	r := chi.NewRouter()
	r.Get("/acme/quant/resolve/main/*", func(w http.ResponseWriter, req *http.Request) {
		rel := chi.URLParam(req, "*")
		paths = append(paths, rel)
		switch rel {
		case "onnx/model_int8.onnx":
			_, _ = w.Write([]byte("int8-bytes"))
		case "tokenizer.json":
			_, _ = w.Write([]byte("{}"))
		default:
			http.NotFound(w, req)
		}
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	reg := registry.New()
	err := reg.Register(&models.ModelDescriptor{
		Name:              "acme/quant",
		Dim:               2,
		Pooling:           models.PoolingMean,
		MaxSequenceLength: 16,
		ModelFile:         "onnx/model.onnx",
		Quantization:      models.QuantizationInt8,
		Source:            srv.URL + "/acme/quant",
	})
	if err != nil {
		t.Fatal(err)
	}

	resolver := NewResolver(reg, t.TempDir())
	d, err := resolver.Resolve("acme/quant")
	if err != nil {
		t.Fatal(err)
	}
	dir, err := resolver.EnsureLocal(context.Background(), d)
	if err != nil {
		t.Fatalf("EnsureLocal: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "onnx", "model_int8.onnx")); err != nil {
		t.Errorf("quantized model not written: %v", err)
	}
	for _, p := range paths {
		if p == "onnx/model.onnx" {
			t.Errorf("base variant requested despite int8 descriptor: %v", paths)
		}
	}
}

func TestEnsureLocal_RequiredFileFailureIsFatal(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/acme/tiny/resolve/main/*", func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	reg := newTestRegistry(t, srv.URL+"/acme/tiny")
	resolver := NewResolver(reg, t.TempDir())
	d, err := resolver.Resolve("acme/tiny")
	if err != nil {
		t.Fatal(err)
	}
	_, err = resolver.EnsureLocal(context.Background(), d)
	var dlErr *DownloadError
	if !errors.As(err, &dlErr) {
		t.Fatalf("expected DownloadError, got %v", err)
	}
	if dlErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", dlErr.StatusCode)
	}
}

func TestDownload_FollowsRelativeRedirects(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/hop/{n}", func(w http.ResponseWriter, req *http.Request) {
		n := chi.URLParam(req, "n")
		if n == "3" {
			_, _ = w.Write([]byte("payload"))
			return
		}
		// Relative Location, resolved against the current scheme+host.
		next := map[string]string{"1": "/hop/2", "2": "/hop/3"}[n]
		w.Header().Set("Location", next)
		w.WriteHeader(http.StatusFound)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resolver := NewResolver(registry.New(), t.TempDir())
	data, err := resolver.download(context.Background(), srv.URL+"/hop/1")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q", data)
	}
}

func TestDownload_TooManyRedirects(t *testing.T) {
	var hops atomic.Int64
	r := chi.NewRouter()
	r.Get("/loop", func(w http.ResponseWriter, req *http.Request) {
		hops.Add(1)
		w.Header().Set("Location", "/loop")
		w.WriteHeader(http.StatusMovedPermanently)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resolver := NewResolver(registry.New(), t.TempDir())
	_, err := resolver.download(context.Background(), srv.URL+"/loop")
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Fatalf("expected ErrTooManyRedirects, got %v", err)
	}
	if hops.Load() > 11 {
		t.Errorf("made %d requests, expected at most 11 (initial + 10 hops)", hops.Load())
	}
}

func TestDownload_AbsoluteRedirectAcrossHosts(t *testing.T) {
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		fmt.Fprint(w, "moved-payload")
	}))
	t.Cleanup(target.Close)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, target.URL+"/file", http.StatusTemporaryRedirect)
	}))
	t.Cleanup(origin.Close)

	resolver := NewResolver(registry.New(), t.TempDir())
	data, err := resolver.download(context.Background(), origin.URL+"/file")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if string(data) != "moved-payload" {
		t.Errorf("data = %q", data)
	}
}
