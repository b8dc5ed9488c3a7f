package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
debug: true
cache_root: /var/cache/embeddings
model:
  name: colbert-ir/colbertv2.0
  quantization: int8
  batch_size: 32
cache:
  lru_size: 512
  persistent_path: /var/cache/embeddings.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Debug {
		t.Error("debug not set")
	}
	if cfg.Model.Name != "colbert-ir/colbertv2.0" {
		t.Errorf("model name = %q", cfg.Model.Name)
	}
	if cfg.Model.Quantization != "int8" || cfg.Model.BatchSize != 32 {
		t.Errorf("model = %+v", cfg.Model)
	}
	if cfg.CacheRoot != "/var/cache/embeddings" {
		t.Errorf("cache root = %q", cfg.CacheRoot)
	}
	if cfg.Cache.LRUSize != 512 || cfg.Cache.PersistentPath != "/var/cache/embeddings.db" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "model:\n  name: acme/custom\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model.BatchSize != 256 {
		t.Errorf("batch size = %d, want default 256", cfg.Model.BatchSize)
	}
	if cfg.Cache.LRUSize != 10000 {
		t.Errorf("lru size = %d, want default 10000", cfg.Cache.LRUSize)
	}
	if cfg.CacheRoot == "" {
		t.Error("cache root default not applied")
	}
}

func TestLoad_RelativeCacheRoot(t *testing.T) {
	path := writeConfig(t, "cache_root: ./artifacts\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := filepath.Join(filepath.Dir(path), "artifacts")
	if cfg.CacheRoot != want {
		t.Errorf("cache root = %q, want %q", cfg.CacheRoot, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "model: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLogger(t *testing.T) {
	cfg := &Config{Debug: true}
	logger, err := cfg.Logger()
	if err != nil {
		t.Fatalf("Logger: %v", err)
	}
	if logger == nil {
		t.Fatal("nil logger")
	}
	_ = logger.Sync()
}

func TestOptions(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if got := len(cfg.Options()); got != 3 {
		t.Errorf("options = %d, want 3", got)
	}
	cfg.Model.Quantization = "int8"
	cfg.Cache.PersistentPath = "/tmp/cache.db"
	if got := len(cfg.Options()); got != 5 {
		t.Errorf("options = %d, want 5", got)
	}
}
