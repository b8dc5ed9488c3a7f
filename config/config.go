// Package config provides configuration loading for consumers embedding the
// library: model selection, artifact cache location and cache sizes.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hyperjump/bekutoru"
	"github.com/hyperjump/bekutoru/pkg/utils"
)

// Config holds all settings for loading a model.
type Config struct {
	Debug     bool        `yaml:"debug"`
	CacheRoot string      `yaml:"cache_root"`
	Model     ModelConfig `yaml:"model"`
	Cache     CacheConfig `yaml:"cache"`
}

// ModelConfig selects the model and its variant.
type ModelConfig struct {
	Name         string `yaml:"name"`
	Quantization string `yaml:"quantization"`
	BatchSize    int    `yaml:"batch_size"`
}

// CacheConfig holds embedding cache settings.
type CacheConfig struct {
	LRUSize        int    `yaml:"lru_size"`
	PersistentPath string `yaml:"persistent_path"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.CacheRoot = expandPath(cfg.CacheRoot, configDir)
	if cfg.Cache.PersistentPath != "" {
		cfg.Cache.PersistentPath = expandPath(cfg.Cache.PersistentPath, configDir)
	}

	return &cfg, nil
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Model.Name == "" {
		cfg.Model.Name = "BAAI/bge-small-en-v1.5"
	}
	if cfg.Model.BatchSize == 0 {
		cfg.Model.BatchSize = 256
	}
	if cfg.CacheRoot == "" {
		cfg.CacheRoot = ".cache/bekutoru"
	}
	if cfg.Cache.LRUSize == 0 {
		cfg.Cache.LRUSize = 10000
	}
}

// Logger builds a zap logger matching the configured debug setting.
func (cfg *Config) Logger() (*zap.Logger, error) {
	return utils.NewLogger(cfg.Debug)
}

// Options converts the config into model-load options.
func (cfg *Config) Options() []bekutoru.ModelOption {
	opts := []bekutoru.ModelOption{
		bekutoru.WithCacheRoot(cfg.CacheRoot),
		bekutoru.WithDefaultBatchSize(cfg.Model.BatchSize),
		bekutoru.WithLRUCache(cfg.Cache.LRUSize),
	}
	if cfg.Model.Quantization != "" {
		opts = append(opts, bekutoru.WithQuantization(bekutoru.Quantization(cfg.Model.Quantization)))
	}
	if cfg.Cache.PersistentPath != "" {
		opts = append(opts, bekutoru.WithPersistentCache(cfg.Cache.PersistentPath))
	}
	return opts
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
