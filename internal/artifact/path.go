// Package artifact resolves model artifacts to local files, downloading and
// caching them on demand.
package artifact

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hyperjump/bekutoru/internal/models"
)

// Auxiliary files fetched alongside the model. They are best-effort: a source
// that lacks one is not an error.
var auxiliaryFiles = []string{
	"config.json",
	"tokenizer_config.json",
	"special_tokens_map.json",
}

// TokenizerFile is the tokenizer artifact, required for a model to be usable.
const TokenizerFile = "tokenizer.json"

// CachePath returns the deterministic cache directory for a model: the model
// name with path separators replaced by "--", nested under <root>/models.
func CachePath(root string, d *models.ModelDescriptor) string {
	return filepath.Join(root, "models", strings.ReplaceAll(d.Name, "/", "--"))
}

// QuantizedPath inserts the quantization suffix before the file extension of
// base, e.g. "onnx/model.onnx" with fp16 becomes "onnx/model_fp16.onnx".
// fp32 and the empty variant leave base unchanged.
func QuantizedPath(base string, q models.Quantization) (string, error) {
	suffix, err := q.Suffix()
	if err != nil {
		return "", err
	}
	if suffix == "" {
		return base, nil
	}
	ext := path.Ext(base)
	return base[:len(base)-len(ext)] + suffix + ext, nil
}

// IsCached reports whether dir holds the primary artifact and tokenizer for d.
// Only file existence is checked; there is no checksum verification.
func IsCached(dir string, d *models.ModelDescriptor) bool {
	modelFile, err := QuantizedPath(d.ModelFile, d.Quantization)
	if err != nil {
		return false
	}
	for _, rel := range []string{modelFile, TokenizerFile} {
		if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(rel))); err != nil {
			return false
		}
	}
	return true
}
