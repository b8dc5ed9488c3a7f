// Package models defines the data types shared across the embedding engine.
package models

import (
	"errors"
	"fmt"
)

// PoolingStrategy selects how per-token vectors are reduced to one vector.
type PoolingStrategy string

const (
	// PoolingMean averages token vectors weighted by the attention mask.
	PoolingMean PoolingStrategy = "mean"
	// PoolingCLS takes the first sequence position and ignores the mask.
	PoolingCLS PoolingStrategy = "cls"
	// PoolingNone leaves the raw output untouched (sparse and late-interaction models).
	PoolingNone PoolingStrategy = "none"
)

// Quantization names a precision variant of the same model weights.
type Quantization string

const (
	QuantizationFP32  Quantization = "fp32"
	QuantizationFP16  Quantization = "fp16"
	QuantizationInt8  Quantization = "int8"
	QuantizationUint8 Quantization = "uint8"
	QuantizationQ4    Quantization = "q4"
)

// ErrInvalidQuantization is returned for a quantization variant that is not known.
var ErrInvalidQuantization = errors.New("invalid quantization variant")

// Suffix returns the filename suffix inserted before the extension for this
// variant. fp32 and the empty variant use the base filename unchanged.
func (q Quantization) Suffix() (string, error) {
	switch q {
	case "", QuantizationFP32:
		return "", nil
	case QuantizationFP16:
		return "_fp16", nil
	case QuantizationInt8:
		return "_int8", nil
	case QuantizationUint8:
		return "_uint8", nil
	case QuantizationQ4:
		return "_q4", nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidQuantization, string(q))
	}
}

// ModelDescriptor describes one model in the catalog. Descriptors are built once
// (at catalog definition or custom registration) and never mutated.
type ModelDescriptor struct {
	// Name is the model identifier, e.g. "BAAI/bge-small-en-v1.5".
	Name string `yaml:"name" json:"name"`
	// Dim is the output dimension; 0 for cross-encoders, which emit scalars.
	Dim int `yaml:"dim" json:"dim"`
	// Pooling selects the reduction applied to dense model outputs.
	Pooling PoolingStrategy `yaml:"pooling" json:"pooling"`
	// Normalize controls L2 normalization of pooled vectors.
	Normalize bool `yaml:"normalize" json:"normalize"`
	// MaxSequenceLength is the tokenizer truncation/padding length.
	MaxSequenceLength int `yaml:"max_sequence_length" json:"max_sequence_length"`
	// ModelFile is the primary artifact path relative to the model directory,
	// e.g. "onnx/model.onnx". The quantization suffix is applied to this file.
	ModelFile string `yaml:"model_file" json:"model_file"`
	// Quantization is the precision variant to fetch and load.
	Quantization Quantization `yaml:"quantization" json:"quantization"`
	// Source is the artifact source locator, e.g.
	// "https://huggingface.co/BAAI/bge-small-en-v1.5".
	Source string `yaml:"source" json:"source"`
}
