package registry

import "github.com/hyperjump/bekutoru/internal/models"

// catalog is the static table of supported models. Entries are never mutated;
// custom models are added at runtime through Registry.Register instead.
var catalog = map[string]*models.ModelDescriptor{
	"BAAI/bge-small-en-v1.5": {
		Name:              "BAAI/bge-small-en-v1.5",
		Dim:               384,
		Pooling:           models.PoolingCLS,
		Normalize:         true,
		MaxSequenceLength: 512,
		ModelFile:         "onnx/model.onnx",
		Source:            "https://huggingface.co/BAAI/bge-small-en-v1.5",
	},
	"BAAI/bge-base-en-v1.5": {
		Name:              "BAAI/bge-base-en-v1.5",
		Dim:               768,
		Pooling:           models.PoolingCLS,
		Normalize:         true,
		MaxSequenceLength: 512,
		ModelFile:         "onnx/model.onnx",
		Source:            "https://huggingface.co/BAAI/bge-base-en-v1.5",
	},
	"sentence-transformers/all-MiniLM-L6-v2": {
		Name:              "sentence-transformers/all-MiniLM-L6-v2",
		Dim:               384,
		Pooling:           models.PoolingMean,
		Normalize:         true,
		MaxSequenceLength: 256,
		ModelFile:         "onnx/model.onnx",
		Source:            "https://huggingface.co/sentence-transformers/all-MiniLM-L6-v2",
	},
	"prithivida/Splade_PP_en_v1": {
		Name:              "prithivida/Splade_PP_en_v1",
		Pooling:           models.PoolingNone,
		MaxSequenceLength: 512,
		ModelFile:         "onnx/model.onnx",
		Source:            "https://huggingface.co/prithivida/Splade_PP_en_v1",
	},
	"colbert-ir/colbertv2.0": {
		Name:              "colbert-ir/colbertv2.0",
		Dim:               128,
		Pooling:           models.PoolingNone,
		Normalize:         true,
		MaxSequenceLength: 512,
		ModelFile:         "onnx/model.onnx",
		Source:            "https://huggingface.co/colbert-ir/colbertv2.0",
	},
	"Xenova/ms-marco-MiniLM-L-6-v2": {
		Name:              "Xenova/ms-marco-MiniLM-L-6-v2",
		Pooling:           models.PoolingNone,
		MaxSequenceLength: 512,
		ModelFile:         "onnx/model.onnx",
		Source:            "https://huggingface.co/Xenova/ms-marco-MiniLM-L-6-v2",
	},
}
