package bekutoru

import (
	"github.com/hyperjump/bekutoru/internal/artifact"
	"github.com/hyperjump/bekutoru/internal/models"
	"github.com/hyperjump/bekutoru/internal/pipeline"
	"github.com/hyperjump/bekutoru/internal/registry"
	"github.com/hyperjump/bekutoru/internal/transform"
)

// Sentinel errors surfaced by the package, for use with errors.Is.
var (
	// ErrUnknownModel: the model name is in neither the catalog nor the registry.
	ErrUnknownModel = registry.ErrUnknownModel
	// ErrInvalidPoolingStrategy: a descriptor carries an unrecognized pooling strategy.
	ErrInvalidPoolingStrategy = transform.ErrInvalidPoolingStrategy
	// ErrInvalidQuantization: an unknown quantization variant was requested.
	ErrInvalidQuantization = models.ErrInvalidQuantization
	// ErrTooManyRedirects: an artifact download exceeded the redirect hop limit.
	ErrTooManyRedirects = artifact.ErrTooManyRedirects
)

// Typed errors, for use with errors.As.
type (
	// InvalidInputError reports a nil or non-text input element.
	InvalidInputError = pipeline.InvalidInputError
	// DownloadError reports a terminal non-success response for a required artifact.
	DownloadError = artifact.DownloadError
)
