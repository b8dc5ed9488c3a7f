//go:build !cgo
// +build !cgo

package inference

import "errors"

// ONNXSession stub type when built without CGO (see onnx.go for the real
// implementation).
type ONNXSession struct{}

// NewONNXSession returns an error when built without CGO (ONNX not available).
func NewONNXSession(_ string) (*ONNXSession, error) {
	return nil, errors.New("ONNX session requires CGO; build with CGO_ENABLED=1 and onnxruntime")
}

// HasTokenTypeIDs always reports false on the stub.
func (s *ONNXSession) HasTokenTypeIDs() bool { return false }

// Run always fails on the stub.
func (s *ONNXSession) Run(_ Feed) (*Result, error) {
	return nil, errors.New("ONNX session requires CGO")
}

// Close is a no-op on the stub.
func (s *ONNXSession) Close() error { return nil }
