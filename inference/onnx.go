//go:build cgo
// +build cgo

package inference

import (
	"errors"
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXSession runs inference through ONNX Runtime. It requires CGO and the
// onnxruntime shared library. Batches vary in shape, so tensors are created
// per Run against a dynamic session.
type ONNXSession struct {
	session      *ort.DynamicAdvancedSession
	inputNames   []string
	outputName   string
	hasTypeIDs   bool
	mu           sync.Mutex
}

// NewONNXSession opens the model at modelPath. Input names are discovered from
// the model; token_type_ids is fed only when the model declares it. The raw
// output is located by canonical name, falling back to the first output.
func NewONNXSession(modelPath string) (*ONNXSession, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, fmt.Errorf("failed to inspect model: %w", err)
	}
	if len(outputs) == 0 {
		return nil, errors.New("model declares no outputs")
	}

	hasTypeIDs := false
	inputNames := []string{"input_ids", "attention_mask"}
	for _, in := range inputs {
		if in.Name == "token_type_ids" {
			hasTypeIDs = true
			inputNames = append(inputNames, "token_type_ids")
			break
		}
	}

	outputNames := make([]string, len(outputs))
	for i, out := range outputs {
		outputNames[i] = out.Name
	}
	outputName := selectOutput(outputNames)

	session, err := ort.NewDynamicAdvancedSession(modelPath, inputNames, []string{outputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &ONNXSession{
		session:    session,
		inputNames: inputNames,
		outputName: outputName,
		hasTypeIDs: hasTypeIDs,
	}, nil
}

// HasTokenTypeIDs reports whether the model declares a token_type_ids input.
func (s *ONNXSession) HasTokenTypeIDs() bool {
	return s.hasTypeIDs
}

// Run executes one forward pass over the batch in feed.
func (s *ONNXSession) Run(feed Feed) (*Result, error) {
	batch := len(feed.InputIDs)
	if batch == 0 {
		return nil, errors.New("empty batch")
	}
	seq := len(feed.InputIDs[0])
	shape := ort.NewShape(int64(batch), int64(seq))

	idsTensor, err := ort.NewTensor(shape, flatten(feed.InputIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to create input_ids tensor: %w", err)
	}
	defer idsTensor.Destroy()
	maskTensor, err := ort.NewTensor(shape, flatten(feed.AttentionMask))
	if err != nil {
		return nil, fmt.Errorf("failed to create attention_mask tensor: %w", err)
	}
	defer maskTensor.Destroy()

	inputs := []ort.ArbitraryTensor{idsTensor, maskTensor}
	if s.hasTypeIDs {
		typeIDs := feed.TypeIDs
		if typeIDs == nil {
			typeIDs = make([][]int64, batch)
			for i := range typeIDs {
				typeIDs[i] = make([]int64, seq)
			}
		}
		typeTensor, err := ort.NewTensor(shape, flatten(typeIDs))
		if err != nil {
			return nil, fmt.Errorf("failed to create token_type_ids tensor: %w", err)
		}
		defer typeTensor.Destroy()
		inputs = append(inputs, typeTensor)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	outputs := []ort.ArbitraryTensor{nil}
	if err := s.session.Run(inputs, outputs); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}
	out, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, fmt.Errorf("output %q is not a float32 tensor", s.outputName)
	}
	defer out.Destroy()

	outShape := out.GetShape()
	shapeCopy := make([]int64, len(outShape))
	copy(shapeCopy, outShape)
	dataCopy := make([]float32, len(out.GetData()))
	copy(dataCopy, out.GetData())

	return &Result{Shape: shapeCopy, Data: dataCopy}, nil
}

// Close destroys the session.
func (s *ONNXSession) Close() error {
	if s.session != nil {
		err := s.session.Destroy()
		s.session = nil
		return err
	}
	return nil
}

func flatten(rows [][]int64) []int64 {
	if len(rows) == 0 {
		return nil
	}
	flat := make([]int64, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		flat = append(flat, row...)
	}
	return flat
}
