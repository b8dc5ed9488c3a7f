package inference

import (
	"math"
	"sync/atomic"
)

// MockSession is a deterministic session for tests. Token outputs are derived
// from the input ids so the same feed always produces the same result. When
// Scalar is true it behaves like a cross-encoder, emitting one logit per item.
type MockSession struct {
	// Width is the trailing output dimension (hidden size or vocab size).
	Width int
	// TypeIDs makes the session declare a token_type_ids input.
	TypeIDs bool
	// Scalar switches the output shape from [batch, seq, width] to [batch, 1].
	Scalar bool

	calls atomic.Int64
}

// NewMockSession returns a mock token-output session of the given width.
func NewMockSession(width int) *MockSession {
	return &MockSession{Width: width}
}

// Calls returns how many times Run has been invoked.
func (s *MockSession) Calls() int {
	return int(s.calls.Load())
}

// HasTokenTypeIDs reports the configured TypeIDs flag.
func (s *MockSession) HasTokenTypeIDs() bool {
	return s.TypeIDs
}

// Run produces deterministic outputs derived from the input ids.
func (s *MockSession) Run(feed Feed) (*Result, error) {
	s.calls.Add(1)
	batch := len(feed.InputIDs)
	if s.Scalar {
		data := make([]float32, batch)
		for i, ids := range feed.InputIDs {
			var sum int64
			for _, id := range ids {
				sum += id
			}
			data[i] = float32(math.Sin(float64(sum)) * 4)
		}
		return &Result{Shape: []int64{int64(batch), 1}, Data: data}, nil
	}

	seq := 0
	if batch > 0 {
		seq = len(feed.InputIDs[0])
	}
	data := make([]float32, 0, batch*seq*s.Width)
	for _, ids := range feed.InputIDs {
		for _, id := range ids {
			for j := 0; j < s.Width; j++ {
				data = append(data, float32(math.Sin(float64(id)*float64(j+1))*0.1+0.01))
			}
		}
	}
	return &Result{Shape: []int64{int64(batch), int64(seq), int64(s.Width)}, Data: data}, nil
}

// Close is a no-op for MockSession.
func (s *MockSession) Close() error { return nil }
