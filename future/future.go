// Package future provides a one-shot asynchronous task primitive: construction
// starts the work on its own goroutine, and the result is retrieved with
// blocking or timed accessors.
package future

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrTimeout is returned by timed accessors when the deadline passes before
// the future reaches a terminal state. The background work keeps running;
// only the caller stops blocking.
var ErrTimeout = errors.New("future timed out")

// State is the lifecycle of a future. Terminal states are reached exactly once.
type State int32

const (
	Pending State = iota
	Fulfilled
	Rejected
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Fulfilled:
		return "fulfilled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Future is a one-shot result of background work. Each future runs on its own
// dedicated goroutine; there is no pool and no cancellation. Callers limit
// fan-out themselves.
type Future[T any] struct {
	id    string
	done  chan struct{}
	once  sync.Once
	state atomic.Int32

	// value and err are written once before done is closed and read only
	// after done is observed closed.
	value T
	err   error
}

type config struct {
	logger *zap.Logger
}

// Option configures a spawned future.
type Option func(*config)

// WithLogger logs task start and completion with the task id at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// Go starts work on a new goroutine immediately and returns its future. A
// panic in work is captured as a rejection; background failures never crash
// the process and surface only at retrieval.
func Go[T any](work func() (T, error), opts ...Option) *Future[T] {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	f := &Future[T]{id: uuid.NewString(), done: make(chan struct{})}
	cfg.logger.Debug("task started", zap.String("task_id", f.id))
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.settle(*new(T), fmt.Errorf("task panicked: %v", r))
			}
			cfg.logger.Debug("task finished",
				zap.String("task_id", f.id),
				zap.String("state", f.State().String()))
		}()
		v, err := work()
		f.settle(v, err)
	}()
	return f
}

// settle records the terminal result exactly once.
func (f *Future[T]) settle(v T, err error) {
	f.once.Do(func() {
		f.value = v
		f.err = err
		if err != nil {
			f.state.Store(int32(Rejected))
		} else {
			f.state.Store(int32(Fulfilled))
		}
		close(f.done)
	})
}

// ID returns the task id used for log correlation.
func (f *Future[T]) ID() string { return f.id }

// State returns the current state without blocking.
func (f *Future[T]) State() State { return State(f.state.Load()) }

// Pending reports whether the future has not reached a terminal state.
func (f *Future[T]) Pending() bool { return f.State() == Pending }

// Done reports whether the future reached a terminal state.
func (f *Future[T]) Done() bool { return f.State() != Pending }

// OK reports whether the future fulfilled.
func (f *Future[T]) OK() bool { return f.State() == Fulfilled }

// Failed reports whether the future rejected.
func (f *Future[T]) Failed() bool { return f.State() == Rejected }

// Value blocks until the future is terminal, then returns the fulfilled value
// or the captured error.
func (f *Future[T]) Value() (T, error) {
	<-f.done
	return f.value, f.err
}

// ValueTimeout is Value with a deadline. ErrTimeout distinguishes "still
// running" from a completed zero value or a task error.
func (f *Future[T]) ValueTimeout(timeout time.Duration) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-time.After(timeout):
		var zero T
		return zero, ErrTimeout
	}
}

// Wait blocks until the future is terminal.
func (f *Future[T]) Wait() {
	<-f.done
}

// WaitTimeout blocks up to timeout and reports whether the future completed.
// It never returns an error, even for rejected futures.
func (f *Future[T]) WaitTimeout(timeout time.Duration) bool {
	select {
	case <-f.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
