package future

import "time"

// racePollInterval bounds CPU usage of Race's polling loop while keeping
// completion latency small.
const racePollInterval = 5 * time.Millisecond

// Then derives a future that applies fn to the fulfilled value of f. If f
// rejects, the same error propagates untouched and fn is not invoked.
func Then[T, U any](f *Future[T], fn func(T) (U, error)) *Future[U] {
	return Go(func() (U, error) {
		v, err := f.Value()
		if err != nil {
			var zero U
			return zero, err
		}
		return fn(v)
	})
}

// Rescue derives a future that passes a fulfilled value through unchanged, or
// invokes fn on the error and fulfills with its result.
func Rescue[T any](f *Future[T], fn func(error) (T, error)) *Future[T] {
	return Go(func() (T, error) {
		v, err := f.Value()
		if err != nil {
			return fn(err)
		}
		return v, nil
	})
}

// All waits on every future in argument order and returns the values in that
// order. The first error encountered is returned immediately.
func All[T any](futures ...*Future[T]) ([]T, error) {
	values := make([]T, len(futures))
	for i, f := range futures {
		v, err := f.Value()
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// Race polls until any future reaches a terminal state and returns its result.
// Losing futures are not cancelled; they keep running to completion. A
// non-positive timeout polls without a deadline; otherwise ErrTimeout is
// returned once the deadline passes with no future terminal. Racing an empty
// set returns ErrTimeout immediately since nothing can ever complete.
func Race[T any](timeout time.Duration, futures ...*Future[T]) (T, error) {
	if len(futures) == 0 {
		var zero T
		return zero, ErrTimeout
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		for _, f := range futures {
			if f.Done() {
				return f.Value()
			}
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			var zero T
			return zero, ErrTimeout
		}
		time.Sleep(racePollInterval)
	}
}
