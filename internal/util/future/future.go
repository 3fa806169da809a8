package future

import (
	"sync"
	"time"
)

// Future is a single-shot result that completes exactly once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
	once sync.Once
}

// New runs fn in a goroutine and completes the Future when fn returns.
func New[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.complete(fn())
	}()
	return f
}

// FromValue creates an already-completed Future with a value.
func FromValue[T any](v T) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	f.complete(v, nil)
	return f
}

// FromError creates an already-completed Future with an error.
func FromError[T any](err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	var zero T
	f.complete(zero, err)
	return f
}

func (f *Future[T]) complete(v T, err error) {
	f.once.Do(func() {
		f.val = v
		f.err = err
		close(f.done)
	})
}

// Await blocks until completion and returns the result.
func (f *Future[T]) Await() (T, error) {
	<-f.done
	return f.val, f.err
}

// AwaitTimeout waits up to d for completion.
// Returns (value, err, ok). ok=false if timed out.
func (f *Future[T]) AwaitTimeout(d time.Duration) (T, error, bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-f.done:
		return f.val, f.err, true
	case <-timer.C:
		var zero T
		return zero, nil, false
	}
}

// Done returns a channel closed when the Future completes.
func (f *Future[T]) Done() <-chan struct{} { return f.done }
