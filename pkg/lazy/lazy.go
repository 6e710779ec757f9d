package lazy

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Value holds a dependency that is constructed on first use. Concurrent
// first callers share a single in-flight construction instead of each
// running the build function. A failed build is not cached: the value
// stays uninitialized and a later Get retries, so a transient startup
// failure does not wedge the process.
type Value[T any] struct {
	build func(context.Context) (T, error)

	group singleflight.Group
	ready atomic.Bool
	mu    sync.RWMutex
	v     T
}

// New creates a Value built by fn on first Get.
func New[T any](fn func(context.Context) (T, error)) *Value[T] {
	return &Value[T]{build: fn}
}

// Get returns the constructed value, building it if necessary. All
// callers that arrive while a build is in flight wait for that build
// and share its outcome.
func (l *Value[T]) Get(ctx context.Context) (T, error) {
	if l.ready.Load() {
		l.mu.RLock()
		v := l.v
		l.mu.RUnlock()
		return v, nil
	}

	res, err, _ := l.group.Do("build", func() (any, error) {
		// Re-check after acquiring the flight: a previous batch may
		// have completed between the fast path and here.
		if l.ready.Load() {
			l.mu.RLock()
			v := l.v
			l.mu.RUnlock()
			return v, nil
		}

		v, err := l.build(ctx)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.v = v
		l.mu.Unlock()
		l.ready.Store(true)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Ready reports whether the value has been successfully constructed.
func (l *Value[T]) Ready() bool {
	return l.ready.Load()
}
