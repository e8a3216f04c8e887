// Package keylock provides keyed write lanes: at most one holder per key, with
// either non-blocking or bounded acquisition. Lanes are created on first use and
// dropped once no goroutine holds or waits on them, so the registry stays sized
// to the number of keys in flight.
package keylock

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrTimeout is returned by Acquire when the lane stayed busy for the whole timeout.
var ErrTimeout = errors.New("keylock: acquisition timed out")

// Registry hands out one exclusive lane per key.
type Registry struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

type lane struct {
	sem  *semaphore.Weighted
	refs int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{lanes: make(map[string]*lane)}
}

// TryAcquire takes the lane for key if it is free. The returned release func is
// safe to call more than once.
func (r *Registry) TryAcquire(key string) (func(), bool) {
	l := r.ref(key)
	if !l.sem.TryAcquire(1) {
		r.unref(key, l)
		return nil, false
	}
	return r.releaser(key, l), true
}

// Acquire waits up to timeout for the lane of key. A context that is already done
// or gets cancelled while waiting yields ctx.Err(); running out of time yields
// ErrTimeout.
func (r *Registry) Acquire(ctx context.Context, key string, timeout time.Duration) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := r.ref(key)
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := l.sem.Acquire(waitCtx, 1); err != nil {
		r.unref(key, l)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, ErrTimeout
	}

	return r.releaser(key, l), nil
}

// Len reports how many lanes are currently held or waited on.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.lanes)
}

func (r *Registry) ref(key string) *lane {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.lanes[key]
	if !ok {
		l = &lane{sem: semaphore.NewWeighted(1)}
		r.lanes[key] = l
	}
	l.refs++
	return l
}

func (r *Registry) unref(key string, l *lane) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l.refs--
	if l.refs == 0 {
		delete(r.lanes, key)
	}
}

func (r *Registry) releaser(key string, l *lane) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			l.sem.Release(1)
			r.unref(key, l)
		})
	}
}
