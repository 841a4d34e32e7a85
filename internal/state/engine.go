package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/UniversityPortal/internal/infra/metrics"
)

// Status is the phase of a hook's state machine.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// Cycle tracks one activation of a hook.
type Cycle struct {
	done    chan struct{}
	applied atomic.Bool
}

func newCycle() *Cycle {
	return &Cycle{done: make(chan struct{})}
}

func completedCycle(applied bool) *Cycle {
	c := newCycle()
	c.applied.Store(applied)
	close(c.done)
	return c
}

// Done is closed once the cycle's fetch has returned (or immediately for cycles
// that never fetch).
func (c *Cycle) Done() <-chan struct{} { return c.done }

// Applied reports whether the cycle's result reached the hook's state.
// It is only meaningful after Done is closed.
func (c *Cycle) Applied() bool { return c.applied.Load() }

// Wait blocks until the cycle settles or ctx is done.
func (c *Cycle) Wait(ctx context.Context) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// engine holds what every hook shares: generation, teardown and subscribers.
// Hook state fields are guarded by mu.
type engine[S any] struct {
	name   string
	mu     sync.Mutex
	gen    uint64
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	notify *notifier[S]
}

func (e *engine[S]) init(name string, snapshot func() S) {
	e.name = name
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.notify = newNotifier(snapshot)
}

// begin starts a new generation and applies mutate under the lock.
// It reports false when the hook is closed.
func (e *engine[S]) begin(mutate func()) (uint64, bool) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return 0, false
	}
	e.gen++
	gen := e.gen
	mutate()
	e.mu.Unlock()
	e.notify.changed()
	return gen, true
}

// finish applies mutate only if gen is still the current generation.
func (e *engine[S]) finish(gen uint64, mutate func()) bool {
	e.mu.Lock()
	if e.closed || gen != e.gen {
		e.mu.Unlock()
		metrics.StaleResponsesDiscarded.WithLabelValues(e.name).Inc()
		return false
	}
	mutate()
	e.mu.Unlock()
	e.notify.changed()
	return true
}

func (e *engine[S]) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Subscribe registers fn to receive snapshots after every state change. Calls are
// sequential and always carry the latest state; intermediate states may be coalesced.
func (e *engine[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	return e.notify.subscribe(fn)
}

// Close tears the hook down. In-flight results are discarded and subscribers stop
// receiving updates. Close is idempotent.
func (e *engine[S]) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.cancel()
	e.mu.Unlock()
	e.notify.close()
}

// launch runs fetch on its own goroutine and hands the outcome to settle.
func launch[T any](ctx context.Context, fetch func(context.Context) (T, error), settle func(T, error) bool) *Cycle {
	c := newCycle()
	go func() {
		defer close(c.done)
		v, err := call(ctx, fetch)
		if settle(v, err) {
			c.applied.Store(true)
		}
	}()
	return c
}

func call[T any](ctx context.Context, fetch func(context.Context) (T, error)) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("state: fetch panicked: %v", r)
		}
	}()
	if fetch == nil {
		return v, errors.New("state: no fetcher bound")
	}
	return fetch(ctx)
}
