package state

import (
	"context"
	"log/slog"
)

// Fetcher loads a single value.
type Fetcher[T any] func(ctx context.Context) (T, error)

type Snapshot[T any] struct {
	Data    T      `json:"data"`
	Loading bool   `json:"loading"`
	Err     error  `json:"-"`
	Status  Status `json:"status"`
}

// Query is the single-fetch hook. A failed cycle records Err but keeps the
// previous Data so content already on screen survives.
type Query[T any] struct {
	engine[Snapshot[T]]
	fetch Fetcher[T]
	snap  Snapshot[T]
}

func NewQuery[T any](name string, fetch Fetcher[T]) *Query[T] {
	q := &Query[T]{fetch: fetch, snap: Snapshot[T]{Status: StatusIdle}}
	q.init(name, q.Snapshot)
	return q
}

func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snap
}

// Activate binds fetch (when non-nil) and starts a new cycle that supersedes any
// cycle still in flight.
func (q *Query[T]) Activate(fetch Fetcher[T]) *Cycle {
	var bound Fetcher[T]
	gen, ok := q.begin(func() {
		if fetch != nil {
			q.fetch = fetch
		}
		bound = q.fetch
		q.snap.Err = nil
		q.snap.Loading = true
		q.snap.Status = StatusLoading
	})
	if !ok {
		return completedCycle(false)
	}

	return launch(q.ctx, bound, func(v T, err error) bool {
		return q.finish(gen, func() {
			q.snap.Loading = false
			if err != nil {
				slog.Warn("API Error", "hook", q.name, "error", err)
				q.snap.Err = err
				q.snap.Status = StatusFailed
				return
			}
			q.snap.Data = v
			q.snap.Status = StatusReady
		})
	})
}

// Reload re-runs the bound fetcher.
func (q *Query[T]) Reload() *Cycle {
	return q.Activate(nil)
}
