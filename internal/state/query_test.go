package state

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitCycle(t *testing.T, c *Cycle) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, c.Wait(ctx), "cycle did not settle")
}

// gated returns a fetcher that blocks until release is closed, then returns v.
func gated[T any](v T, err error) (Fetcher[T], chan struct{}) {
	release := make(chan struct{})
	return func(ctx context.Context) (T, error) {
		<-release
		return v, err
	}, release
}

func TestQuery_Success(t *testing.T) {
	q := NewQuery("stats", func(ctx context.Context) (int, error) { return 42, nil })
	defer q.Close()

	assert.Equal(t, StatusIdle, q.Snapshot().Status)

	c := q.Activate(nil)
	waitCycle(t, c)

	snap := q.Snapshot()
	assert.True(t, c.Applied())
	assert.Equal(t, 42, snap.Data)
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
	assert.Equal(t, StatusReady, snap.Status)
}

func TestQuery_LoadingClearsPreviousError(t *testing.T) {
	failing := func(ctx context.Context) (string, error) { return "", errors.New("boom") }
	q := NewQuery[string]("news", failing)
	defer q.Close()

	waitCycle(t, q.Activate(nil))
	require.Error(t, q.Snapshot().Err)

	fetch, release := gated("ok", nil)
	c := q.Activate(fetch)

	snap := q.Snapshot()
	assert.True(t, snap.Loading)
	assert.NoError(t, snap.Err, "a new cycle must clear the previous error")
	assert.Equal(t, StatusLoading, snap.Status)

	close(release)
	waitCycle(t, c)
	assert.Equal(t, "ok", q.Snapshot().Data)
}

func TestQuery_FailureKeepsPreviousData(t *testing.T) {
	q := NewQuery("contact", func(ctx context.Context) (string, error) { return "first", nil })
	defer q.Close()
	waitCycle(t, q.Activate(nil))

	waitCycle(t, q.Activate(func(ctx context.Context) (string, error) {
		return "", errors.New("service rejected")
	}))

	snap := q.Snapshot()
	assert.Equal(t, "first", snap.Data)
	assert.EqualError(t, snap.Err, "service rejected")
	assert.Equal(t, StatusFailed, snap.Status)
	assert.False(t, snap.Loading)
}

func TestQuery_LastIssuedWins(t *testing.T) {
	older, releaseOlder := gated("stale", nil)
	newer, releaseNewer := gated("fresh", nil)

	q := NewQuery[string]("news", nil)
	defer q.Close()

	first := q.Activate(older)
	second := q.Activate(newer)

	close(releaseNewer)
	waitCycle(t, second)
	close(releaseOlder)
	waitCycle(t, first)

	assert.True(t, second.Applied())
	assert.False(t, first.Applied(), "superseded result must be discarded")
	assert.Equal(t, "fresh", q.Snapshot().Data)
	assert.False(t, q.Snapshot().Loading)
}

func TestQuery_LaterActivationOverwritesEarlierResult(t *testing.T) {
	q := NewQuery[string]("news", nil)
	defer q.Close()

	waitCycle(t, q.Activate(func(ctx context.Context) (string, error) { return "a", nil }))
	waitCycle(t, q.Activate(func(ctx context.Context) (string, error) { return "b", nil }))

	assert.Equal(t, "b", q.Snapshot().Data)
}

func TestQuery_CloseDiscardsInFlight(t *testing.T) {
	var ctxErr atomic.Value
	release := make(chan struct{})
	q := NewQuery("employees", func(ctx context.Context) (int, error) {
		<-release
		if err := ctx.Err(); err != nil {
			ctxErr.Store(err)
		}
		return 7, nil
	})

	c := q.Activate(nil)
	q.Close()
	close(release)
	waitCycle(t, c)

	assert.False(t, c.Applied())
	snap := q.Snapshot()
	assert.Zero(t, snap.Data)
	assert.True(t, snap.Loading, "state is frozen at teardown")
	assert.Equal(t, context.Canceled, ctxErr.Load())

	after := q.Activate(nil)
	waitCycle(t, after)
	assert.False(t, after.Applied())
}

func TestQuery_PanicBecomesError(t *testing.T) {
	q := NewQuery("stats", func(ctx context.Context) (int, error) { panic("bad fetcher") })
	defer q.Close()

	waitCycle(t, q.Activate(nil))

	snap := q.Snapshot()
	require.Error(t, snap.Err)
	assert.Contains(t, snap.Err.Error(), "bad fetcher")
	assert.Equal(t, StatusFailed, snap.Status)
}

func TestQuery_NilFetcher(t *testing.T) {
	q := NewQuery[int]("empty", nil)
	defer q.Close()

	waitCycle(t, q.Activate(nil))
	assert.Error(t, q.Snapshot().Err)
}

func TestQuery_Subscribe(t *testing.T) {
	q := NewQuery("stats", func(ctx context.Context) (int, error) { return 1, nil })
	defer q.Close()

	var mu sync.Mutex
	var seen []Snapshot[int]
	unsubscribe := q.Subscribe(func(s Snapshot[int]) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})
	defer unsubscribe()

	waitCycle(t, q.Activate(nil))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) > 0 && seen[len(seen)-1].Status == StatusReady
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	last := seen[len(seen)-1]
	mu.Unlock()
	assert.Equal(t, 1, last.Data)
}

func TestQuery_SubscriberMayReenter(t *testing.T) {
	q := NewQuery("stats", func(ctx context.Context) (int, error) { return 5, nil })
	defer q.Close()

	got := make(chan int, 16)
	q.Subscribe(func(s Snapshot[int]) {
		if s.Status == StatusReady {
			got <- q.Snapshot().Data
		}
	})

	waitCycle(t, q.Activate(nil))

	select {
	case v := <-got:
		assert.Equal(t, 5, v)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber was not notified")
	}
}
