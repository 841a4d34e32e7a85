package state

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearch_BlankQuerySkipsSearch(t *testing.T) {
	var calls atomic.Int32
	s := NewSearch("search", func(ctx context.Context, q string) ([]string, error) {
		calls.Add(1)
		return []string{q}, nil
	})
	defer s.Close()

	for _, q := range []string{"", "   ", "\t\n"} {
		c := s.Search(q)
		waitCycle(t, c)
		assert.Empty(t, s.Snapshot().Results)
		assert.False(t, s.Snapshot().Loading)
	}
	assert.Zero(t, calls.Load())
}

func TestSearch_Results(t *testing.T) {
	s := NewSearch("search", func(ctx context.Context, q string) ([]string, error) {
		return []string{strings.ToUpper(q)}, nil
	})
	defer s.Close()

	waitCycle(t, s.Search("navro'z"))

	snap := s.Snapshot()
	assert.Equal(t, "navro'z", snap.Query)
	assert.Equal(t, []string{"NAVRO'Z"}, snap.Results)
	assert.False(t, snap.Loading)
}

func TestSearch_FailureYieldsEmptyResults(t *testing.T) {
	fail := false
	s := NewSearch("search", func(ctx context.Context, q string) ([]string, error) {
		if fail {
			return nil, errors.New("unreachable")
		}
		return []string{"hit"}, nil
	})
	defer s.Close()

	waitCycle(t, s.Search("a"))
	assert.Len(t, s.Snapshot().Results, 1)

	fail = true
	waitCycle(t, s.Search("b"))

	snap := s.Snapshot()
	assert.Empty(t, snap.Results)
	assert.False(t, snap.Loading)
}

func TestSearch_ClearSupersedesInFlight(t *testing.T) {
	release := make(chan struct{})
	s := NewSearch("search", func(ctx context.Context, q string) ([]string, error) {
		<-release
		return []string{"late"}, nil
	})
	defer s.Close()

	s.SetQuery("uni")
	assert.Equal(t, "uni", s.Snapshot().Query)

	c := s.Search("uni")
	assert.True(t, s.Snapshot().Loading)
	s.Clear()
	close(release)
	waitCycle(t, c)

	snap := s.Snapshot()
	assert.False(t, c.Applied())
	assert.Empty(t, snap.Query)
	assert.Empty(t, snap.Results)
	assert.False(t, snap.Loading)
}
