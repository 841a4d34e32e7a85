package app

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"

	"github.com/UniversityPortal/internal/domain"
)

// pagedBackend serves total items per path across pages of the requested limit,
// with next set on every page but the last.
type pagedBackend struct {
	mu         sync.Mutex
	total      int
	alwaysNext bool
	calls      []url.Values
	gate       chan struct{}
}

func (b *pagedBackend) Call(ctx context.Context, path string, query url.Values) domain.Envelope {
	if b.gate != nil {
		<-b.gate
	}
	b.mu.Lock()
	b.calls = append(b.calls, query)
	b.mu.Unlock()

	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	start := (page - 1) * limit
	end := start + limit
	if end > b.total {
		end = b.total
	}

	results := []domain.Item{}
	for i := start; i < end; i++ {
		results = append(results, domain.Item{"id": float64(i + 1), "title": fmt.Sprintf("%s #%d", path, i+1)})
	}
	count := b.total
	env := domain.Envelope{Results: results, Count: &count}
	if end < b.total || b.alwaysNext {
		next := fmt.Sprintf("https://example.test%s?page=%d&limit=%d", path, page+1, limit)
		env.Next = &next
	}
	return env
}

func (b *pagedBackend) requests() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}
