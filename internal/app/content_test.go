package app

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/UniversityPortal/internal/domain"
	"github.com/UniversityPortal/internal/domain/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ids(items []domain.Item) []int {
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.ID()
	}
	return out
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestContentService_GetAllAnnouncements(t *testing.T) {
	tests := []struct {
		name     string
		total    int
		batch    int
		requests int
	}{
		{name: "several full pages plus remainder", total: 23, batch: 5, requests: 5},
		{name: "exact multiple", total: 20, batch: 5, requests: 4},
		{name: "single page", total: 3, batch: 50, requests: 1},
		{name: "empty listing", total: 0, batch: 10, requests: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &pagedBackend{total: tt.total}
			svc := NewContentService(backend, ContentOptions{})

			items, err := svc.GetAllAnnouncements(context.Background(), tt.batch)
			require.NoError(t, err)

			assert.Equal(t, seq(tt.total), ids(items))
			assert.Equal(t, tt.requests, backend.requests())
			for i, q := range backend.calls {
				assert.Equal(t, []string{strconv.Itoa(i + 1)}, q["page"])
				assert.Equal(t, []string{strconv.Itoa(tt.batch)}, q["limit"])
			}
		})
	}
}

func TestContentService_GetAllEmployeesDefaultsBatch(t *testing.T) {
	backend := &pagedBackend{total: 150}
	svc := NewContentService(backend, ContentOptions{})

	items, err := svc.GetAllEmployees(context.Background(), 0)
	require.NoError(t, err)

	assert.Len(t, items, 150)
	assert.Equal(t, 2, backend.requests())
	assert.Equal(t, "100", backend.calls[0].Get("limit"))
}

func TestContentService_GetAllCapsRunawayBackend(t *testing.T) {
	backend := &pagedBackend{total: 1000, alwaysNext: true}
	sink := new(mocks.MockEventSink)
	sink.On("Publish", mock.Anything, mock.MatchedBy(func(e *domain.DegradationEvent) bool {
		return e.Kind == domain.DegradationCapExceeded && e.Endpoint == listingAnnouncements
	})).Return(nil).Once()

	svc := NewContentService(backend, ContentOptions{MaxPages: 3, Sink: sink})

	items, err := svc.GetAllAnnouncements(context.Background(), 10)
	require.NoError(t, err)

	assert.Len(t, items, 30)
	assert.Equal(t, 3, backend.requests())
	sink.AssertExpectations(t)
}

func TestContentService_GetAllItemCap(t *testing.T) {
	backend := &pagedBackend{total: 100}
	svc := NewContentService(backend, ContentOptions{MaxItems: 25})

	items, err := svc.GetAllAnnouncements(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, seq(25), ids(items))
	assert.Equal(t, 3, backend.requests())
}

func TestContentService_GetAllSingleFlight(t *testing.T) {
	gate := make(chan struct{})
	backend := &pagedBackend{total: 12, gate: gate}
	svc := NewContentService(backend, ContentOptions{})

	const callers = 5
	var wg sync.WaitGroup
	results := make([][]domain.Item, callers)
	started := make(chan struct{}, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			started <- struct{}{}
			items, err := svc.GetAllAnnouncements(context.Background(), 5)
			assert.NoError(t, err)
			results[i] = items
		}(i)
	}
	for i := 0; i < callers; i++ {
		<-started
	}
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, seq(12), ids(r))
	}
	// Late arrivals may start a second run after the first finished, never more than callers.
	assert.LessOrEqual(t, backend.requests(), 3*callers)
	assert.Zero(t, backend.requests()%3, "every run fetches all three pages")
}

func TestContentService_GetAllCallerCancelled(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	backend := &pagedBackend{total: 12, gate: gate}
	svc := NewContentService(backend, ContentOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.GetAllAnnouncements(ctx, 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestContentService_PageNormalization(t *testing.T) {
	api := new(mocks.MockAPIClient)
	api.On("Call", mock.Anything, "/uz/elon/list/", mock.Anything).Return(domain.Envelope{
		Results: []domain.Item{{"id": 1.0}, {"id": 2.0}},
	})
	api.On("Call", mock.Anything, "/uz/xodim/list/", mock.Anything).Return(domain.Envelope{})

	svc := NewContentService(api, ContentOptions{})

	page := svc.GetAnnouncementsPage(context.Background(), 1, 10)
	assert.Equal(t, 2, page.Count, "missing count defaults to len(results)")
	assert.Empty(t, page.Next)
	assert.Len(t, page.Results, 2)

	staff := svc.GetEmployeesPage(context.Background(), 0, 0)
	assert.Equal(t, 0, staff.Count)
	assert.NotNil(t, staff.Results)

	api.AssertCalled(t, "Call", mock.Anything, "/uz/xodim/list/", url.Values{"page": {"1"}, "limit": {"24"}})
}

func TestContentService_Defaults(t *testing.T) {
	api := new(mocks.MockAPIClient)
	api.On("Call", mock.Anything, mock.Anything, mock.Anything).Return(domain.EmptyEnvelope())
	svc := NewContentService(api, ContentOptions{Locale: "ru"})

	svc.GetNews(context.Background(), 0, 0)
	svc.GetAnnouncements(context.Background(), 0, 0)
	svc.GetAnnouncementsPage(context.Background(), 0, 0)

	api.AssertCalled(t, "Call", mock.Anything, "/ru/news/list/", url.Values{"page": {"1"}, "limit": {"4"}})
	api.AssertCalled(t, "Call", mock.Anything, "/ru/elon/list/", url.Values{"page": {"1"}, "limit": {"5"}})
	api.AssertCalled(t, "Call", mock.Anything, "/ru/elon/list/", url.Values{"page": {"1"}, "limit": {"10"}})
}

func TestContentService_StaticContentIsIdempotent(t *testing.T) {
	api := new(mocks.MockAPIClient)
	svc := NewContentService(api, ContentOptions{})

	assert.Equal(t, svc.GetContactInfo(), svc.GetContactInfo())
	assert.Equal(t, svc.GetUniversityStats(), svc.GetUniversityStats())
	assert.Equal(t, 1991, svc.GetUniversityStats().FoundedYear)
	assert.Equal(t, "buxdu_rektor@buxdu.uz", svc.GetContactInfo().Email)

	faculties := svc.GetFaculties()
	require.Len(t, faculties, 12)
	faculties[0].Name = "changed"
	assert.Equal(t, "Filologiya fakulteti", svc.GetFaculties()[0].Name)

	api.AssertNotCalled(t, "Call", mock.Anything, mock.Anything, mock.Anything)
}
