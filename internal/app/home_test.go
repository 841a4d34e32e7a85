package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UniversityPortal/internal/infra/apiclient"
	"github.com/UniversityPortal/internal/infra/fallback"
	"github.com/UniversityPortal/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome_MountsAllPanels(t *testing.T) {
	backend := &pagedBackend{total: 30}
	home := MountHome(NewContentService(backend, ContentOptions{}))
	defer home.Unmount()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, home.Await(ctx))

	view := home.View()
	assert.Equal(t, state.StatusReady, view.Stats.Status)
	assert.Equal(t, 1991, view.Stats.Data.FoundedYear)
	assert.Equal(t, state.StatusReady, view.Contact.Status)
	assert.Len(t, view.News.Data, homeNewsLimit)
	assert.True(t, view.News.HasMore)
	assert.Len(t, view.Employees.Data, homeEmployeesLimit)
	assert.True(t, view.Employees.HasMore)
	assert.Len(t, view.Announcements.Data, homeAnnouncementsLimit)
	assert.Equal(t, 3, backend.requests())

	require.NoError(t, home.RefreshNews().Wait(ctx))
	assert.Equal(t, 4, backend.requests())
	assert.Equal(t, state.StatusReady, home.View().News.Status)
}

func TestHome_RendersFallbackWhenUpstreamDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := apiclient.NewClient(apiclient.Settings{BaseURL: server.URL}, fallback.NewRegistry(), nil)
	home := MountHome(NewContentService(client, ContentOptions{}))
	defer home.Unmount()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, home.Await(ctx))

	view := home.View()
	assert.NoError(t, view.News.Err)
	assert.Len(t, view.News.Data, 4)
	assert.Len(t, view.Announcements.Data, 5)
	assert.True(t, view.Announcements.HasMore)
	assert.Empty(t, view.Employees.Data)
	assert.False(t, view.Employees.HasMore)

	c := home.RefreshEmployees()
	require.NoError(t, c.Wait(ctx))
	assert.Equal(t, state.StatusReady, home.View().Employees.Status)
}

func TestHome_UnmountMidFetch(t *testing.T) {
	gate := make(chan struct{})
	backend := &pagedBackend{total: 10, gate: gate}
	home := MountHome(NewContentService(backend, ContentOptions{}))

	home.Unmount()
	close(gate)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, home.Await(ctx))

	view := home.View()
	assert.Empty(t, view.News.Data)
	assert.True(t, view.News.Loading)
	assert.Empty(t, view.Employees.Data)
}
