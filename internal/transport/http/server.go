package http

import (
	"net/http"
	"time"

	"github.com/UniversityPortal/internal/app"
	"github.com/UniversityPortal/pkg/config"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers the portal's JSON API plus health and metrics endpoints.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/ready", h.Ready).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/home", h.Home).Methods(http.MethodGet)
	api.HandleFunc("/news", h.News).Methods(http.MethodGet)
	api.HandleFunc("/announcements", h.Announcements).Methods(http.MethodGet)
	api.HandleFunc("/employees", h.Employees).Methods(http.MethodGet)
	api.HandleFunc("/contact", h.Contact).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.Stats).Methods(http.MethodGet)
	api.HandleFunc("/faculties", h.Faculties).Methods(http.MethodGet)
	api.HandleFunc("/search", h.Search).Methods(http.MethodGet)
	return r
}

func NewHTTPServer(cfg *config.Config, h *Handlers) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewRouter(h),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// NewMonitorRouter exposes the degradation monitor's tallies.
func NewMonitorRouter(m *app.DegradationMonitor) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods(http.MethodGet)
	r.HandleFunc("/summary", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, m.Summary())
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler())
	return r
}
