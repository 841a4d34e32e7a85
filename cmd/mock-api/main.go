package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

// Listing sizes served by the mock content API.
var totals = map[string]int{
	"news":  37,
	"elon":  123,
	"xodim": 240,
}

func main() {
	port := os.Getenv("MOCK_API_PORT")
	if port == "" {
		port = "8081"
	}
	failing := map[string]bool{}
	for _, kind := range strings.Split(os.Getenv("MOCK_API_FAIL"), ",") {
		if kind != "" {
			failing[kind] = true
		}
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/{locale}/{kind}/list/", func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)
		kind := vars["kind"]
		total, ok := totals[kind]
		if !ok {
			http.NotFound(w, r)
			return
		}
		if failing[kind] {
			http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
			return
		}

		page := positive(r.URL.Query().Get("page"), 1)
		limit := positive(r.URL.Query().Get("limit"), 10)
		start := (page - 1) * limit
		end := start + limit
		if end > total {
			end = total
		}

		results := []map[string]interface{}{}
		for i := start; i < end; i++ {
			results = append(results, item(kind, i+1))
		}

		response := map[string]interface{}{
			"count":    total,
			"next":     nil,
			"previous": nil,
			"results":  results,
		}
		if end < total {
			response["next"] = fmt.Sprintf("http://%s%s?page=%d&limit=%d", r.Host, r.URL.Path, page+1, limit)
		}
		if page > 1 {
			response["previous"] = fmt.Sprintf("http://%s%s?page=%d&limit=%d", r.Host, r.URL.Path, page-1, limit)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}).Methods(http.MethodGet)

	slog.Info("Mock content API running", "port", port, "failing", os.Getenv("MOCK_API_FAIL"))
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func positive(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func item(kind string, id int) map[string]interface{} {
	published := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, id)
	switch kind {
	case "xodim":
		return map[string]interface{}{
			"id":       id,
			"name":     fmt.Sprintf("Xodim %d", id),
			"position": "O'qituvchi",
		}
	case "elon":
		return map[string]interface{}{
			"id":           id,
			"title":        fmt.Sprintf("E'lon %d", id),
			"text":         "Mock e'lon matni.",
			"publish_date": published.Format(time.RFC3339),
		}
	default:
		return map[string]interface{}{
			"id":           id,
			"title":        fmt.Sprintf("Yangilik %d", id),
			"text":         "Mock yangilik matni.",
			"publish_date": published.Format(time.RFC3339),
		}
	}
}
