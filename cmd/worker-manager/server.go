package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type readinessCheck func(ctx context.Context) error

const readinessTimeout = 5 * time.Second

func newServer(addr string, checks map[string]readinessCheck) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           newMux(checks),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func newMux(checks map[string]readinessCheck) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		names := make([]string, 0, len(checks))
		for name := range checks {
			names = append(names, name)
		}
		sort.Strings(names)

		status, code := "ready", http.StatusOK
		results := make(map[string]string, len(checks))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				results[name] = err.Error()
				status, code = "not_ready", http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		writeJSON(w, code, map[string]interface{}{
			"status":       status,
			"dependencies": results,
			"time":         time.Now().Format(time.RFC3339),
		})
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
