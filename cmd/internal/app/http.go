package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/arathikrishnaam/dueDash/cmd/internal/api"
)

type pinger interface {
	Ping(ctx context.Context) error
}

type healthResponse struct {
	Status    string    `json:"status"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func writeHealth(w http.ResponseWriter, status int, body healthResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func registerHTTP(r *mux.Router, log Logger, db pinger, metrics *Metrics, handler *api.Handler) {
	r.Use(metrics.Middleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
	}).Methods(http.MethodGet, http.MethodHead)

	r.HandleFunc("/health/db", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Ping(req.Context()); err != nil {
			log.Warn("health.db.unavailable", "err", err)
			writeHealth(w, http.StatusServiceUnavailable, healthResponse{
				Status:    "unhealthy",
				Error:     "database unavailable",
				Timestamp: time.Now().UTC(),
			})
			return
		}
		writeHealth(w, http.StatusOK, healthResponse{Status: "healthy", Timestamp: time.Now().UTC()})
	}).Methods(http.MethodGet, http.MethodHead)

	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)

	handler.Register(r)
}
