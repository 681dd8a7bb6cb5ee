package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/bazario/smart-recs/internal/database"
	"github.com/bazario/smart-recs/internal/queue"
	"github.com/bazario/smart-recs/internal/services/recs"
)

// HealthChecker handles health check requests
type HealthChecker struct {
	db       *database.DB
	jobQueue queue.JobQueue
	cache    *recs.ResultCache
}

// NewHealthChecker creates a health checker. Queue and cache may be nil.
func NewHealthChecker(db *database.DB, jobQueue queue.JobQueue, cache *recs.ResultCache) *HealthChecker {
	return &HealthChecker{db: db, jobQueue: jobQueue, cache: cache}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// HealthCheck handles the /healthz endpoint. mode=extended also probes the
// database, queue and cache.
func (h *HealthChecker) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if r.URL.Query().Get("mode") == "extended" {
		checks := make(map[string]string)

		if err := h.checkDatabase(r.Context()); err != nil {
			response.Status = "unhealthy"
			checks["database"] = "unhealthy: " + err.Error()
		} else {
			checks["database"] = "healthy"
		}

		if h.jobQueue != nil {
			if err := h.jobQueue.HealthCheck(r.Context()); err != nil {
				response.Status = "unhealthy"
				checks["queue"] = "unhealthy: " + err.Error()
			} else {
				checks["queue"] = "healthy"
			}
		}

		if h.cache != nil {
			if err := h.cache.HealthCheck(r.Context()); err != nil {
				// A broken cache degrades to recomputation, not an outage
				checks["cache"] = "unhealthy: " + err.Error()
			} else {
				checks["cache"] = "healthy"
			}
		}

		response.Checks = checks
	}

	statusCode := http.StatusOK
	if response.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		_ = err
	}
}

func (h *HealthChecker) checkDatabase(ctx context.Context) error {
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return h.db.PingContext(checkCtx)
}
