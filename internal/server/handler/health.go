package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/alanyoungcy/marketscout/internal/domain"
)

// HealthHandler serves the health-check endpoint.
type HealthHandler struct {
	logger  *slog.Logger
	started time.Time
}

// NewHealthHandler creates a HealthHandler with the provided logger.
func NewHealthHandler(logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		logger:  logger,
		started: time.Now().UTC(),
	}
}

// HealthCheck reports the service identity, the variants it serves, and its
// uptime. Load balancers key off the status code; the body is for humans.
// GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"service":   "marketscout",
		"variants":  domain.Variants(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
