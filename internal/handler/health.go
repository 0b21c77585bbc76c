package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"materihub/internal/httputil"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports process and database health
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HealthCheck answers 200 when the database responds, 503 otherwise
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", "error", err)
		status, code = "degraded", http.StatusServiceUnavailable
	}

	httputil.RespondJSON(w, code, map[string]interface{}{
		"status": status,
		"time":   time.Now(),
	})
}
