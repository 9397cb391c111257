package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
)

// Pinger is anything the health check can reach: the pgx pool, the cache
// and the document store all satisfy it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles the liveness and readiness endpoints
type HealthHandlers struct {
	checks  map[string]Pinger
	version string
	started time.Time
}

// NewHealthHandlers creates a health handler. Nil checks are skipped so
// optional dependencies such as document storage can be left out.
func NewHealthHandlers(version string, checks map[string]Pinger) *HealthHandlers {
	active := make(map[string]Pinger, len(checks))
	for name, p := range checks {
		if p != nil {
			active[name] = p
		}
	}
	return &HealthHandlers{checks: active, version: version, started: time.Now()}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Uptime    string            `json:"uptime"`
	Version   string            `json:"version"`
}

// HealthCheck answers 200 when every dependency responds, 503 otherwise.
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string, len(h.checks)),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	}

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name].Ping(ctx); err != nil {
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
			continue
		}
		health.Services[name] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}
	return c.JSON(statusCode, health)
}
