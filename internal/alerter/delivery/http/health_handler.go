package http

import (
	"net/http"

	"edge-signal-bot/internal/alerter/dto"
	"edge-signal-bot/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves liveness and metrics endpoints.
type HealthHandler struct {
	version string
	metrics *metrics.Manager
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, m *metrics.Manager) *HealthHandler {
	return &HealthHandler{version: version, metrics: m}
}

// RegisterRoutes registers the health and metrics routes on the root router.
func (h *HealthHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/metrics", echo.WrapHandler(h.metrics.Handler()))
}

// Health reports that the process is up.
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.HealthResponse{Status: "ok", Version: h.version})
}
