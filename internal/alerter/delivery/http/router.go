package http

import (
	"edge-signal-bot/internal/alerter/service"
	"edge-signal-bot/pkg/logger"
	"edge-signal-bot/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	swagger "github.com/swaggo/echo-swagger"
)

// NewRouter builds the Echo server with every alert service route registered.
func NewRouter(alertService service.AlertService, m *metrics.Manager, version string, log *logger.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	NewHealthHandler(version, m).RegisterRoutes(e)

	apiV1 := e.Group("/api/v1")
	NewAlertHandler(alertService, log).RegisterRoutes(apiV1)

	e.GET("/swagger/*", swagger.WrapHandler)
	return e
}
