package http

import (
	"errors"
	"net/http"

	"edge-signal-bot/internal/alerter/dto"
	"edge-signal-bot/internal/alerter/service"
	"edge-signal-bot/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AlertHandler handles HTTP requests for pipeline runs and previews.
type AlertHandler struct {
	alertService service.AlertService
	logger       *logger.Logger
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertService service.AlertService, logger *logger.Logger) *AlertHandler {
	return &AlertHandler{alertService: alertService, logger: logger}
}

// RegisterRoutes registers the alert routes to the Echo group.
func (h *AlertHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/preview/:sport", h.Preview)
	g.POST("/runs", h.TriggerRun)
}

// Preview godoc
// @Summary Preview signals for a sport
// @Description Runs the pipeline for one sport without publishing and returns the rendered blocks
// @Tags alerts
// @Produce  json
// @Param   sport  path    string true    "Sport code"
// @Success 200 {object} dto.RunResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /preview/{sport} [get]
func (h *AlertHandler) Preview(c echo.Context) error {
	report, err := h.alertService.Preview(c.Request().Context(), c.Param("sport"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownSport) {
			return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to preview signals", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to preview signals"})
	}
	return c.JSON(http.StatusOK, dto.NewRunResponse(report))
}

// TriggerRun godoc
// @Summary Run the pipeline
// @Description Runs the pipeline for every configured sport and publishes with the configured mode
// @Tags alerts
// @Produce  json
// @Success 200 {object} dto.RunResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /runs [post]
func (h *AlertHandler) TriggerRun(c echo.Context) error {
	report, err := h.alertService.Run(c.Request().Context())
	if err != nil {
		if errors.Is(err, service.ErrRunInProgress) {
			return c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error("Failed to run pipeline", logger.ErrorField(err))
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to run pipeline"})
	}
	return c.JSON(http.StatusOK, dto.NewRunResponse(report))
}
