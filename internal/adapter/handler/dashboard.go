package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dashboardUsecase "github.com/aigymos/gym-console/internal/usecase/dashboard"
)

// Dashboard handles the BI overview
type Dashboard struct {
	dashboardService dashboardUsecase.Service
	logger           *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService dashboardUsecase.Service, logger *zap.Logger) *Dashboard {
	return &Dashboard{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// Overview handles GET /dashboards/overview
// @Summary      Dashboard overview
// @Description  Cards, alerts, insight, retention chart and quick actions derived from the five backend dashboards. Feeds that fail are reported in sources.
// @Tags         Dashboards
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.SuccessResponse{data=dashboard.Overview}
// @Failure      401  {object}  common.ErrorResponse
// @Failure      403  {object}  common.ErrorResponse
// @Router       /dashboards/overview [get]
func (h *Dashboard) Overview(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	overview, err := h.dashboardService.Overview(c.Request().Context(), p)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, overview)
}
