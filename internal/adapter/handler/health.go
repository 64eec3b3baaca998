package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/aigymos/gym-console/internal/adapter/dto/common"
)

// Checker checks one dependency
type Checker func(ctx context.Context) error

// Health serves liveness and readiness checks
type Health struct {
	environment string
	checks      map[string]Checker
	timeout     time.Duration
}

// NewHealthHandler creates a health handler. checks may be empty.
func NewHealthHandler(environment string, checks map[string]Checker) *Health {
	return &Health{
		environment: environment,
		checks:      checks,
		timeout:     2 * time.Second,
	}
}

// Live handles GET /health
// @Summary      Liveness check
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Router       /health [get]
func (h *Health) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "ok",
		Environment: h.environment,
	})
}

// Ready handles GET /ready
// @Summary      Readiness check
// @Description  Pings every configured dependency
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Failure      503  {object}  common.HealthResponse
// @Router       /ready [get]
func (h *Health) Ready(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := common.HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Checks:      make(map[string]string, len(names)),
	}
	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	return c.JSON(status, resp)
}
