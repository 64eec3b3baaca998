package handler

import (
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"github.com/aigymos/gym-console/internal/domain/entities"
	httpmw "github.com/aigymos/gym-console/internal/infrastructure/http/middleware"
	"github.com/aigymos/gym-console/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg    *config.Config
	logger *zap.Logger
	auth   echo.MiddlewareFunc

	taskHandler       *Task
	preferenceHandler *Preference
	dashboardHandler  *Dashboard
	ocrHandler        *OCR
	healthHandler     *Health
}

// Handlers groups the handlers mounted by the router. Preference may be nil
// when the database is disabled.
type Handlers struct {
	Task       *Task
	Preference *Preference
	Dashboard  *Dashboard
	OCR        *OCR
	Health     *Health
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, logger *zap.Logger, auth echo.MiddlewareFunc, handlers Handlers) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{
		cfg:               cfg,
		logger:            logger,
		auth:              auth,
		taskHandler:       handlers.Task,
		preferenceHandler: handlers.Preference,
		dashboardHandler:  handlers.Dashboard,
		ocrHandler:        handlers.OCR,
		healthHandler:     handlers.Health,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.HTTPErrorHandler = HTTPErrorHandler(rt.logger)

	if rt.healthHandler != nil {
		e.GET("/health", rt.healthHandler.Live)
		e.GET("/ready", rt.healthHandler.Ready)
	}

	if rt.cfg == nil || !rt.cfg.IsProduction() {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	// API v1 group
	v1 := e.Group("/v1", rt.auth)

	rt.setupTaskRoutes(v1)
	rt.setupDashboardRoutes(v1)
	rt.setupOCRRoutes(v1)
}

// setupTaskRoutes configures task board routes
func (rt *Router) setupTaskRoutes(g *echo.Group) {
	tasks := g.Group("/tasks")

	if rt.taskHandler != nil {
		tasks.GET("/board", rt.taskHandler.Board)
		tasks.POST("/:id/advance", rt.taskHandler.Advance)
	}
	if rt.preferenceHandler != nil {
		tasks.GET("/preferences", rt.preferenceHandler.Get)
		tasks.PUT("/preferences", rt.preferenceHandler.Save)
	}
}

// setupDashboardRoutes configures BI routes, restricted to owners and managers
func (rt *Router) setupDashboardRoutes(g *echo.Group) {
	if rt.dashboardHandler == nil {
		return
	}
	dashboards := g.Group("/dashboards", httpmw.RequireRoleFunc(entities.UserRole.CanViewDashboards))
	dashboards.GET("/overview", rt.dashboardHandler.Overview)
}

// setupOCRRoutes configures body composition extraction routes
func (rt *Router) setupOCRRoutes(g *echo.Group) {
	if rt.ocrHandler == nil {
		return
	}
	ocr := g.Group("/ocr")
	ocr.POST("/body-composition/text", rt.ocrHandler.ExtractText)
	ocr.POST("/body-composition/image", rt.ocrHandler.ExtractImage)
	ocr.GET("/photos", rt.ocrHandler.ListPhotos)
}
