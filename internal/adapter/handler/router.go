package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/FizzahNasir/FYP-Synkro/docs"
	"github.com/FizzahNasir/FYP-Synkro/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	meetingHandler    *Meeting
	actionItemHandler *ActionItem
	authMiddleware    echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting, actionItemHandler *ActionItem, authMiddleware echo.MiddlewareFunc) *Router {
	return &Router{
		cfg:               cfg,
		meetingHandler:    meetingHandler,
		actionItemHandler: actionItemHandler,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/v1")
	if rt.authMiddleware != nil {
		v1.Use(rt.authMiddleware)
	}

	rt.setupMeetingRoutes(v1)
	rt.setupActionItemRoutes(v1)
}

// setupMeetingRoutes configures meeting upload and lifecycle routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")

	meetings.POST("", rt.meetingHandler.Upload)
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)
	meetings.PATCH("/:id", rt.meetingHandler.Update)
	meetings.DELETE("/:id", rt.meetingHandler.Delete)
	meetings.POST("/:id/retry", rt.meetingHandler.Retry)
}

// setupActionItemRoutes configures action item review routes
func (rt *Router) setupActionItemRoutes(g *echo.Group) {
	items := g.Group("/meetings/:id/action-items")

	items.GET("", rt.actionItemHandler.List)
	items.POST("/:item_id/convert", rt.actionItemHandler.Convert)
	items.POST("/:item_id/reject", rt.actionItemHandler.Reject)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	environment := ""
	if rt.cfg != nil {
		environment = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": environment,
	})
}
