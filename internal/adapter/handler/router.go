package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorhub/crm-assistant/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	assistantHandler *Assistant
	surveyHandler    *Survey
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, assistantHandler *Assistant, surveyHandler *Survey) *Router {
	return &Router{
		cfg:              cfg,
		assistantHandler: assistantHandler,
		surveyHandler:    surveyHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupAssistantRoutes(v1)
	rt.setupSurveyRoutes(v1)
}

// setupAssistantRoutes configures the conversational endpoint
func (rt *Router) setupAssistantRoutes(g *echo.Group) {
	assistantGroup := g.Group("/assistant")

	if rt.assistantHandler != nil {
		assistantGroup.POST("/command", rt.assistantHandler.Command)
	} else {
		assistantGroup.POST("/command", rt.notImplemented)
	}
}

// setupSurveyRoutes configures survey analysis routes
func (rt *Router) setupSurveyRoutes(g *echo.Group) {
	surveyGroup := g.Group("/surveys")

	if rt.surveyHandler != nil {
		surveyGroup.POST("/:id/analyze", rt.surveyHandler.Analyze)
	} else {
		surveyGroup.POST("/:id/analyze", rt.notImplemented)
	}
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	env := "development"
	if rt.cfg != nil {
		env = rt.cfg.Server.Environment
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": env,
	})
}
