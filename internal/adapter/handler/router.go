package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	appmiddleware "github.com/gravity-notes/gravity/internal/infrastructure/http/middleware"
	"github.com/gravity-notes/gravity/internal/usecase/auth"
	"github.com/gravity-notes/gravity/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg              *config.Config
	authHandler      *Auth
	recordingHandler *Recording
	authService      *auth.Service
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, authHandler *Auth, recordingHandler *Recording, authService *auth.Service) *Router {
	return &Router{
		cfg:              cfg,
		authHandler:      authHandler,
		recordingHandler: recordingHandler,
		authService:      authService,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	requireAuth := appmiddleware.EchoAuth(rt.authService)

	rt.setupAuthRoutes(v1, requireAuth)
	rt.setupRecordingRoutes(v1, requireAuth)
}

// setupAuthRoutes configures authentication routes
func (rt *Router) setupAuthRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	authGroup := g.Group("/auth")

	authGroup.POST("/register", rt.authHandler.Register)
	authGroup.POST("/login", rt.authHandler.Login)
	authGroup.POST("/refresh", rt.authHandler.RefreshToken)
	authGroup.POST("/logout", rt.authHandler.Logout)
	authGroup.GET("/me", rt.authHandler.Me, requireAuth)
}

// setupRecordingRoutes configures recording routes
func (rt *Router) setupRecordingRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	recordingGroup := g.Group("/recordings", requireAuth)

	recordingGroup.GET("", rt.recordingHandler.List)
	recordingGroup.POST("/analyze", rt.recordingHandler.Analyze)
	recordingGroup.DELETE("/:id", rt.recordingHandler.Delete)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"environment": rt.cfg.Server.Environment,
	})
}
