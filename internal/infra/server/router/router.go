// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/fleet-console/backend/internal/infra/metrics"
	"github.com/fleet-console/backend/internal/integration/entrypoint/controller"
	"github.com/fleet-console/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                 *gin.Engine
	healthController       *controller.HealthController
	chartController        *controller.ChartController
	notificationController *controller.NotificationController
	settingsController     *controller.SettingsController
	liveController         *controller.LiveController
	rateLimiter            *middleware.RateLimiter
	authMiddleware         *middleware.AuthMiddleware
	metrics                *metrics.Metrics
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	chartController *controller.ChartController,
	notificationController *controller.NotificationController,
	settingsController *controller.SettingsController,
	liveController *controller.LiveController,
	rateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	metrics *metrics.Metrics,
) *Router {
	return &Router{
		healthController:       healthController,
		chartController:        chartController,
		notificationController: notificationController,
		settingsController:     settingsController,
		liveController:         liveController,
		rateLimiter:            rateLimiter,
		authMiddleware:         authMiddleware,
		metrics:                metrics,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	if r.metrics != nil {
		r.engine.Use(r.metrics.Middleware())
	}

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check and metrics endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
	if r.metrics != nil {
		r.engine.GET("/metrics", gin.WrapH(r.metrics.Handler()))
	}
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	if r.authMiddleware == nil {
		return
	}

	// API v1 group; every route requires authentication
	v1 := r.engine.Group("/api/v1")
	v1.Use(r.authMiddleware.Authenticate())
	if r.rateLimiter != nil {
		v1.Use(r.rateLimiter.Middleware())
	}

	if r.chartController != nil {
		charts := v1.Group("/charts")
		{
			charts.GET("", r.chartController.Overview)
			charts.GET("/:kind", r.chartController.Get)
		}
	}

	if r.notificationController != nil {
		v1.GET("/notifications/counts", r.notificationController.Counts)
	}

	if r.settingsController != nil {
		settings := v1.Group("/settings")
		{
			settings.GET("/dashboard", r.settingsController.Get)
			settings.PUT("/dashboard", r.settingsController.Update)
		}
	}

	if r.liveController != nil {
		v1.GET("/live", r.liveController.Connect)
	}
}
