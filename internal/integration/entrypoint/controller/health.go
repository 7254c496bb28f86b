package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// HealthController handles health check endpoints.
type HealthController struct {
	dbHealthChecker    func() bool
	cacheHealthChecker func(ctx context.Context) error
	upstreamState      func() string
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Cache     string `json:"cache"`
	Upstream  string `json:"upstream"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
// upstreamState reports the GraphQL circuit breaker state.
func NewHealthController(
	dbHealthChecker func() bool,
	cacheHealthChecker func(ctx context.Context) error,
	upstreamState func() string,
) *HealthController {
	return &HealthController{
		dbHealthChecker:    dbHealthChecker,
		cacheHealthChecker: cacheHealthChecker,
		upstreamState:      upstreamState,
	}
}

// Check handles GET /health requests.
// The API stays up while the cache or upstream is down, so only a lost
// database marks it degraded.
func (h *HealthController) Check(c *gin.Context) {
	dbStatus := "disconnected"
	if h.dbHealthChecker != nil && h.dbHealthChecker() {
		dbStatus = "connected"
	}

	cacheStatus := "disconnected"
	if h.cacheHealthChecker != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
		if err := h.cacheHealthChecker(ctx); err == nil {
			cacheStatus = "connected"
		}
		cancel()
	}

	upstreamStatus := "unknown"
	if h.upstreamState != nil {
		upstreamStatus = h.upstreamState()
	}

	status := "ok"
	if dbStatus != "connected" {
		status = "degraded"
	}

	response := HealthResponse{
		Status:    status,
		Database:  dbStatus,
		Cache:     cacheStatus,
		Upstream:  upstreamStatus,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	c.JSON(http.StatusOK, response)
}
