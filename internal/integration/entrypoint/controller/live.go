package controller

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/integration/entrypoint/middleware"
	"github.com/fleet-console/backend/internal/integration/live"
)

// LiveController upgrades authenticated requests to live dashboard sessions.
type LiveController struct {
	overview live.OverviewService
	counts   live.CountsService
	metrics  adapter.ChartMetrics
	config   live.Config
	upgrader websocket.Upgrader

	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup
}

// NewLiveController creates a new live controller instance.
// An empty allowedOrigins only accepts same-origin upgrades.
func NewLiveController(
	overview live.OverviewService,
	counts live.CountsService,
	metrics adapter.ChartMetrics,
	config live.Config,
	allowedOrigins []string,
) *LiveController {
	ctx, cancel := context.WithCancel(context.Background())

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if len(allowedOrigins) > 0 {
		upgrader.CheckOrigin = originChecker(allowedOrigins)
	}

	return &LiveController{
		overview: overview,
		counts:   counts,
		metrics:  metrics,
		config:   config,
		upgrader: upgrader,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Connect handles GET /live requests.
func (c *LiveController) Connect(ctx *gin.Context) {
	orgID, ok := middleware.GetOrganizationIDFromContext(ctx)
	if !ok {
		respondUnauthenticated(ctx)
		return
	}

	select {
	case <-c.ctx.Done():
		ctx.AbortWithStatus(http.StatusServiceUnavailable)
		return
	default:
	}

	initial := c.overview.ResolveTimeframe(ctx.Request.Context(), orgID, ctx.Query("timeframe"))

	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.Warn("Failed to upgrade live session", "error", err)
		return
	}

	session := live.NewSession(conn, orgID, initial, c.overview, c.counts, c.metrics, c.config)
	c.sessions.Add(1)
	defer c.sessions.Done()
	session.Run(c.ctx)
}

// Shutdown closes every live session and waits for them to finish.
func (c *LiveController) Shutdown() {
	c.cancel()
	c.sessions.Wait()
}

// originChecker replaces the upgrader's same-origin default when origins are configured.
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(strings.ToLower(origin), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return set[strings.ToLower(origin)]
	}
}
