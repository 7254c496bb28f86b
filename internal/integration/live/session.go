// Package live serves the websocket live view of the dashboard: the client
// switches timeframes and the server pushes charts and notification counts.
package live

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/application/usecase/chart"
	"github.com/fleet-console/backend/internal/domain/entity"
	domainerror "github.com/fleet-console/backend/internal/domain/error"
	"github.com/fleet-console/backend/internal/domain/valueobject"
	"github.com/fleet-console/backend/internal/integration/entrypoint/dto"
)

// OverviewService assembles the chart overview of an organization.
type OverviewService interface {
	ResolveTimeframe(ctx context.Context, orgID uuid.UUID, raw string) valueobject.Timeframe
	ExecuteTimeframe(ctx context.Context, orgID uuid.UUID, timeframe valueobject.Timeframe) (*chart.Overview, error)
}

// CountsService returns the latest notification counters.
type CountsService interface {
	Execute(ctx context.Context) (*entity.NotificationCounts, error)
}

// Config holds live session timings.
type Config struct {
	PushInterval   time.Duration
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
	SendBuffer     int
}

// DefaultConfig returns the default live session configuration.
func DefaultConfig() Config {
	return Config{
		PushInterval:   30 * time.Second,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 4 * 1024,
		SendBuffer:     16,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.PushInterval <= 0 {
		c.PushInterval = d.PushInterval
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	return c
}

func (c Config) pingPeriod() time.Duration {
	return (c.PongWait * 9) / 10
}

// Session is one connected dashboard.
type Session struct {
	conn     *websocket.Conn
	orgID    uuid.UUID
	overview OverviewService
	counts   CountsService
	view     *chart.View
	cfg      Config
	logger   *slog.Logger

	send       chan dto.LiveServerMessage
	loads      sync.WaitGroup
	chartMu    sync.Mutex
	lastCounts *entity.NotificationCounts
}

// NewSession creates a session for an upgraded connection.
func NewSession(
	conn *websocket.Conn,
	orgID uuid.UUID,
	initial valueobject.Timeframe,
	overview OverviewService,
	counts CountsService,
	metrics adapter.ChartMetrics,
	cfg Config,
) *Session {
	cfg = cfg.withDefaults()

	s := &Session{
		conn:     conn,
		orgID:    orgID,
		overview: overview,
		counts:   counts,
		cfg:      cfg,
		logger:   slog.With("organization_id", orgID, "remote_addr", conn.RemoteAddr().String()),
		send:     make(chan dto.LiveServerMessage, cfg.SendBuffer),
	}
	s.view = chart.NewView(func(ctx context.Context, timeframe valueobject.Timeframe) (*chart.Overview, error) {
		return overview.ExecuteTimeframe(ctx, orgID, timeframe)
	}, initial, metrics)
	return s
}

// Run serves the session until the client disconnects or ctx is cancelled.
func (s *Session) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.logger.Info("Live session started")

	var workers sync.WaitGroup
	workers.Add(2)
	go func() {
		defer workers.Done()
		s.writePump(ctx)
	}()
	go func() {
		defer workers.Done()
		s.pushNotifications(ctx)
	}()

	s.selectTimeframe(ctx, s.view.Timeframe())
	s.readPump(ctx)

	cancel()
	s.view.Close()
	s.loads.Wait()
	workers.Wait()
	_ = s.conn.Close()

	s.logger.Info("Live session closed")
}

// readPump dispatches client messages until the connection fails.
func (s *Session) readPump(ctx context.Context) {
	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	if err := s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait)); err != nil {
		s.logger.Error("Failed to set read deadline", "error", err)
		return
	}
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				s.logger.Warn("Unexpected live session close", "error", err)
			}
			return
		}

		var msg dto.LiveClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.sendError(ctx, "Invalid message", "")
			continue
		}

		switch msg.Type {
		case dto.LiveTypeSelectTimeframe:
			timeframe := s.overview.ResolveTimeframe(ctx, s.orgID, msg.Timeframe)
			s.selectTimeframe(ctx, timeframe)
		case dto.LiveTypePing:
			s.enqueue(ctx, dto.LiveServerMessage{Type: dto.LiveTypePong})
		default:
			s.sendError(ctx, "Unknown message type: "+msg.Type, "")
		}
	}
}

// selectTimeframe loads timeframe in the background. A newer selection
// supersedes it, and only the newest committed overview is pushed.
func (s *Session) selectTimeframe(ctx context.Context, timeframe valueobject.Timeframe) {
	s.loads.Add(1)
	go func() {
		defer s.loads.Done()

		overview, committed, err := s.view.Select(ctx, timeframe)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Error("Failed to load live overview", "timeframe", timeframe, "error", err)
			s.sendError(ctx, "Failed to load charts", string(domainerror.ErrCodeChartInternalError))
			return
		}
		if !committed {
			return
		}

		msg, err := dto.NewLiveServerMessage(dto.LiveTypeChart, dto.ToOverviewData(overview))
		if err != nil {
			s.logger.Error("Failed to encode overview", "error", err)
			return
		}

		// A newer commit may have landed since; pushes must follow commit order.
		s.chartMu.Lock()
		defer s.chartMu.Unlock()
		if s.view.Current() != overview {
			return
		}
		s.enqueue(ctx, msg)
	}()
}

// pushNotifications pushes the counters immediately and then on every tick,
// skipping pushes that would not change what the client shows.
func (s *Session) pushNotifications(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PushInterval)
	defer ticker.Stop()

	s.pushCounts(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pushCounts(ctx)
		}
	}
}

func (s *Session) pushCounts(ctx context.Context) {
	counts, err := s.counts.Execute(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn("Failed to read notification counts", "error", err)
		}
		return
	}
	if counts.SameCounters(s.lastCounts) {
		return
	}

	msg, err := dto.NewLiveServerMessage(dto.LiveTypeNotifications, dto.ToNotificationCountsData(counts))
	if err != nil {
		s.logger.Error("Failed to encode notification counts", "error", err)
		return
	}
	if s.enqueue(ctx, msg) {
		s.lastCounts = counts
	}
}

// writePump is the only writer of the connection.
func (s *Session) writePump(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.pingPeriod())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			_ = s.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			// Unblocks readPump when the server side ends the session.
			_ = s.conn.Close()
			return

		case msg := <-s.send:
			payload, err := json.Marshal(msg)
			if err != nil {
				s.logger.Error("Failed to encode live message", "type", msg.Type, "error", err)
				continue
			}
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait)); err != nil {
				s.logger.Error("Failed to set write deadline", "error", err)
				_ = s.conn.Close()
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				s.logger.Warn("Failed to write live message", "type", msg.Type, "error", err)
				_ = s.conn.Close()
				return
			}

		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait)); err != nil {
				_ = s.conn.Close()
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = s.conn.Close()
				return
			}
		}
	}
}

// enqueue hands msg to the writer. It reports false when the session ended first.
func (s *Session) enqueue(ctx context.Context, msg dto.LiveServerMessage) bool {
	select {
	case s.send <- msg:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) sendError(ctx context.Context, message, code string) {
	msg, err := dto.NewLiveServerMessage(dto.LiveTypeError, dto.ErrorResponse{Error: message, Code: code})
	if err != nil {
		return
	}
	s.enqueue(ctx, msg)
}
