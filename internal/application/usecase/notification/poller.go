// Package notification contains the dashboard notification counter use cases.
package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
)

// Poller refreshes the notification counters from upstream into the store.
type Poller struct {
	source       adapter.NotificationSource
	store        adapter.NotificationStore
	pollInterval time.Duration
	cacheTTL     time.Duration
}

// PollerConfig holds configuration for the notification poller.
type PollerConfig struct {
	PollInterval time.Duration
	CacheTTL     time.Duration
}

// DefaultPollerConfig returns the default poller configuration.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		PollInterval: 30 * time.Second,
		CacheTTL:     2 * time.Minute,
	}
}

// NewPoller creates a new notification poller.
func NewPoller(source adapter.NotificationSource, store adapter.NotificationStore, config PollerConfig) *Poller {
	defaults := DefaultPollerConfig()
	if config.PollInterval <= 0 {
		config.PollInterval = defaults.PollInterval
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = defaults.CacheTTL
	}

	return &Poller{
		source:       source,
		store:        store,
		pollInterval: config.PollInterval,
		cacheTTL:     config.CacheTTL,
	}
}

// Start begins the polling loop. It blocks until the context is cancelled.
func (p *Poller) Start(ctx context.Context) {
	slog.Info("Notification poller started",
		"poll_interval", p.pollInterval,
		"cache_ttl", p.cacheTTL,
	)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	// Refresh immediately on start, then on ticker
	p.Refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Notification poller shutting down")
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh fetches the counters once and stores them.
// Failures are logged; the previous snapshot stays until its TTL expires.
func (p *Poller) Refresh(ctx context.Context) *entity.NotificationCounts {
	counts, err := p.source.FetchNotificationCounts(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("Failed to fetch notification counts", "error", err)
		}
		return nil
	}

	if err := p.store.Save(ctx, counts, p.cacheTTL); err != nil {
		slog.Error("Failed to cache notification counts", "error", err)
	}

	slog.Debug("Notification counts refreshed", "total", counts.Total())
	return counts
}
