package adapter

import (
	"context"
	"time"

	"github.com/fleet-console/backend/internal/domain/entity"
)

// NotificationSource fetches the live notification counters from upstream.
type NotificationSource interface {
	FetchNotificationCounts(ctx context.Context) (*entity.NotificationCounts, error)
}

// NotificationStore caches the latest notification counters.
type NotificationStore interface {
	// Save stores counts, replacing any previous snapshot, for ttl.
	Save(ctx context.Context, counts *entity.NotificationCounts, ttl time.Duration) error

	// Latest returns the cached snapshot, or nil when nothing is cached.
	Latest(ctx context.Context) (*entity.NotificationCounts, error)
}
