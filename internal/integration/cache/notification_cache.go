// Package cache implements application stores on top of Redis.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/fleet-console/backend/internal/application/adapter"
	"github.com/fleet-console/backend/internal/domain/entity"
)

const notificationCountsKey = "fleet-console:notifications:counts"

// notificationCache implements adapter.NotificationStore.
type notificationCache struct {
	client redis.Cmdable
}

// NewNotificationCache creates a new Redis-backed notification store.
func NewNotificationCache(client redis.Cmdable) adapter.NotificationStore {
	return &notificationCache{client: client}
}

// Save stores the snapshot as JSON with the given TTL.
func (c *notificationCache) Save(ctx context.Context, counts *entity.NotificationCounts, ttl time.Duration) error {
	if counts == nil {
		return errors.New("notification counts are nil")
	}

	payload, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to encode notification counts: %w", err)
	}

	if err := c.client.Set(ctx, notificationCountsKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store notification counts: %w", err)
	}
	return nil
}

// Latest returns the cached snapshot, or nil on a miss.
func (c *notificationCache) Latest(ctx context.Context) (*entity.NotificationCounts, error) {
	payload, err := c.client.Get(ctx, notificationCountsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notification counts: %w", err)
	}

	var counts entity.NotificationCounts
	if err := json.Unmarshal(payload, &counts); err != nil {
		return nil, fmt.Errorf("failed to decode notification counts: %w", err)
	}
	return &counts, nil
}
