package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleet-console/backend/internal/domain/entity"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return server, client
}

func TestNotificationCache_SaveAndLatest(t *testing.T) {
	server, client := newTestRedis(t)
	store := NewNotificationCache(client)
	ctx := context.Background()

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "empty cache is a miss")

	counts := &entity.NotificationCounts{
		PendingDrivers:  3,
		PendingPartners: 1,
		OpenComplaints:  2,
		ActiveRides:     17,
		FetchedAt:       time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Save(ctx, counts, time.Minute))

	latest, err = store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.True(t, counts.SameCounters(latest))
	assert.True(t, counts.FetchedAt.Equal(latest.FetchedAt))
	assert.Equal(t, time.Minute, server.TTL(notificationCountsKey))

	server.FastForward(2 * time.Minute)

	latest, err = store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest, "expired snapshot is a miss")
}

func TestNotificationCache_Overwrite(t *testing.T) {
	_, client := newTestRedis(t)
	store := NewNotificationCache(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &entity.NotificationCounts{PendingDrivers: 1}, time.Minute))
	require.NoError(t, store.Save(ctx, &entity.NotificationCounts{PendingDrivers: 9}, time.Minute))

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Equal(t, 9, latest.PendingDrivers)
}

func TestNotificationCache_Errors(t *testing.T) {
	server, client := newTestRedis(t)
	store := NewNotificationCache(client)
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, nil, time.Minute))

	require.NoError(t, server.Set(notificationCountsKey, "not-json"))
	_, err := store.Latest(ctx)
	assert.ErrorContains(t, err, "decode")

	server.Close()
	_, err = store.Latest(ctx)
	assert.Error(t, err)
}
