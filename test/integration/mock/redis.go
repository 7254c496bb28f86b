package mock

import (
	"context"
	"sync"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var (
	cacheOnce   sync.Once
	cacheClient *redis.Client
)

// NewRedis starts one miniredis for the whole suite and returns a client
// bound to it. Notification snapshots and rate limit windows live there.
func NewRedis() *redis.Client {
	cacheOnce.Do(func() {
		server, err := miniredis.Run()
		if err != nil {
			panic("failed to start miniredis: " + err.Error())
		}
		cacheClient = redis.NewClient(&redis.Options{Addr: server.Addr()})
	})
	return cacheClient
}

// ClearRedis empties every key so scenarios start with a cold cache.
func ClearRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushAll(ctx).Err()
}
