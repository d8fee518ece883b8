package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"todo/internal/config"
)

// New returns nil when no address is configured; the caches built on top of a
// nil client are no-ops.
func New(config *config.Config) *redis.Client {
	if config.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       0,
	})
}

func Ping(ctx context.Context, client *redis.Client) error {
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}
