package database

import (
	"context"

	"event-guard/config"
	"event-guard/logger"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis opens the Redis connection used for the event listing cache.
// The cache is best-effort: callers must tolerate a nil client.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	logger.Success("Successfully connected to Redis at " + cfg.Redis.Addr)
	return rdb, nil
}
