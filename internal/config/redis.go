package config

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient connects the client used for caching, the notification
// change feed and the badge aggregator's subscription. The startup ping keeps
// a misconfigured REDIS_URL from surfacing later as silent cache misses.
func NewRedisClient(cfg *Config) (*redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return client, nil
}
