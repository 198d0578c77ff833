// internal/database/redis.go
package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/omarqassem/shopfront-backend/internal/config"
)

// NewRedisClient connects to redis and verifies the connection with a
// ping. Cart sessions live here; the server still runs without redis,
// falling back to in-process cart storage.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
