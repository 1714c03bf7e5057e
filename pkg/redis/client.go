package redis

import (
	"context"
	"fmt"
	"time"

	"clientportal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient connects to Redis and pings it once.
func NewClient(cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	logger.Info("Initializing Redis client",
		zap.String("addr", cfg.Addr),
		zap.Int("db", cfg.DB),
	)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return rdb, nil
}
