package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"integrador-service/internal/config"
	redisclient "integrador-service/pkg/redis"
)

// NewRedisClient creates a new Redis client with configuration.
// It returns nil, nil when Redis is disabled.
func NewRedisClient(ctx context.Context, cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.Redis.Enabled {
		l.Info("redis disabled, user cache and rate limiting are off")
		return nil, nil
	}

	redisConfig := redisclient.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConn,
	}

	rdb, err := redisclient.NewClient(ctx, redisConfig, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
