// Package redis opens the connection shared by the user cache and the
// rate limiter, and exposes the liveness check used by /health.
package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const connectTimeout = 5 * time.Second

// Config holds Redis connection configuration.
type Config struct {
	Host         string
	Port         string
	Password     string
	DB           int
	MaxRetries   int
	PoolSize     int
	MinIdleConns int
}

// Addr returns the host:port pair the client dials.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

func (c Config) options() *redis.Options {
	return &redis.Options{
		Addr:         c.Addr(),
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   c.MaxRetries,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
		DialTimeout:  connectTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// Client is a go-redis client that remembers where it points.
type Client struct {
	*redis.Client
	addr string
	log  *zap.Logger
}

// NewClient dials Redis and fails unless the server answers a PING
// within ctx or connectTimeout, whichever ends first.
func NewClient(ctx context.Context, cfg Config, log *zap.Logger) (*Client, error) {
	rdb := redis.NewClient(cfg.options())
	c := &Client{Client: rdb, addr: cfg.Addr(), log: log}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	log.Info("redis ready",
		zap.String("addr", c.addr),
		zap.Int("db", cfg.DB),
		zap.Int("pool_size", cfg.PoolSize),
	)
	return c, nil
}

// Addr returns the server address.
func (c *Client) Addr() string {
	return c.addr
}

// Ping reports whether the server answers. The error names the address so
// a failing health check says which backend is down.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis %s unreachable: %w", c.addr, err)
	}
	return nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	c.log.Info("closing redis connection", zap.String("addr", c.addr))
	return c.Client.Close()
}
