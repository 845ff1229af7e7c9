package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is the shared connection pool used by the session store and the
// alert stream.
type Client struct {
	*redis.Client
}

// Connect parses redisURL (redis://[:password@]host:port[/db]) and pings the
// server so startup fails fast when it is unreachable.
func Connect(ctx context.Context, redisURL string) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	c := &Client{Client: redis.NewClient(opts)}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Client.Ping(pingCtx).Err(); err != nil {
		_ = c.Client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return c, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.Client.Close()
}
