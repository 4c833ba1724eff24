package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// lookupTimeout bounds every Redis call so an unreachable cache delays the
// PIN prompt by at most this long before the limiter fails open.
const lookupTimeout = 500 * time.Millisecond

// NewRedisClient connects the attempt limiter's cache, tagging the connection
// with the terminal ID, and verifies connectivity.
func NewRedisClient(ctx context.Context, url, terminalID string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if terminalID != "" {
		opt.ClientName = "atm:" + terminalID
	}
	opt.DialTimeout = lookupTimeout
	opt.ReadTimeout = lookupTimeout
	opt.WriteTimeout = lookupTimeout
	opt.MaxRetries = 1

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
