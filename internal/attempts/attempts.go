// Package attempts limits failed PIN entries per terminal across sessions.
package attempts

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "atm:pin_fail:"

// ErrLocked is returned when a terminal has exceeded its allowed failures.
var ErrLocked = errors.New("too many failed PIN attempts, try again later")

// Limiter tracks failed authentication attempts by key.
type Limiter interface {
	Allowed(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Noop never locks anyone out.
type Noop struct{}

func (Noop) Allowed(context.Context, string) (bool, error) { return true, nil }
func (Noop) Fail(context.Context, string) error { return nil }
func (Noop) Reset(context.Context, string) error { return nil }

// Redis counts failures in Redis with a sliding lockout window. Cache errors
// fail open: the attempt is allowed and a warning is logged.
type Redis struct {
	cache       *redis.Client
	maxFailures int
	window      time.Duration
	logger      *slog.Logger
}

// NewRedis builds a limiter that locks a key after maxFailures failures until
// window has passed since the last failure.
func NewRedis(cache *redis.Client, maxFailures int, window time.Duration, logger *slog.Logger) *Redis {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &Redis{cache: cache, maxFailures: maxFailures, window: window, logger: logger}
}

// Allowed reports whether key may attempt authentication.
func (r *Redis) Allowed(ctx context.Context, key string) (bool, error) {
	cnt, err := r.cache.Get(ctx, keyPrefix+key).Int()
	if errors.Is(err, redis.Nil) {
		return true, nil
	}
	if err != nil {
		r.logger.Warn("attempt lookup failed", slog.String("key", key), slog.Any("error", err))
		return true, nil
	}
	return cnt < r.maxFailures, nil
}

// Fail records a failed attempt and refreshes the lockout window.
func (r *Redis) Fail(ctx context.Context, key string) error {
	k := keyPrefix + key
	pipe := r.cache.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.Expire(ctx, k, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("attempt record failed", slog.String("key", key), slog.Any("error", err))
		return nil
	}
	if incr.Val() >= int64(r.maxFailures) {
		r.logger.Warn("terminal locked", slog.String("key", key), slog.Int64("failures", incr.Val()))
	}
	return nil
}

// Reset clears the failure count after a successful login.
func (r *Redis) Reset(ctx context.Context, key string) error {
	if err := r.cache.Del(ctx, keyPrefix+key).Err(); err != nil {
		r.logger.Warn("attempt reset failed", slog.String("key", key), slog.Any("error", err))
	}
	return nil
}
