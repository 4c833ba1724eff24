package attempts

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/atm/internal/logging"
)

func setupLimiter(t *testing.T, max int, window time.Duration) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})
	return NewRedis(cache, max, window, logging.Discard()), mr
}

func TestRedisLocksAfterMaxFailures(t *testing.T) {
	l, _ := setupLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allowed(ctx, "terminal-1")
		if err != nil || !ok {
			t.Fatalf("attempt %d: expected allowed, got %v %v", i, ok, err)
		}
		if err := l.Fail(ctx, "terminal-1"); err != nil {
			t.Fatalf("fail %d: %v", i, err)
		}
	}

	ok, err := l.Allowed(ctx, "terminal-1")
	if err != nil {
		t.Fatalf("allowed: %v", err)
	}
	if ok {
		t.Fatal("expected terminal to be locked")
	}

	ok, _ = l.Allowed(ctx, "terminal-2")
	if !ok {
		t.Fatal("other terminals must not be affected")
	}
}

func TestRedisWindowExpires(t *testing.T) {
	l, mr := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if err := l.Fail(ctx, "t"); err != nil {
		t.Fatalf("fail: %v", err)
	}
	if ok, _ := l.Allowed(ctx, "t"); ok {
		t.Fatal("expected lock")
	}
	mr.FastForward(2 * time.Minute)
	if ok, _ := l.Allowed(ctx, "t"); !ok {
		t.Fatal("expected lock to expire")
	}
}

func TestRedisReset(t *testing.T) {
	l, mr := setupLimiter(t, 2, time.Minute)
	ctx := context.Background()

	_ = l.Fail(ctx, "t")
	if err := l.Reset(ctx, "t"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if mr.Exists(keyPrefix + "t") {
		t.Fatal("expected key to be removed")
	}
}

func TestRedisFailsOpen(t *testing.T) {
	l, mr := setupLimiter(t, 1, time.Minute)
	ctx := context.Background()
	mr.Close()

	ok, err := l.Allowed(ctx, "t")
	if err != nil || !ok {
		t.Fatalf("expected fail-open, got %v %v", ok, err)
	}
	if err := l.Fail(ctx, "t"); err != nil {
		t.Fatalf("fail should swallow cache errors: %v", err)
	}
}

func TestNoop(t *testing.T) {
	var l Limiter = Noop{}
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_ = l.Fail(ctx, "t")
	}
	if ok, _ := l.Allowed(ctx, "t"); !ok {
		t.Fatal("noop limiter must always allow")
	}
}
