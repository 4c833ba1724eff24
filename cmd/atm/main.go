package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/atm/internal/account"
	"github.com/congo-pay/atm/internal/attempts"
	"github.com/congo-pay/atm/internal/config"
	"github.com/congo-pay/atm/internal/credential"
	"github.com/congo-pay/atm/internal/infra"
	"github.com/congo-pay/atm/internal/logging"
	"github.com/congo-pay/atm/internal/notification"
	"github.com/congo-pay/atm/internal/session"
)

// shutdownGrace is how long a cancelled session gets to finish its current
// command before the process exits anyway.
const shutdownGrace = 2 * time.Second

const (
	exitOK          = 0
	exitError       = 1
	exitDenied      = 2
	exitInterrupted = 130
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(exitError)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel).With(slog.String("app", cfg.AppName))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var cache *redis.Client
	if cfg.LockoutEnabled() {
		cache, err = infra.NewRedisClient(ctx, cfg.RedisURL, cfg.TerminalID)
		if err != nil {
			logger.Warn("pin lockout disabled", "error", err)
			cache = nil
		}
	}

	doneCh := make(chan error, 1)
	go func() {
		doneCh <- run(ctx, cfg, cache, logger)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	code := awaitExit(doneCh, sigCh, cancel, shutdownGrace, logger)
	if code == exitInterrupted {
		fmt.Fprintln(os.Stdout)
	}
	if cache != nil {
		if err := cache.Close(); err != nil {
			logger.Warn("close redis", "error", err)
		}
	}
	os.Exit(code)
}

// awaitExit waits for the session to finish or for a signal. On a signal it
// cancels the session and waits up to grace for it to stop between commands;
// a session blocked on input is abandoned when grace runs out.
func awaitExit(doneCh <-chan error, sigCh <-chan os.Signal, cancel context.CancelFunc, grace time.Duration, logger *slog.Logger) int {
	select {
	case err := <-doneCh:
		return exitCode(err, logger)
	case sig := <-sigCh:
		logger.Info("shutdown signal received", "signal", sig.String())
		cancel()
		select {
		case err := <-doneCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("session error during shutdown", "error", err)
			}
		case <-time.After(grace):
			logger.Warn("session did not stop in time", "grace", grace)
		}
		return exitInterrupted
	}
}

func exitCode(err error, logger *slog.Logger) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, session.ErrAccessDenied), errors.Is(err, attempts.ErrLocked):
		return exitDenied
	default:
		logger.Error("atm exited", "error", err)
		return exitError
	}
}

func run(ctx context.Context, cfg config.Config, cache *redis.Client, logger *slog.Logger) error {
	verifier, err := credential.New(cfg.CredentialScheme, cfg.InitialPIN)
	if err != nil {
		return fmt.Errorf("build credential: %w", err)
	}

	acct, err := account.New(verifier, cfg.InitialBalance)
	if err != nil {
		return fmt.Errorf("open account: %w", err)
	}

	var limiter attempts.Limiter = attempts.Noop{}
	if cache != nil {
		limiter = attempts.NewRedis(cache, cfg.PINMaxFailures, cfg.PINLockout, logger)
	}

	sess, err := session.New(acct, session.Options{
		In:         os.Stdin,
		Out:        os.Stdout,
		Logger:     logger,
		Notifier:   notification.NewLoggerNotifier(logger),
		Limiter:    limiter,
		TerminalID: cfg.TerminalID,
	})
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	return sess.Run(ctx)
}
