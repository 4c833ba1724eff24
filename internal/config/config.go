package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/congo-pay/atm/internal/credential"
	"github.com/congo-pay/atm/internal/money"
)

const (
	defaultAppName          = "ATM"
	defaultLogLevel         = "info"
	defaultInitialPIN       = "1234"
	defaultInitialBalance   = "1000.00"
	defaultTerminalID       = "terminal-1"
	defaultPINMaxFailures   = 3
	defaultPINLockout       = 15 * time.Minute
	pinLockoutSecondsEnvVar = "PIN_LOCKOUT_SECONDS"
	pinLockoutDurEnvVar     = "PIN_LOCKOUT"
)

// Config captures runtime configuration. Every field has a compiled-in
// default so the machine runs with no environment at all.
type Config struct {
	AppName          string
	LogLevel         string
	InitialPIN       string
	InitialBalance   money.Amount
	TerminalID       string
	CredentialScheme string
	RedisURL         string
	PINMaxFailures   int
	PINLockout       time.Duration
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Config{
		AppName:          getEnv("APP_NAME", defaultAppName),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		InitialPIN:       getEnv("ATM_INITIAL_PIN", defaultInitialPIN),
		TerminalID:       getEnv("ATM_TERMINAL_ID", defaultTerminalID),
		CredentialScheme: strings.ToLower(getEnv("CREDENTIAL_SCHEME", credential.SchemePlaintext)),
		RedisURL:         os.Getenv("REDIS_URL"),
		PINMaxFailures:   defaultPINMaxFailures,
		PINLockout:       defaultPINLockout,
	}

	balance, err := money.Parse(getEnv("ATM_INITIAL_BALANCE", defaultInitialBalance))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ATM_INITIAL_BALANCE: %w", err)
	}
	if balance < 0 {
		return Config{}, fmt.Errorf("invalid ATM_INITIAL_BALANCE: must not be negative")
	}
	cfg.InitialBalance = balance

	switch cfg.CredentialScheme {
	case credential.SchemePlaintext, credential.SchemeBcrypt:
	default:
		return Config{}, fmt.Errorf("invalid CREDENTIAL_SCHEME: %q", cfg.CredentialScheme)
	}

	if v := os.Getenv("PIN_MAX_FAILURES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PIN_MAX_FAILURES: %w", err)
		}
		if n <= 0 {
			return Config{}, fmt.Errorf("invalid PIN_MAX_FAILURES: must be positive")
		}
		cfg.PINMaxFailures = n
	}

	if v := os.Getenv(pinLockoutSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", pinLockoutSecondsEnvVar, err)
		}
		cfg.PINLockout = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(pinLockoutDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", pinLockoutDurEnvVar, err)
		}
		cfg.PINLockout = d
	}

	return cfg, nil
}

// LockoutEnabled reports whether failed PINs should be tracked across runs.
func (c Config) LockoutEnabled() bool {
	return c.RedisURL != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
