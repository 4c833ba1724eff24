package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/congo-pay/atm/internal/money"
)

var configEnv = []string{
	"APP_NAME", "LOG_LEVEL", "ATM_INITIAL_PIN", "ATM_INITIAL_BALANCE", "ATM_TERMINAL_ID",
	"CREDENTIAL_SCHEME", "REDIS_URL", "PIN_MAX_FAILURES", pinLockoutSecondsEnvVar, pinLockoutDurEnvVar,
}

// isolate clears config variables and runs the test in an empty directory so
// no stray .env file is picked up.
func isolate(t *testing.T) {
	t.Helper()
	for _, k := range configEnv {
		t.Setenv(k, "")
	}
	t.Chdir(t.TempDir())
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InitialPIN != "1234" {
		t.Fatalf("expected PIN 1234, got %q", cfg.InitialPIN)
	}
	if cfg.InitialBalance != money.MustParse("1000.00") {
		t.Fatalf("expected balance 1000.00, got %s", cfg.InitialBalance)
	}
	if cfg.CredentialScheme != "plaintext" || cfg.LockoutEnabled() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PINMaxFailures != 3 || cfg.PINLockout != 15*time.Minute {
		t.Fatalf("unexpected lockout defaults: %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("ATM_INITIAL_PIN", "0000")
	t.Setenv("ATM_INITIAL_BALANCE", "25.50")
	t.Setenv("CREDENTIAL_SCHEME", "BCRYPT")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("PIN_MAX_FAILURES", "5")
	t.Setenv(pinLockoutDurEnvVar, "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InitialPIN != "0000" || cfg.InitialBalance != 2_550 || cfg.CredentialScheme != "bcrypt" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if !cfg.LockoutEnabled() || cfg.PINMaxFailures != 5 || cfg.PINLockout != time.Minute {
		t.Fatalf("unexpected lockout overrides: %+v", cfg)
	}
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(filepath.Join(".", ".env"), []byte("ATM_INITIAL_PIN=7777\nATM_TERMINAL_ID=lobby\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	// godotenv does not override variables that are already set, and t.Setenv
	// set them to empty strings, so unset them for this test.
	os.Unsetenv("ATM_INITIAL_PIN")
	os.Unsetenv("ATM_TERMINAL_ID")
	t.Cleanup(func() {
		os.Unsetenv("ATM_INITIAL_PIN")
		os.Unsetenv("ATM_TERMINAL_ID")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.InitialPIN != "7777" || cfg.TerminalID != "lobby" {
		t.Fatalf("expected values from .env, got %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"ATM_INITIAL_BALANCE":   "lots",
		"CREDENTIAL_SCHEME":     "rot13",
		"PIN_MAX_FAILURES":      "zero",
		pinLockoutSecondsEnvVar: "soon",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolate(t)
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoadRejectsNegativeBalance(t *testing.T) {
	isolate(t)
	t.Setenv("ATM_INITIAL_BALANCE", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for negative opening balance")
	}
}
