package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestDefaultsValidateInMonitorMode(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = ModeMonitor
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate outside trade mode: %v", err)
	}
}

func TestTradeModeRequiresWalletCredentials(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("trade mode with no wallet credentials should not validate")
	}
	msg := err.Error()
	if !strings.Contains(msg, "wallet.base_url") || !strings.Contains(msg, "wallet.api_key") {
		t.Errorf("error should name both missing credentials, got %q", msg)
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = "bogus"
	cfg.LogLevel = "verbose"
	cfg.Store.Backend = "sqlite"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected a validation error")
	}
	for _, want := range []string{"mode must be", "log_level", "store.backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should mention %q", err.Error(), want)
		}
	}
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
mode = "scan"
log_level = "debug"

[trading]
buy_size = 0.0005
cycle_interval = "5m"

[redis]
enabled = true
addr = "redis:6379"
price_ttl = "45s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != ModeScan {
		t.Errorf("got mode %q, want scan", cfg.Mode)
	}
	if cfg.Trading.BuySize != 0.0005 {
		t.Errorf("got buy_size %v, want 0.0005", cfg.Trading.BuySize)
	}
	if cfg.Trading.CycleInterval.Duration != 5*time.Minute {
		t.Errorf("got cycle_interval %v, want 5m", cfg.Trading.CycleInterval.Duration)
	}
	// Untouched values keep their defaults.
	if cfg.Trading.CallDelay.Duration != 2*time.Second {
		t.Errorf("got call_delay %v, want default 2s", cfg.Trading.CallDelay.Duration)
	}
	if cfg.Redis.PriceTTL.Duration != 45*time.Second {
		t.Errorf("got price_ttl %v, want 45s", cfg.Redis.PriceTTL.Duration)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `
[trading]
buy_sise = 0.1
`)
	if _, err := Load(path); err == nil {
		t.Fatal("misspelled key should be rejected")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[trading]
buy_size = 0.0005
`)
	t.Setenv("MEMETRADER_BUY_SIZE", "0.002")
	t.Setenv("MEMETRADER_WALLET_API_KEY", "secret-from-env")
	t.Setenv("MEMETRADER_EXECUTE", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Trading.BuySize != 0.002 {
		t.Errorf("got buy_size %v, want env override 0.002", cfg.Trading.BuySize)
	}
	if cfg.Wallet.APIKey != "secret-from-env" {
		t.Errorf("got api_key %q, want env value", cfg.Wallet.APIKey)
	}
	if !cfg.Trading.Execute {
		t.Error("execute should be enabled via env")
	}
}

func TestEnvRejectsMalformedValues(t *testing.T) {
	t.Setenv("MEMETRADER_BUY_SIZE", "lots")
	if _, err := Load(""); err == nil {
		t.Fatal("non-numeric buy size should fail to load")
	}
}

func TestUnknownNotifyEventRejected(t *testing.T) {
	cfg := Defaults()
	cfg.Mode = ModeMonitor
	cfg.Notify.Events = []string{"buy", "moon"}
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), `"moon"`) {
		t.Fatalf("unknown event should be rejected, got %v", err)
	}
}
