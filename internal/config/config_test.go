package config

import (
	"flag"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"crossbot/internal/broker"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.APIKey = "key"
	cfg.APISecret = "secret"
	return cfg
}

func TestValidateConfigRejectsInvalidValues(t *testing.T) {
	cases := map[string]func(*Config){
		"mode":          func(c *Config) { c.Mode = "stream" },
		"credentials":   func(c *Config) { c.APISecret = "" },
		"windows":       func(c *Config) { c.ShortWindow = 200 },
		"max positions": func(c *Config) { c.MaxPositions = 0 },
		"pct":           func(c *Config) { c.MaxInvestmentPct = 0 },
		"stop loss":     func(c *Config) { c.StopLossPct = 1 },
		"lookback":      func(c *Config) { c.LookbackDays = 150 },
		"order type":    func(c *Config) { c.OrderType = "stop" },
		"tif":           func(c *Config) { c.TimeInForce = "ioc" },
		"timeout":       func(c *Config) { c.Timeout = 0 },
		"watchlist":     func(c *Config) { c.Watchlist = nil },
		"email":         func(c *Config) { c.Email.Enabled = true },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		if err := validate(cfg); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestValidateConfigAcceptsValidConfig(t *testing.T) {
	if err := validate(validConfig()); err != nil {
		t.Fatalf("expected config to be valid, got %v", err)
	}
}

func TestDefaultsMatchStrategyConstants(t *testing.T) {
	s := Defaults().Strategy()
	if s.ShortWindow != 50 || s.LongWindow != 200 || s.MaxPositions != 4 || s.MaxInvestmentPct != 0.25 || s.StopLossPct != 0.05 {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if len(s.Watchlist) != len(DefaultWatchlist) || s.Watchlist[0] != "AAPL" {
		t.Fatalf("expected S&P 500 watchlist, got %d symbols", len(s.Watchlist))
	}
}

func TestStrategyCopiesWatchlist(t *testing.T) {
	cfg := validConfig()
	cfg.Watchlist = []string{"AAPL", "MSFT"}
	s := cfg.Strategy()
	s.Watchlist[0] = "ZZZ"
	if cfg.Watchlist[0] != "AAPL" {
		t.Fatalf("expected strategy config to own its watchlist")
	}
}

func TestParseWatchlist(t *testing.T) {
	got := ParseWatchlist("nvda, AAPL\nbrk.b,,KO")
	want := []string{"NVDA", "AAPL", "BRK.B", "KO"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	configContents := `{
  "mode": "dry-run",
  "watchlist": ["msft", "nvda"],
  "maxPositions": 5,
  "maxInvestmentPct": 0.2,
  "timeout": "2m",
  "apiKey": "config-key",
  "apiSecret": "config-secret"
}`
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("MAX_INVESTMENT_PCT", "0.1")
	t.Setenv("APCA_API_KEY_ID", "env-key")
	t.Setenv("APCA_API_SECRET_KEY", "")
	t.Setenv("ALPACA_SECRET_KEY", "")
	t.Setenv("APCA_API_BASE_URL", "")
	t.Setenv("ALPACA_BASE_URL", "")
	t.Setenv("TRADING_MODE", "")
	t.Setenv("WATCHLIST", "")
	t.Setenv("EMAIL_ENABLED", "")

	resetFlags := resetFlagSet(t)
	defer resetFlags()

	os.Args = []string{
		"cmd",
		"--config", configPath,
		"--max-positions", "3",
		"--mode", "live",
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	if cfg.MaxPositions != 3 {
		t.Fatalf("expected max positions from CLI, got %d", cfg.MaxPositions)
	}
	if cfg.Mode != ModeLive || cfg.BaseURL != broker.LiveBaseURL {
		t.Fatalf("expected live mode from CLI, got %s %s", cfg.Mode, cfg.BaseURL)
	}
	if cfg.MaxInvestmentPct != 0.1 {
		t.Fatalf("expected investment pct from env, got %v", cfg.MaxInvestmentPct)
	}
	if cfg.APIKey != "env-key" {
		t.Fatalf("expected API key from env, got %q", cfg.APIKey)
	}
	if cfg.APISecret != "config-secret" {
		t.Fatalf("expected API secret from file, got %q", cfg.APISecret)
	}
	if !reflect.DeepEqual(cfg.Watchlist, []string{"MSFT", "NVDA"}) {
		t.Fatalf("expected watchlist from file, got %v", cfg.Watchlist)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Fatalf("expected timeout from file, got %v", cfg.Timeout)
	}
	if cfg.ShortWindow != 50 {
		t.Fatalf("expected default short window, got %d", cfg.ShortWindow)
	}
}

func resetFlagSet(t *testing.T) func() {
	t.Helper()
	originalArgs := os.Args
	originalCommandLine := flag.CommandLine
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	return func() {
		flag.CommandLine = originalCommandLine
		os.Args = originalArgs
	}
}
