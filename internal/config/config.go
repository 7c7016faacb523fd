package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"crossbot/internal/broker"
	"crossbot/internal/notify"
	"crossbot/internal/strategy"
)

type Mode string

const (
	ModeDryRun Mode = "dry-run"
	ModePaper  Mode = "paper"
	ModeLive   Mode = "live"
)

type Config struct {
	Mode             Mode
	Feed             string
	Watchlist        []string
	ShortWindow      int
	LongWindow       int
	MaxPositions     int
	MaxInvestmentPct float64
	StopLossPct      float64
	LookbackDays     int
	MaxNotional      float64
	KillSwitch       bool
	OrderType        string
	TimeInForce      string
	Timeout          time.Duration
	DecisionsPath    string
	TradeLogPath     string
	ReportDir        string
	LogFormat        string
	BaseURL          string
	APIKey           string
	APISecret        string
	Email            notify.EmailConfig
}

// Strategy returns the immutable decision parameters.
func (c Config) Strategy() strategy.Config {
	watchlist := make([]string, len(c.Watchlist))
	copy(watchlist, c.Watchlist)
	return strategy.Config{
		ShortWindow:      c.ShortWindow,
		LongWindow:       c.LongWindow,
		MaxPositions:     c.MaxPositions,
		MaxInvestmentPct: c.MaxInvestmentPct,
		StopLossPct:      c.StopLossPct,
		Watchlist:        watchlist,
	}
}

func Defaults() Config {
	return Config{
		Mode:             ModePaper,
		Feed:             "iex",
		Watchlist:        DefaultWatchlist,
		ShortWindow:      50,
		LongWindow:       200,
		MaxPositions:     4,
		MaxInvestmentPct: 0.25,
		StopLossPct:      0.05,
		LookbackDays:     300,
		OrderType:        "market",
		TimeInForce:      "gtc",
		Timeout:          10 * time.Minute,
		DecisionsPath:    "decisions.ndjson",
		TradeLogPath:     "trade_log_multi.csv",
		ReportDir:        "daily_reports",
		LogFormat:        "text",
		Email: notify.EmailConfig{
			Server: "smtp.gmail.com",
			Port:   587,
		},
	}
}

// Load resolves configuration with precedence defaults < --config file <
// environment < explicit command line flags.
func Load() (Config, error) {
	loadDotEnvIfPresent(".env")

	cfg := Defaults()
	cli := Defaults()
	var configPath, mode, watchlist string

	fs := flag.CommandLine
	fs.StringVar(&configPath, "config", "", "path to JSON config file")
	fs.StringVar(&mode, "mode", string(cfg.Mode), "run mode: dry-run, paper or live")
	fs.StringVar(&cli.Feed, "feed", cli.Feed, "market data feed: iex or sip")
	fs.StringVar(&watchlist, "watchlist", "", "comma separated symbols in priority order (default S&P 500)")
	fs.IntVar(&cli.ShortWindow, "short-window", cli.ShortWindow, "short moving average window")
	fs.IntVar(&cli.LongWindow, "long-window", cli.LongWindow, "long moving average window")
	fs.IntVar(&cli.MaxPositions, "max-positions", cli.MaxPositions, "maximum simultaneous positions")
	fs.Float64Var(&cli.MaxInvestmentPct, "max-investment-pct", cli.MaxInvestmentPct, "fraction of equity per new position")
	fs.Float64Var(&cli.StopLossPct, "stop-loss-pct", cli.StopLossPct, "drawdown from entry that forces an exit")
	fs.IntVar(&cli.LookbackDays, "lookback-days", cli.LookbackDays, "calendar days of daily bars to fetch")
	fs.Float64Var(&cli.MaxNotional, "max-notional", cli.MaxNotional, "max notional per buy, 0 disables")
	fs.BoolVar(&cli.KillSwitch, "kill-switch", cli.KillSwitch, "if true, never place orders")
	fs.StringVar(&cli.OrderType, "order-type", cli.OrderType, "order type: market or limit")
	fs.StringVar(&cli.TimeInForce, "time-in-force", cli.TimeInForce, "time in force: gtc or day")
	fs.DurationVar(&cli.Timeout, "timeout", cli.Timeout, "deadline for the whole pass")
	fs.StringVar(&cli.DecisionsPath, "decisions-path", cli.DecisionsPath, "path to decisions log")
	fs.StringVar(&cli.TradeLogPath, "trade-log", cli.TradeLogPath, "path to CSV trade log")
	fs.StringVar(&cli.ReportDir, "report-dir", cli.ReportDir, "directory for HTML reports, empty disables")
	fs.StringVar(&cli.LogFormat, "log-format", cli.LogFormat, "log format: text or json")
	fs.StringVar(&cli.BaseURL, "base-url", "", "trading API base URL (default by mode)")
	if err := fs.Parse(os.Args[1:]); err != nil {
		return cfg, err
	}

	if configPath != "" {
		if err := applyFile(&cfg, configPath); err != nil {
			return cfg, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	overrides := map[string]func(){
		"mode":               func() { cfg.Mode = Mode(mode) },
		"feed":               func() { cfg.Feed = cli.Feed },
		"watchlist":          func() { cfg.Watchlist = ParseWatchlist(watchlist) },
		"short-window":       func() { cfg.ShortWindow = cli.ShortWindow },
		"long-window":        func() { cfg.LongWindow = cli.LongWindow },
		"max-positions":      func() { cfg.MaxPositions = cli.MaxPositions },
		"max-investment-pct": func() { cfg.MaxInvestmentPct = cli.MaxInvestmentPct },
		"stop-loss-pct":      func() { cfg.StopLossPct = cli.StopLossPct },
		"lookback-days":      func() { cfg.LookbackDays = cli.LookbackDays },
		"max-notional":       func() { cfg.MaxNotional = cli.MaxNotional },
		"kill-switch":        func() { cfg.KillSwitch = cli.KillSwitch },
		"order-type":         func() { cfg.OrderType = cli.OrderType },
		"time-in-force":      func() { cfg.TimeInForce = cli.TimeInForce },
		"timeout":            func() { cfg.Timeout = cli.Timeout },
		"decisions-path":     func() { cfg.DecisionsPath = cli.DecisionsPath },
		"trade-log":          func() { cfg.TradeLogPath = cli.TradeLogPath },
		"report-dir":         func() { cfg.ReportDir = cli.ReportDir },
		"log-format":         func() { cfg.LogFormat = cli.LogFormat },
		"base-url":           func() { cfg.BaseURL = cli.BaseURL },
	}
	fs.Visit(func(f *flag.Flag) {
		if apply, ok := overrides[f.Name]; ok {
			apply()
		}
	})

	if cfg.BaseURL == "" {
		cfg.BaseURL = baseURLFor(cfg.Mode)
	}

	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func baseURLFor(mode Mode) string {
	if mode == ModeLive {
		return broker.LiveBaseURL
	}
	return broker.PaperBaseURL
}

// ParseWatchlist splits a comma or whitespace separated symbol list,
// upper-casing each symbol and keeping order.
func ParseWatchlist(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	symbols := make([]string, 0, len(fields))
	for _, f := range fields {
		symbols = append(symbols, strings.ToUpper(f))
	}
	return symbols
}

type fileConfig struct {
	Mode             *string  `json:"mode"`
	Feed             *string  `json:"feed"`
	Watchlist        []string `json:"watchlist"`
	ShortWindow      *int     `json:"shortWindow"`
	LongWindow       *int     `json:"longWindow"`
	MaxPositions     *int     `json:"maxPositions"`
	MaxInvestmentPct *float64 `json:"maxInvestmentPct"`
	StopLossPct      *float64 `json:"stopLossPct"`
	LookbackDays     *int     `json:"lookbackDays"`
	MaxNotional      *float64 `json:"maxNotional"`
	KillSwitch       *bool    `json:"killSwitch"`
	OrderType        *string  `json:"orderType"`
	TimeInForce      *string  `json:"timeInForce"`
	Timeout          *string  `json:"timeout"`
	DecisionsPath    *string  `json:"decisionsPath"`
	TradeLogPath     *string  `json:"tradeLogPath"`
	ReportDir        *string  `json:"reportDir"`
	LogFormat        *string  `json:"logFormat"`
	BaseURL          *string  `json:"baseURL"`
	APIKey           *string  `json:"apiKey"`
	APISecret        *string  `json:"apiSecret"`
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	if fc.Mode != nil {
		cfg.Mode = Mode(*fc.Mode)
	}
	if len(fc.Watchlist) > 0 {
		cfg.Watchlist = ParseWatchlist(strings.Join(fc.Watchlist, ","))
	}
	if fc.KillSwitch != nil {
		cfg.KillSwitch = *fc.KillSwitch
	}
	if fc.Timeout != nil {
		timeout, err := time.ParseDuration(*fc.Timeout)
		if err != nil {
			return fmt.Errorf("parse config timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	setString(&cfg.Feed, fc.Feed)
	setInt(&cfg.ShortWindow, fc.ShortWindow)
	setInt(&cfg.LongWindow, fc.LongWindow)
	setInt(&cfg.MaxPositions, fc.MaxPositions)
	setFloat(&cfg.MaxInvestmentPct, fc.MaxInvestmentPct)
	setFloat(&cfg.StopLossPct, fc.StopLossPct)
	setInt(&cfg.LookbackDays, fc.LookbackDays)
	setFloat(&cfg.MaxNotional, fc.MaxNotional)
	setString(&cfg.OrderType, fc.OrderType)
	setString(&cfg.TimeInForce, fc.TimeInForce)
	setString(&cfg.DecisionsPath, fc.DecisionsPath)
	setString(&cfg.TradeLogPath, fc.TradeLogPath)
	setString(&cfg.ReportDir, fc.ReportDir)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.BaseURL, fc.BaseURL)
	setString(&cfg.APIKey, fc.APIKey)
	setString(&cfg.APISecret, fc.APISecret)
	return nil
}

func firstEnv(keys ...string) (string, bool) {
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value, true
		}
	}
	return "", false
}

func applyEnv(cfg *Config) error {
	if v, ok := firstEnv("APCA_API_KEY_ID", "ALPACA_API_KEY"); ok {
		cfg.APIKey = v
	}
	if v, ok := firstEnv("APCA_API_SECRET_KEY", "ALPACA_SECRET_KEY"); ok {
		cfg.APISecret = v
	}
	if v, ok := firstEnv("APCA_API_BASE_URL", "ALPACA_BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := firstEnv("TRADING_MODE"); ok {
		cfg.Mode = Mode(v)
	}
	if v, ok := firstEnv("WATCHLIST"); ok {
		cfg.Watchlist = ParseWatchlist(v)
	}
	if v, ok := firstEnv("MAX_INVESTMENT_PCT"); ok {
		pct, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parse MAX_INVESTMENT_PCT: %w", err)
		}
		cfg.MaxInvestmentPct = pct
	}

	if v, ok := firstEnv("EMAIL_ENABLED"); ok {
		cfg.Email.Enabled = strings.EqualFold(v, "true")
	}
	if v, ok := firstEnv("EMAIL_TO"); ok {
		cfg.Email.To = v
	}
	if v, ok := firstEnv("EMAIL_FROM"); ok {
		cfg.Email.From = v
	}
	if v, ok := firstEnv("EMAIL_SMTP_SERVER"); ok {
		cfg.Email.Server = v
	}
	if v, ok := firstEnv("EMAIL_SMTP_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse EMAIL_SMTP_PORT: %w", err)
		}
		cfg.Email.Port = port
	}
	if v, ok := firstEnv("EMAIL_PASSWORD"); ok {
		cfg.Email.Password = v
	}
	return nil
}

func loadDotEnvIfPresent(path string) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return
	}
	if err := loadDotEnv(path); err != nil {
		slog.Warn("failed to load env file", "path", path, "error", err)
	}
}

// loadDotEnv never overrides variables already set in the environment.
func loadDotEnv(path string) error {
	return godotenv.Load(path)
}

func validate(cfg Config) error {
	if cfg.Mode != ModeDryRun && cfg.Mode != ModePaper && cfg.Mode != ModeLive {
		return fmt.Errorf("invalid mode: %s", cfg.Mode)
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required")
	}
	if err := cfg.Strategy().Validate(); err != nil {
		return err
	}
	if cfg.LookbackDays <= cfg.LongWindow {
		return fmt.Errorf("lookback-days must be > long-window")
	}
	if cfg.MaxNotional < 0 {
		return fmt.Errorf("max-notional must be >= 0")
	}
	if _, err := broker.ParseOrderType(cfg.OrderType); err != nil {
		return err
	}
	if _, err := broker.ParseTimeInForce(cfg.TimeInForce); err != nil {
		return err
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}
	if cfg.Email.Enabled && (cfg.Email.From == "" || cfg.Email.To == "") {
		return fmt.Errorf("EMAIL_FROM and EMAIL_TO are required when email is enabled")
	}
	return nil
}

// Credentials loads .env if present and returns the Alpaca key pair from the
// environment. Used by tools that do not take the full bot configuration.
func Credentials() (string, string, error) {
	loadDotEnvIfPresent(".env")
	key, _ := firstEnv("APCA_API_KEY_ID", "ALPACA_API_KEY")
	secret, _ := firstEnv("APCA_API_SECRET_KEY", "ALPACA_SECRET_KEY")
	if key == "" || secret == "" {
		return "", "", fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required")
	}
	return key, secret, nil
}
