// Package config defines the application configuration, loaded from a TOML
// file merged over defaults, with environment overrides applied last.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Run modes.
const (
	ModeTrade   = "trade"
	ModeScan    = "scan"
	ModeMonitor = "monitor"
)

// Duration wraps time.Duration so TOML values can be written as "10m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the full application configuration.
type Config struct {
	Mode     string `toml:"mode"`
	LogLevel string `toml:"log_level"`

	Wallet    WalletConfig    `toml:"wallet"`
	Chain     ChainConfig     `toml:"chain"`
	Discovery DiscoveryConfig `toml:"discovery"`
	Trading   TradingConfig   `toml:"trading"`
	Store     StoreConfig     `toml:"store"`
	Redis     RedisConfig     `toml:"redis"`
	S3        S3Config        `toml:"s3"`
	Notify    NotifyConfig    `toml:"notify"`
	Server    ServerConfig    `toml:"server"`
}

// WalletConfig points at the external wallet service.
type WalletConfig struct {
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	WalletID string `toml:"wallet_id"`
}

// ChainConfig holds the JSON-RPC endpoint for direct pool reads.
type ChainConfig struct {
	RPCURL string `toml:"rpc_url"`
}

// DiscoveryConfig tunes the GitHub scanners.
type DiscoveryConfig struct {
	GitHubToken    string   `toml:"github_token"`
	TrendLookback  Duration `toml:"trend_lookback"`
	LaunchLookback Duration `toml:"launch_lookback"`
}

// TradingConfig holds the cycle parameters.
type TradingConfig struct {
	StartingCash  float64  `toml:"starting_cash"`
	BuySize       float64  `toml:"buy_size"`
	CycleInterval Duration `toml:"cycle_interval"`
	CallDelay     Duration `toml:"call_delay"`
	// Execute routes buys through the wallet service. Off by default:
	// paper trading records simulated fills only.
	Execute bool `toml:"execute"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Backend is "file" or "postgres".
	Backend  string         `toml:"backend"`
	File     FileStore      `toml:"file"`
	Postgres PostgresConfig `toml:"postgres"`
}

// FileStore holds paths for the file backend.
type FileStore struct {
	PortfolioPath string `toml:"portfolio_path"`
	TradeLogPath  string `toml:"trade_log_path"`
}

// PostgresConfig holds the connection string for the postgres backend.
type PostgresConfig struct {
	DSN string `toml:"dsn"`
}

// RedisConfig enables the shared price cache.
type RedisConfig struct {
	Enabled  bool     `toml:"enabled"`
	Addr     string   `toml:"addr"`
	Password string   `toml:"password"`
	DB       int      `toml:"db"`
	PriceTTL Duration `toml:"price_ttl"`
}

// S3Config enables periodic trade-log archival to object storage.
type S3Config struct {
	Enabled  bool     `toml:"enabled"`
	Bucket   string   `toml:"bucket"`
	Region   string   `toml:"region"`
	Prefix   string   `toml:"prefix"`
	Interval Duration `toml:"interval"`
}

// NotifyConfig configures outbound alerts. Events filters which event kinds
// are delivered; an empty list means everything.
type NotifyConfig struct {
	Events   []string       `toml:"events"`
	Telegram TelegramConfig `toml:"telegram"`
	Discord  DiscordConfig  `toml:"discord"`
}

// TelegramConfig holds the bot credentials for Telegram alerts.
type TelegramConfig struct {
	BotToken string `toml:"bot_token"`
	ChatID   string `toml:"chat_id"`
}

// DiscordConfig holds the webhook for Discord alerts.
type DiscordConfig struct {
	WebhookURL string `toml:"webhook_url"`
}

// ServerConfig configures the read-only status HTTP server.
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// Defaults returns the configuration used when the file omits a value.
func Defaults() Config {
	return Config{
		Mode:     ModeTrade,
		LogLevel: "info",
		Discovery: DiscoveryConfig{
			TrendLookback:  Duration{7 * 24 * time.Hour},
			LaunchLookback: Duration{48 * time.Hour},
		},
		Trading: TradingConfig{
			StartingCash:  1.0,
			BuySize:       0.0001,
			CycleInterval: Duration{10 * time.Minute},
			CallDelay:     Duration{2 * time.Second},
		},
		Store: StoreConfig{
			Backend: "file",
			File: FileStore{
				PortfolioPath: "data/portfolio.json",
				TradeLogPath:  "data/trades.jsonl",
			},
		},
		Redis: RedisConfig{
			Addr:     "localhost:6379",
			PriceTTL: Duration{30 * time.Second},
		},
		S3: S3Config{
			Interval: Duration{time.Hour},
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Validate checks the configuration and reports every problem at once.
// Wallet-service credentials are only required in modes that trade.
func (c Config) Validate() error {
	var problems []string

	switch c.Mode {
	case ModeTrade, ModeScan, ModeMonitor:
	default:
		problems = append(problems, fmt.Sprintf("mode must be %s, %s or %s, got %q", ModeTrade, ModeScan, ModeMonitor, c.Mode))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}

	if c.Mode == ModeTrade {
		if c.Wallet.BaseURL == "" {
			problems = append(problems, "wallet.base_url is required in trade mode")
		}
		if c.Wallet.APIKey == "" {
			problems = append(problems, "wallet.api_key is required in trade mode")
		}
		if c.Trading.BuySize <= 0 {
			problems = append(problems, "trading.buy_size must be positive")
		}
		if c.Trading.StartingCash < 0 {
			problems = append(problems, "trading.starting_cash must not be negative")
		}
		if c.Trading.CycleInterval.Duration <= 0 {
			problems = append(problems, "trading.cycle_interval must be positive")
		}
	}

	switch c.Store.Backend {
	case "file":
		if c.Store.File.PortfolioPath == "" {
			problems = append(problems, "store.file.portfolio_path is required for the file backend")
		}
		if c.Store.File.TradeLogPath == "" {
			problems = append(problems, "store.file.trade_log_path is required for the file backend")
		}
	case "postgres":
		if c.Store.Postgres.DSN == "" {
			problems = append(problems, "store.postgres.dsn is required for the postgres backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.backend must be file or postgres, got %q", c.Store.Backend))
	}

	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}
	if c.S3.Enabled {
		if c.S3.Bucket == "" {
			problems = append(problems, "s3.bucket is required when s3 is enabled")
		}
		if c.S3.Interval.Duration <= 0 {
			problems = append(problems, "s3.interval must be positive when s3 is enabled")
		}
	}
	if c.Server.Enabled && c.Server.Addr == "" {
		problems = append(problems, "server.addr is required when the server is enabled")
	}

	for _, ev := range c.Notify.Events {
		switch ev {
		case "buy", "take_profit", "stop_loss", "error":
		default:
			problems = append(problems, fmt.Sprintf("notify.events contains unknown event %q", ev))
		}
	}

	if len(problems) > 0 {
		return errors.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}
