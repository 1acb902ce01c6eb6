package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads the TOML file at path over Defaults() and then applies
// MEMETRADER_* environment overrides. An empty path skips the file. A .env
// file in the working directory is loaded first when present.
func Load(path string) (Config, error) {
	// Missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := Defaults()

	if path != "" {
		meta, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("config: unknown keys in %s: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables on the loaded config. Secrets are
// the usual reason to prefer env over the file.
func applyEnv(cfg *Config) error {
	var err error

	setString("MEMETRADER_MODE", &cfg.Mode)
	setString("MEMETRADER_LOG_LEVEL", &cfg.LogLevel)

	setString("MEMETRADER_WALLET_BASE_URL", &cfg.Wallet.BaseURL)
	setString("MEMETRADER_WALLET_API_KEY", &cfg.Wallet.APIKey)
	setString("MEMETRADER_WALLET_ID", &cfg.Wallet.WalletID)

	setString("MEMETRADER_RPC_URL", &cfg.Chain.RPCURL)
	setString("MEMETRADER_GITHUB_TOKEN", &cfg.Discovery.GitHubToken)

	err = firstErr(err, setFloat("MEMETRADER_STARTING_CASH", &cfg.Trading.StartingCash))
	err = firstErr(err, setFloat("MEMETRADER_BUY_SIZE", &cfg.Trading.BuySize))
	err = firstErr(err, setDuration("MEMETRADER_CYCLE_INTERVAL", &cfg.Trading.CycleInterval))
	err = firstErr(err, setDuration("MEMETRADER_CALL_DELAY", &cfg.Trading.CallDelay))
	err = firstErr(err, setBool("MEMETRADER_EXECUTE", &cfg.Trading.Execute))

	setString("MEMETRADER_STORE_BACKEND", &cfg.Store.Backend)
	setString("MEMETRADER_POSTGRES_DSN", &cfg.Store.Postgres.DSN)

	err = firstErr(err, setBool("MEMETRADER_REDIS_ENABLED", &cfg.Redis.Enabled))
	setString("MEMETRADER_REDIS_ADDR", &cfg.Redis.Addr)
	setString("MEMETRADER_REDIS_PASSWORD", &cfg.Redis.Password)

	err = firstErr(err, setBool("MEMETRADER_S3_ENABLED", &cfg.S3.Enabled))
	setString("MEMETRADER_S3_BUCKET", &cfg.S3.Bucket)
	setString("MEMETRADER_S3_REGION", &cfg.S3.Region)

	setString("MEMETRADER_TELEGRAM_BOT_TOKEN", &cfg.Notify.Telegram.BotToken)
	setString("MEMETRADER_TELEGRAM_CHAT_ID", &cfg.Notify.Telegram.ChatID)
	setString("MEMETRADER_DISCORD_WEBHOOK_URL", &cfg.Notify.Discord.WebhookURL)

	err = firstErr(err, setBool("MEMETRADER_SERVER_ENABLED", &cfg.Server.Enabled))
	setString("MEMETRADER_SERVER_ADDR", &cfg.Server.Addr)

	return err
}

func setString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setFloat(key string, dst *float64) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not a number: %w", key, v, err)
	}
	*dst = parsed
	return nil
}

func setBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not a boolean: %w", key, v, err)
	}
	*dst = parsed
	return nil
}

func setDuration(key string, dst *Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not a duration: %w", key, v, err)
	}
	dst.Duration = parsed
	return nil
}

func firstErr(a, b error) error {
	if a != nil {
		return a
	}
	return b
}
