// Package app assembles the configured components and runs the selected
// mode.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/blob/s3"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/cache/redis"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/chain"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/config"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/discovery"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/ledger"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/notify"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/oracle"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/server"
	filestore "github.com/clawdbot-glitch003/github-memecoin-trader/internal/store/file"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/store/postgres"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/trader"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/wallet"
)

// App holds every constructed component plus the closers to run at shutdown.
type App struct {
	cfg    config.Config
	logger *slog.Logger

	ledger     *ledger.Ledger
	controller *trader.Controller
	discovery  *discovery.Aggregator
	server     *server.Server
	archiver   *s3.Archiver

	// closers run in reverse order on Close.
	closers []func()
}

// New builds the application for cfg.Mode. Construction fails fast on any
// backing-service problem so a broken deployment never starts trading.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	repo, trades, tradeLogPath, err := a.buildStores(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	led, err := ledger.Open(ctx, repo, cfg.Trading.StartingCash, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("app: open ledger: %w", err)
	}
	a.ledger = led

	exec := wallet.NewClient(cfg.Wallet.BaseURL, cfg.Wallet.APIKey, cfg.Wallet.WalletID, logger)

	priceCache, err := a.buildPriceCache(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	orc, err := a.buildOracle(ctx, exec, priceCache)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.discovery = a.buildDiscovery(logger)
	dispatcher := a.buildNotifier(logger)

	evaluator := trader.NewEvaluator(led, orc, trades, dispatcher, cfg.Trading.CallDelay.Duration, logger)
	a.controller = trader.NewController(
		trader.Config{
			BuySize:       cfg.Trading.BuySize,
			CycleInterval: cfg.Trading.CycleInterval.Duration,
			CallDelay:     cfg.Trading.CallDelay.Duration,
			Execute:       cfg.Trading.Execute,
		},
		led, orc, evaluator, exec, a.discovery, trades, dispatcher, logger,
	)

	if cfg.Server.Enabled || cfg.Mode == config.ModeMonitor {
		a.server = server.New(cfg.Server.Addr, cfg.Mode, led, logger)
	}

	if cfg.S3.Enabled {
		if tradeLogPath == "" {
			logger.Warn("s3 archiver requires the file trade log, skipping",
				slog.String("store_backend", cfg.Store.Backend),
			)
		} else {
			arch, err := s3.NewArchiver(ctx, s3.Options{
				Bucket:   cfg.S3.Bucket,
				Region:   cfg.S3.Region,
				Prefix:   cfg.S3.Prefix,
				SrcPath:  tradeLogPath,
				Interval: cfg.S3.Interval.Duration,
			}, logger)
			if err != nil {
				a.Close()
				return nil, err
			}
			a.archiver = arch
		}
	}

	return a, nil
}

// buildStores returns the portfolio repository and trade log for the
// configured backend. tradeLogPath is non-empty only for the file backend.
func (a *App) buildStores(ctx context.Context) (domain.PortfolioRepository, domain.TradeLog, string, error) {
	switch a.cfg.Store.Backend {
	case "postgres":
		pool, err := postgres.Connect(ctx, a.cfg.Store.Postgres.DSN)
		if err != nil {
			return nil, nil, "", err
		}
		a.closers = append(a.closers, pool.Close)
		if err := postgres.Migrate(ctx, pool, a.logger); err != nil {
			return nil, nil, "", err
		}
		return postgres.NewPortfolioStore(pool), postgres.NewTradeLogStore(pool), "", nil

	default:
		repo, err := filestore.NewPortfolioStore(a.cfg.Store.File.PortfolioPath)
		if err != nil {
			return nil, nil, "", err
		}
		trades, err := filestore.NewTradeLog(a.cfg.Store.File.TradeLogPath)
		if err != nil {
			return nil, nil, "", err
		}
		a.closers = append(a.closers, func() { trades.Close() })
		return repo, trades, trades.Path(), nil
	}
}

func (a *App) buildPriceCache(ctx context.Context) (domain.PriceCache, error) {
	if !a.cfg.Redis.Enabled {
		return nil, nil
	}
	cache, err := redis.NewPriceCache(ctx, redis.Options{
		Addr:     a.cfg.Redis.Addr,
		Password: a.cfg.Redis.Password,
		DB:       a.cfg.Redis.DB,
		TTL:      a.cfg.Redis.PriceTTL.Duration,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { cache.Close() })
	return cache, nil
}

// buildOracle assembles the ordered source chain: cache, direct pool read,
// quote fallback.
func (a *App) buildOracle(ctx context.Context, exec domain.ExecutionService, cache domain.PriceCache) (*oracle.Oracle, error) {
	var sources []oracle.Source

	if cache != nil {
		sources = append(sources, oracle.NewCacheSource(cache))
	}

	if a.cfg.Chain.RPCURL != "" {
		reader, err := chain.NewReader(ctx, a.cfg.Chain.RPCURL, a.logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, reader.Close)
		sources = append(sources, oracle.NewPoolSource(reader))
	} else {
		a.logger.Info("no rpc url configured, direct pool reads disabled")
	}

	sources = append(sources, oracle.NewQuoteSource(exec))
	return oracle.New(sources, cache, a.logger), nil
}

func (a *App) buildDiscovery(logger *slog.Logger) *discovery.Aggregator {
	gh := discovery.NewGitHubClient(a.cfg.Discovery.GitHubToken, logger)
	return discovery.NewAggregator(logger,
		discovery.NewRepoTrendScanner(gh, a.cfg.Discovery.TrendLookback.Duration, logger),
		discovery.NewTokenLaunchScanner(gh, a.cfg.Discovery.LaunchLookback.Duration, logger),
	)
}

func (a *App) buildNotifier(logger *slog.Logger) *notify.Dispatcher {
	var senders []notify.Sender
	if tg := a.cfg.Notify.Telegram; tg.BotToken != "" && tg.ChatID != "" {
		senders = append(senders, notify.NewTelegram(tg.BotToken, tg.ChatID))
	}
	if dc := a.cfg.Notify.Discord; dc.WebhookURL != "" {
		senders = append(senders, notify.NewDiscord(dc.WebhookURL))
	}
	return notify.NewDispatcher(a.cfg.Notify.Events, logger, senders...)
}

// Close runs the registered closers newest-first.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
