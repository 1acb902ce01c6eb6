package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/config"
)

// Run executes the configured mode until the context is cancelled (trade,
// monitor) or the work is done (scan). Context cancellation is the normal
// shutdown path and is not reported as an error.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("starting",
		slog.String("mode", a.cfg.Mode),
		slog.String("store_backend", a.cfg.Store.Backend),
		slog.Bool("execute", a.cfg.Trading.Execute),
	)

	var err error
	switch a.cfg.Mode {
	case config.ModeTrade:
		err = a.runTrade(ctx)
	case config.ModeScan:
		err = a.runScan(ctx)
	case config.ModeMonitor:
		err = a.runMonitor(ctx)
	default:
		return fmt.Errorf("app: unknown mode %q", a.cfg.Mode)
	}

	if err != nil && ctx.Err() != nil {
		a.logger.Info("shutdown complete")
		return nil
	}
	return err
}

// runTrade supervises the trading loop plus the optional status server and
// trade-log archiver. Any goroutine failing brings the whole app down.
func (a *App) runTrade(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return a.controller.Run(ctx)
	})
	if a.server != nil {
		g.Go(func() error {
			return a.server.Run(ctx)
		})
	}
	if a.archiver != nil {
		g.Go(func() error {
			return a.archiver.Run(ctx)
		})
	}

	return g.Wait()
}

// runScan performs one discovery pass and dumps the candidates to stdout as
// JSON lines, then exits.
func (a *App) runScan(ctx context.Context) error {
	candidates, err := a.discovery.ListCandidates(ctx)
	if err != nil {
		return fmt.Errorf("app: scan: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	for _, cand := range candidates {
		if err := enc.Encode(cand); err != nil {
			return fmt.Errorf("app: encode candidate: %w", err)
		}
	}

	a.logger.Info("scan complete", slog.Int("candidates", len(candidates)))
	return nil
}

// runMonitor serves the status API only; no trading happens.
func (a *App) runMonitor(ctx context.Context) error {
	return a.server.Run(ctx)
}
