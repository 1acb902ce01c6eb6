package trader

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/ledger"
	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/oracle"
)

// CandidateLister is the discovery surface the controller consumes. Entries
// are treated as opaque beyond the token address.
type CandidateLister interface {
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)
}

// Config holds the controller's trading parameters.
type Config struct {
	// BuySize is the fixed native-asset amount spent per entry. It is not
	// derived from portfolio size.
	BuySize float64
	// CycleInterval is the pause between evaluation passes.
	CycleInterval time.Duration
	// CallDelay is inserted after each external call per position or
	// candidate to respect provider rate limits.
	CallDelay time.Duration
	// Execute routes buys through the wallet service instead of recording
	// simulated fills.
	Execute bool
}

// Controller orchestrates one full pass: evaluate every open position for
// exit, then consider newly discovered candidates for entry, in that order.
// All state mutation happens on this single sequential flow.
type Controller struct {
	cfg       Config
	ledger    *ledger.Ledger
	oracle    *oracle.Oracle
	evaluator *Evaluator
	exec      domain.ExecutionService
	discovery CandidateLister
	trades    domain.TradeLog
	notifier  Notifier
	logger    *slog.Logger
}

// NewController wires the cycle controller.
func NewController(
	cfg Config,
	l *ledger.Ledger,
	o *oracle.Oracle,
	evaluator *Evaluator,
	exec domain.ExecutionService,
	discovery CandidateLister,
	trades domain.TradeLog,
	notifier Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		cfg:       cfg,
		ledger:    l,
		oracle:    o,
		evaluator: evaluator,
		exec:      exec,
		discovery: discovery,
		trades:    trades,
		notifier:  notifier,
		logger:    logger.With(slog.String("component", "controller")),
	}
}

// Cycle runs exactly one evaluation pass followed by entry consideration.
// Exits always run first so a sold position's cash is visible to the entry
// logic within the same pass.
func (c *Controller) Cycle(ctx context.Context) error {
	start := time.Now()
	evaluated := len(c.ledger.Positions())
	exits := c.evaluator.EvaluateAll(ctx)

	entries, err := c.considerEntries(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "entry consideration failed",
			slog.String("error", err.Error()),
		)
	}

	c.logger.InfoContext(ctx, "cycle complete",
		slog.Int("positions_evaluated", evaluated),
		slog.Int("exits", exits),
		slog.Int("entries", entries),
		slog.Float64("cash", c.ledger.Balance()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return ctx.Err()
}

// Run repeats Cycle on the configured interval until the context is
// cancelled. The first cycle runs immediately.
func (c *Controller) Run(ctx context.Context) error {
	if err := c.Cycle(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.cfg.CycleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("trading loop stopped")
			return ctx.Err()
		case <-ticker.C:
			if err := c.Cycle(ctx); err != nil {
				return err
			}
		}
	}
}

// considerEntries asks discovery for candidates and buys a fixed-size
// position in each new token, as long as the cash balance covers the buy.
func (c *Controller) considerEntries(ctx context.Context) (int, error) {
	if !c.ledger.CanAfford(c.cfg.BuySize) {
		c.logger.InfoContext(ctx, "insufficient cash for new entries",
			slog.Float64("cash", c.ledger.Balance()),
			slog.Float64("buy_size", c.cfg.BuySize),
		)
		return 0, nil
	}

	candidates, err := c.discovery.ListCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("controller: list candidates: %w", err)
	}

	entries := 0
	for _, cand := range candidates {
		if err := ctx.Err(); err != nil {
			return entries, err
		}
		if !c.ledger.CanAfford(c.cfg.BuySize) {
			break
		}
		// No pyramiding: a token we already hold is never bought again.
		if c.ledger.Has(cand.Address) {
			continue
		}
		if c.enter(ctx, cand) {
			entries++
		}
		sleep(ctx, c.cfg.CallDelay)
	}
	return entries, nil
}

// enter attempts one buy and reports whether a position was opened. Failed
// attempts are still written to the trade log to keep the audit trail
// complete.
func (c *Controller) enter(ctx context.Context, cand domain.Candidate) bool {
	tokens, unitPrice, pool := c.sizeEntry(ctx, cand)

	rec := domain.TradeRecord{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Symbol:       cand.Symbol,
		Address:      domain.NormalizeAddress(cand.Address),
		Source:       cand.Source,
		Action:       domain.TradeActionBuy,
		NativeAmount: c.cfg.BuySize,
		TokenAmount:  tokens,
		UnitPrice:    unitPrice,
		Status:       domain.TradeStatusSimulated,
		RepoTag:      cand.RepoTag,
	}

	if tokens <= 0 {
		// Cost basis would be unknowable; log the attempt, open nothing.
		rec.Status = domain.TradeStatusFailed
		c.appendTrade(ctx, rec)
		c.logger.WarnContext(ctx, "no quote or pool price for candidate, buy skipped",
			slog.String("symbol", cand.Symbol),
			slog.String("address", cand.Address),
			slog.String("source", cand.Source),
		)
		return false
	}

	if c.cfg.Execute {
		res, err := c.exec.ExecuteSwap(ctx, cand.Address, c.cfg.BuySize)
		if err != nil {
			rec.Status = domain.TradeStatusFailed
			c.appendTrade(ctx, rec)
			c.logger.WarnContext(ctx, "swap execution failed",
				slog.String("symbol", cand.Symbol),
				slog.String("error", err.Error()),
			)
			return false
		}
		rec.Status = res.Status
		rec.TxID = res.TxID
		if res.TokensOut > 0 {
			tokens = res.TokensOut
			rec.TokenAmount = res.TokensOut
		}
		if res.UnitPrice > 0 {
			unitPrice = res.UnitPrice
			rec.UnitPrice = res.UnitPrice
		}
	}

	c.ledger.RecordBuy(ctx, cand.Symbol, cand.Address, c.cfg.BuySize, tokens, unitPrice, pool)
	c.appendTrade(ctx, rec)

	title := fmt.Sprintf("Bought %s", cand.Symbol)
	msg := fmt.Sprintf("%.6f native for %.4f %s at %.3g (source %s)",
		c.cfg.BuySize, tokens, cand.Symbol, unitPrice, cand.Source)
	if err := c.notifier.Notify(ctx, "buy", title, msg); err != nil {
		c.logger.WarnContext(ctx, "buy notification failed",
			slog.String("error", err.Error()),
		)
	}
	return true
}

// sizeEntry determines how many tokens the fixed buy size purchases: first
// from an execution-service quote, then from a direct pool price when the
// feed already knows the candidate's pool.
func (c *Controller) sizeEntry(ctx context.Context, cand domain.Candidate) (tokens, unitPrice float64, pool string) {
	pool = cand.PoolAddress

	q, err := c.exec.QuoteBuy(ctx, cand.Address, c.cfg.BuySize)
	if err == nil && q.AmountOut > 0 {
		tokens = q.AmountOut
		unitPrice = q.UnitPrice
		if unitPrice <= 0 {
			unitPrice = c.cfg.BuySize / tokens
		}
		if q.PoolAddress != "" {
			pool = q.PoolAddress
		}
		return tokens, unitPrice, pool
	}
	if err != nil {
		c.logger.DebugContext(ctx, "buy quote unavailable",
			slog.String("address", cand.Address),
			slog.String("error", err.Error()),
		)
	}

	if pool == "" {
		return 0, 0, pool
	}
	price, ok := c.oracle.Resolve(ctx, oracle.Request{
		TokenAddress: cand.Address,
		PoolAddress:  pool,
	})
	if !ok || price <= 0 {
		return 0, 0, pool
	}
	return c.cfg.BuySize / price, price, pool
}

func (c *Controller) appendTrade(ctx context.Context, rec domain.TradeRecord) {
	if err := c.trades.Append(ctx, rec); err != nil {
		c.logger.ErrorContext(ctx, "trade log append failed",
			slog.String("address", rec.Address),
			slog.String("error", err.Error()),
		)
	}
}
