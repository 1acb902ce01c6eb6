// Package trader contains the exit-decision logic and the cycle controller
// that drives one evaluation pass over the portfolio followed by new-entry
// consideration.
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

// Exit policy. These are deliberate policy constants, not configuration;
// both boundaries are inclusive.
const (
	takeProfitPct = 50.0
	stopLossPct   = -20.0
)

// Notifier is the outbound alert surface. Delivery failures never reach the
// trading logic.
type Notifier interface {
	Notify(ctx context.Context, event, title, message string) error
}

// Evaluator decides, once per cycle and per open position, whether to exit.
type Evaluator struct {
	ledger   *ledger.Ledger
	oracle   *oracle.Oracle
	trades   domain.TradeLog
	notifier Notifier
	// delay is inserted after each position's price lookup to stay under
	// provider rate limits.
	delay  time.Duration
	logger *slog.Logger
}

// NewEvaluator creates an Evaluator over the given collaborators.
func NewEvaluator(l *ledger.Ledger, o *oracle.Oracle, trades domain.TradeLog, notifier Notifier, delay time.Duration, logger *slog.Logger) *Evaluator {
	return &Evaluator{
		ledger:   l,
		oracle:   o,
		trades:   trades,
		notifier: notifier,
		delay:    delay,
		logger:   logger.With(slog.String("component", "evaluator")),
	}
}

// EvaluateAll walks every open position, resolves its current price, and
// sells the full amount when the take-profit or stop-loss boundary is hit.
// Positions without a resolvable price are skipped for this cycle with no
// trade record. It returns the number of exits performed.
func (e *Evaluator) EvaluateAll(ctx context.Context) int {
	exits := 0
	for _, pos := range e.ledger.Positions() {
		if err := ctx.Err(); err != nil {
			return exits
		}
		if e.evaluate(ctx, pos) {
			exits++
		}
		sleep(ctx, e.delay)
	}
	return exits
}

// evaluate handles a single position and reports whether it was exited.
func (e *Evaluator) evaluate(ctx context.Context, pos domain.Position) bool {
	price, ok := e.oracle.Resolve(ctx, oracle.Request{
		TokenAddress: pos.Address,
		PoolAddress:  pos.PoolAddress,
	})
	if !ok {
		e.logger.DebugContext(ctx, "price unknown, skipping position",
			slog.String("symbol", pos.Symbol),
			slog.String("address", pos.Address),
		)
		return false
	}

	// A zero entry price would make the pnl undefined. Leave the position
	// untouched rather than guessing a direction.
	if pos.EntryPriceNative <= 0 {
		e.logger.WarnContext(ctx, "position has no cost basis, skipping",
			slog.String("symbol", pos.Symbol),
			slog.String("address", pos.Address),
		)
		return false
	}

	pnlPct := (price - pos.EntryPriceNative) / pos.EntryPriceNative * 100

	var action domain.TradeAction
	switch {
	case pnlPct >= takeProfitPct:
		action = domain.TradeActionSellTP
	case pnlPct <= stopLossPct:
		action = domain.TradeActionSellSL
	default:
		return false
	}

	e.ledger.RecordSell(ctx, pos.Address, pos.Amount, price)

	rec := domain.TradeRecord{
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Symbol:       pos.Symbol,
		Address:      pos.Address,
		Source:       "evaluator",
		Action:       action,
		NativeAmount: pos.Amount * price,
		TokenAmount:  pos.Amount,
		UnitPrice:    price,
		Status:       domain.TradeStatusSimulated,
	}
	if err := e.trades.Append(ctx, rec); err != nil {
		e.logger.ErrorContext(ctx, "trade log append failed",
			slog.String("address", pos.Address),
			slog.String("error", err.Error()),
		)
	}

	event := "take_profit"
	if action == domain.TradeActionSellSL {
		event = "stop_loss"
	}
	title := fmt.Sprintf("%s %s", exitLabel(action), pos.Symbol)
	msg := fmt.Sprintf("sold %.4f %s at %.3g (pnl %+.1f%%), cash %.6f",
		pos.Amount, pos.Symbol, price, pnlPct, e.ledger.Balance())
	if err := e.notifier.Notify(ctx, event, title, msg); err != nil {
		e.logger.WarnContext(ctx, "exit notification failed",
			slog.String("error", err.Error()),
		)
	}

	e.logger.InfoContext(ctx, "position exited",
		slog.String("symbol", pos.Symbol),
		slog.String("address", pos.Address),
		slog.String("action", string(action)),
		slog.Float64("pnl_pct", pnlPct),
		slog.Float64("exit_price", price),
	)
	return true
}

func exitLabel(a domain.TradeAction) string {
	if a == domain.TradeActionSellTP {
		return "Take profit:"
	}
	return "Stop loss:"
}

// sleep waits for d or until the context is cancelled.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
