// Package ledger owns the paper portfolio: the native-asset cash balance and
// all open positions. Every mutation goes through RecordBuy or RecordSell and
// is persisted synchronously through the injected repository.
package ledger

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// Ledger is the single owner of portfolio state. All mutations happen on the
// sequential trading pass; the mutex exists so the status server can read
// snapshots from its own goroutine.
type Ledger struct {
	mu     sync.RWMutex
	state  domain.PortfolioState
	repo   domain.PortfolioRepository
	logger *slog.Logger
}

// Open loads the persisted snapshot through repo, or initializes a fresh
// portfolio with startingCash when none exists yet.
func Open(ctx context.Context, repo domain.PortfolioRepository, startingCash float64, logger *slog.Logger) (*Ledger, error) {
	l := &Ledger{
		repo:   repo,
		logger: logger.With(slog.String("component", "ledger")),
	}

	state, found, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		state = domain.NewPortfolioState(startingCash)
		l.logger.InfoContext(ctx, "no portfolio snapshot found, starting fresh",
			slog.Float64("cash", startingCash),
		)
	}
	if state.Positions == nil {
		state.Positions = make(map[string]domain.Position)
	}
	l.state = state
	return l, nil
}

// Balance returns the current liquid native-asset balance.
func (l *Ledger) Balance() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state.CashNative
}

// CanAfford reports whether the cash balance covers amount.
func (l *Ledger) CanAfford(amount float64) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return amount <= l.state.CashNative
}

// RecordBuy debits nativeSpent from cash and folds tokensReceived into the
// position at address, updating the cost basis as a volume-weighted average
// over all buys. The pool address is recorded only the first time one is
// seen for the position. Affordability is not checked here; callers gate
// entries with CanAfford.
func (l *Ledger) RecordBuy(ctx context.Context, symbol, address string, nativeSpent, tokensReceived, unitPrice float64, poolAddress string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := domain.NormalizeAddress(address)

	l.state.CashNative -= nativeSpent

	pos, ok := l.state.Positions[key]
	if !ok {
		pos = domain.Position{Symbol: symbol, Address: key}
	}

	total := pos.Amount + tokensReceived
	if total > 0 {
		pos.EntryPriceNative = (pos.Amount*pos.EntryPriceNative + tokensReceived*unitPrice) / total
		pos.Amount = total
	}
	if pos.PoolAddress == "" && poolAddress != "" {
		pos.PoolAddress = domain.NormalizeAddress(poolAddress)
	}
	// A position only exists while it holds tokens.
	if pos.Amount > 0 {
		l.state.Positions[key] = pos
	}

	l.persist(ctx)

	l.logger.InfoContext(ctx, "buy recorded",
		slog.String("symbol", symbol),
		slog.String("address", key),
		slog.Float64("native_spent", nativeSpent),
		slog.Float64("tokens", tokensReceived),
		slog.Float64("entry_price", pos.EntryPriceNative),
		slog.Float64("cash", l.state.CashNative),
	)
}

// RecordSell credits tokensSold*unitPrice to cash and reduces the position
// at address. A remaining amount at or below the dust threshold closes the
// position entirely. Selling an unknown address is a no-op.
func (l *Ledger) RecordSell(ctx context.Context, address string, tokensSold, unitPrice float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := domain.NormalizeAddress(address)

	pos, ok := l.state.Positions[key]
	if !ok {
		return
	}

	l.state.CashNative += tokensSold * unitPrice
	pos.Amount -= tokensSold

	if pos.Amount <= domain.DustThreshold {
		delete(l.state.Positions, key)
	} else {
		l.state.Positions[key] = pos
	}

	l.persist(ctx)

	l.logger.InfoContext(ctx, "sell recorded",
		slog.String("symbol", pos.Symbol),
		slog.String("address", key),
		slog.Float64("tokens", tokensSold),
		slog.Float64("unit_price", unitPrice),
		slog.Float64("cash", l.state.CashNative),
	)
}

// Has reports whether an open position exists at address.
func (l *Ledger) Has(address string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.state.Positions[domain.NormalizeAddress(address)]
	return ok
}

// Positions returns a snapshot of all open positions. Mutating the returned
// slice does not affect ledger state.
func (l *Ledger) Positions() []domain.Position {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Position, 0, len(l.state.Positions))
	for _, p := range l.state.Positions {
		out = append(out, p)
	}
	return out
}

// Snapshot returns a deep copy of the full portfolio state for read-only
// consumers such as the status server.
func (l *Ledger) Snapshot() domain.PortfolioState {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := domain.PortfolioState{
		CashNative: l.state.CashNative,
		Positions:  make(map[string]domain.Position, len(l.state.Positions)),
	}
	for k, v := range l.state.Positions {
		cp.Positions[k] = v
	}
	return cp
}

// persist writes the snapshot through the repository. A write failure keeps
// the in-memory mutation and is only logged; the next successful save
// reconverges the on-disk view.
func (l *Ledger) persist(ctx context.Context) {
	if err := l.repo.Save(ctx, l.state); err != nil {
		l.logger.ErrorContext(ctx, "portfolio persist failed",
			slog.String("error", err.Error()),
		)
	}
}
