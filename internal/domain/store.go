package domain

import "context"

// PortfolioRepository loads and stores the portfolio snapshot. Save replaces
// the whole snapshot; there is no incremental patching.
type PortfolioRepository interface {
	// Load returns the persisted snapshot. found is false when no snapshot
	// exists yet, which is not an error.
	Load(ctx context.Context) (state PortfolioState, found bool, err error)
	Save(ctx context.Context, state PortfolioState) error
}

// TradeLog appends trade records to a durable, append-only audit trail.
type TradeLog interface {
	Append(ctx context.Context, rec TradeRecord) error
}

// PriceCache provides fast access to recently resolved token prices.
type PriceCache interface {
	SetPrice(ctx context.Context, tokenAddress string, price float64) error
	// GetPrice returns ErrNotFound when no fresh price is cached.
	GetPrice(ctx context.Context, tokenAddress string) (float64, error)
}
