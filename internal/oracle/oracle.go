// Package oracle resolves the current price of a token in native-asset units
// per token. Sources are tried in a fixed order and the first answer wins;
// every source failure means "no data from this source", never an error for
// the caller. When the whole chain misses, the price is simply unknown for
// this cycle.
package oracle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// Request identifies the token to price and, when known, the liquidity pool
// to read directly.
type Request struct {
	TokenAddress string
	PoolAddress  string
}

// Source is one venue that may know the token's price. Implementations
// return domain.ErrNoPrice (or any other error) when they cannot answer.
type Source interface {
	Name() string
	Resolve(ctx context.Context, req Request) (float64, error)
}

// Oracle tries its sources in order. The source list is fixed at
// construction; adding a venue means adding a Source, not restructuring
// control flow.
type Oracle struct {
	sources []Source
	cache   domain.PriceCache // optional write-back, may be nil
	logger  *slog.Logger
}

// New creates an Oracle over the given ordered sources. cache may be nil;
// when set, every freshly resolved price is written back to it.
func New(sources []Source, cache domain.PriceCache, logger *slog.Logger) *Oracle {
	return &Oracle{
		sources: sources,
		cache:   cache,
		logger:  logger.With(slog.String("component", "oracle")),
	}
}

// Resolve walks the source chain and returns the first price found. ok is
// false when no source could answer; callers must treat that as "price
// currently unknown", not as zero.
func (o *Oracle) Resolve(ctx context.Context, req Request) (price float64, ok bool) {
	for _, src := range o.sources {
		p, err := src.Resolve(ctx, req)
		if err != nil {
			if !errors.Is(err, domain.ErrNoPrice) && !errors.Is(err, domain.ErrNoPool) {
				o.logger.DebugContext(ctx, "price source failed",
					slog.String("source", src.Name()),
					slog.String("token", req.TokenAddress),
					slog.String("error", err.Error()),
				)
			}
			continue
		}
		if p <= 0 {
			continue
		}
		if o.cache != nil && src.Name() != cacheSourceName {
			if cacheErr := o.cache.SetPrice(ctx, domain.NormalizeAddress(req.TokenAddress), p); cacheErr != nil {
				o.logger.DebugContext(ctx, "price cache write failed",
					slog.String("token", req.TokenAddress),
					slog.String("error", cacheErr.Error()),
				)
			}
		}
		return p, true
	}
	return 0, false
}
