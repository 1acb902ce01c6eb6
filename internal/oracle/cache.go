package oracle

import (
	"context"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

const cacheSourceName = "cache"

// CacheSource answers from recently resolved prices so repeated lookups of
// the same token within a cycle skip the RPC round trip. Entries expire with
// the cache TTL; a miss just falls through to the live sources.
type CacheSource struct {
	cache domain.PriceCache
}

// NewCacheSource creates a CacheSource over the given price cache.
func NewCacheSource(cache domain.PriceCache) *CacheSource {
	return &CacheSource{cache: cache}
}

// Name returns the source identifier.
func (s *CacheSource) Name() string { return cacheSourceName }

// Resolve returns the cached price, or domain.ErrNoPrice on a miss.
func (s *CacheSource) Resolve(ctx context.Context, req Request) (float64, error) {
	p, err := s.cache.GetPrice(ctx, domain.NormalizeAddress(req.TokenAddress))
	if err != nil {
		return 0, domain.ErrNoPrice
	}
	return p, nil
}
