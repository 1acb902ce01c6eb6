package oracle

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// PoolSource prices a token by reading its liquidity pool's packed sqrt
// price directly from the chain. It is the cheapest source and the only one
// that works for tokens too new for the wallet service to route.
type PoolSource struct {
	reader domain.ChainReader
}

// NewPoolSource creates a PoolSource over the given chain reader.
func NewPoolSource(reader domain.ChainReader) *PoolSource {
	return &PoolSource{reader: reader}
}

// Name returns the source identifier.
func (s *PoolSource) Name() string { return "pool" }

// Resolve reads the pool state and converts sqrtPriceX96 into a price for
// the requested token. It reports domain.ErrNoPool when the request carries
// no pool address, and wraps any read failure so the oracle moves on.
func (s *PoolSource) Resolve(ctx context.Context, req Request) (float64, error) {
	if req.PoolAddress == "" {
		return 0, domain.ErrNoPool
	}

	state, err := s.reader.ReadPoolState(ctx, req.PoolAddress)
	if err != nil {
		return 0, fmt.Errorf("pool %s: %w", req.PoolAddress, err)
	}
	if state.SqrtPriceX96 == nil || state.SqrtPriceX96.Sign() <= 0 {
		return 0, domain.ErrNoPrice
	}

	ratio := decodeSqrtPriceX96(state.SqrtPriceX96)
	if ratio <= 0 {
		return 0, domain.ErrNoPrice
	}

	// ratio is token0 priced in token1. Invert when the queried token sits
	// on the token1 side of the pool.
	if strings.EqualFold(req.TokenAddress, state.Token0) {
		return ratio, nil
	}
	return 1 / ratio, nil
}

// q96 is 2^96, the fixed-point scale of sqrtPriceX96.
var q96 = new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), 96))

// decodeSqrtPriceX96 converts the 160-bit packed square-root price into the
// token1/token0 ratio: (sqrtPriceX96 / 2^96)^2.
func decodeSqrtPriceX96(sqrtPriceX96 *big.Int) float64 {
	sqrt := new(big.Float).Quo(new(big.Float).SetInt(sqrtPriceX96), q96)
	ratio, _ := new(big.Float).Mul(sqrt, sqrt).Float64()
	return ratio
}
