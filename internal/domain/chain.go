package domain

import (
	"context"
	"math/big"
)

// PoolState is the decoded on-chain state of a liquidity pool needed for a
// direct price read: the packed sqrt price and the pool's token0 address.
type PoolState struct {
	// SqrtPriceX96 is the square root of the token1/token0 price ratio,
	// fixed-point scaled by 2^96.
	SqrtPriceX96 *big.Int
	Token0       string
}

// ChainReader reads liquidity-pool state directly from the chain.
type ChainReader interface {
	ReadPoolState(ctx context.Context, poolAddress string) (PoolState, error)
}

// Quote is a successful price quote from the execution service. AmountOut is
// the asset received for the quoted input: native asset for sell quotes,
// tokens for buy quotes.
type Quote struct {
	AmountOut float64
	UnitPrice float64
	// PoolAddress is the routing pool reported by the service, when known.
	// It is how a position first learns which pool to read prices from.
	PoolAddress string
}

// SwapResult is the outcome of a live swap execution.
type SwapResult struct {
	Status    TradeStatus
	TxID      string
	TokensOut float64
	UnitPrice float64
}

// ExecutionService is the wallet-service surface the trading core depends
// on. Implementations must return an error (not a zero Quote) for any
// failure so callers can treat it uniformly as "no data".
type ExecutionService interface {
	QuoteBuy(ctx context.Context, tokenAddress string, nativeAmountIn float64) (Quote, error)
	QuoteSell(ctx context.Context, tokenAddress string, tokenAmountIn float64) (Quote, error)
	ExecuteSwap(ctx context.Context, tokenAddress string, nativeAmountIn float64) (SwapResult, error)
}
