// Package chain reads liquidity-pool state over JSON-RPC. Only the two view
// calls the price oracle needs are exposed; anything heavier goes through
// the wallet service.
package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// poolABI covers slot0() and token0() of a Uniswap-V3-style pool.
const poolABI = `[
	{"name":"slot0","type":"function","stateMutability":"view","inputs":[],"outputs":[
		{"name":"sqrtPriceX96","type":"uint160"},
		{"name":"tick","type":"int24"},
		{"name":"observationIndex","type":"uint16"},
		{"name":"observationCardinality","type":"uint16"},
		{"name":"observationCardinalityNext","type":"uint16"},
		{"name":"feeProtocol","type":"uint8"},
		{"name":"unlocked","type":"bool"}]},
	{"name":"token0","type":"function","stateMutability":"view","inputs":[],"outputs":[
		{"name":"","type":"address"}]}
]`

// Reader implements domain.ChainReader over an Ethereum JSON-RPC endpoint.
type Reader struct {
	client *ethclient.Client
	abi    abi.ABI
	logger *slog.Logger
}

// NewReader dials the RPC endpoint and prepares the pool ABI.
func NewReader(ctx context.Context, rpcURL string, logger *slog.Logger) (*Reader, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("chain: dial %s: %w", rpcURL, err)
	}

	parsed, err := abi.JSON(strings.NewReader(poolABI))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("chain: parse pool abi: %w", err)
	}

	return &Reader{
		client: client,
		abi:    parsed,
		logger: logger.With(slog.String("component", "chain")),
	}, nil
}

// Close releases the RPC connection.
func (r *Reader) Close() {
	r.client.Close()
}

// ReadPoolState fetches the pool's packed price slot and token0 address in
// two eth_call round trips against the latest block.
func (r *Reader) ReadPoolState(ctx context.Context, poolAddress string) (domain.PoolState, error) {
	if !common.IsHexAddress(poolAddress) {
		return domain.PoolState{}, fmt.Errorf("chain: %q is not an address", poolAddress)
	}
	pool := common.HexToAddress(poolAddress)

	sqrtPrice, err := r.callSlot0(ctx, pool)
	if err != nil {
		return domain.PoolState{}, err
	}

	token0, err := r.callToken0(ctx, pool)
	if err != nil {
		return domain.PoolState{}, err
	}

	return domain.PoolState{
		SqrtPriceX96: sqrtPrice,
		Token0:       token0.Hex(),
	}, nil
}

func (r *Reader) callSlot0(ctx context.Context, pool common.Address) (*big.Int, error) {
	data, err := r.abi.Pack("slot0")
	if err != nil {
		return nil, fmt.Errorf("chain: pack slot0: %w", err)
	}

	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("chain: call slot0 on %s: %w", pool.Hex(), err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("chain: slot0 on %s: %w", pool.Hex(), domain.ErrNoPrice)
	}

	vals, err := r.abi.Unpack("slot0", out)
	if err != nil {
		return nil, fmt.Errorf("chain: unpack slot0: %w", err)
	}
	sqrtPrice, ok := vals[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("chain: slot0 returned %T, want *big.Int", vals[0])
	}
	return sqrtPrice, nil
}

func (r *Reader) callToken0(ctx context.Context, pool common.Address) (common.Address, error) {
	data, err := r.abi.Pack("token0")
	if err != nil {
		return common.Address{}, fmt.Errorf("chain: pack token0: %w", err)
	}

	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &pool, Data: data}, nil)
	if err != nil {
		return common.Address{}, fmt.Errorf("chain: call token0 on %s: %w", pool.Hex(), err)
	}

	vals, err := r.abi.Unpack("token0", out)
	if err != nil {
		return common.Address{}, fmt.Errorf("chain: unpack token0: %w", err)
	}
	addr, ok := vals[0].(common.Address)
	if !ok {
		return common.Address{}, fmt.Errorf("chain: token0 returned %T, want address", vals[0])
	}
	return addr, nil
}

// Compile-time interface check.
var _ domain.ChainReader = (*Reader)(nil)
