package oracle

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"math/big"
	"testing"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

type fakeReader struct {
	state domain.PoolState
	err   error
	calls int
}

func (f *fakeReader) ReadPoolState(ctx context.Context, pool string) (domain.PoolState, error) {
	f.calls++
	if f.err != nil {
		return domain.PoolState{}, f.err
	}
	return f.state, nil
}

type fakeExec struct {
	sellQuote domain.Quote
	sellErr   error
	calls     int
}

func (f *fakeExec) QuoteBuy(ctx context.Context, token string, in float64) (domain.Quote, error) {
	return domain.Quote{}, domain.ErrNoQuote
}

func (f *fakeExec) QuoteSell(ctx context.Context, token string, in float64) (domain.Quote, error) {
	f.calls++
	if f.sellErr != nil {
		return domain.Quote{}, f.sellErr
	}
	q := f.sellQuote
	q.AmountOut = q.UnitPrice * in
	return q, nil
}

func (f *fakeExec) ExecuteSwap(ctx context.Context, token string, in float64) (domain.SwapResult, error) {
	return domain.SwapResult{}, domain.ErrSwapRejected
}

// sqrtRatioX96 returns sqrtPriceX96 encoding the given token1/token0 ratio,
// for ratios whose square root is an integer.
func sqrtRatioX96(sqrtRatio int64) *big.Int {
	return new(big.Int).Lsh(big.NewInt(sqrtRatio), 96)
}

func TestDecodeSqrtPriceX96(t *testing.T) {
	cases := []struct {
		sqrt *big.Int
		want float64
	}{
		{sqrtRatioX96(2), 4},
		{sqrtRatioX96(1), 1},
		{sqrtRatioX96(10), 100},
	}
	for _, tc := range cases {
		if got := decodeSqrtPriceX96(tc.sqrt); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("decode(%v) = %g, want %g", tc.sqrt, got, tc.want)
		}
	}
}

func TestPoolSourceTokenSides(t *testing.T) {
	const token = "0xAAaA000000000000000000000000000000000001"
	const other = "0xBBBB000000000000000000000000000000000002"

	cases := []struct {
		name   string
		token0 string
		want   float64
	}{
		{"queried token is token0", token, 4},
		{"queried token is token1", other, 0.25},
		{"token0 compared case-insensitively", "0xaaaa000000000000000000000000000000000001", 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := NewPoolSource(&fakeReader{state: domain.PoolState{
				SqrtPriceX96: sqrtRatioX96(2),
				Token0:       tc.token0,
			}})
			got, err := src.Resolve(context.Background(), Request{TokenAddress: token, PoolAddress: "0xpool"})
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if math.Abs(got-tc.want) > 1e-12 {
				t.Errorf("price = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestPoolSourceNoPoolAddress(t *testing.T) {
	reader := &fakeReader{}
	src := NewPoolSource(reader)

	_, err := src.Resolve(context.Background(), Request{TokenAddress: "0x01"})
	if !errors.Is(err, domain.ErrNoPool) {
		t.Errorf("err = %v, want ErrNoPool", err)
	}
	if reader.calls != 0 {
		t.Errorf("chain read attempted without a pool address")
	}
}

func TestQuoteSourceDerivesUnitPrice(t *testing.T) {
	src := NewQuoteSource(&fakeExec{sellQuote: domain.Quote{UnitPrice: 1.6e-7}})

	got, err := src.Resolve(context.Background(), Request{TokenAddress: "0x01"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if math.Abs(got-1.6e-7) > 1e-18 {
		t.Errorf("price = %g, want 1.6e-7", got)
	}
}

func TestOracleFallsBackToQuote(t *testing.T) {
	reader := &fakeReader{err: errors.New("rpc timeout")}
	exec := &fakeExec{sellQuote: domain.Quote{UnitPrice: 2e-7}}
	o := New([]Source{NewPoolSource(reader), NewQuoteSource(exec)}, nil, slog.Default())

	price, ok := o.Resolve(context.Background(), Request{TokenAddress: "0x01", PoolAddress: "0xpool"})
	if !ok {
		t.Fatalf("Resolve returned no price")
	}
	if math.Abs(price-2e-7) > 1e-18 {
		t.Errorf("price = %g, want 2e-7", price)
	}
	if reader.calls != 1 || exec.calls != 1 {
		t.Errorf("calls: reader=%d exec=%d, want 1 and 1", reader.calls, exec.calls)
	}
}

func TestOraclePoolWinsOverQuote(t *testing.T) {
	reader := &fakeReader{state: domain.PoolState{
		SqrtPriceX96: sqrtRatioX96(2),
		Token0:       "0x01",
	}}
	exec := &fakeExec{sellQuote: domain.Quote{UnitPrice: 9}}
	o := New([]Source{NewPoolSource(reader), NewQuoteSource(exec)}, nil, slog.Default())

	price, ok := o.Resolve(context.Background(), Request{TokenAddress: "0x01", PoolAddress: "0xpool"})
	if !ok || math.Abs(price-4) > 1e-12 {
		t.Fatalf("price = %g ok=%v, want 4 from pool", price, ok)
	}
	if exec.calls != 0 {
		t.Errorf("quote service called although pool answered")
	}
}

func TestOracleAllSourcesFail(t *testing.T) {
	reader := &fakeReader{err: errors.New("reverted")}
	exec := &fakeExec{sellErr: errors.New("503")}
	o := New([]Source{NewPoolSource(reader), NewQuoteSource(exec)}, nil, slog.Default())

	if price, ok := o.Resolve(context.Background(), Request{TokenAddress: "0x01", PoolAddress: "0xpool"}); ok {
		t.Errorf("Resolve = %g ok=true, want no price", price)
	}
}

type memCache struct {
	prices map[string]float64
}

func (m *memCache) SetPrice(ctx context.Context, token string, p float64) error {
	if m.prices == nil {
		m.prices = make(map[string]float64)
	}
	m.prices[token] = p
	return nil
}

func (m *memCache) GetPrice(ctx context.Context, token string) (float64, error) {
	p, ok := m.prices[token]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return p, nil
}

func TestOracleWritesBackToCache(t *testing.T) {
	cache := &memCache{}
	exec := &fakeExec{sellQuote: domain.Quote{UnitPrice: 3e-7}}
	o := New([]Source{NewCacheSource(cache), NewQuoteSource(exec)}, cache, slog.Default())

	req := Request{TokenAddress: "0xToKen"}
	if _, ok := o.Resolve(context.Background(), req); !ok {
		t.Fatalf("first Resolve missed")
	}
	if _, ok := o.Resolve(context.Background(), req); !ok {
		t.Fatalf("second Resolve missed")
	}
	if exec.calls != 1 {
		t.Errorf("quote calls = %d, want 1 (second hit served from cache)", exec.calls)
	}
}
