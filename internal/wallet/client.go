// Package wallet is the REST client for the external wallet service, which
// owns signing keys and performs quoting and swap execution on our behalf.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

const defaultTimeout = 30 * time.Second

// Client implements domain.ExecutionService against the wallet service's
// JSON API.
type Client struct {
	baseURL string
	apiKey  string
	wallet  string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient builds a wallet client. baseURL is the service root without a
// trailing slash; walletID selects which managed wallet signs swaps.
func NewClient(baseURL, apiKey, walletID string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		wallet:  walletID,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger.With(slog.String("component", "wallet")),
	}
}

type quoteRequest struct {
	WalletID     string  `json:"walletId"`
	TokenAddress string  `json:"tokenAddress"`
	Side         string  `json:"side"`
	AmountIn     float64 `json:"amountIn"`
}

// quoteResponse is a discriminated result: Status is "ok" or "error" and the
// remaining fields are only meaningful on success.
type quoteResponse struct {
	Status      string  `json:"status"`
	AmountOut   float64 `json:"amountOut"`
	UnitPrice   float64 `json:"unitPrice"`
	PoolAddress string  `json:"poolAddress"`
	Error       string  `json:"error"`
}

type swapRequest struct {
	WalletID     string  `json:"walletId"`
	TokenAddress string  `json:"tokenAddress"`
	AmountIn     float64 `json:"amountIn"`
}

type swapResponse struct {
	Status    string  `json:"status"`
	TxID      string  `json:"txId"`
	TokensOut float64 `json:"tokensOut"`
	UnitPrice float64 `json:"unitPrice"`
	Error     string  `json:"error"`
}

// QuoteBuy asks the service what nativeAmountIn buys of the token.
func (c *Client) QuoteBuy(ctx context.Context, tokenAddress string, nativeAmountIn float64) (domain.Quote, error) {
	return c.quote(ctx, tokenAddress, "buy", nativeAmountIn)
}

// QuoteSell asks the service what tokenAmountIn sells for in the native asset.
func (c *Client) QuoteSell(ctx context.Context, tokenAddress string, tokenAmountIn float64) (domain.Quote, error) {
	return c.quote(ctx, tokenAddress, "sell", tokenAmountIn)
}

func (c *Client) quote(ctx context.Context, tokenAddress, side string, amountIn float64) (domain.Quote, error) {
	req := quoteRequest{
		WalletID:     c.wallet,
		TokenAddress: tokenAddress,
		Side:         side,
		AmountIn:     amountIn,
	}

	var resp quoteResponse
	if err := c.post(ctx, "/v1/quote", req, &resp); err != nil {
		return domain.Quote{}, err
	}
	if resp.Status != "ok" {
		c.logger.DebugContext(ctx, "quote declined",
			slog.String("token", tokenAddress),
			slog.String("side", side),
			slog.String("reason", resp.Error),
		)
		return domain.Quote{}, fmt.Errorf("wallet: quote %s %s: %w", side, tokenAddress, domain.ErrNoQuote)
	}
	if resp.AmountOut <= 0 {
		return domain.Quote{}, fmt.Errorf("wallet: quote %s %s returned no output: %w", side, tokenAddress, domain.ErrNoQuote)
	}

	return domain.Quote{
		AmountOut:   resp.AmountOut,
		UnitPrice:   resp.UnitPrice,
		PoolAddress: resp.PoolAddress,
	}, nil
}

// ExecuteSwap performs a live buy of the token. A rejection from the service
// maps to ErrSwapRejected so callers can distinguish it from transport
// failures.
func (c *Client) ExecuteSwap(ctx context.Context, tokenAddress string, nativeAmountIn float64) (domain.SwapResult, error) {
	req := swapRequest{
		WalletID:     c.wallet,
		TokenAddress: tokenAddress,
		AmountIn:     nativeAmountIn,
	}

	var resp swapResponse
	if err := c.post(ctx, "/v1/swap", req, &resp); err != nil {
		return domain.SwapResult{}, err
	}
	if resp.Status != "executed" {
		return domain.SwapResult{}, fmt.Errorf("wallet: swap %s: %s: %w", tokenAddress, resp.Error, domain.ErrSwapRejected)
	}

	c.logger.InfoContext(ctx, "swap executed",
		slog.String("token", tokenAddress),
		slog.String("tx_id", resp.TxID),
		slog.Float64("tokens_out", resp.TokensOut),
	)
	return domain.SwapResult{
		Status:    domain.TradeStatusExecuted,
		TxID:      resp.TxID,
		TokensOut: resp.TokensOut,
		UnitPrice: resp.UnitPrice,
	}, nil
}

// post sends one JSON request and decodes the JSON response into out. Any
// non-2xx status is an error; the service reports domain-level failures
// inside a 200 body via the status discriminator.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("wallet: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("wallet: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("wallet: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("wallet: %s: status %d: %s", path, resp.StatusCode, string(snippet))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("wallet: decode %s response: %w", path, err)
	}
	return nil
}

var _ domain.ExecutionService = (*Client)(nil)
