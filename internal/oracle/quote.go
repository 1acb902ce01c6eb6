package oracle

import (
	"context"
	"fmt"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// quoteProbeTokens is the representative exact-in amount used to derive a
// unit price from a sell quote.
const quoteProbeTokens = 1000.0

// QuoteSource prices a token by asking the execution service for an
// exact-in sell quote. It covers tokens whose pool is not yet known.
type QuoteSource struct {
	svc domain.ExecutionService
}

// NewQuoteSource creates a QuoteSource over the given execution service.
func NewQuoteSource(svc domain.ExecutionService) *QuoteSource {
	return &QuoteSource{svc: svc}
}

// Name returns the source identifier.
func (s *QuoteSource) Name() string { return "quote" }

// Resolve derives the price as nativeOut / tokenAmountIn from a sell quote
// for a fixed probe amount.
func (s *QuoteSource) Resolve(ctx context.Context, req Request) (float64, error) {
	q, err := s.svc.QuoteSell(ctx, req.TokenAddress, quoteProbeTokens)
	if err != nil {
		return 0, fmt.Errorf("quote %s: %w", req.TokenAddress, err)
	}
	if q.AmountOut <= 0 {
		return 0, domain.ErrNoPrice
	}
	return q.AmountOut / quoteProbeTokens, nil
}
