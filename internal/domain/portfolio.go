package domain

import "strings"

// DustThreshold is the token amount at or below which a position is
// considered fully closed and removed from the portfolio.
const DustThreshold = 1e-9

// Position is a paper holding in a single token, keyed by token address.
type Position struct {
	Symbol           string  `json:"symbol"`
	Address          string  `json:"address"`
	Amount           float64 `json:"amount"`
	EntryPriceNative float64 `json:"entryPriceNative"`
	PoolAddress      string  `json:"poolAddress,omitempty"`
}

// PortfolioState is the full persisted portfolio: liquid native-asset cash
// plus all open positions keyed by normalized (lowercase) token address.
type PortfolioState struct {
	CashNative float64             `json:"cashNative"`
	Positions  map[string]Position `json:"positions"`
}

// NewPortfolioState returns an empty portfolio seeded with startingCash.
func NewPortfolioState(startingCash float64) PortfolioState {
	return PortfolioState{
		CashNative: startingCash,
		Positions:  make(map[string]Position),
	}
}

// NormalizeAddress lowercases an EVM address so that differently-cased
// spellings of the same address map to the same position.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}
