package domain

import "time"

// TradeAction identifies why a trade record was written.
type TradeAction string

const (
	TradeActionBuy    TradeAction = "buy"
	TradeActionSellTP TradeAction = "sell_tp"
	TradeActionSellSL TradeAction = "sell_sl"
)

// TradeStatus identifies how the trade was carried out.
type TradeStatus string

const (
	TradeStatusSimulated TradeStatus = "simulated"
	TradeStatusExecuted  TradeStatus = "executed"
	TradeStatusFailed    TradeStatus = "failed"
)

// TradeRecord is one immutable entry of the append-only audit trail. It is
// written on every buy and sell decision and never read back by the trading
// logic.
type TradeRecord struct {
	ID           string      `json:"id"`
	Timestamp    time.Time   `json:"timestamp"`
	Symbol       string      `json:"symbol"`
	Address      string      `json:"address"`
	Source       string      `json:"source"`
	Action       TradeAction `json:"action"`
	NativeAmount float64     `json:"nativeAmount"`
	TokenAmount  float64     `json:"tokenAmount"`
	UnitPrice    float64     `json:"unitPrice"`
	Status       TradeStatus `json:"status"`
	TxID         string      `json:"txId,omitempty"`
	RepoTag      string      `json:"repoTag,omitempty"`
}
