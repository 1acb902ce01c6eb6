package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// TradeLogStore appends trade records to the trade_log table. Nothing in the
// application reads them back; the table exists for audits and offline
// analysis.
type TradeLogStore struct {
	pool *pgxpool.Pool
}

// NewTradeLogStore wraps an already-connected pool.
func NewTradeLogStore(pool *pgxpool.Pool) *TradeLogStore {
	return &TradeLogStore{pool: pool}
}

// Append inserts one record.
func (s *TradeLogStore) Append(ctx context.Context, rec domain.TradeRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO trade_log
			(id, ts, symbol, address, source, action, native_amount, token_amount, unit_price, status, tx_id, repo_tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		rec.ID, rec.Timestamp, rec.Symbol, rec.Address, rec.Source, string(rec.Action),
		rec.NativeAmount, rec.TokenAmount, rec.UnitPrice, string(rec.Status), rec.TxID, rec.RepoTag,
	)
	if err != nil {
		return fmt.Errorf("postgres: append trade: %w", err)
	}
	return nil
}

var _ domain.TradeLog = (*TradeLogStore)(nil)
