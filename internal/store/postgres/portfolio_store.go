package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// PortfolioStore persists the portfolio snapshot across the portfolio and
// positions tables. Save replaces both inside one transaction, matching the
// full-overwrite contract of the repository interface.
type PortfolioStore struct {
	pool *pgxpool.Pool
}

// NewPortfolioStore wraps an already-connected pool.
func NewPortfolioStore(pool *pgxpool.Pool) *PortfolioStore {
	return &PortfolioStore{pool: pool}
}

// Load reads the singleton cash row and all positions. A missing cash row
// means no portfolio has been saved yet.
func (s *PortfolioStore) Load(ctx context.Context) (domain.PortfolioState, bool, error) {
	var state domain.PortfolioState
	state.Positions = make(map[string]domain.Position)

	err := s.pool.QueryRow(ctx,
		`SELECT cash_native FROM portfolio WHERE id = 1`,
	).Scan(&state.CashNative)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PortfolioState{}, false, nil
	}
	if err != nil {
		return domain.PortfolioState{}, false, fmt.Errorf("postgres: load cash: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT address, symbol, amount, entry_price_native, pool_address FROM positions`)
	if err != nil {
		return domain.PortfolioState{}, false, fmt.Errorf("postgres: load positions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pos domain.Position
		if err := rows.Scan(&pos.Address, &pos.Symbol, &pos.Amount, &pos.EntryPriceNative, &pos.PoolAddress); err != nil {
			return domain.PortfolioState{}, false, fmt.Errorf("postgres: scan position: %w", err)
		}
		state.Positions[pos.Address] = pos
	}
	if err := rows.Err(); err != nil {
		return domain.PortfolioState{}, false, fmt.Errorf("postgres: iterate positions: %w", err)
	}

	return state, true, nil
}

// Save replaces the whole snapshot in one transaction: upsert the cash row,
// clear positions, reinsert the current set.
func (s *PortfolioStore) Save(ctx context.Context, state domain.PortfolioState) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres: begin save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		INSERT INTO portfolio (id, cash_native, updated_at)
		VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET cash_native = $1, updated_at = now()`,
		state.CashNative,
	); err != nil {
		return fmt.Errorf("postgres: save cash: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM positions`); err != nil {
		return fmt.Errorf("postgres: clear positions: %w", err)
	}

	for _, pos := range state.Positions {
		if _, err := tx.Exec(ctx, `
			INSERT INTO positions (address, symbol, amount, entry_price_native, pool_address)
			VALUES ($1, $2, $3, $4, $5)`,
			pos.Address, pos.Symbol, pos.Amount, pos.EntryPriceNative, pos.PoolAddress,
		); err != nil {
			return fmt.Errorf("postgres: save position %s: %w", pos.Address, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit save: %w", err)
	}
	return nil
}

var _ domain.PortfolioRepository = (*PortfolioStore)(nil)
