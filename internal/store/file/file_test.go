package file

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

func TestPortfolioRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "portfolio.json")

	store, err := NewPortfolioStore(path)
	if err != nil {
		t.Fatalf("NewPortfolioStore: %v", err)
	}

	_, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load before save: %v", err)
	}
	if found {
		t.Fatal("empty store should report not found")
	}

	state := domain.NewPortfolioState(1.0)
	state.CashNative = 0.9999
	state.Positions["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"] = domain.Position{
		Symbol:           "DOGE",
		Address:          "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Amount:           1000,
		EntryPriceNative: 1e-7,
		PoolAddress:      "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
	}

	if err := store.Save(ctx, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, found, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("saved snapshot should be found")
	}
	if got.CashNative != state.CashNative {
		t.Errorf("got cash %v, want %v", got.CashNative, state.CashNative)
	}
	pos, ok := got.Positions["0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"]
	if !ok {
		t.Fatal("position missing after round trip")
	}
	if pos.EntryPriceNative != 1e-7 || pos.PoolAddress != "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb" {
		t.Errorf("position fields lost: %+v", pos)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewPortfolioStore(filepath.Join(dir, "portfolio.json"))
	if err != nil {
		t.Fatalf("NewPortfolioStore: %v", err)
	}

	if err := store.Save(ctx, domain.NewPortfolioState(1.0)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "portfolio.json" {
		t.Fatalf("directory should hold only the snapshot, got %v", entries)
	}
}

func TestLoadNilPositionsMapIsInitialized(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "portfolio.json")
	if err := os.WriteFile(path, []byte(`{"cashNative": 0.5}`), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store, err := NewPortfolioStore(path)
	if err != nil {
		t.Fatalf("NewPortfolioStore: %v", err)
	}
	state, found, err := store.Load(ctx)
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if state.Positions == nil {
		t.Fatal("positions map should never be nil after load")
	}
}

func TestTradeLogAppendsJSONLines(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trades.jsonl")

	log, err := NewTradeLog(path)
	if err != nil {
		t.Fatalf("NewTradeLog: %v", err)
	}
	defer log.Close()

	recs := []domain.TradeRecord{
		{
			ID:           "one",
			Timestamp:    time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Symbol:       "DOGE",
			Address:      "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
			Action:       domain.TradeActionBuy,
			NativeAmount: 0.0001,
			TokenAmount:  1000,
			UnitPrice:    1e-7,
			Status:       domain.TradeStatusSimulated,
		},
		{
			ID:          "two",
			Symbol:      "DOGE",
			Action:      domain.TradeActionSellTP,
			TokenAmount: 1000,
			Status:      domain.TradeStatusSimulated,
		},
	}
	for _, rec := range recs {
		if err := log.Append(ctx, rec); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var got []domain.TradeRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec domain.TradeRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatalf("line is not valid JSON: %v", err)
		}
		got = append(got, rec)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d lines, want 2", len(got))
	}
	if got[0].ID != "one" || got[1].ID != "two" {
		t.Errorf("records out of order: %v, %v", got[0].ID, got[1].ID)
	}
	if got[1].Action != domain.TradeActionSellTP {
		t.Errorf("got action %q, want sell_tp", got[1].Action)
	}
}
