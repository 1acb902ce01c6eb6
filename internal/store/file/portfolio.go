// Package file persists the portfolio and trade log to local disk. It is the
// default backend and the only one with no external service dependency.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// PortfolioStore keeps the portfolio snapshot in a single JSON file. Every
// save rewrites the whole file through an atomic rename so a crash mid-write
// never leaves a torn snapshot.
type PortfolioStore struct {
	path string
}

// NewPortfolioStore creates the parent directory if needed.
func NewPortfolioStore(path string) (*PortfolioStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file: create portfolio dir: %w", err)
	}
	return &PortfolioStore{path: path}, nil
}

// Load reads the snapshot. A missing file means no portfolio exists yet.
func (s *PortfolioStore) Load(_ context.Context) (domain.PortfolioState, bool, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.PortfolioState{}, false, nil
	}
	if err != nil {
		return domain.PortfolioState{}, false, fmt.Errorf("file: read portfolio: %w", err)
	}

	var state domain.PortfolioState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.PortfolioState{}, false, fmt.Errorf("file: parse portfolio: %w", err)
	}
	if state.Positions == nil {
		state.Positions = make(map[string]domain.Position)
	}
	return state, true, nil
}

// Save writes the snapshot to a temp file in the same directory and renames
// it over the target. The file is pretty-printed so it stays hand-inspectable.
func (s *PortfolioStore) Save(_ context.Context, state domain.PortfolioState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("file: marshal portfolio: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".portfolio-*.tmp")
	if err != nil {
		return fmt.Errorf("file: create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file: write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: close snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: replace snapshot: %w", err)
	}
	return nil
}

var _ domain.PortfolioRepository = (*PortfolioStore)(nil)
