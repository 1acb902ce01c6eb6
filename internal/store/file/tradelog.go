package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// TradeLog appends trade records as JSON lines. The file is opened once in
// append mode and guarded by a mutex; records are flushed per append so the
// audit trail survives a crash.
type TradeLog struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewTradeLog opens (or creates) the JSONL file for appending.
func NewTradeLog(path string) (*TradeLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file: create trade log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("file: open trade log: %w", err)
	}
	return &TradeLog{file: f, path: path}, nil
}

// Append writes one record as a single JSON line.
func (l *TradeLog) Append(_ context.Context, rec domain.TradeRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("file: marshal trade record: %w", err)
	}
	line = append(line, '\n')

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("file: append trade record: %w", err)
	}
	return nil
}

// Path returns the log's location on disk, used by the archiver.
func (l *TradeLog) Path() string { return l.path }

// Close flushes and closes the underlying file.
func (l *TradeLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

var _ domain.TradeLog = (*TradeLog)(nil)
