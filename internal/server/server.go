// Package server exposes a read-only status API over the portfolio. It never
// mutates trading state.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// PortfolioReader is the slice of the ledger the server renders.
type PortfolioReader interface {
	Balance() float64
	Snapshot() domain.PortfolioState
}

// Server is the status HTTP server.
type Server struct {
	srv     *http.Server
	ledger  PortfolioReader
	mode    string
	started time.Time
	logger  *slog.Logger
}

// New builds the server on addr with routes registered.
func New(addr, mode string, ledger PortfolioReader, logger *slog.Logger) *Server {
	s := &Server{
		ledger:  ledger,
		mode:    mode,
		started: time.Now(),
		logger:  logger.With(slog.String("component", "server")),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", slog.String("addr", s.srv.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := s.ledger.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":           s.mode,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"cash_native":    state.CashNative,
		"open_positions": len(state.Positions),
	})
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Snapshot())
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Encoding a map or a snapshot cannot realistically fail; a broken
	// connection mid-write is the client's problem.
	_ = json.NewEncoder(w).Encode(body)
}
