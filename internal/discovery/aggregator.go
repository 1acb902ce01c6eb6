package discovery

import (
	"context"
	"log/slog"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// Aggregator fans one listing call out to every configured scanner, dedupes
// the results by token address, and drops malformed entries. A single failing
// scanner degrades the feed instead of killing it.
type Aggregator struct {
	scanners []Scanner
	logger   *slog.Logger
}

// NewAggregator combines scanners in priority order; the first scanner to
// report an address wins the dedupe.
func NewAggregator(logger *slog.Logger, scanners ...Scanner) *Aggregator {
	return &Aggregator{
		scanners: scanners,
		logger:   logger.With(slog.String("component", "discovery")),
	}
}

// ListCandidates gathers candidates from every scanner. Scanner failures are
// logged and skipped; an empty result with no error is a normal quiet day.
func (a *Aggregator) ListCandidates(ctx context.Context) ([]domain.Candidate, error) {
	seen := make(map[string]struct{})
	var out []domain.Candidate

	for _, s := range a.scanners {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		cands, err := s.Scan(ctx)
		if err != nil {
			a.logger.WarnContext(ctx, "scanner failed",
				slog.String("scanner", s.Name()),
				slog.String("error", err.Error()),
			)
			continue
		}

		for _, c := range cands {
			addr := domain.NormalizeAddress(c.Address)
			if !validAddress(addr) {
				a.logger.DebugContext(ctx, "dropping malformed candidate",
					slog.String("scanner", s.Name()),
					slog.String("address", c.Address),
				)
				continue
			}
			if _, dup := seen[addr]; dup {
				continue
			}
			seen[addr] = struct{}{}
			out = append(out, c)
		}
	}

	a.logger.InfoContext(ctx, "discovery pass complete",
		slog.Int("candidates", len(out)),
	)
	return out, nil
}

// validAddress checks the canonical lowercase form: 0x plus 40 hex chars.
func validAddress(addr string) bool {
	if len(addr) != 42 || addr[0] != '0' || addr[1] != 'x' {
		return false
	}
	for _, r := range addr[2:] {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
