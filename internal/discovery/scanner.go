package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

// Scanner is one candidate feed. Scan returns raw candidates; the aggregator
// dedupes and filters them.
type Scanner interface {
	Name() string
	Scan(ctx context.Context) ([]domain.Candidate, error)
}

// searcher is implemented by GitHubClient; factored out for tests.
type searcher interface {
	SearchRepositories(ctx context.Context, query string) ([]Repository, error)
}

// RepoTrendScanner surfaces tokens advertised by recently active memecoin
// repositories.
type RepoTrendScanner struct {
	client searcher
	// lookback bounds the created: qualifier of the search query.
	lookback time.Duration
	logger   *slog.Logger
}

// NewRepoTrendScanner builds the trend scanner. lookback defaults to a week
// when zero.
func NewRepoTrendScanner(client searcher, lookback time.Duration, logger *slog.Logger) *RepoTrendScanner {
	if lookback <= 0 {
		lookback = 7 * 24 * time.Hour
	}
	return &RepoTrendScanner{
		client:   client,
		lookback: lookback,
		logger:   logger.With(slog.String("component", "repo_trend")),
	}
}

func (s *RepoTrendScanner) Name() string { return "repo_trend" }

// Scan searches for recently created repositories that look like memecoin
// projects and carry a contract address in their metadata.
func (s *RepoTrendScanner) Scan(ctx context.Context) ([]domain.Candidate, error) {
	since := time.Now().Add(-s.lookback).UTC().Format("2006-01-02")
	query := fmt.Sprintf("memecoin in:name,description,topics created:>%s", since)

	repos, err := s.client.SearchRepositories(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("discovery: repo trend scan: %w", err)
	}
	return s.toCandidates(ctx, repos), nil
}

func (s *RepoTrendScanner) toCandidates(ctx context.Context, repos []Repository) []domain.Candidate {
	var out []domain.Candidate
	for _, r := range repos {
		addr := extractAddress(repoText(r))
		if addr == "" {
			continue
		}
		out = append(out, domain.Candidate{
			Name:    r.Name,
			Symbol:  deriveSymbol(r.Name),
			Address: addr,
			Source:  s.Name(),
			RepoTag: r.FullName,
		})
	}
	s.logger.DebugContext(ctx, "scan complete",
		slog.Int("repos", len(repos)),
		slog.Int("candidates", len(out)),
	)
	return out
}

// TokenLaunchScanner looks for repositories announcing a token launch. These
// tend to be younger and noisier than the trend feed, so the search window is
// tighter.
type TokenLaunchScanner struct {
	client   searcher
	lookback time.Duration
	logger   *slog.Logger
}

// NewTokenLaunchScanner builds the launch scanner. lookback defaults to two
// days when zero.
func NewTokenLaunchScanner(client searcher, lookback time.Duration, logger *slog.Logger) *TokenLaunchScanner {
	if lookback <= 0 {
		lookback = 48 * time.Hour
	}
	return &TokenLaunchScanner{
		client:   client,
		lookback: lookback,
		logger:   logger.With(slog.String("component", "token_launch")),
	}
}

func (s *TokenLaunchScanner) Name() string { return "token_launch" }

func (s *TokenLaunchScanner) Scan(ctx context.Context) ([]domain.Candidate, error) {
	since := time.Now().Add(-s.lookback).UTC().Format("2006-01-02")
	query := fmt.Sprintf(`"token launch" in:name,description created:>%s`, since)

	repos, err := s.client.SearchRepositories(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("discovery: token launch scan: %w", err)
	}

	var out []domain.Candidate
	for _, r := range repos {
		addr := extractAddress(repoText(r))
		if addr == "" {
			continue
		}
		out = append(out, domain.Candidate{
			Name:    r.Name,
			Symbol:  deriveSymbol(r.Name),
			Address: addr,
			Source:  s.Name(),
			RepoTag: r.FullName,
		})
	}
	s.logger.DebugContext(ctx, "scan complete",
		slog.Int("repos", len(repos)),
		slog.Int("candidates", len(out)),
	)
	return out, nil
}
