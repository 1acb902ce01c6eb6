package discovery

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/clawdbot-glitch003/github-memecoin-trader/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExtractAddress(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain address",
			text: "CA: 0x1234567890abcdef1234567890abcdef12345678 buy now",
			want: "0x1234567890abcdef1234567890abcdef12345678",
		},
		{
			name: "mixed case preserved",
			text: "token at 0xAbCdEf1234567890abcdef1234567890ABCDEF12",
			want: "0xAbCdEf1234567890abcdef1234567890ABCDEF12",
		},
		{
			name: "too short",
			text: "0x1234567890abcdef",
			want: "",
		},
		{
			name: "first of several wins",
			text: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa then 0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
			want: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		},
		{
			name: "no address",
			text: "just a meme repo",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractAddress(tt.text); got != tt.want {
				t.Errorf("extractAddress(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDeriveSymbol(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"doge-moon-token", "DOGEMOON"},
		{"PepeCoin", "PEPE"},
		{"frog2moon", "FROG2MOO"},
		{"---", "UNKNOWN"},
		{"x", "X"},
	}
	for _, tt := range tests {
		if got := deriveSymbol(tt.in); got != tt.want {
			t.Errorf("deriveSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

type stubScanner struct {
	name  string
	cands []domain.Candidate
	err   error
}

func (s *stubScanner) Name() string { return s.name }

func (s *stubScanner) Scan(context.Context) ([]domain.Candidate, error) {
	return s.cands, s.err
}

func TestAggregatorDedupesByAddress(t *testing.T) {
	first := &stubScanner{name: "repo_trend", cands: []domain.Candidate{
		{Symbol: "AAA", Address: "0xAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", Source: "repo_trend"},
	}}
	second := &stubScanner{name: "token_launch", cands: []domain.Candidate{
		{Symbol: "AAA2", Address: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", Source: "token_launch"},
		{Symbol: "BBB", Address: "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", Source: "token_launch"},
	}}

	agg := NewAggregator(testLogger(), first, second)
	got, err := agg.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Source != "repo_trend" {
		t.Errorf("first scanner should win the dedupe, got source %q", got[0].Source)
	}
	if got[1].Symbol != "BBB" {
		t.Errorf("got second candidate %q, want BBB", got[1].Symbol)
	}
}

func TestAggregatorDropsMalformedAddresses(t *testing.T) {
	s := &stubScanner{name: "repo_trend", cands: []domain.Candidate{
		{Symbol: "BAD", Address: "0x1234"},
		{Symbol: "WORSE", Address: "not-an-address"},
		{Symbol: "OK", Address: "0xcccccccccccccccccccccccccccccccccccccccc"},
	}}

	agg := NewAggregator(testLogger(), s)
	got, err := agg.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "OK" {
		t.Fatalf("got %v, want only OK", got)
	}
}

func TestAggregatorSurvivesFailingScanner(t *testing.T) {
	broken := &stubScanner{name: "repo_trend", err: errors.New("rate limited")}
	working := &stubScanner{name: "token_launch", cands: []domain.Candidate{
		{Symbol: "OK", Address: "0xdddddddddddddddddddddddddddddddddddddddd"},
	}}

	agg := NewAggregator(testLogger(), broken, working)
	got, err := agg.ListCandidates(context.Background())
	if err != nil {
		t.Fatalf("ListCandidates: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d candidates, want 1 from the surviving scanner", len(got))
	}
}

type stubSearcher struct {
	repos []Repository
}

func (s *stubSearcher) SearchRepositories(context.Context, string) ([]Repository, error) {
	return s.repos, nil
}

func TestRepoTrendScanCandidates(t *testing.T) {
	search := &stubSearcher{repos: []Repository{
		{
			Name:        "moon-doge",
			FullName:    "memedev/moon-doge",
			Description: "to the moon, CA 0x1111111111111111111111111111111111111111",
		},
		{
			Name:        "no-contract-here",
			FullName:    "memedev/no-contract-here",
			Description: "just vibes",
		},
		{
			Name:     "topic-coin",
			FullName: "memedev/topic-coin",
			Topics:   []string{"memecoin", "0x2222222222222222222222222222222222222222"},
		},
	}}

	s := NewRepoTrendScanner(search, 0, testLogger())
	got, err := s.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Address != "0x1111111111111111111111111111111111111111" {
		t.Errorf("got address %q", got[0].Address)
	}
	if got[0].Source != "repo_trend" {
		t.Errorf("got source %q, want repo_trend", got[0].Source)
	}
	if got[0].RepoTag != "memedev/moon-doge" {
		t.Errorf("got repo tag %q", got[0].RepoTag)
	}
	if got[1].Symbol != "TOPIC" {
		t.Errorf("got symbol %q, want TOPIC", got[1].Symbol)
	}
}
