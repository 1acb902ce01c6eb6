// Package discovery finds candidate tokens by scanning GitHub for freshly
// promoted memecoin repositories and extracting the contract addresses they
// advertise.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	githubAPIBase  = "https://api.github.com"
	githubTimeout  = 20 * time.Second
	searchPageSize = 30
)

// Repository is the slice of the GitHub search result we care about.
type Repository struct {
	FullName    string   `json:"full_name"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Topics      []string `json:"topics"`
	HTMLURL     string   `json:"html_url"`
	Stars       int      `json:"stargazers_count"`
	CreatedAt   string   `json:"created_at"`
}

type searchResponse struct {
	TotalCount int          `json:"total_count"`
	Items      []Repository `json:"items"`
}

// GitHubClient is a thin client for the repository search API. Unauthenticated
// use works but gets a much lower rate limit, so a token is recommended.
type GitHubClient struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

// NewGitHubClient builds a search client. An empty token means anonymous
// access.
func NewGitHubClient(token string, logger *slog.Logger) *GitHubClient {
	return &GitHubClient{
		baseURL: githubAPIBase,
		token:   token,
		http:    &http.Client{Timeout: githubTimeout},
		logger:  logger.With(slog.String("component", "github")),
	}
}

// SearchRepositories runs one repository search, newest first.
func (c *GitHubClient) SearchRepositories(ctx context.Context, query string) ([]Repository, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "updated")
	params.Set("order", "desc")
	params.Set("per_page", fmt.Sprintf("%d", searchPageSize))

	endpoint := c.baseURL + "/search/repositories?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("discovery: build search request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("discovery: search repositories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		c.logger.WarnContext(ctx, "github rate limit hit",
			slog.String("query", query),
		)
		return nil, fmt.Errorf("discovery: search rate limited (status %d)", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("discovery: search status %d: %s", resp.StatusCode, string(snippet))
	}

	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("discovery: decode search response: %w", err)
	}
	return out.Items, nil
}
