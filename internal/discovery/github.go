package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"genesis/internal/logging"
	"genesis/internal/pipeline"
)

// Searcher is the keyword-lookup capability behind tool discovery. Any
// provider implementing this shape can be substituted without touching
// pipeline logic.
type Searcher interface {
	Search(ctx context.Context, keywords []string, limit int) ([]pipeline.Tool, error)
}

// GitHubSearcher queries the GitHub repository search index. This is the
// reference provider: repositories matching the scaffold keywords, truncated
// to the top few matches.
type GitHubSearcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewGitHubSearcher creates a searcher against the given API base URL
// (https://api.github.com in production; httptest servers in tests).
func NewGitHubSearcher(baseURL string) *GitHubSearcher {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &GitHubSearcher{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type githubSearchResponse struct {
	Items []struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	} `json:"items"`
}

// Search looks up repositories matching all keywords. Results preserve the
// index's ranking order and are truncated to limit.
func (s *GitHubSearcher) Search(ctx context.Context, keywords []string, limit int) ([]pipeline.Tool, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	escaped := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		escaped = append(escaped, url.QueryEscape(kw))
	}
	if len(escaped) == 0 {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/search/repositories?q=%s", s.baseURL, strings.Join(escaped, "+"))
	logging.DiscoveryDebug("GitHub search: %s", searchURL)

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "genesis-tool-discovery")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1MB limit
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var parsed githubSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	tools := make([]pipeline.Tool, 0, limit)
	for _, item := range parsed.Items {
		if len(tools) >= limit {
			break
		}
		tools = append(tools, pipeline.Tool{Name: item.Name, Description: item.Description})
	}

	logging.Discovery("GitHub search: %d results (capped at %d)", len(tools), limit)
	return tools, nil
}
