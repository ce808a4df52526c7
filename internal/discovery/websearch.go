package discovery

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"genesis/internal/logging"
	"genesis/internal/pipeline"
)

// WebSearcher is an alternative Searcher backed by the DuckDuckGo HTML
// interface (no API key required). Result titles become tool names and
// snippets become descriptions.
type WebSearcher struct {
	baseURL    string
	httpClient *http.Client
}

// NewWebSearcher creates a DuckDuckGo-backed searcher. An empty baseURL uses
// the public endpoint.
func NewWebSearcher(baseURL string) *WebSearcher {
	baseURL = strings.TrimSuffix(baseURL, "/")
	if baseURL == "" {
		baseURL = "https://html.duckduckgo.com/html"
	}
	return &WebSearcher{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Search queries the HTML search endpoint with the joined keywords.
func (s *WebSearcher) Search(ctx context.Context, keywords []string, limit int) ([]pipeline.Tool, error) {
	query := strings.TrimSpace(strings.Join(keywords, " "))
	if query == "" {
		return nil, nil
	}

	searchURL := fmt.Sprintf("%s/?q=%s", s.baseURL, url.QueryEscape(query))
	logging.DiscoveryDebug("web search: %s", searchURL)

	req, err := http.NewRequestWithContext(ctx, "GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Set headers to look like a browser
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1MB limit
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	tools, err := parseSearchResults(string(body), limit)
	if err != nil {
		return nil, err
	}

	logging.Discovery("web search: %d results (capped at %d)", len(tools), limit)
	return tools, nil
}

// parseSearchResults extracts results from DuckDuckGo HTML. Result divs carry
// class="result results_links ...".
func parseSearchResults(htmlContent string, limit int) ([]pipeline.Tool, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var tools []pipeline.Tool

	var findResults func(*html.Node)
	findResults = func(n *html.Node) {
		if len(tools) >= limit {
			return
		}

		if n.Type == html.ElementNode && n.Data == "div" {
			for _, attr := range n.Attr {
				if attr.Key == "class" && strings.Contains(attr.Val, "result") && strings.Contains(attr.Val, "results_links") {
					tool := extractTool(n)
					if tool.Name != "" {
						tools = append(tools, tool)
					}
					return
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findResults(c)
		}
	}

	findResults(doc)
	return tools, nil
}

// extractTool extracts a single result from a result div: the link title is
// the tool name, the snippet its description.
func extractTool(n *html.Node) pipeline.Tool {
	var tool pipeline.Tool

	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "class" {
					if strings.Contains(attr.Val, "result__a") {
						tool.Name = textContent(n)
					} else if strings.Contains(attr.Val, "result__snippet") {
						tool.Description = textContent(n)
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(n)
	return tool
}

// textContent returns all text within a node.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(strings.TrimSpace(n.Data))
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
