package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const searchResultsPage = `<!DOCTYPE html>
<html>
<body>
  <div class="results">
    <div class="result results_links results_links_deep web-result">
      <h2 class="result__title">
        <a class="result__a" href="https://example.com/langchain">LangChain</a>
      </h2>
      <a class="result__snippet" href="https://example.com/langchain">Framework for building LLM applications</a>
    </div>
    <div class="result results_links results_links_deep web-result">
      <h2 class="result__title">
        <a class="result__a" href="https://example.com/memgpt">MemGPT</a>
      </h2>
      <a class="result__snippet" href="https://example.com/memgpt">Long-term memory for agents</a>
    </div>
    <div class="result results_links results_links_deep web-result">
      <h2 class="result__title">
        <a class="result__a" href="https://example.com/third">Third Tool</a>
      </h2>
      <a class="result__snippet" href="https://example.com/third">Another match</a>
    </div>
  </div>
</body>
</html>`

func TestParseSearchResults(t *testing.T) {
	tools, err := parseSearchResults(searchResultsPage, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tools) != 2 {
		t.Fatalf("expected 2 results after capping, got %d", len(tools))
	}
	if tools[0].Name != "LangChain" {
		t.Errorf("first tool name = %q", tools[0].Name)
	}
	if tools[0].Description != "Framework for building LLM applications" {
		t.Errorf("first tool description = %q", tools[0].Description)
	}
	if tools[1].Name != "MemGPT" {
		t.Errorf("second tool name = %q", tools[1].Name)
	}
}

func TestParseSearchResults_NoMatches(t *testing.T) {
	tools, err := parseSearchResults("<html><body><p>no results</p></body></html>", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tools) != 0 {
		t.Errorf("expected no tools, got %v", tools)
	}
}

func TestWebSearcher_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if q := r.URL.Query().Get("q"); q != "memory sentiment" {
			t.Errorf("unexpected query: %q", q)
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(searchResultsPage))
	}))
	defer server.Close()

	tools, err := NewWebSearcher(server.URL).Search(context.Background(), []string{"memory", "sentiment"}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tools) != 3 {
		t.Errorf("expected 3 results, got %d", len(tools))
	}
}

func TestWebSearcher_BlankQuery(t *testing.T) {
	tools, err := NewWebSearcher("http://127.0.0.1:1").Search(context.Background(), nil, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tools != nil {
		t.Errorf("expected no results for blank query, got %v", tools)
	}
}
