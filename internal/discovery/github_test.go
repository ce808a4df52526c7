package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"genesis/internal/pipeline"
)

func TestGitHubSearcher_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query().Get("q")
		if !strings.Contains(q, "memory") || !strings.Contains(q, "sentiment") {
			t.Errorf("query should carry all keywords, got %q", q)
		}
		if ua := r.Header.Get("User-Agent"); ua == "" {
			t.Error("GitHub requires a User-Agent header")
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": [
			{"name": "langchain", "description": "LLM framework"},
			{"name": "memgpt", "description": "memory for agents"},
			{"name": "vaderSentiment", "description": "sentiment analysis"},
			{"name": "extra", "description": "beyond the cap"}
		]}`))
	}))
	defer server.Close()

	searcher := NewGitHubSearcher(server.URL)
	tools, err := searcher.Search(context.Background(), []string{"memory", "sentiment"}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tools) != 3 {
		t.Fatalf("expected results capped at 3, got %d", len(tools))
	}
	if tools[0].Name != "langchain" || tools[0].Description != "LLM framework" {
		t.Errorf("ranking order not preserved: %+v", tools[0])
	}
}

func TestGitHubSearcher_EmptyKeywords(t *testing.T) {
	searcher := NewGitHubSearcher("http://127.0.0.1:1") // must never be dialed
	tools, err := searcher.Search(context.Background(), []string{" ", ""}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tools != nil {
		t.Errorf("expected no results for blank keywords, got %v", tools)
	}
}

func TestGitHubSearcher_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "API rate limit exceeded"}`))
	}))
	defer server.Close()

	_, err := NewGitHubSearcher(server.URL).Search(context.Background(), []string{"memory"}, 3)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestGitHubSearcher_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	if _, err := NewGitHubSearcher(server.URL).Search(context.Background(), []string{"memory"}, 3); err == nil {
		t.Fatal("expected parse error for non-JSON body")
	}
}

func TestDiscoverer_EmptyScaffoldSkipsSearch(t *testing.T) {
	searcher := &stubSearcher{}
	disc := NewDiscoverer(searcher, NewPool(1, time.Second), 0)

	tools, err := disc.Discover(context.Background(), pipeline.Scaffold{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tools != nil {
		t.Errorf("expected nil tools for empty scaffold, got %v", tools)
	}
	if searcher.calls != 0 {
		t.Errorf("searcher must not run without keywords, got %d calls", searcher.calls)
	}
}

func TestDiscoverer_CapsResults(t *testing.T) {
	searcher := &stubSearcher{tools: []pipeline.Tool{
		{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"},
	}}
	disc := NewDiscoverer(searcher, NewPool(1, time.Second), 2)

	scaffold := pipeline.Scaffold{Keywords: []string{"memory"}, Structure: "basic"}
	tools, err := disc.Discover(context.Background(), scaffold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tools) != 2 {
		t.Errorf("expected 2 tools after capping, got %d", len(tools))
	}
}

func TestDiscoverer_SearchErrorSurfaces(t *testing.T) {
	searcher := &stubSearcher{err: context.DeadlineExceeded}
	disc := NewDiscoverer(searcher, NewPool(1, time.Second), 0)

	scaffold := pipeline.Scaffold{Keywords: []string{"memory"}, Structure: "basic"}
	tools, err := disc.Discover(context.Background(), scaffold)
	if err == nil {
		t.Fatal("expected the search error to surface for logging")
	}
	if tools != nil {
		t.Errorf("expected no tools alongside error, got %v", tools)
	}
}

type stubSearcher struct {
	tools []pipeline.Tool
	err   error
	calls int
}

func (s *stubSearcher) Search(ctx context.Context, keywords []string, limit int) ([]pipeline.Tool, error) {
	s.calls++
	return s.tools, s.err
}
