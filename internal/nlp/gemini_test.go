package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func geminiBody(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func newTestClient(baseURL string) *GeminiClient {
	return NewGeminiClientWithConfig(GeminiConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gemini-test",
		Timeout: 5 * time.Second,
	})
}

func TestGeminiClient_Complete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "models/gemini-test:generateContent") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing api key in query")
		}

		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(geminiBody("  hello world  ")))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Complete(context.Background(), "say hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello world" {
		t.Errorf("Complete = %q, want trimmed %q", got, "hello world")
	}
}

func TestGeminiClient_RetriesRateLimit(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(geminiBody("recovered")))
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Complete(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "recovered" {
		t.Errorf("Complete = %q", got)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected one retry, got %d calls", calls)
	}
}

func TestGeminiClient_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "bad request"}}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Complete(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("400 should not be retried, got %d calls", calls)
	}
}

func TestGeminiClient_MissingAPIKey(t *testing.T) {
	t.Parallel()

	client := NewGeminiClient("")
	if _, err := client.Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when API key is not configured")
	}
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	}))
	defer server.Close()

	if _, err := newTestClient(server.URL).Complete(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error when no completion returned")
	}
}
