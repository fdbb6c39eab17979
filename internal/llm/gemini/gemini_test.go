package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gold-trading-assistant/internal/store"
)

func testConfig(keys ...string) *store.Config {
	cfg := &store.Config{GeminiKeys: keys}
	cfg.LLM.Model = "gemini-2.0-flash"
	cfg.LLM.MaxTokens = 256
	cfg.LLM.MaxAttempts = 3
	cfg.LLM.BackoffSeconds = 1
	return cfg
}

func newTestCompleter(cfg *store.Config, url string) *Completer {
	c := New(cfg)
	c.endpoint = url + "/%s"
	c.sleep = func(time.Duration) {}
	return c
}

func TestCompleteReturnsText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "key-1" {
			t.Errorf("Expected key-1 header, got %s", r.Header.Get("x-goog-api-key"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "Market Bias: NEUTRAL"}}}},
			},
		})
	}))
	defer srv.Close()

	c := newTestCompleter(testConfig("key-1"), srv.URL)
	text, err := c.Complete(context.Background(), "analyze")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "Market Bias: NEUTRAL" {
		t.Errorf("Unexpected text: %q", text)
	}
}

func TestCompleteRotatesKeysOnQuota(t *testing.T) {
	var seenKeys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("x-goog-api-key")
		seenKeys = append(seenKeys, key)
		if key == "key-1" {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "ok"}}}},
			},
		})
	}))
	defer srv.Close()

	c := newTestCompleter(testConfig("key-1", "key-2"), srv.URL)
	text, err := c.Complete(context.Background(), "analyze")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if text != "ok" {
		t.Errorf("Unexpected text: %q", text)
	}
	if len(seenKeys) != 2 || seenKeys[0] != "key-1" || seenKeys[1] != "key-2" {
		t.Errorf("Expected rotation key-1 then key-2, got %v", seenKeys)
	}
}

func TestCompleteGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("Quota exceeded"))
	}))
	defer srv.Close()

	c := newTestCompleter(testConfig("key-1"), srv.URL)
	_, err := c.Complete(context.Background(), "analyze")
	if err == nil {
		t.Fatal("Expected error after quota exhaustion")
	}
	if calls != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls)
	}
	if !strings.Contains(err.Error(), "quota exhausted after 3 attempts") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestCompleteDoesNotRetryFatalErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"message":"invalid argument"}}`))
	}))
	defer srv.Close()

	c := newTestCompleter(testConfig("key-1"), srv.URL)
	_, err := c.Complete(context.Background(), "analyze")
	if err == nil {
		t.Fatal("Expected error")
	}
	if calls != 1 {
		t.Errorf("Fatal error should not retry, got %d calls", calls)
	}
}

func TestIsQuotaError(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"gemini http 429: too many requests", true},
		{"gemini error 429: RESOURCE_EXHAUSTED", true},
		{"Quota exceeded for model", true},
		{"gemini http 500: internal", false},
		{"connection refused", false},
	}
	for _, tc := range cases {
		err := &testError{tc.msg}
		if got := isQuotaError(err); got != tc.want {
			t.Errorf("isQuotaError(%q) = %v, want %v", tc.msg, got, tc.want)
		}
	}
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
