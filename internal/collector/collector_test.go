package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDailyBudgetBlocksOverusedAPI(t *testing.T) {
	mc := &MarketCollector{apiUsage: map[string]int{}}

	if !mc.allow("alpha_vantage") {
		t.Fatal("fresh API should be under budget")
	}
	mc.mu.Lock()
	mc.apiUsage["alpha_vantage"] = apiDailyLimits["alpha_vantage"]
	mc.mu.Unlock()
	if mc.allow("alpha_vantage") {
		t.Error("API at its daily limit should be blocked")
	}
	// Unknown APIs have no budget.
	if !mc.allow("something_else") {
		t.Error("unbudgeted API should always be allowed")
	}
}

func TestDailyBudgetResetsOnNewDay(t *testing.T) {
	mc := &MarketCollector{apiUsage: map[string]int{}}
	mc.usageDay = "2020-01-01"
	mc.apiUsage["news_api"] = apiDailyLimits["news_api"]

	if !mc.allow("news_api") {
		t.Error("usage from a previous day should not count against today")
	}
	if len(mc.apiUsage) != 0 {
		t.Errorf("expected counters cleared on day rollover, got %v", mc.apiUsage)
	}
}

func TestNewsDataFetchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("language") != "en" {
			t.Errorf("Unexpected language %s", r.URL.Query().Get("language"))
		}
		w.Write([]byte(`{"status":"success","results":[
			{"title":"Gold climbs on Fed bets","description":"Spot gold rose.","link":"https://x/1","pubDate":"2025-03-10 08:00:00","source_id":"reuters"},
			{"title":"","description":"no title","link":"https://x/2"},
			{"title":"Dollar steadies","link":"https://x/3","source_id":"fx"}
		]}`))
	}))
	defer srv.Close()

	src := NewNewsDataSource("k", 5*time.Second, nil)
	src.baseURL = srv.URL

	articles, err := src.FetchNews(context.Background())
	if err != nil {
		t.Fatalf("FetchNews failed: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("Expected 2 titled articles, got %d", len(articles))
	}
	if articles[0].Title != "Gold climbs on Fed bets" || articles[0].Source != "reuters" {
		t.Errorf("Unexpected first article %+v", articles[0])
	}
}

func TestNewsDataErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"error","results":[]}`))
	}))
	defer srv.Close()

	src := NewNewsDataSource("k", 5*time.Second, nil)
	src.baseURL = srv.URL

	if _, err := src.FetchNews(context.Background()); err == nil {
		t.Error("Expected error for non-success status")
	}
}
