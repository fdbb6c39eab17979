package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gold-trading-assistant/internal/types"
)

type fakeSource struct {
	name  string
	price float64
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchPrice(ctx context.Context) (*types.PriceQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &types.PriceQuote{Price: f.price, Source: f.name, Timestamp: time.Now()}, nil
}

func TestAggregatePriceAverages(t *testing.T) {
	sources := []priceFetcher{
		&fakeSource{name: "a", price: 2650.0},
		&fakeSource{name: "b", price: 2654.0},
	}

	quote := aggregatePrice(context.Background(), sources)
	if quote == nil {
		t.Fatal("Expected a quote")
	}
	if quote.Source != "a" {
		t.Errorf("Expected first source as primary, got %s", quote.Source)
	}
	if quote.AvgPrice != 2652.0 {
		t.Errorf("Expected average 2652.0, got %.2f", quote.AvgPrice)
	}
	if quote.SourcesCount != 2 {
		t.Errorf("Expected 2 sources, got %d", quote.SourcesCount)
	}
}

func TestAggregatePriceDropsInsaneQuotes(t *testing.T) {
	sources := []priceFetcher{
		&fakeSource{name: "broken", price: 12.5},
		&fakeSource{name: "good", price: 2650.0},
		&fakeSource{name: "wild", price: 99999.0},
	}

	quote := aggregatePrice(context.Background(), sources)
	if quote == nil {
		t.Fatal("Expected a quote")
	}
	if quote.Source != "good" {
		t.Errorf("Expected only sane source, got %s", quote.Source)
	}
	if quote.SourcesCount != 0 {
		t.Errorf("Single surviving source should not report count, got %d", quote.SourcesCount)
	}
}

func TestAggregatePriceAllFail(t *testing.T) {
	sources := []priceFetcher{
		&fakeSource{name: "a", err: errors.New("timeout")},
		&fakeSource{name: "b", price: 100.0},
	}
	if quote := aggregatePrice(context.Background(), sources); quote != nil {
		t.Errorf("Expected nil when nothing usable, got %+v", quote)
	}
}

func TestTwelveDataFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/price" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "XAU/USD" {
			t.Errorf("Unexpected symbol %s", r.URL.Query().Get("symbol"))
		}
		w.Write([]byte(`{"price":"2651.40"}`))
	}))
	defer srv.Close()

	var fetches int
	src := NewTwelveDataSource("k", 5*time.Second, func() { fetches++ })
	src.baseURL = srv.URL

	quote, err := src.FetchPrice(context.Background())
	if err != nil {
		t.Fatalf("FetchPrice failed: %v", err)
	}
	if quote.Price != 2651.40 {
		t.Errorf("Expected 2651.40, got %.2f", quote.Price)
	}
	if quote.Source != "Twelve Data" {
		t.Errorf("Unexpected source %q", quote.Source)
	}
	if fetches != 1 {
		t.Errorf("Expected usage counter to fire once, got %d", fetches)
	}
}

func TestTwelveDataFetchHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"values":[{"close":"2650.1"},{"close":"2648.7"},{"close":"bad"},{"close":"2645.0"}]}`))
	}))
	defer srv.Close()

	src := NewTwelveDataSource("k", 5*time.Second, nil)
	src.baseURL = srv.URL

	closes, err := src.FetchHistory(context.Background(), 48)
	if err != nil {
		t.Fatalf("FetchHistory failed: %v", err)
	}
	if len(closes) != 3 {
		t.Fatalf("Expected 3 parsable closes, got %d", len(closes))
	}
	if closes[0] != 2650.1 {
		t.Errorf("Expected newest close first, got %.2f", closes[0])
	}
}

func TestFinnhubFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quote":{"USD":2649.8,"EUR":2450.2}}`))
	}))
	defer srv.Close()

	src := NewFinnhubSource("k", 5*time.Second, nil)
	src.baseURL = srv.URL

	quote, err := src.FetchPrice(context.Background())
	if err != nil {
		t.Fatalf("FetchPrice failed: %v", err)
	}
	if quote.Price != 2649.8 {
		t.Errorf("Expected 2649.8, got %.2f", quote.Price)
	}
}

func TestAlphaVantageFetchPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("function") != "CURRENCY_EXCHANGE_RATE" {
			t.Errorf("Unexpected function %s", r.URL.Query().Get("function"))
		}
		w.Write([]byte(`{"Realtime Currency Exchange Rate":{"1. From_Currency Code":"XAU","5. Exchange Rate":"2652.3500"}}`))
	}))
	defer srv.Close()

	src := NewAlphaVantageSource("k", 5*time.Second, nil)
	src.baseURL = srv.URL

	quote, err := src.FetchPrice(context.Background())
	if err != nil {
		t.Fatalf("FetchPrice failed: %v", err)
	}
	if quote.Price != 2652.35 {
		t.Errorf("Expected 2652.35, got %.4f", quote.Price)
	}
	if quote.Source != "Alpha Vantage" {
		t.Errorf("Unexpected source %q", quote.Source)
	}
}

func TestFinnhubMissingUSD(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"quote":{"EUR":2450.2}}`))
	}))
	defer srv.Close()

	src := NewFinnhubSource("k", 5*time.Second, nil)
	src.baseURL = srv.URL

	if _, err := src.FetchPrice(context.Background()); err == nil {
		t.Error("Expected error when USD quote missing")
	}
}
