package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/types"
)

// Spot gold outside this band means a provider returned garbage, not a
// real market move.
const (
	priceSanityFloor   = 1500.0
	priceSanityCeiling = 6000.0
)

// TwelveDataSource fetches XAU/USD spot from Twelve Data.
type TwelveDataSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	onFetch func()
}

func NewTwelveDataSource(apiKey string, timeout time.Duration, onFetch func()) *TwelveDataSource {
	return &TwelveDataSource{
		apiKey:  apiKey,
		baseURL: "https://api.twelvedata.com",
		client:  &http.Client{Timeout: timeout},
		onFetch: onFetch,
	}
}

func (s *TwelveDataSource) Name() string { return "Twelve Data" }

func (s *TwelveDataSource) FetchPrice(ctx context.Context) (*types.PriceQuote, error) {
	q := url.Values{}
	q.Set("symbol", "XAU/USD")
	q.Set("apikey", s.apiKey)

	var out struct {
		Price string `json:"price"`
	}
	if err := s.getJSON(ctx, "/price?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if out.Price == "" {
		return nil, fmt.Errorf("twelve data returned no price")
	}
	var price float64
	if _, err := fmt.Sscanf(out.Price, "%f", &price); err != nil {
		return nil, fmt.Errorf("twelve data bad price %q: %w", out.Price, err)
	}
	return &types.PriceQuote{
		Price:     price,
		Timestamp: time.Now().UTC(),
		Source:    s.Name(),
	}, nil
}

// FetchHistory returns recent hourly closes, newest first.
func (s *TwelveDataSource) FetchHistory(ctx context.Context, hours int) ([]float64, error) {
	q := url.Values{}
	q.Set("symbol", "XAU/USD")
	q.Set("interval", "1h")
	q.Set("outputsize", fmt.Sprintf("%d", hours))
	q.Set("apikey", s.apiKey)

	var out struct {
		Values []struct {
			Close string `json:"close"`
		} `json:"values"`
	}
	if err := s.getJSON(ctx, "/time_series?"+q.Encode(), &out); err != nil {
		return nil, err
	}
	if len(out.Values) == 0 {
		return nil, fmt.Errorf("twelve data returned no history")
	}

	closes := make([]float64, 0, len(out.Values))
	for _, v := range out.Values {
		var c float64
		if _, err := fmt.Sscanf(v.Close, "%f", &c); err == nil {
			closes = append(closes, c)
		}
	}
	return closes, nil
}

func (s *TwelveDataSource) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twelve data http %d: %s", resp.StatusCode, string(body))
	}
	if s.onFetch != nil {
		s.onFetch()
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// FinnhubSource fetches the XAU base rate from Finnhub.
type FinnhubSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	onFetch func()
}

func NewFinnhubSource(apiKey string, timeout time.Duration, onFetch func()) *FinnhubSource {
	return &FinnhubSource{
		apiKey:  apiKey,
		baseURL: "https://finnhub.io/api/v1",
		client:  &http.Client{Timeout: timeout},
		onFetch: onFetch,
	}
}

func (s *FinnhubSource) Name() string { return "Finnhub" }

func (s *FinnhubSource) FetchPrice(ctx context.Context) (*types.PriceQuote, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		s.baseURL+"/forex/rates?base=XAU&token="+url.QueryEscape(s.apiKey), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("finnhub http %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Quote map[string]float64 `json:"quote"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	usd, ok := out.Quote["USD"]
	if !ok {
		return nil, fmt.Errorf("finnhub returned no USD quote")
	}
	if s.onFetch != nil {
		s.onFetch()
	}
	return &types.PriceQuote{
		Price:     usd,
		Timestamp: time.Now().UTC(),
		Source:    s.Name(),
	}, nil
}

// AlphaVantageSource fetches the realtime XAU/USD exchange rate from
// Alpha Vantage.
type AlphaVantageSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	onFetch func()
}

func NewAlphaVantageSource(apiKey string, timeout time.Duration, onFetch func()) *AlphaVantageSource {
	return &AlphaVantageSource{
		apiKey:  apiKey,
		baseURL: "https://www.alphavantage.co",
		client:  &http.Client{Timeout: timeout},
		onFetch: onFetch,
	}
}

func (s *AlphaVantageSource) Name() string { return "Alpha Vantage" }

func (s *AlphaVantageSource) FetchPrice(ctx context.Context) (*types.PriceQuote, error) {
	q := url.Values{}
	q.Set("function", "CURRENCY_EXCHANGE_RATE")
	q.Set("from_currency", "XAU")
	q.Set("to_currency", "USD")
	q.Set("apikey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/query?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("alpha vantage http %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Rate struct {
			ExchangeRate string `json:"5. Exchange Rate"`
		} `json:"Realtime Currency Exchange Rate"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Rate.ExchangeRate == "" {
		return nil, fmt.Errorf("alpha vantage returned no exchange rate")
	}
	var price float64
	if _, err := fmt.Sscanf(out.Rate.ExchangeRate, "%f", &price); err != nil {
		return nil, fmt.Errorf("alpha vantage bad rate %q: %w", out.Rate.ExchangeRate, err)
	}
	if s.onFetch != nil {
		s.onFetch()
	}
	return &types.PriceQuote{
		Price:     price,
		Timestamp: time.Now().UTC(),
		Source:    s.Name(),
	}, nil
}

// aggregatePrice queries every source, drops quotes outside the sanity
// band, and returns the first good quote annotated with the cross-source
// average. Returns nil when every source failed.
func aggregatePrice(ctx context.Context, sources []priceFetcher) *types.PriceQuote {
	var quotes []*types.PriceQuote
	for _, src := range sources {
		quote, err := src.FetchPrice(ctx)
		if err != nil {
			logger.Warn(ctx, "Price source failed", "source", src.Name(), "error", err.Error())
			continue
		}
		if quote.Price <= priceSanityFloor || quote.Price >= priceSanityCeiling {
			logger.Warn(ctx, "Price outside sanity band, dropped",
				"source", src.Name(), "price", quote.Price)
			continue
		}
		quotes = append(quotes, quote)
	}
	if len(quotes) == 0 {
		return nil
	}

	primary := quotes[0]
	if len(quotes) > 1 {
		var sum float64
		for _, q := range quotes {
			sum += q.Price
		}
		primary.AvgPrice = sum / float64(len(quotes))
		primary.SourcesCount = len(quotes)
	}
	return primary
}

type priceFetcher interface {
	Name() string
	FetchPrice(ctx context.Context) (*types.PriceQuote, error)
}
