package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gold-trading-assistant/internal/types"
)

// NewsDataSource queries the NewsData.io latest endpoint for gold
// business headlines.
type NewsDataSource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	onFetch func()
}

func NewNewsDataSource(apiKey string, timeout time.Duration, onFetch func()) *NewsDataSource {
	return &NewsDataSource{
		apiKey:  apiKey,
		baseURL: "https://newsdata.io/api/1",
		client:  &http.Client{Timeout: timeout},
		onFetch: onFetch,
	}
}

func (s *NewsDataSource) Name() string { return "NewsData" }

func (s *NewsDataSource) FetchNews(ctx context.Context) ([]types.NewsArticle, error) {
	q := url.Values{}
	q.Set("apikey", s.apiKey)
	q.Set("q", "gold OR XAUUSD")
	q.Set("language", "en")
	q.Set("category", "business")

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/latest?"+q.Encode(), nil)
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
		return nil, fmt.Errorf("newsdata http %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Status  string `json:"status"`
		Results []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Link        string `json:"link"`
			PubDate     string `json:"pubDate"`
			SourceID    string `json:"source_id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("newsdata error status %q", out.Status)
	}
	if s.onFetch != nil {
		s.onFetch()
	}

	items := out.Results
	if len(items) > 10 {
		items = items[:10]
	}
	articles := make([]types.NewsArticle, 0, len(items))
	for _, r := range items {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}
		articles = append(articles, types.NewsArticle{
			Title:       r.Title,
			Description: r.Description,
			Source:      r.SourceID,
			URL:         r.Link,
			Published:   r.PubDate,
		})
	}
	return articles, nil
}
