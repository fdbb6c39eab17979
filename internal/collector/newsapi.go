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

// NewsAPISource queries the NewsAPI everything endpoint for gold and
// macro headlines from the last 24 hours.
type NewsAPISource struct {
	apiKey  string
	baseURL string
	client  *http.Client
	onFetch func()
}

func NewNewsAPISource(apiKey string, timeout time.Duration, onFetch func()) *NewsAPISource {
	return &NewsAPISource{
		apiKey:  apiKey,
		baseURL: "https://newsapi.org/v2",
		client:  &http.Client{Timeout: timeout},
		onFetch: onFetch,
	}
}

func (s *NewsAPISource) Name() string { return "NewsAPI" }

func (s *NewsAPISource) FetchNews(ctx context.Context) ([]types.NewsArticle, error) {
	now := time.Now().UTC()
	q := url.Values{}
	q.Set("q", buildNewsQuery(300))
	q.Set("from", now.Add(-24*time.Hour).Format(time.RFC3339))
	q.Set("to", now.Format(time.RFC3339))
	q.Set("language", "en")
	q.Set("sortBy", "publishedAt")
	q.Set("pageSize", "20")
	q.Set("apiKey", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/everything?"+q.Encode(), nil)
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
		return nil, fmt.Errorf("newsapi http %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Status   string `json:"status"`
		Message  string `json:"message"`
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
			Source      struct {
				Name string `json:"name"`
			} `json:"source"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if out.Status != "ok" {
		return nil, fmt.Errorf("newsapi error: %s", out.Message)
	}
	if s.onFetch != nil {
		s.onFetch()
	}

	items := out.Articles
	if len(items) > 10 {
		items = items[:10]
	}
	articles := make([]types.NewsArticle, 0, len(items))
	for _, a := range items {
		if strings.TrimSpace(a.Title) == "" {
			continue
		}
		articles = append(articles, types.NewsArticle{
			Title:       a.Title,
			Description: a.Description,
			Source:      a.Source.Name,
			URL:         a.URL,
			Published:   a.PublishedAt,
		})
	}
	return articles, nil
}

// buildNewsQuery assembles an OR query from the keyword tiers, quoting
// multi-word phrases, bounded by the provider's query length limit.
func buildNewsQuery(maxLength int) string {
	priority := []string{"gold", "XAUUSD", "gold price"}
	var parts []string
	length := 0

	add := func(keyword string) bool {
		term := keyword
		if strings.Contains(keyword, " ") {
			term = `"` + keyword + `"`
		}
		for _, p := range parts {
			if p == term {
				return true
			}
		}
		if length+len(term)+4 > maxLength {
			return false
		}
		parts = append(parts, term)
		length += len(term) + 4
		return true
	}

	for _, kw := range priority {
		add(kw)
	}
	for _, kw := range tier2Keywords {
		if !add(kw) {
			break
		}
	}
	return strings.Join(parts, " OR ")
}
