package collector

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/types"
)

// RSSFetcher pulls headlines from gold-focused RSS feeds. Feeds have no
// API quota, so they run first on every cycle.
type RSSFetcher struct {
	feeds   []string
	client  *http.Client
	perFeed int
}

var defaultFeeds = []string{
	"https://www.investing.com/rss/news_285.rss",
	"https://www.fxstreet.com/rss/gold",
	"https://www.kitco.com/rss/KitcoNews.xml",
	"https://feeds.content.dowjones.io/public/rss/mw_topstories",
}

func NewRSSFetcher(feeds []string, timeout time.Duration) *RSSFetcher {
	if len(feeds) == 0 {
		feeds = defaultFeeds
	}
	return &RSSFetcher{
		feeds:   feeds,
		client:  &http.Client{Timeout: timeout},
		perFeed: 5,
	}
}

func (f *RSSFetcher) Name() string { return "RSS" }

type rssDocument struct {
	Channel struct {
		Title string    `xml:"title"`
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
}

// FetchNews fetches every configured feed; a dead feed is logged and
// skipped, never fatal.
func (f *RSSFetcher) FetchNews(ctx context.Context) ([]types.NewsArticle, error) {
	var articles []types.NewsArticle
	for _, feedURL := range f.feeds {
		feedArticles, err := f.fetchFeed(ctx, feedURL)
		if err != nil {
			logger.Warn(ctx, "RSS feed failed", "feed", feedURL, "error", err.Error())
			continue
		}
		articles = append(articles, feedArticles...)
	}
	return articles, nil
}

func (f *RSSFetcher) fetchFeed(ctx context.Context, feedURL string) ([]types.NewsArticle, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rss http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseRSS(body, f.perFeed)
}

func parseRSS(data []byte, perFeed int) ([]types.NewsArticle, error) {
	var doc rssDocument
	decoder := xml.NewDecoder(strings.NewReader(string(data)))
	decoder.Strict = false
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("rss parse: %w", err)
	}

	source := strings.TrimSpace(doc.Channel.Title)
	if source == "" {
		source = "RSS Feed"
	}

	items := doc.Channel.Items
	if len(items) > perFeed {
		items = items[:perFeed]
	}

	articles := make([]types.NewsArticle, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		articles = append(articles, types.NewsArticle{
			Title:       title,
			Description: stripHTML(item.Description),
			Source:      source,
			URL:         strings.TrimSpace(item.Link),
			Published:   strings.TrimSpace(item.PubDate),
		})
	}
	return articles, nil
}

// stripHTML flattens feed descriptions that embed markup into plain
// text for relevance scoring and prompt injection.
func stripHTML(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
