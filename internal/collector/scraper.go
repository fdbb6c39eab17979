package collector

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/types"
)

// Scraper pulls gold headlines straight off news sites when the API
// feeds come back thin. Each site carries its own CSS selectors.
type Scraper struct {
	sites   []scrapeSite
	timeout time.Duration
}

type scrapeSite struct {
	Name      string
	URL       string
	Container string
	Title     string
	Link      string
	Summary   string
	RateLimit time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sites:   defaultScrapeSites(),
		timeout: timeout,
	}
}

func defaultScrapeSites() []scrapeSite {
	return []scrapeSite{
		{
			Name:      "Kitco",
			URL:       "https://www.kitco.com/news/gold/",
			Container: "article",
			Title:     "h3 a, h2 a",
			Link:      "h3 a, h2 a",
			Summary:   "p",
			RateLimit: 2 * time.Second,
		},
		{
			Name:      "FXStreet",
			URL:       "https://www.fxstreet.com/markets/commodities/metals/gold",
			Container: "div.fxs_article_card",
			Title:     "h4 a, h3 a",
			Link:      "h4 a, h3 a",
			Summary:   "p",
			RateLimit: 2 * time.Second,
		},
	}
}

// Scrape visits every configured site and returns whatever headlines it
// could extract. A blocked or reshaped site is skipped, never fatal.
func (s *Scraper) Scrape(ctx context.Context, maxPerSite int) []types.NewsArticle {
	var all []types.NewsArticle
	for _, site := range s.sites {
		articles, err := s.scrapeSite(ctx, site, maxPerSite)
		if err != nil {
			logger.Warn(ctx, "Site scrape failed", "site", site.Name, "error", err.Error())
			continue
		}
		all = append(all, articles...)
		time.Sleep(site.RateLimit)
	}
	logger.Info(ctx, "News scraping completed", "sites", len(s.sites), "articles", len(all))
	return all
}

func (s *Scraper) scrapeSite(ctx context.Context, site scrapeSite, maxArticles int) ([]types.NewsArticle, error) {
	var articles []types.NewsArticle

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(site.URL)),
		colly.MaxDepth(1),
		colly.Async(false),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	})

	c.OnHTML(site.Container, func(e *colly.HTMLElement) {
		if len(articles) >= maxArticles {
			return
		}
		title := strings.TrimSpace(e.ChildText(site.Title))
		if title == "" {
			return
		}
		link := e.ChildAttr(site.Link, "href")
		if link != "" && !strings.HasPrefix(link, "http") {
			link = "https://" + hostOf(site.URL) + link
		}
		articles = append(articles, types.NewsArticle{
			Title:       title,
			Description: strings.TrimSpace(e.ChildText(site.Summary)),
			Source:      site.Name,
			URL:         link,
		})
	})

	c.OnError(func(r *colly.Response, err error) {
		logger.Warn(ctx, "Scraping error", "site", site.Name, "url", r.Request.URL.String(), "error", err.Error())
	})

	if err := c.Visit(site.URL); err != nil {
		return nil, err
	}
	c.Wait()
	return articles, nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
