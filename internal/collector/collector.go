package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"gold-trading-assistant/internal/interfaces"
	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/store"
	"gold-trading-assistant/internal/types"
)

// ErrNoPriceData means every price source failed or returned garbage;
// the cycle must abort before touching the model.
var ErrNoPriceData = errors.New("no usable price data from any source")

const maxRankedArticles = 25

// Free-tier daily request ceilings. A source over its ceiling is
// skipped until the UTC day rolls over.
var apiDailyLimits = map[string]int{
	"twelve_data":   800,
	"finnhub":       1400,
	"alpha_vantage": 25,
	"news_api":      100,
	"newsdata":      200,
}

type budgetedSource struct {
	key string
	src priceFetcher
}

// MarketCollector assembles the full snapshot: aggregated price,
// indicators from hourly history, and ranked news from feeds, APIs and
// scraping.
type MarketCollector struct {
	priceSources []budgetedSource
	history      *TwelveDataSource
	rss          *RSSFetcher
	newsAPI      *NewsAPISource
	newsData     *NewsDataSource
	scraper      *Scraper
	maxArticles  int

	mu       sync.Mutex
	apiUsage map[string]int
	usageDay string
}

var _ interfaces.Collector = (*MarketCollector)(nil)

func New(cfg *store.Config) *MarketCollector {
	priceTimeout := time.Duration(cfg.Collector.PriceTimeoutSeconds) * time.Second
	newsTimeout := time.Duration(cfg.Collector.NewsTimeoutSeconds) * time.Second

	mc := &MarketCollector{
		maxArticles: cfg.Collector.MaxArticles,
		apiUsage:    map[string]int{},
	}

	if cfg.TwelveDataKey != "" {
		td := NewTwelveDataSource(cfg.TwelveDataKey, priceTimeout, mc.counter("twelve_data"))
		mc.priceSources = append(mc.priceSources, budgetedSource{"twelve_data", td})
		mc.history = td
	}
	if cfg.FinnhubKey != "" {
		mc.priceSources = append(mc.priceSources,
			budgetedSource{"finnhub", NewFinnhubSource(cfg.FinnhubKey, priceTimeout, mc.counter("finnhub"))})
	}
	if cfg.AlphaVantageKey != "" {
		mc.priceSources = append(mc.priceSources,
			budgetedSource{"alpha_vantage", NewAlphaVantageSource(cfg.AlphaVantageKey, priceTimeout, mc.counter("alpha_vantage"))})
	}
	mc.rss = NewRSSFetcher(cfg.Collector.RSSFeeds, newsTimeout)
	if cfg.NewsAPIKey != "" {
		mc.newsAPI = NewNewsAPISource(cfg.NewsAPIKey, newsTimeout, mc.counter("news_api"))
	}
	if cfg.NewsDataKey != "" {
		mc.newsData = NewNewsDataSource(cfg.NewsDataKey, newsTimeout, mc.counter("newsdata"))
	}
	if len(cfg.Collector.ScrapeDomains) != 0 || (cfg.NewsAPIKey == "" && cfg.NewsDataKey == "") {
		mc.scraper = NewScraper(newsTimeout)
	}
	return mc
}

func (mc *MarketCollector) counter(name string) func() {
	return func() {
		mc.mu.Lock()
		mc.apiUsage[name]++
		mc.mu.Unlock()
	}
}

// allow reports whether the named API is still under its daily budget.
// Usage counters reset when the UTC day changes.
func (mc *MarketCollector) allow(name string) bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	today := time.Now().UTC().Format("2006-01-02")
	if mc.usageDay != today {
		mc.usageDay = today
		mc.apiUsage = map[string]int{}
	}
	limit, ok := apiDailyLimits[name]
	if !ok {
		return true
	}
	return mc.apiUsage[name] < limit
}

// Collect gathers one snapshot. Price is mandatory; indicators and news
// are best-effort.
func (mc *MarketCollector) Collect(ctx context.Context) (*types.MarketSnapshot, error) {
	op := logger.StartOperation(ctx, "collect_market_data")
	ctx = op.GetContext()

	var live []priceFetcher
	for _, b := range mc.priceSources {
		if !mc.allow(b.key) {
			logger.Warn(ctx, "Price API over daily budget, skipped", "api", b.key)
			continue
		}
		live = append(live, b.src)
	}

	price := aggregatePrice(ctx, live)
	if price == nil {
		err := ErrNoPriceData
		op.EndWithError(err)
		return nil, err
	}

	var indicators *types.Indicators
	if mc.history != nil && mc.allow("twelve_data") {
		closes, err := mc.history.FetchHistory(ctx, 48)
		if err != nil {
			logger.Warn(ctx, "Price history unavailable", "error", err.Error())
		} else {
			indicators = ComputeIndicators(closes)
		}
	}

	news := mc.collectNews(ctx)

	op.End("price", price.Price, "articles", len(news))
	return &types.MarketSnapshot{
		Price:       price,
		Indicators:  indicators,
		News:        news,
		CollectedAt: time.Now().UTC(),
		APIUsage:    mc.usageSnapshot(),
	}, nil
}

// collectNews aggregates every feed then deduplicates, scores, and
// ranks the pool. RSS runs first because it has no quota.
func (mc *MarketCollector) collectNews(ctx context.Context) []types.NewsArticle {
	var pool []types.NewsArticle

	if articles, err := mc.rss.FetchNews(ctx); err == nil {
		pool = append(pool, articles...)
	}

	if mc.newsAPI != nil && mc.allow("news_api") {
		articles, err := mc.newsAPI.FetchNews(ctx)
		if err != nil {
			logger.Warn(ctx, "NewsAPI failed", "error", err.Error())
		} else {
			pool = append(pool, articles...)
		}
	}

	if mc.newsData != nil && mc.allow("newsdata") {
		articles, err := mc.newsData.FetchNews(ctx)
		if err != nil {
			logger.Warn(ctx, "NewsData failed", "error", err.Error())
		} else {
			pool = append(pool, articles...)
		}
	}

	// Scraping is the fallback when the feeds came back thin.
	if mc.scraper != nil && len(pool) < 15 {
		pool = append(pool, mc.scraper.Scrape(ctx, 5)...)
	}

	ranked := rankArticles(pool, maxRankedArticles)
	high := 0
	for _, a := range ranked {
		if a.RelevanceScore >= highRelevanceFloor {
			high++
		}
	}
	logger.Info(ctx, "News collection completed",
		"total", len(ranked),
		"high_relevance", high)
	return ranked
}

func (mc *MarketCollector) usageSnapshot() map[string]int {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	out := make(map[string]int, len(mc.apiUsage))
	for k, v := range mc.apiUsage {
		out[k] = v
	}
	return out
}
