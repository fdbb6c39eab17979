package types

import "time"

// Mode selects the analysis horizon and its safety thresholds.
type Mode string

const (
	ModeScalp    Mode = "scalp"
	ModeIntraday Mode = "intraday"
	ModeMedium   Mode = "medium"
	ModeSwing    Mode = "swing"
)

// Tight reports whether the mode belongs to the latency-sensitive class
// that carries the stricter risk overrides.
func (m Mode) Tight() bool { return m == ModeScalp }

func (m Mode) Valid() bool {
	switch m {
	case ModeScalp, ModeIntraday, ModeMedium, ModeSwing:
		return true
	}
	return false
}

// ModeForTimeframe maps a chart timeframe token (M1..D1) to its mode.
// Unknown tokens fall back to intraday.
func ModeForTimeframe(tf string) Mode {
	switch tf {
	case "M1", "M3", "M5", "M15":
		return ModeScalp
	case "M30", "H1":
		return ModeIntraday
	case "H4":
		return ModeMedium
	case "D1":
		return ModeSwing
	}
	return ModeIntraday
}

type Bias string

const (
	BiasBullish Bias = "BULLISH"
	BiasBearish Bias = "BEARISH"
	BiasNeutral Bias = "NEUTRAL"
)

type Recommendation string

const (
	RecBuy     Recommendation = "BUY"
	RecSell    Recommendation = "SELL"
	RecNoTrade Recommendation = "NO_TRADE"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Session is the time-of-day trading window, derived from the UTC clock
// at evaluation time, never from model output.
type Session string

const (
	SessionAsia     Session = "ASIA"
	SessionLondon   Session = "LONDON"
	SessionNewYork  Session = "NEW_YORK"
	SessionAsiaLate Session = "ASIA_LATE"
)

// PriceQuote is one spot price observation from a provider.
type PriceQuote struct {
	Price         float64   `json:"price"`
	Bid           float64   `json:"bid,omitempty"`
	Ask           float64   `json:"ask,omitempty"`
	High          float64   `json:"high,omitempty"`
	Low           float64   `json:"low,omitempty"`
	ChangePercent float64   `json:"change_percent,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Source        string    `json:"source"`
	AvgPrice      float64   `json:"avg_price,omitempty"`
	SourcesCount  int       `json:"sources_count,omitempty"`
}

// Indicators holds the technical scalars computed from hourly history.
type Indicators struct {
	SMA20        float64 `json:"sma_20"`
	SMA50        float64 `json:"sma_50,omitempty"`
	Change24h    float64 `json:"change_24h"`
	Volatility   float64 `json:"volatility"`
	RSI14        float64 `json:"rsi_14,omitempty"`
	RecentTrend  string  `json:"recent_trend"`
	PriceVsSMA20 float64 `json:"current_vs_sma20"`
}

type NewsArticle struct {
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Source         string `json:"source"`
	URL            string `json:"url,omitempty"`
	Published      string `json:"published,omitempty"`
	RelevanceScore int    `json:"relevance_score"`
}

// MarketSnapshot is the immutable input to one analysis cycle.
type MarketSnapshot struct {
	Price       *PriceQuote    `json:"current_price"`
	Indicators  *Indicators    `json:"technical_indicators,omitempty"`
	News        []NewsArticle  `json:"news"`
	CollectedAt time.Time      `json:"timestamp"`
	APIUsage    map[string]int `json:"api_usage,omitempty"`
}

// HighRelevanceNews returns the articles scoring at or above the
// high-relevance floor, in their original ranked order.
func (s *MarketSnapshot) HighRelevanceNews() []NewsArticle {
	var out []NewsArticle
	for _, a := range s.News {
		if a.RelevanceScore >= 5 {
			out = append(out, a)
		}
	}
	return out
}

// MarketSummary is the compact snapshot digest stored with a record.
type MarketSummary struct {
	Price             float64 `json:"price"`
	Trend             string  `json:"trend,omitempty"`
	NewsCount         int     `json:"news_count"`
	HighRelevanceNews int     `json:"high_relevance_news"`
}

// AnalysisRecord is the structured, gated result of one cycle. On parse
// failure only Success, Error, RawOutput, ID and Timestamp are set.
type AnalysisRecord struct {
	Success   bool      `json:"success"`
	ID        string    `json:"analysis_id"`
	Timestamp time.Time `json:"timestamp"`
	Mode      Mode      `json:"analysis_mode"`
	Timeframe string    `json:"timeframe,omitempty"`
	Session   Session   `json:"session,omitempty"`

	CurrentPrice float64 `json:"current_price,omitempty"`

	MarketBias     Bias           `json:"market_bias,omitempty"`
	BiasStrength   int            `json:"bias_strength,omitempty"`
	Recommendation Recommendation `json:"trade_recommendation,omitempty"`
	Confidence     int            `json:"confidence"`
	RiskLevel      RiskLevel      `json:"risk_level,omitempty"`

	StopLoss    *float64 `json:"stop_loss,omitempty"`
	TakeProfit1 *float64 `json:"take_profit_1,omitempty"`
	TakeProfit2 *float64 `json:"take_profit_2,omitempty"`

	KeyFactors   []string `json:"key_factors,omitempty"`
	Invalidation string   `json:"invalidation,omitempty"`
	FullAnalysis string   `json:"full_analysis,omitempty"`

	MarketSummary *MarketSummary `json:"market_data_summary,omitempty"`

	Error     string `json:"error,omitempty"`
	RawOutput string `json:"raw_output,omitempty"`
}

// Actionable reports whether the record recommends entering a trade.
func (r *AnalysisRecord) Actionable() bool {
	return r.Success && (r.Recommendation == RecBuy || r.Recommendation == RecSell)
}
