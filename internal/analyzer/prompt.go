package analyzer

import (
	"fmt"
	"strings"

	"gold-trading-assistant/internal/types"
)

const basePrompt = `You are an expert XAUUSD (Gold/USD) trader specializing in technical analysis and risk management.

Your analysis MUST follow this EXACT structure with machine-readable fields:

---ANALYSIS START---

Market Bias: [BULLISH / BEARISH / NEUTRAL]
Bias Strength: [1-10]

Trade Recommendation: [BUY / SELL / NO TRADE]
Confidence Score: [1-10]

Key Factors:
- Factor 1
- Factor 2
- Factor 3

Technical Setup:
[Brief technical analysis]

Entry Strategy:
[Specific entry criteria or "N/A" if NO TRADE]

Risk Management:
Stop Loss: [price level or "N/A"]
Take Profit 1: [price level or "N/A"]
Take Profit 2: [price level or "N/A"]
Risk Level: [LOW / MEDIUM / HIGH]

Invalidation:
[What would invalidate this setup]

---ANALYSIS END---

FIELD DEFINITIONS (Read Carefully):
- Bias Strength measures directional conviction (how strong is the trend/momentum)
- Confidence Score measures trade execution quality and safety (how good is the setup)
- High bias does NOT guarantee high confidence
- Example: Strong uptrend (Bias 9) but choppy price action (Confidence 4) = NO TRADE

CRITICAL RULES:
1. If there is no clear edge, you MUST output "Trade Recommendation: NO TRADE"
2. If Confidence Score < 6, you MUST output "Trade Recommendation: NO TRADE"
3. Never guess or force a trade when conditions are unclear
4. All price levels must be specific numbers (e.g., "4475.50"), never ranges or "N/A" for active trades
5. Be brutally honest about uncertainty
6. NO TRADE is a valid and often correct recommendation
`

const scalpPrompt = `
ANALYSIS MODE: SCALP (M1-M15 timeframes)

Your focus:
- Immediate price structure (support/resistance within $5-10 range)
- Very short-term bias (next 15min - 2 hours max)
- Quick entries and exits
- Tight stop losses (typically 0.1-0.3% of price)
- DO NOT provide long-term predictions
- DO NOT reference macro news unless it's happening RIGHT NOW
- Focus on: order flow, micro structure, immediate momentum

Scalp-specific requirements:
- Entry levels must be within $2-5 of current price
- Stops must be tight (max 0.3% loss)
- Take profits should be 1:1.5 to 1:2 risk/reward minimum
- If price is ranging or choppy: NO TRADE
- If spread is elevated or liquidity is thin: NO TRADE
- Scalping is preferred during LONDON and NEW_YORK sessions
- During low-liquidity sessions (ASIA, ASIA_LATE), be extremely selective
- HIGH risk level in scalp mode should almost always = NO TRADE
`

const intradayPrompt = `
ANALYSIS MODE: INTRADAY (M30-H1 timeframes)

Your focus:
- Intraday price structure (support/resistance within $20-50 range)
- Session-based bias (next 4-24 hours)
- Holding through minor pullbacks
- Moderate stop losses (typically 0.5-1% of price)
- Consider news events within the day
- Focus on: daily levels, session trends, key economic data

Intraday-specific requirements:
- Entry levels within $10-20 of current price
- Stops at logical levels (0.5-1% loss typical)
- Take profits at daily highs/lows or key levels
- If major news pending within 2 hours: consider NO TRADE
- Session context matters but less critical than scalping
`

const mediumPrompt = `
ANALYSIS MODE: MEDIUM-TERM (H4 timeframe)

Your focus:
- Multi-day price structure (support/resistance within $50-100 range)
- Directional bias over the next 1-5 trading days
- Holding through intraday noise and session rotations
- Wider stop losses (typically 1-2% of price)
- Weigh scheduled macro events (FOMC, CPI, NFP) within the week
- Focus on: weekly levels, higher-timeframe trend, rate expectations

Medium-term requirements:
- Entry levels within $30-50 of current price
- Stops beyond the last significant swing (1-2% typical)
- Take profits at weekly highs/lows or measured moves
- If a major macro release lands within 24 hours: reduce confidence accordingly
`

const swingPrompt = `
ANALYSIS MODE: SWING (D1 timeframe)

Your focus:
- Weekly and monthly price structure
- Directional bias over the next 1-4 weeks
- Holding through daily volatility and news cycles
- Wide stop losses (typically 2-4% of price)
- Macro regime matters more than intraday flow: dollar trend, real yields, central bank posture
- Focus on: monthly levels, long-term trend, positioning extremes

Swing-specific requirements:
- Entry levels within $50-100 of current price
- Stops beyond major structure (2-4% typical)
- Take profits at monthly levels or prior major highs/lows
- Session timing is irrelevant; structure and macro regime decide
`

// systemPrompt returns the mode-specific instruction block.
func systemPrompt(mode types.Mode) string {
	switch mode {
	case types.ModeScalp:
		return basePrompt + scalpPrompt
	case types.ModeMedium:
		return basePrompt + mediumPrompt
	case types.ModeSwing:
		return basePrompt + swingPrompt
	}
	return basePrompt + intradayPrompt
}

// FormatMarketContext renders the snapshot as plain facts for the
// prompt. No interpretation happens here; the model gets numbers and
// headlines only.
func FormatMarketContext(snapshot *types.MarketSnapshot, mode types.Mode, session types.Session) string {
	if snapshot == nil || snapshot.Price == nil {
		return "ERROR: Price data unavailable"
	}
	current := snapshot.Price
	spread := EstimateSpread(session)

	var b strings.Builder
	fmt.Fprintf(&b, "CURRENT MARKET CONTEXT\n\n")
	fmt.Fprintf(&b, "Current Price: $%.2f\n", current.Price)
	fmt.Fprintf(&b, "Session: %s\n", session)
	fmt.Fprintf(&b, "Estimated Spread: $%.2f\n", spread)
	fmt.Fprintf(&b, "Timestamp: %s\n", current.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	if current.ChangePercent != 0 {
		fmt.Fprintf(&b, "24h Change: %+.2f%%\n", current.ChangePercent)
	}
	if current.High > 0 && current.Low > 0 {
		fmt.Fprintf(&b, "Today High: $%.2f\n", current.High)
		fmt.Fprintf(&b, "Today Low: $%.2f\n", current.Low)
		fmt.Fprintf(&b, "Daily Range: $%.2f\n", current.High-current.Low)
	}

	if ind := snapshot.Indicators; ind != nil {
		b.WriteString("\nTechnical Indicators:\n")
		fmt.Fprintf(&b, "SMA 20: $%.2f\n", ind.SMA20)
		if ind.SMA50 > 0 {
			fmt.Fprintf(&b, "SMA 50: $%.2f\n", ind.SMA50)
		}
		if ind.RSI14 > 0 {
			fmt.Fprintf(&b, "RSI (14): %.1f\n", ind.RSI14)
		}
		fmt.Fprintf(&b, "Recent Trend: %s\n", ind.RecentTrend)
		fmt.Fprintf(&b, "Volatility Index: %.2f\n", ind.Volatility)
		fmt.Fprintf(&b, "Price vs SMA20: %.2f%%\n", ind.PriceVsSMA20)
	}

	highRel := snapshot.HighRelevanceNews()

	// Scalp cycles only see the top high-impact headlines; slower modes
	// get the broader feed.
	var relevant []types.NewsArticle
	if mode.Tight() {
		relevant = highRel
		if len(relevant) > 3 {
			relevant = relevant[:3]
		}
		fmt.Fprintf(&b, "\nImmediate High-Impact News (%d items):\n", len(relevant))
	} else {
		relevant = snapshot.News
		if len(relevant) > 8 {
			relevant = relevant[:8]
		}
		fmt.Fprintf(&b, "\nRecent News (%d total, %d high relevance):\n", len(snapshot.News), len(highRel))
	}

	for i, article := range relevant {
		fmt.Fprintf(&b, "%d. [Rel: %d] %s\n", i+1, article.RelevanceScore, article.Title)
		if len(article.Description) > 20 {
			desc := article.Description
			if len(desc) > 120 {
				desc = desc[:120]
			}
			fmt.Fprintf(&b, "   %s...\n", desc)
		}
	}

	return b.String()
}
