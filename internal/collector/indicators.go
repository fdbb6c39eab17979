package collector

import (
	"math"

	"gold-trading-assistant/internal/ta"
	"gold-trading-assistant/internal/types"
)

// ComputeIndicators derives the technical scalars from hourly closes
// ordered newest first. Needs at least 20 closes; returns nil otherwise.
func ComputeIndicators(closes []float64) *types.Indicators {
	if len(closes) < 20 {
		return nil
	}
	if len(closes) > 50 {
		closes = closes[:50]
	}

	sma20 := ta.SMA(closes, 20)
	var sma50 float64
	if len(closes) >= 50 {
		sma50 = ta.SMA(closes, 50)
	}

	current := closes[0]
	ago := closes[len(closes)-1]
	if len(closes) > 23 {
		ago = closes[23]
	}
	change24h := (current - ago) / ago * 100

	volatility := ta.StdDev(closes, 20)

	var rsi float64
	if v := ta.RSI(closes, 14); !math.IsNaN(v) {
		rsi = v
	}

	trend := "neutral"
	if current > closes[4] && closes[4] > closes[9] {
		trend = "bullish"
	} else if current < closes[4] && closes[4] < closes[9] {
		trend = "bearish"
	}

	return &types.Indicators{
		SMA20:        round2(sma20),
		SMA50:        round2(sma50),
		Change24h:    round2(change24h),
		Volatility:   round2(volatility),
		RSI14:        round2(rsi),
		RecentTrend:  trend,
		PriceVsSMA20: round2((current - sma20) / sma20 * 100),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
