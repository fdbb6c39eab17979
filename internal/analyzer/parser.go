package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"gold-trading-assistant/internal/types"
)

// Each field has its own pattern and is extracted independently of the
// others. A garbled or missing field yields that field's default, never
// an error, so one bad line cannot poison the rest of the document.
var (
	biasRe     = regexp.MustCompile(`(?i)Market Bias:\s*(BULLISH|BEARISH|NEUTRAL)`)
	strengthRe = regexp.MustCompile(`Bias Strength:\s*(-?\d+)`)
	confRe     = regexp.MustCompile(`Confidence Score:\s*(-?\d+)`)
	tradeRe    = regexp.MustCompile(`(?i)Trade Recommendation:\s*(BUY|SELL|NO[ _]TRADE)`)
	riskRe     = regexp.MustCompile(`(?i)Risk Level:\s*(LOW|MEDIUM|HIGH)`)

	stopLossRe = regexp.MustCompile(`Stop Loss:\s*\$?(\d+(?:\.\d+)?)`)
	tp1Re      = regexp.MustCompile(`Take Profit 1:\s*\$?(\d+(?:\.\d+)?)`)
	tp2Re      = regexp.MustCompile(`Take Profit 2:\s*\$?(\d+(?:\.\d+)?)`)

	factorsRe      = regexp.MustCompile(`(?s)Key Factors:(.*?)(?:Technical Setup:|$)`)
	invalidationRe = regexp.MustCompile(`(?s)Invalidation:(.*?)(?:---|$)`)
)

// parsedFields is the raw extraction result before any safety override.
type parsedFields struct {
	MarketBias     types.Bias
	BiasStrength   int
	Recommendation types.Recommendation
	Confidence     int
	RiskLevel      types.RiskLevel
	StopLoss       *float64
	TakeProfit1    *float64
	TakeProfit2    *float64
	KeyFactors     []string
	Invalidation   string
}

func parseBias(text string) types.Bias {
	if m := biasRe.FindStringSubmatch(text); m != nil {
		return types.Bias(strings.ToUpper(m[1]))
	}
	return types.BiasNeutral
}

func parseBiasStrength(text string) int {
	if m := strengthRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return clamp(n, 1, 10)
		}
	}
	return 5
}

func parseConfidence(text string) int {
	if m := confRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return clamp(n, 0, 10)
		}
	}
	return 0
}

func parseRecommendation(text string) types.Recommendation {
	if m := tradeRe.FindStringSubmatch(text); m != nil {
		switch strings.ToUpper(m[1]) {
		case "BUY":
			return types.RecBuy
		case "SELL":
			return types.RecSell
		}
	}
	return types.RecNoTrade
}

func parseRiskLevel(text string) types.RiskLevel {
	if m := riskRe.FindStringSubmatch(text); m != nil {
		return types.RiskLevel(strings.ToUpper(m[1]))
	}
	return types.RiskHigh
}

func parsePrice(re *regexp.Regexp, text string) *float64 {
	if m := re.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return &v
		}
	}
	return nil
}

// parseKeyFactors keeps only bulleted lines between the Key Factors
// heading and the next section, stripping the bullet marker.
func parseKeyFactors(text string) []string {
	m := factorsRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var factors []string
	for _, line := range strings.Split(strings.TrimSpace(m[1]), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") {
			item := strings.TrimSpace(strings.TrimLeft(line, "-• "))
			if item != "" {
				factors = append(factors, item)
			}
		}
	}
	return factors
}

func parseInvalidation(text string) string {
	if m := invalidationRe.FindStringSubmatch(text); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			return s
		}
	}
	return "Not specified"
}

// parseDocument extracts every field from the model's free-text reply.
// ok is false only for a blank document; any recognizable text yields a
// usable field set built from defaults where extraction missed.
func parseDocument(text string) (parsedFields, bool) {
	if strings.TrimSpace(text) == "" {
		return parsedFields{}, false
	}
	return parsedFields{
		MarketBias:     parseBias(text),
		BiasStrength:   parseBiasStrength(text),
		Recommendation: parseRecommendation(text),
		Confidence:     parseConfidence(text),
		RiskLevel:      parseRiskLevel(text),
		StopLoss:       parsePrice(stopLossRe, text),
		TakeProfit1:    parsePrice(tp1Re, text),
		TakeProfit2:    parsePrice(tp2Re, text),
		KeyFactors:     parseKeyFactors(text),
		Invalidation:   parseInvalidation(text),
	}, true
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
