package analyzer

import (
	"strings"
	"testing"

	"gold-trading-assistant/internal/types"
)

const sampleAnalysis = `---ANALYSIS START---

Market Bias: BULLISH
Bias Strength: 7

Trade Recommendation: BUY
Confidence Score: 8

Key Factors:
- Price holding above SMA 20
- London session momentum
- Dollar weakness into CPI

Technical Setup:
Higher lows on H1 with rising volume.

Entry Strategy:
Buy on retest of 2650 support.

Risk Management:
Stop Loss: $2643.50
Take Profit 1: $2662.00
Take Profit 2: $2675.00
Risk Level: MEDIUM

Invalidation:
Close below 2640 on H1 invalidates the setup.

---ANALYSIS END---`

func TestParseFullDocument(t *testing.T) {
	fields, ok := parseDocument(sampleAnalysis)
	if !ok {
		t.Fatal("Expected document to parse")
	}

	if fields.MarketBias != types.BiasBullish {
		t.Errorf("Expected BULLISH bias, got %s", fields.MarketBias)
	}
	if fields.BiasStrength != 7 {
		t.Errorf("Expected bias strength 7, got %d", fields.BiasStrength)
	}
	if fields.Recommendation != types.RecBuy {
		t.Errorf("Expected BUY, got %s", fields.Recommendation)
	}
	if fields.Confidence != 8 {
		t.Errorf("Expected confidence 8, got %d", fields.Confidence)
	}
	if fields.RiskLevel != types.RiskMedium {
		t.Errorf("Expected MEDIUM risk, got %s", fields.RiskLevel)
	}
	if fields.StopLoss == nil || *fields.StopLoss != 2643.50 {
		t.Errorf("Expected stop loss 2643.50, got %v", fields.StopLoss)
	}
	if fields.TakeProfit1 == nil || *fields.TakeProfit1 != 2662.00 {
		t.Errorf("Expected TP1 2662.00, got %v", fields.TakeProfit1)
	}
	if fields.TakeProfit2 == nil || *fields.TakeProfit2 != 2675.00 {
		t.Errorf("Expected TP2 2675.00, got %v", fields.TakeProfit2)
	}
	if !strings.Contains(fields.Invalidation, "Close below 2640") {
		t.Errorf("Unexpected invalidation text: %q", fields.Invalidation)
	}
}

func TestParseKeyFactorsOrderPreserved(t *testing.T) {
	fields, ok := parseDocument(sampleAnalysis)
	if !ok {
		t.Fatal("Expected document to parse")
	}

	want := []string{
		"Price holding above SMA 20",
		"London session momentum",
		"Dollar weakness into CPI",
	}
	if len(fields.KeyFactors) != len(want) {
		t.Fatalf("Expected %d factors, got %d: %v", len(want), len(fields.KeyFactors), fields.KeyFactors)
	}
	for i, factor := range want {
		if fields.KeyFactors[i] != factor {
			t.Errorf("Factor %d: expected %q, got %q", i, factor, fields.KeyFactors[i])
		}
	}
}

func TestParseDefaultsWhenFieldsMissing(t *testing.T) {
	fields, ok := parseDocument("some text without any recognized fields")
	if !ok {
		t.Fatal("Expected non-empty document to parse")
	}

	if fields.MarketBias != types.BiasNeutral {
		t.Errorf("Expected NEUTRAL default, got %s", fields.MarketBias)
	}
	if fields.BiasStrength != 5 {
		t.Errorf("Expected default strength 5, got %d", fields.BiasStrength)
	}
	if fields.Recommendation != types.RecNoTrade {
		t.Errorf("Expected NO_TRADE default, got %s", fields.Recommendation)
	}
	if fields.Confidence != 0 {
		t.Errorf("Expected default confidence 0, got %d", fields.Confidence)
	}
	if fields.RiskLevel != types.RiskHigh {
		t.Errorf("Expected HIGH risk default, got %s", fields.RiskLevel)
	}
	if fields.StopLoss != nil {
		t.Errorf("Expected absent stop loss, got %v", *fields.StopLoss)
	}
	if fields.Invalidation != "Not specified" {
		t.Errorf("Expected default invalidation, got %q", fields.Invalidation)
	}
}

func TestParseClampsOutOfRangeValues(t *testing.T) {
	cases := []struct {
		name string
		text string
		want func(parsedFields) bool
	}{
		{"strength too high", "Bias Strength: 999", func(f parsedFields) bool { return f.BiasStrength == 10 }},
		{"strength negative", "Bias Strength: -5", func(f parsedFields) bool { return f.BiasStrength == 1 }},
		{"confidence too high", "Confidence Score: 42", func(f parsedFields) bool { return f.Confidence == 10 }},
		{"confidence negative", "Confidence Score: -3", func(f parsedFields) bool { return f.Confidence == 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields, ok := parseDocument(tc.text)
			if !ok {
				t.Fatal("Expected document to parse")
			}
			if !tc.want(fields) {
				t.Errorf("Clamp failed for %q: strength=%d confidence=%d", tc.text, fields.BiasStrength, fields.Confidence)
			}
		})
	}
}

func TestParseCaseInsensitiveEnums(t *testing.T) {
	text := "Market Bias: bullish\nTrade Recommendation: sell\nRisk Level: low"
	fields, _ := parseDocument(text)

	if fields.MarketBias != types.BiasBullish {
		t.Errorf("Expected BULLISH from lowercase, got %s", fields.MarketBias)
	}
	if fields.Recommendation != types.RecSell {
		t.Errorf("Expected SELL from lowercase, got %s", fields.Recommendation)
	}
	if fields.RiskLevel != types.RiskLow {
		t.Errorf("Expected LOW from lowercase, got %s", fields.RiskLevel)
	}
}

func TestParsePriceWithoutDollarSign(t *testing.T) {
	fields, _ := parseDocument("Stop Loss: 2650.25")
	if fields.StopLoss == nil || *fields.StopLoss != 2650.25 {
		t.Errorf("Expected stop loss 2650.25, got %v", fields.StopLoss)
	}
}

// Removing any single field must leave every other field's extraction
// unchanged and only trigger that field's own default.
func TestParseFieldIndependence(t *testing.T) {
	full, _ := parseDocument(sampleAnalysis)

	removals := []struct {
		line  string
		check func(t *testing.T, f parsedFields)
	}{
		{"Market Bias: BULLISH", func(t *testing.T, f parsedFields) {
			if f.MarketBias != types.BiasNeutral {
				t.Errorf("Expected NEUTRAL default, got %s", f.MarketBias)
			}
		}},
		{"Bias Strength: 7", func(t *testing.T, f parsedFields) {
			if f.BiasStrength != 5 {
				t.Errorf("Expected default strength 5, got %d", f.BiasStrength)
			}
		}},
		{"Confidence Score: 8", func(t *testing.T, f parsedFields) {
			if f.Confidence != 0 {
				t.Errorf("Expected default confidence 0, got %d", f.Confidence)
			}
		}},
		{"Risk Level: MEDIUM", func(t *testing.T, f parsedFields) {
			if f.RiskLevel != types.RiskHigh {
				t.Errorf("Expected HIGH default, got %s", f.RiskLevel)
			}
		}},
		{"Stop Loss: $2643.50", func(t *testing.T, f parsedFields) {
			if f.StopLoss != nil {
				t.Errorf("Expected absent stop loss, got %v", *f.StopLoss)
			}
		}},
	}

	for _, rm := range removals {
		t.Run(rm.line, func(t *testing.T) {
			mutated := strings.Replace(sampleAnalysis, rm.line, "", 1)
			fields, ok := parseDocument(mutated)
			if !ok {
				t.Fatal("Expected mutated document to parse")
			}

			rm.check(t, fields)

			// The untouched fields must survive unchanged.
			if rm.line != "Market Bias: BULLISH" && fields.MarketBias != full.MarketBias {
				t.Errorf("Bias changed: %s vs %s", fields.MarketBias, full.MarketBias)
			}
			if rm.line != "Bias Strength: 7" && fields.BiasStrength != full.BiasStrength {
				t.Errorf("Strength changed: %d vs %d", fields.BiasStrength, full.BiasStrength)
			}
			if rm.line != "Confidence Score: 8" && fields.Confidence != full.Confidence {
				t.Errorf("Confidence changed: %d vs %d", fields.Confidence, full.Confidence)
			}
			if rm.line != "Risk Level: MEDIUM" && fields.RiskLevel != full.RiskLevel {
				t.Errorf("Risk changed: %s vs %s", fields.RiskLevel, full.RiskLevel)
			}
			if len(fields.KeyFactors) != len(full.KeyFactors) {
				t.Errorf("Key factors changed: %d vs %d", len(fields.KeyFactors), len(full.KeyFactors))
			}
		})
	}
}

func TestParseEmptyDocumentFails(t *testing.T) {
	if _, ok := parseDocument(""); ok {
		t.Error("Expected empty document to fail")
	}
	if _, ok := parseDocument("   \n\t  "); ok {
		t.Error("Expected whitespace-only document to fail")
	}
}

func TestParseNoTradeVariants(t *testing.T) {
	for _, text := range []string{
		"Trade Recommendation: NO TRADE",
		"Trade Recommendation: no trade",
		"Trade Recommendation: NO_TRADE",
	} {
		fields, _ := parseDocument(text)
		if fields.Recommendation != types.RecNoTrade {
			t.Errorf("Expected NO_TRADE for %q, got %s", text, fields.Recommendation)
		}
	}
}
