package analyzer

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"gold-trading-assistant/internal/interfaces"
	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/types"
)

// Analyzer prompts the model with a market snapshot and converts the
// free-text reply into a validated, gated AnalysisRecord. It never
// returns a nil record: model and parse failures come back as
// success=false records so every cycle leaves a trace.
type Analyzer struct {
	completer  interfaces.Completer
	thresholds AlertThresholds
	count      atomic.Int64
	now        func() time.Time
}

func New(completer interfaces.Completer, thresholds AlertThresholds) *Analyzer {
	return &Analyzer{
		completer:  completer,
		thresholds: thresholds,
		now:        time.Now,
	}
}

var _ interfaces.Analyzer = (*Analyzer)(nil)

// Analyze runs one full evaluation: prompt, model call, parse, gate.
func (a *Analyzer) Analyze(ctx context.Context, snapshot *types.MarketSnapshot, mode types.Mode, timeframe string) (*types.AnalysisRecord, error) {
	n := a.count.Add(1)
	evalTime := a.now()
	session := SessionAt(evalTime)
	analysisID := fmt.Sprintf("%s_%d_%d", mode, n, evalTime.Unix())

	op := logger.StartOperation(ctx, "analyze_market",
		"analysis_id", analysisID,
		"mode", string(mode),
		"timeframe", timeframe)
	ctx = op.GetContext()

	prompt := systemPrompt(mode) + "\n\n" + FormatMarketContext(snapshot, mode, session)

	text, err := a.completer.Complete(ctx, prompt)
	if err != nil {
		op.EndWithError(err)
		return &types.AnalysisRecord{
			Success:   false,
			ID:        fmt.Sprintf("error_%d", n),
			Timestamp: evalTime,
			Mode:      mode,
			Timeframe: timeframe,
			Error:     err.Error(),
		}, err
	}

	rec := a.buildRecord(ctx, text, snapshot, mode, timeframe, analysisID, evalTime, session)
	if rec.Success {
		op.End("recommendation", string(rec.Recommendation), "confidence", rec.Confidence)
	} else {
		op.End("parse_failed", true)
	}

	if rec.Actionable() {
		logger.Signal(ctx, string(rec.Recommendation), rec.Confidence, string(mode),
			"analysis_id", rec.ID,
			"risk_level", string(rec.RiskLevel))
	}
	return rec, nil
}

func (a *Analyzer) buildRecord(ctx context.Context, text string, snapshot *types.MarketSnapshot, mode types.Mode, timeframe, analysisID string, evalTime time.Time, session types.Session) *types.AnalysisRecord {
	fields, ok := parseDocument(text)
	if !ok {
		return &types.AnalysisRecord{
			Success:   false,
			ID:        analysisID,
			Timestamp: evalTime,
			Mode:      mode,
			Timeframe: timeframe,
			Error:     "parsing failed: empty model response",
			RawOutput: text,
		}
	}

	rec := &types.AnalysisRecord{
		Success:        true,
		ID:             analysisID,
		Timestamp:      evalTime,
		Mode:           mode,
		Timeframe:      timeframe,
		MarketBias:     fields.MarketBias,
		BiasStrength:   fields.BiasStrength,
		Recommendation: fields.Recommendation,
		Confidence:     fields.Confidence,
		RiskLevel:      fields.RiskLevel,
		StopLoss:       fields.StopLoss,
		TakeProfit1:    fields.TakeProfit1,
		TakeProfit2:    fields.TakeProfit2,
		KeyFactors:     fields.KeyFactors,
		Invalidation:   fields.Invalidation,
		FullAnalysis:   text,
	}

	applySafetyGate(ctx, rec)
	rec.Session = session

	if snapshot != nil && snapshot.Price != nil {
		rec.CurrentPrice = snapshot.Price.Price
		summary := &types.MarketSummary{
			Price:             snapshot.Price.Price,
			NewsCount:         len(snapshot.News),
			HighRelevanceNews: len(snapshot.HighRelevanceNews()),
		}
		if snapshot.Indicators != nil {
			summary.Trend = snapshot.Indicators.RecentTrend
		}
		rec.MarketSummary = summary
	}
	return rec
}

// ShouldAlert applies the configured alert thresholds to a record.
func (a *Analyzer) ShouldAlert(rec *types.AnalysisRecord) bool {
	return ShouldAlert(rec, a.thresholds)
}

// Summary renders a record as the human-readable block sent to
// notification channels.
func Summary(rec *types.AnalysisRecord) string {
	if !rec.Success {
		return fmt.Sprintf("Analysis failed: %s", rec.Error)
	}

	var marker string
	switch rec.Recommendation {
	case types.RecBuy:
		marker = "[BUY]"
	case types.RecSell:
		marker = "[SELL]"
	default:
		marker = "[WAIT]"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s XAUUSD Analysis [%s] | Session: %s\n", marker, strings.ToUpper(string(rec.Mode)), rec.Session)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	fmt.Fprintf(&b, "ID: %s\n", rec.ID)
	fmt.Fprintf(&b, "Trade Signal: %s\n", rec.Recommendation)
	fmt.Fprintf(&b, "Confidence: %d/10\n", rec.Confidence)
	fmt.Fprintf(&b, "Market Bias: %s (Strength: %d/10)\n", rec.MarketBias, rec.BiasStrength)
	fmt.Fprintf(&b, "Current Price: $%.2f\n", rec.CurrentPrice)
	fmt.Fprintf(&b, "Risk Level: %s\n", rec.RiskLevel)

	if rec.Recommendation != types.RecNoTrade {
		fmt.Fprintf(&b, "\nEntry Zone: ~$%.2f", rec.CurrentPrice)
		var riskAmount float64
		if rec.StopLoss != nil {
			riskAmount = abs(rec.CurrentPrice - *rec.StopLoss)
			fmt.Fprintf(&b, "\nStop Loss: $%.2f (Risk: $%.2f)", *rec.StopLoss, riskAmount)
		}
		if rec.TakeProfit1 != nil {
			reward := abs(*rec.TakeProfit1 - rec.CurrentPrice)
			rr := 0.0
			if riskAmount > 0 {
				rr = reward / riskAmount
			}
			fmt.Fprintf(&b, "\nTarget 1: $%.2f (R:R %.2f)", *rec.TakeProfit1, rr)
		}
		if rec.TakeProfit2 != nil {
			fmt.Fprintf(&b, "\nTarget 2: $%.2f", *rec.TakeProfit2)
		}
		b.WriteString("\n")
	}

	if len(rec.KeyFactors) > 0 {
		b.WriteString("\nKey Factors:\n")
		for i, factor := range rec.KeyFactors {
			if i == 3 {
				break
			}
			fmt.Fprintf(&b, "  - %s\n", factor)
		}
	}

	invalidation := rec.Invalidation
	if len(invalidation) > 100 {
		invalidation = invalidation[:100]
	}
	fmt.Fprintf(&b, "\nInvalidation: %s\n", invalidation)
	fmt.Fprintf(&b, "Timestamp: %s\n", rec.Timestamp.Format(time.RFC3339))

	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
