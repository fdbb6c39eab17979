package analyzer

import (
	"context"

	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/types"
)

// AlertThresholds configures the alert gate. The tight-mode floor must
// be stricter than the global one.
type AlertThresholds struct {
	GlobalConfidence int
	TightConfidence  int
}

func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{GlobalConfidence: 6, TightConfidence: 7}
}

// applySafetyGate runs the override sequence in fixed order. Each rule
// can only downgrade the recommendation toward NO_TRADE; once vetoed, a
// later rule never re-enables the trade.
func applySafetyGate(ctx context.Context, rec *types.AnalysisRecord) {
	if rec.Confidence < 6 && rec.Recommendation != types.RecNoTrade {
		logger.Override(ctx, "confidence below floor",
			"confidence", rec.Confidence,
			"was", string(rec.Recommendation))
		rec.Recommendation = types.RecNoTrade
	}

	if rec.Mode.Tight() && rec.RiskLevel == types.RiskHigh && rec.Recommendation != types.RecNoTrade {
		logger.Override(ctx, "tight mode with HIGH risk",
			"mode", string(rec.Mode),
			"was", string(rec.Recommendation))
		rec.Recommendation = types.RecNoTrade
	}

	if (rec.Recommendation == types.RecBuy || rec.Recommendation == types.RecSell) && rec.StopLoss == nil {
		logger.Override(ctx, "missing stop loss",
			"was", string(rec.Recommendation))
		rec.Recommendation = types.RecNoTrade
	}
}

// ShouldAlert decides whether a record is worth paging a human. It is a
// second filter layered on top of the safety gate: every record it
// passes already satisfies the gate's invariants, and it additionally
// suppresses operational noise.
func ShouldAlert(rec *types.AnalysisRecord, th AlertThresholds) bool {
	if rec == nil || !rec.Success {
		return false
	}
	if rec.Recommendation == types.RecNoTrade {
		return false
	}
	if rec.Confidence < th.GlobalConfidence {
		return false
	}
	if rec.Mode.Tight() {
		if rec.Confidence < th.TightConfidence {
			return false
		}
		if rec.RiskLevel == types.RiskHigh {
			return false
		}
	}
	if rec.StopLoss == nil {
		return false
	}
	return true
}
