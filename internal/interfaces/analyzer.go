package interfaces

import (
	"context"

	"gold-trading-assistant/internal/types"
)

// Analyzer turns a market snapshot into a validated, gated record.
type Analyzer interface {
	Analyze(ctx context.Context, snapshot *types.MarketSnapshot, mode types.Mode, timeframe string) (*types.AnalysisRecord, error)
}
