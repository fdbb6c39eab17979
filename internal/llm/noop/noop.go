package noop

import (
	"context"

	"gold-trading-assistant/internal/logger"
)

// Completer is a fallback used when no model API key is configured. It
// returns a well-formed document that always parses to NO_TRADE.
type Completer struct{}

func New() *Completer {
	return &Completer{}
}

func (c *Completer) Complete(ctx context.Context, prompt string) (string, error) {
	logger.Debug(ctx, "Noop completer called - always returns NO TRADE")
	return `Market Bias: NEUTRAL
Bias Strength: 5

Trade Recommendation: NO TRADE
Confidence Score: 0
Risk Level: HIGH

Invalidation:
No model configured.`, nil
}
