package analyzer

import (
	"time"

	"gold-trading-assistant/internal/types"
)

// SessionAt maps a wall-clock instant to its trading session. Gold is
// session-sensitive, so every record is annotated with the window that
// was active when it was evaluated. The four windows partition the UTC
// day with no gaps and no overlap.
func SessionAt(t time.Time) types.Session {
	switch hour := t.UTC().Hour(); {
	case hour < 8:
		return types.SessionAsia
	case hour < 16:
		return types.SessionLondon
	case hour < 22:
		return types.SessionNewYork
	default:
		return types.SessionAsiaLate
	}
}

// EstimateSpread returns a rough XAUUSD spread for the session. Real
// spread needs a broker feed; this is only prompt context.
func EstimateSpread(session types.Session) float64 {
	if session == types.SessionLondon || session == types.SessionNewYork {
		return 0.30
	}
	return 0.60
}
