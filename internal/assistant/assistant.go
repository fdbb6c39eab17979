package assistant

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"gold-trading-assistant/internal/analyzer"
	"gold-trading-assistant/internal/interfaces"
	"gold-trading-assistant/internal/journal"
	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/notify"
	"gold-trading-assistant/internal/store"
	"gold-trading-assistant/internal/types"
)

// Assistant runs analysis cycles end to end: collect, analyze, journal,
// notify. One cycle runs at a time; a trigger arriving while a cycle is
// in flight is skipped, not queued.
type Assistant struct {
	cfg      *store.Config
	coll     interfaces.Collector
	analyzer *analyzer.Analyzer
	journal  *journal.Journal
	notifier *notify.Notifier

	busy      atomic.Bool
	paused    atomic.Bool
	cycles    atomic.Int64
	skipped   atomic.Int64
	lastRunNs atomic.Int64
}

func New(cfg *store.Config, coll interfaces.Collector, an *analyzer.Analyzer, jr *journal.Journal, nt *notify.Notifier) *Assistant {
	return &Assistant{
		cfg:      cfg,
		coll:     coll,
		analyzer: an,
		journal:  jr,
		notifier: nt,
	}
}

// TryRunCycle runs one cycle unless another is already in flight.
// Reports whether the cycle actually ran. The paused flag gates
// scheduled cycles only, callers check Paused before ticking.
func (a *Assistant) TryRunCycle(ctx context.Context, mode types.Mode, timeframe string) bool {
	if !a.busy.CompareAndSwap(false, true) {
		a.skipped.Add(1)
		logger.Warn(ctx, "Cycle already in flight, trigger skipped")
		return false
	}
	defer a.busy.Store(false)

	a.runCycle(ctx, mode, timeframe)
	return true
}

// runCycle is the panic boundary: nothing thrown inside a cycle may
// take down the process, the next scheduled cycle proceeds normally.
func (a *Assistant) runCycle(ctx context.Context, mode types.Mode, timeframe string) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("cycle panic: %v", r)
			logger.Error(ctx, "Analysis cycle panicked", "panic", fmt.Sprint(r))
			a.notifier.Send(ctx, notify.TagError, msg)
		}
	}()

	a.cycles.Add(1)
	a.lastRunNs.Store(time.Now().UnixNano())

	op := logger.StartOperation(ctx, "analysis_cycle",
		"cycle", a.cycles.Load(),
		"mode", string(mode))
	ctx = op.GetContext()

	snapshot, err := a.coll.Collect(ctx)
	if err != nil {
		op.EndWithError(err)
		a.notifier.Send(ctx, notify.TagError,
			fmt.Sprintf("Market data collection failed: %v", err))
		return
	}

	if err := a.journal.SaveSnapshot(snapshot); err != nil {
		logger.Warn(ctx, "Failed to journal snapshot", "error", err.Error())
	}

	rec, err := a.analyzer.Analyze(ctx, snapshot, mode, timeframe)
	if err != nil {
		op.EndWithError(err)
		a.notifier.Send(ctx, notify.TagError,
			fmt.Sprintf("Analysis failed: %v", err))
		if rec != nil {
			a.journal.LogAnalysis(rec)
		}
		return
	}

	if err := a.journal.LogAnalysis(rec); err != nil {
		logger.Warn(ctx, "Failed to journal analysis", "error", err.Error())
	}

	if !rec.Success {
		op.End("success", false)
		a.notifier.Send(ctx, notify.TagError,
			fmt.Sprintf("Analysis unparsable: %s", rec.Error))
		return
	}

	summary := analyzer.Summary(rec)
	if a.analyzer.ShouldAlert(rec) {
		a.notifier.Send(ctx, notify.TagSignal, summary)
		if err := a.journal.LogPerformance(rec, "pending", nil); err != nil {
			logger.Warn(ctx, "Failed to journal performance entry", "error", err.Error())
		}
	} else {
		logger.Info(ctx, "Cycle complete, below alert threshold",
			"recommendation", string(rec.Recommendation),
			"confidence", rec.Confidence)
	}
	op.End("recommendation", string(rec.Recommendation))

	if a.cycles.Load()%10 == 0 {
		a.logStatistics(ctx)
	}
}

// logStatistics surfaces the journal aggregates every tenth cycle.
func (a *Assistant) logStatistics(ctx context.Context) {
	stats, err := a.journal.Statistics()
	if err != nil || stats == nil {
		return
	}
	logger.Info(ctx, "Journal statistics",
		"total_analyses", stats.TotalAnalyses,
		"buy", stats.BuySignals,
		"sell", stats.SellSignals,
		"no_trade", stats.NoTradeSignals,
		"avg_confidence", stats.AverageConfidence,
		"signal_rate", stats.TradeSignalRate)
}

// Announce sends an informational message to every channel.
func (a *Assistant) Announce(ctx context.Context, message string) {
	a.notifier.Send(ctx, notify.TagInfo, message)
}

// WithinTradingHours checks the configured scheduling window. The gate
// only throttles scheduled cycles; manual triggers bypass it.
func (a *Assistant) WithinTradingHours(t time.Time) bool {
	if !a.cfg.TradingHours.Enabled {
		return true
	}
	utc := t.UTC()
	if a.cfg.TradingHours.SkipWeekends {
		if wd := utc.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return false
		}
	}
	hour := utc.Hour()
	start, end := a.cfg.TradingHours.StartHour, a.cfg.TradingHours.EndHour
	if start <= end {
		return hour >= start && hour < end
	}
	// Window wraps midnight.
	return hour >= start || hour < end
}

func (a *Assistant) Pause()       { a.paused.Store(true) }
func (a *Assistant) Resume()      { a.paused.Store(false) }
func (a *Assistant) Paused() bool { return a.paused.Load() }

// Status describes the assistant's runtime state.
type Status struct {
	Cycles  int64
	Skipped int64
	LastRun time.Time
	Paused  bool
	Busy    bool
}

func (a *Assistant) Status() Status {
	var last time.Time
	if ns := a.lastRunNs.Load(); ns > 0 {
		last = time.Unix(0, ns)
	}
	return Status{
		Cycles:  a.cycles.Load(),
		Skipped: a.skipped.Load(),
		LastRun: last,
		Paused:  a.paused.Load(),
		Busy:    a.busy.Load(),
	}
}

// Journal exposes the underlying journal for read queries.
func (a *Assistant) Journal() *journal.Journal { return a.journal }
