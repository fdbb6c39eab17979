package journal

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gold-trading-assistant/internal/types"
)

const (
	analysisFile    = "analysis_log.json"
	performanceFile = "performance_log.json"
	snapshotFile    = "market_data.json"
)

// Journal persists analysis history as bounded JSON lists. Each file
// holds a single serialized array, rewritten in full on every append
// and trimmed to its retention cap.
type Journal struct {
	dir          string
	maxAnalyses  int
	maxSignals   int
	maxSnapshots int

	mu sync.Mutex
}

// Limits configures per-file retention.
type Limits struct {
	Analyses  int
	Signals   int
	Snapshots int
}

func DefaultLimits() Limits {
	return Limits{Analyses: 500, Signals: 200, Snapshots: 1000}
}

func New(dir string, limits Limits) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &Journal{
		dir:          dir,
		maxAnalyses:  limits.Analyses,
		maxSignals:   limits.Signals,
		maxSnapshots: limits.Snapshots,
	}, nil
}

// AnalysisEntry is one journaled analysis.
type AnalysisEntry struct {
	Timestamp  string               `json:"timestamp"`
	AnalysisID string               `json:"analysis_id"`
	Analysis   AnalysisDetail       `json:"analysis"`
	Market     *types.MarketSummary `json:"market_summary,omitempty"`
}

type AnalysisDetail struct {
	Mode           types.Mode           `json:"mode"`
	Session        types.Session        `json:"session"`
	Recommendation types.Recommendation `json:"trade_recommendation"`
	Confidence     int                  `json:"confidence"`
	MarketBias     types.Bias           `json:"market_bias"`
	BiasStrength   int                  `json:"bias_strength"`
	RiskLevel      types.RiskLevel      `json:"risk_level"`
	CurrentPrice   float64              `json:"current_price"`
	StopLoss       *float64             `json:"stop_loss"`
	TakeProfit1    *float64             `json:"take_profit_1"`
	TakeProfit2    *float64             `json:"take_profit_2"`
	KeyFactors     []string             `json:"key_factors"`
	Invalidation   string               `json:"invalidation"`
}

// PerformanceEntry tracks a signal for paper-trading review.
type PerformanceEntry struct {
	Timestamp      string               `json:"timestamp"`
	AnalysisID     string               `json:"analysis_id"`
	Recommendation types.Recommendation `json:"trade_recommendation"`
	Confidence     int                  `json:"confidence"`
	EntryPrice     float64              `json:"entry_price"`
	StopLoss       *float64             `json:"stop_loss"`
	TakeProfit1    *float64             `json:"take_profit_1"`
	Outcome        string               `json:"outcome"`
	PnL            *float64             `json:"pnl"`
}

// SnapshotEntry is a compact copy of one market snapshot.
type SnapshotEntry struct {
	Timestamp         string            `json:"timestamp"`
	Price             *types.PriceQuote `json:"price"`
	Indicators        *types.Indicators `json:"indicators,omitempty"`
	NewsCount         int               `json:"news_count"`
	HighRelevanceNews int               `json:"high_rel_news_count"`
}

// LogAnalysis appends one record to the analysis journal.
func (j *Journal) LogAnalysis(rec *types.AnalysisRecord) error {
	entry := AnalysisEntry{
		Timestamp:  time.Now().Format(time.RFC3339),
		AnalysisID: rec.ID,
		Analysis: AnalysisDetail{
			Mode:           rec.Mode,
			Session:        rec.Session,
			Recommendation: rec.Recommendation,
			Confidence:     rec.Confidence,
			MarketBias:     rec.MarketBias,
			BiasStrength:   rec.BiasStrength,
			RiskLevel:      rec.RiskLevel,
			CurrentPrice:   rec.CurrentPrice,
			StopLoss:       rec.StopLoss,
			TakeProfit1:    rec.TakeProfit1,
			TakeProfit2:    rec.TakeProfit2,
			KeyFactors:     rec.KeyFactors,
			Invalidation:   rec.Invalidation,
		},
		Market: rec.MarketSummary,
	}
	return appendBounded(j, analysisFile, entry, j.maxAnalyses)
}

// LogPerformance appends a signal outcome entry. Outcome is one of
// "win", "loss", "breakeven" or "pending".
func (j *Journal) LogPerformance(rec *types.AnalysisRecord, outcome string, pnl *float64) error {
	entry := PerformanceEntry{
		Timestamp:      time.Now().Format(time.RFC3339),
		AnalysisID:     rec.ID,
		Recommendation: rec.Recommendation,
		Confidence:     rec.Confidence,
		EntryPrice:     rec.CurrentPrice,
		StopLoss:       rec.StopLoss,
		TakeProfit1:    rec.TakeProfit1,
		Outcome:        outcome,
		PnL:            pnl,
	}
	return appendBounded(j, performanceFile, entry, j.maxSignals)
}

// SaveSnapshot appends a compact snapshot entry for historical review.
func (j *Journal) SaveSnapshot(snapshot *types.MarketSnapshot) error {
	entry := SnapshotEntry{
		Timestamp:         time.Now().Format(time.RFC3339),
		Price:             snapshot.Price,
		Indicators:        snapshot.Indicators,
		NewsCount:         len(snapshot.News),
		HighRelevanceNews: len(snapshot.HighRelevanceNews()),
	}
	return appendBounded(j, snapshotFile, entry, j.maxSnapshots)
}

// Statistics summarizes the analysis journal.
type Statistics struct {
	TotalAnalyses     int                `json:"total_analyses"`
	BuySignals        int                `json:"buy_signals"`
	SellSignals       int                `json:"sell_signals"`
	NoTradeSignals    int                `json:"no_trade_signals"`
	AverageConfidence float64            `json:"average_confidence"`
	ByMode            map[types.Mode]int `json:"analyses_by_mode"`
	TradeSignalRate   float64            `json:"trade_signal_rate"`
}

func (j *Journal) Statistics() (*Statistics, error) {
	var entries []AnalysisEntry
	if err := j.load(analysisFile, &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	stats := &Statistics{
		TotalAnalyses: len(entries),
		ByMode:        map[types.Mode]int{},
	}
	confSum := 0
	for _, e := range entries {
		switch e.Analysis.Recommendation {
		case types.RecBuy:
			stats.BuySignals++
		case types.RecSell:
			stats.SellSignals++
		default:
			stats.NoTradeSignals++
		}
		confSum += e.Analysis.Confidence
		stats.ByMode[e.Analysis.Mode]++
	}
	stats.AverageConfidence = round2(float64(confSum) / float64(len(entries)))
	stats.TradeSignalRate = round1(float64(stats.BuySignals+stats.SellSignals) / float64(len(entries)) * 100)
	return stats, nil
}

// Recent returns the last count analysis entries, oldest first.
func (j *Journal) Recent(count int) ([]AnalysisEntry, error) {
	var entries []AnalysisEntry
	if err := j.load(analysisFile, &entries); err != nil {
		return nil, err
	}
	if len(entries) > count {
		entries = entries[len(entries)-count:]
	}
	return entries, nil
}

func appendBounded[T any](j *Journal, file string, entry T, limit int) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var entries []T
	if err := j.loadLocked(file, &entries); err != nil {
		return err
	}
	entries = append(entries, entry)
	if len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	return j.saveLocked(file, entries)
}

func (j *Journal) load(file string, out any) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.loadLocked(file, out)
}

func (j *Journal) loadLocked(file string, out any) error {
	path := filepath.Join(j.dir, file)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", file, err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}
	return nil
}

func (j *Journal) saveLocked(file string, data any) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(j.dir, file)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
