package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"gold-trading-assistant/internal/assistant"
	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/store"
	"gold-trading-assistant/internal/trace"
	"gold-trading-assistant/internal/types"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() {
		_ = trace.Shutdown(context.Background())
	}()

	cfg, err := loadConfig(ctx)
	must(err)

	if cfg.TelegramToken == "" || cfg.TelegramChatID == 0 {
		log.Fatal("interactive bot requires TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID")
	}

	a, err := initializeAssistant(ctx, cfg)
	must(err)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	must(err)
	logger.Info(ctx, "Telegram bot authorized", "username", api.Self.UserName)

	b := &bot{
		api:       api,
		chatID:    cfg.TelegramChatID,
		assistant: a,
		cfg:       cfg,
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	// Scheduled cycles keep running alongside the command surface.
	go b.runScheduler(ctx)
	go b.runCommandLoop(ctx)

	logger.Info(ctx, "Bot started",
		"mode", cfg.Mode,
		"timeframe", cfg.Timeframe,
		"poll_seconds", cfg.PollSeconds)

	select {
	case <-sigc:
		logger.Info(ctx, "Shutting down...")
		api.StopReceivingUpdates()
	case <-ctx.Done():
	}
}

type bot struct {
	api       *tgbotapi.BotAPI
	chatID    int64
	assistant *assistant.Assistant
	cfg       *store.Config
}

func (b *bot) runScheduler(ctx context.Context) {
	tick := time.NewTicker(time.Duration(b.cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	mode := types.Mode(b.cfg.Mode)
	for {
		select {
		case now := <-tick.C:
			if b.assistant.Paused() || !b.assistant.WithinTradingHours(now) {
				continue
			}
			b.assistant.TryRunCycle(ctx, mode, b.cfg.Timeframe)
		case <-ctx.Done():
			return
		}
	}
}

func (b *bot) runCommandLoop(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		// Only the configured chat may drive the bot.
		if update.Message.Chat.ID != b.chatID {
			continue
		}
		if update.Message.IsCommand() {
			b.handleCommand(ctx, update.Message)
		}
	}
}

func (b *bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	command := message.Command()
	args := strings.Fields(message.CommandArguments())

	user := ""
	if message.From != nil {
		user = message.From.UserName
	}
	logger.Info(ctx, "Telegram command received",
		"command", command,
		"user", user)

	switch command {
	case "start", "help":
		b.reply(helpText)
	case "analyze":
		tf := b.cfg.Timeframe
		if len(args) > 0 {
			tf = strings.ToUpper(args[0])
		}
		b.triggerAnalysis(ctx, tf)
	case "m1", "m3", "m5", "m15", "m30", "h1", "h4", "d1":
		b.triggerAnalysis(ctx, strings.ToUpper(command))
	case "status":
		b.reply(b.statusText())
	case "latest":
		b.reply(b.latestText())
	case "pause":
		b.assistant.Pause()
		b.reply("Scheduled analysis paused. Use /resume to continue.")
	case "resume":
		b.assistant.Resume()
		b.reply("Scheduled analysis resumed.")
	default:
		b.reply(fmt.Sprintf("Unknown command /%s. Use /help for the command list.", command))
	}
}

// triggerAnalysis runs a manual cycle for the given timeframe. Manual
// triggers ignore the trading-hours window but still respect the
// one-cycle-at-a-time rule.
func (b *bot) triggerAnalysis(ctx context.Context, timeframe string) {
	mode := types.ModeForTimeframe(timeframe)
	b.reply(fmt.Sprintf("Starting %s analysis on %s...", mode, timeframe))

	go func() {
		if !b.assistant.TryRunCycle(ctx, mode, timeframe) {
			b.reply("A cycle is already running, trigger skipped.")
		}
	}()
}

func (b *bot) statusText() string {
	st := b.assistant.Status()

	var sb strings.Builder
	sb.WriteString("Assistant Status\n")
	fmt.Fprintf(&sb, "Mode: %s (%s), poll every %ds\n", b.cfg.Mode, b.cfg.Timeframe, b.cfg.PollSeconds)
	fmt.Fprintf(&sb, "Cycles run: %d (skipped: %d)\n", st.Cycles, st.Skipped)
	if !st.LastRun.IsZero() {
		fmt.Fprintf(&sb, "Last cycle: %s\n", st.LastRun.UTC().Format(time.RFC3339))
	}
	if st.Paused {
		sb.WriteString("Scheduling: PAUSED\n")
	} else {
		sb.WriteString("Scheduling: active\n")
	}

	if stats, err := b.assistant.Journal().Statistics(); err == nil && stats != nil {
		fmt.Fprintf(&sb, "\nJournal: %d analyses, %d buy / %d sell / %d no-trade\n",
			stats.TotalAnalyses, stats.BuySignals, stats.SellSignals, stats.NoTradeSignals)
		fmt.Fprintf(&sb, "Avg confidence: %.1f, signal rate: %.1f%%\n",
			stats.AverageConfidence, stats.TradeSignalRate)
	}
	return sb.String()
}

func (b *bot) latestText() string {
	entries, err := b.assistant.Journal().Recent(1)
	if err != nil {
		return fmt.Sprintf("Could not read the journal: %v", err)
	}
	if len(entries) == 0 {
		return "No analyses recorded yet. Use /analyze to run one."
	}

	e := entries[len(entries)-1]
	d := e.Analysis

	var sb strings.Builder
	fmt.Fprintf(&sb, "Latest Analysis (%s)\n", e.AnalysisID)
	fmt.Fprintf(&sb, "Time: %s\n", e.Timestamp)
	fmt.Fprintf(&sb, "Mode: %s | Session: %s\n", d.Mode, d.Session)
	fmt.Fprintf(&sb, "Signal: %s (confidence %d/10)\n", d.Recommendation, d.Confidence)
	fmt.Fprintf(&sb, "Bias: %s (strength %d/10), risk %s\n", d.MarketBias, d.BiasStrength, d.RiskLevel)
	fmt.Fprintf(&sb, "Price: $%.2f\n", d.CurrentPrice)
	if d.StopLoss != nil {
		fmt.Fprintf(&sb, "Stop: $%.2f\n", *d.StopLoss)
	}
	if d.TakeProfit1 != nil {
		fmt.Fprintf(&sb, "Target 1: $%.2f\n", *d.TakeProfit1)
	}
	if d.Invalidation != "" {
		fmt.Fprintf(&sb, "Invalidation: %s\n", d.Invalidation)
	}
	return sb.String()
}

func (b *bot) reply(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.Warn(context.Background(), "Failed to send Telegram reply", "error", err.Error())
	}
}

const helpText = `XAUUSD Analysis Assistant

/analyze [TF] - run an analysis now (TF: M1 M3 M5 M15 M30 H1 H4 D1)
/m1 /m3 /m5 /m15 /m30 /h1 /h4 /d1 - shortcut for /analyze TF
/status - cycle counters and journal statistics
/latest - most recent analysis from the journal
/pause - stop scheduled cycles (manual triggers still work)
/resume - restart scheduled cycles
/help - this message`
