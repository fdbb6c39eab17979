package main

import (
	"context"
	"fmt"
	"os"

	"gold-trading-assistant/internal/analyzer"
	"gold-trading-assistant/internal/assistant"
	"gold-trading-assistant/internal/collector"
	"gold-trading-assistant/internal/interfaces"
	"gold-trading-assistant/internal/journal"
	"gold-trading-assistant/internal/llm/gemini"
	"gold-trading-assistant/internal/llm/llmobs"
	"gold-trading-assistant/internal/llm/noop"
	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/notify"
	"gold-trading-assistant/internal/store"
	"gold-trading-assistant/internal/trace"

	"github.com/joho/godotenv"
)

// initializeSystem initializes logger and tracer
func initializeSystem() error {
	// Load environment variables
	_ = godotenv.Load()

	// Initialize logger
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	// Initialize tracer
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// loadConfig loads and returns the configuration
func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// initializeCompleter initializes and returns the model client with observability
func initializeCompleter(ctx context.Context, cfg *store.Config) interfaces.Completer {
	var completer interfaces.Completer

	if len(cfg.GeminiKeys) > 0 {
		completer = gemini.New(cfg)
		logger.Info(ctx, "Using Gemini model", "model", cfg.LLM.Model, "keys", len(cfg.GeminiKeys))
	} else {
		completer = noop.New()
		logger.Warn(ctx, "No Gemini API key configured - using Noop completer (always NO_TRADE)")
	}

	// Wrap with observability middleware
	return llmobs.Wrap(completer)
}

// initializeNotifier builds the notification channels from config
func initializeNotifier(ctx context.Context, cfg *store.Config) *notify.Notifier {
	var channels []interfaces.Channel

	if cfg.Notify.Console {
		channels = append(channels, notify.NewConsoleChannel())
	}
	if cfg.Notify.FilePath != "" {
		ch, err := notify.NewFileChannel(cfg.Notify.FilePath)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to open notification file", err, "path", cfg.Notify.FilePath)
		} else {
			channels = append(channels, ch)
		}
	}
	if cfg.Notify.Telegram {
		ch, err := notify.NewTelegramChannel(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to connect to Telegram", err)
		} else {
			channels = append(channels, ch)
		}
	}

	if len(channels) == 0 {
		logger.Warn(ctx, "No notification channels configured - falling back to console")
		channels = append(channels, notify.NewConsoleChannel())
	}

	return notify.New(channels...)
}

// initializeAssistant wires the full analysis pipeline
func initializeAssistant(ctx context.Context, cfg *store.Config) (*assistant.Assistant, error) {
	jr, err := journal.New(cfg.Journal.Dir, journal.Limits{
		Analyses:  cfg.Journal.MaxAnalyses,
		Signals:   cfg.Journal.MaxSignals,
		Snapshots: cfg.Journal.MaxEvents,
	})
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize journal", err, "dir", cfg.Journal.Dir)
		return nil, err
	}

	an := analyzer.New(initializeCompleter(ctx, cfg), analyzer.DefaultAlertThresholds())
	coll := collector.New(cfg)
	nt := initializeNotifier(ctx, cfg)

	return assistant.New(cfg, coll, an, jr, nt), nil
}
