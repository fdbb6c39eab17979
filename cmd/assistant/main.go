package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gold-trading-assistant/internal/logger"
	"gold-trading-assistant/internal/trace"
	"gold-trading-assistant/internal/types"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	once := flag.Bool("once", false, "run a single analysis cycle and exit")
	timeframeFlag := flag.String("timeframe", "", "override the configured timeframe (M1..D1)")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() {
		_ = trace.Shutdown(context.Background())
	}()

	cfg, err := loadConfig(ctx)
	must(err)

	a, err := initializeAssistant(ctx, cfg)
	must(err)

	mode := types.Mode(cfg.Mode)
	timeframe := cfg.Timeframe
	if *timeframeFlag != "" {
		timeframe = *timeframeFlag
		mode = types.ModeForTimeframe(timeframe)
	}

	if *once {
		logger.Info(ctx, "Running single analysis cycle",
			"mode", string(mode), "timeframe", timeframe)
		a.TryRunCycle(ctx, mode, timeframe)
		return
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Assistant started",
		"mode", string(mode),
		"timeframe", timeframe,
		"poll_seconds", cfg.PollSeconds)
	a.Announce(ctx, fmt.Sprintf("Assistant started: %s on %s, polling every %ds",
		mode, timeframe, cfg.PollSeconds))

	// First cycle runs immediately, the ticker paces the rest.
	a.TryRunCycle(ctx, mode, timeframe)

	for {
		select {
		case now := <-tick.C:
			if a.Paused() {
				continue
			}
			if !a.WithinTradingHours(now) {
				logger.Info(ctx, "Outside trading hours, cycle skipped", "hour", now.UTC().Hour())
				continue
			}
			a.TryRunCycle(ctx, mode, timeframe)
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			st := a.Status()
			a.Announce(ctx, fmt.Sprintf("Assistant stopped after %d cycles", st.Cycles))
			return
		case <-ctx.Done():
			return
		}
	}
}
