// Command export runs the analysis once and writes the JSON snapshot used by
// static deployments of the dashboard.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/lauraqiu/clio-lunch-analyzer/internal/analyzer"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/config"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/domain"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/export"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/lexicon"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/logging"
	"github.com/lauraqiu/clio-lunch-analyzer/internal/slack"
)

func main() {
	outPath := flag.String("out", "data/lunch_data.json", "snapshot output path")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	loc, err := cfg.Location()
	if err != nil {
		slog.Error("Failed to load timezone", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	source := slack.New(cfg.SlackToken, cfg.ChannelID)
	pipeline := analyzer.New(source, lexicon.Default(), loc,
		analyzer.WithReplyTimeout(cfg.ReplyFetchTimeout))

	since := time.Now().AddDate(0, 0, -cfg.LookbackDays)
	records, err := pipeline.Analyze(ctx, since)
	if err != nil {
		slog.Error("Analysis failed", "error", err)
		os.Exit(1)
	}
	if len(records) == 0 {
		// Keep the previous snapshot rather than overwriting it with nothing.
		slog.Error("Export aborted", "error", domain.ErrNoData, "lookback_days", cfg.LookbackDays)
		os.Exit(1)
	}

	if err := export.WriteFile(*outPath, export.FromRecords(records)); err != nil {
		slog.Error("Failed to write snapshot", "error", err)
		os.Exit(1)
	}
	slog.Info("Snapshot written", "path", *outPath, "lunches", len(records))
}
