package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/Jelly-Pudding/ereddicator/internal/config"
	"github.com/Jelly-Pudding/ereddicator/internal/domain"
	"github.com/Jelly-Pudding/ereddicator/internal/journal"
	"github.com/Jelly-Pudding/ereddicator/internal/ledger"
	"github.com/Jelly-Pudding/ereddicator/internal/remote"
	"github.com/Jelly-Pudding/ereddicator/internal/remover"
	"github.com/Jelly-Pudding/ereddicator/internal/replace"
	"github.com/Jelly-Pudding/ereddicator/internal/report"
)

// Listings are incomplete, so one pass rarely sees everything. Passes
// repeat until a pass processes nothing new.
const betweenRuns = 7 * time.Second

func main() {
	// 1. Setup
	godotenv.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	var (
		configPath = flag.String("config", "ereddicator.json", "path to config file")
		dryRun     = flag.Bool("dry-run", false, "force dry-run regardless of config")
	)
	flag.Parse()

	// 2. Load Config
	cfg, created, err := config.LoadOrInit(*configPath)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			logger.Error("invalid configuration", "field", cfgErr.Field, "err", cfgErr.Msg)
		} else {
			logger.Error("failed to load config", "err", err)
		}
		os.Exit(1)
	}
	if created {
		logger.Info("created default config; review it (it defaults to dry_run) and rerun", "path", *configPath)
		os.Exit(0)
	}
	if *dryRun {
		cfg.DryRun = true
	}

	// 3. Run Report Dashboard
	if cfg.ReportPort != "" {
		go func() {
			logger.Info("starting report server", "port", cfg.ReportPort)
			if err := report.StartServer(cfg.JournalPath, cfg.ReportPort); err != nil {
				logger.Error("report server failed", "err", err)
			}
		}()
	}

	// 4. Initialize Clients (Using Factory)
	source, mutator, err := remote.NewClients(&cfg)
	if err != nil {
		logger.Error("failed to initialize remote clients", "error", err)
		os.Exit(1)
	}
	logger.Info("remote clients initialized", "mode", cfg.SourceMode, "dry_run", cfg.DryRun)

	// 5. Open Ledger. Dry runs still read it for skip decisions; the
	// engine never writes to it in dry-run mode.
	store, err := ledger.Open(cfg.LedgerPath)
	if err != nil {
		logger.Error("failed to open ledger", "path", cfg.LedgerPath, "err", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("ledger loaded", "path", cfg.LedgerPath, "known_items", store.Len())

	// 6. Journal Writer
	records := make(chan journal.Record, 100)
	var writerWg sync.WaitGroup
	writer := &journal.WriterService{FilePath: cfg.JournalPath}
	writerWg.Add(1)
	go writer.Start(&writerWg, records)

	// 7. Graceful Shutdown
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutdown signal received; stopping after the current item")
		cancel()
	}()

	// 8. Run Until Quiet
	gen := replace.New()
	totals := make(remover.Summary)
	runCount := 0
	for {
		runCount++
		logger.Info("starting pass", "pass", runCount)

		engine := remover.New(&cfg, source, mutator, store, gen, records, logger)
		summary, err := engine.Run(ctx)
		accumulate(totals, summary)
		if err != nil {
			logger.Info("pass interrupted", "pass", runCount)
			break
		}

		if cfg.DryRun || summary.Total() == 0 {
			break
		}
		logger.Info("content was destroyed; running another pass", "pass", runCount, "processed", summary.Total())
		select {
		case <-ctx.Done():
		case <-time.After(betweenRuns):
		}
		if ctx.Err() != nil {
			break
		}
	}

	close(records)
	writerWg.Wait()

	// 9. Final Summary
	verb := "destroyed"
	if cfg.DryRun {
		verb = "would destroy"
	}
	for _, cat := range domain.Categories {
		c := totals[cat]
		logger.Info("summary", "category", cat, verb, c.Processed, "skipped", c.Skipped, "failed", c.Failed)
	}
	logger.Info("done", "passes", runCount)
}

func accumulate(totals remover.Summary, s remover.Summary) {
	for cat, c := range s {
		t := totals[cat]
		t.Processed += c.Processed
		t.Skipped += c.Skipped
		t.Failed += c.Failed
		totals[cat] = t
	}
}
