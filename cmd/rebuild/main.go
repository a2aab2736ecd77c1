// rebuild is the one-shot CLI: run a single pipeline pass (full rebuild,
// incremental update or missing-game audit) and exit. The long-running
// worker with its scheduler lives in cmd/worker.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wbb_analytics/ingestion/internal/client"
	"wbb_analytics/ingestion/internal/config"
	"wbb_analytics/ingestion/internal/store"
	"wbb_analytics/ingestion/internal/walker"
)

func main() {
	mode := flag.String("mode", "full", "run mode: full, incremental or audit")
	days := flag.Int("days", 0, "override the incremental look-back window in days")
	dryRun := flag.Bool("dry-run", false, "walk and fold but persist nothing")
	flag.Parse()

	setupLogger()

	cfg := config.MustLoad()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, cancelling run...")
		cancel()
	}()

	ncaaClient := client.NewClient(
		cfg.NCAAAPIBaseURL,
		cfg.RequestTimeout,
		cfg.RequestRetries,
		cfg.BoxConcurrency,
		cfg.BoxDelay,
	)

	w := walker.New(cfg, ncaaClient, store.New(cfg.DataDir), nil, nil)

	res, err := w.Run(ctx, walker.Mode(*mode), walker.Options{
		DryRun: *dryRun,
		Days:   *days,
	})
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("Run failed")
	}

	log.Info().
		Str("mode", *mode).
		Int("days_walked", res.DaysWalked).
		Int("days_skipped", res.DaysSkipped).
		Int("discovered", res.Discovered).
		Int("folded", res.Folded).
		Int("parse_failures", res.ParseFailures).
		Int("fetch_failures", res.FetchFailures).
		Int("teams", res.Teams).
		Dur("duration", res.Duration).
		Msg("Run complete")
}

func setupLogger() {
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if parsed, err := zerolog.ParseLevel(lvl); err == nil {
			level = parsed
		}
	}
	zerolog.SetGlobalLevel(level)
}
