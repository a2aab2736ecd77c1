package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wbb_analytics/ingestion/internal/cache"
	"wbb_analytics/ingestion/internal/client"
	"wbb_analytics/ingestion/internal/config"
	"wbb_analytics/ingestion/internal/metrics"
	"wbb_analytics/ingestion/internal/repository"
	"wbb_analytics/ingestion/internal/scheduler"
	"wbb_analytics/ingestion/internal/store"
	"wbb_analytics/ingestion/internal/walker"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting WBB Analytics Ingestion Worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("season_start", cfg.SeasonStart).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize NCAA API client
	ncaaClient := client.NewClient(
		cfg.NCAAAPIBaseURL,
		cfg.RequestTimeout,
		cfg.RequestRetries,
		cfg.BoxConcurrency,
		cfg.BoxDelay,
	)
	log.Info().Str("base_url", cfg.NCAAAPIBaseURL).Msg("NCAA API client initialized")

	// Optional database sync
	var syncer walker.Syncer
	if cfg.EnableDatabaseSync {
		db, err := repository.NewDatabase(ctx, cfg.DatabaseDSN())
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer db.Close()
		syncer = db
		log.Info().Msg("Database sync enabled")
	}

	// Optional ratings cache
	var cacher walker.RatingsCacher
	if cfg.EnableCache {
		redisCache, err := cache.NewRedisCache(
			cfg.RedisAddr(),
			cfg.RedisPassword,
			cfg.RedisDB,
			time.Duration(cfg.CacheTTL)*time.Second,
		)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		} else {
			defer redisCache.Close()
			cacher = redisCache
			log.Info().Msg("Redis cache connected")
		}
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	w := walker.New(cfg, ncaaClient, store.New(cfg.DataDir), syncer, cacher)

	// Create and start scheduler
	sched := scheduler.NewScheduler(cfg, w)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial pipeline run if enabled
	if cfg.InitialRunEnabled {
		sched.RunInitial(ctx)
	}

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int) {
	http.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
