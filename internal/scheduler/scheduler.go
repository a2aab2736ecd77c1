// Package scheduler drives the recurring pipeline runs: a nightly full
// rebuild on a cron expression and a polling ticker for incremental updates.
// Runs are serialized; a tick that fires while a run is still going is
// dropped rather than queued.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"wbb_analytics/ingestion/internal/config"
	"wbb_analytics/ingestion/internal/walker"
)

// Scheduler manages the background pipeline runs.
type Scheduler struct {
	cfg      *config.Config
	walker   *walker.Walker
	cron     *cron.Cron
	ticker   *time.Ticker
	stopChan chan struct{}

	// Guards against overlapping runs; held for the whole run.
	runMu sync.Mutex
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg *config.Config, w *walker.Walker) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		walker:   w,
		cron:     cron.New(),
		stopChan: make(chan struct{}),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	log.Info().Msg("Scheduler starting...")

	// Nightly full rebuild
	if _, err := s.cron.AddFunc(s.cfg.NightlyRebuildCron, func() {
		log.Info().Msg("Running nightly full rebuild...")
		s.run(ctx, walker.ModeFull)
	}); err != nil {
		return fmt.Errorf("failed to schedule nightly rebuild: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cfg.NightlyRebuildCron).
		Msg("Nightly full rebuild scheduled")

	// Incremental polling ticker
	interval := time.Duration(s.cfg.IncrementalPollInterval) * time.Second
	s.ticker = time.NewTicker(interval)
	log.Info().
		Dur("interval", interval).
		Msg("Incremental polling started")

	go s.pollIncremental(ctx)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	log.Info().Msg("Stopping scheduler...")

	if s.cron != nil {
		s.cron.Stop()
	}

	if s.ticker != nil {
		s.ticker.Stop()
	}

	close(s.stopChan)
	log.Info().Msg("Scheduler stopped")
}

// RunInitial performs the startup run: incremental when persisted state
// exists and is worth resuming, full otherwise. Used once at boot.
func (s *Scheduler) RunInitial(ctx context.Context) {
	log.Info().Msg("Running initial pipeline run...")
	s.run(ctx, walker.ModeIncremental)
}

// pollIncremental fires incremental runs on the ticker until stopped.
func (s *Scheduler) pollIncremental(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Context cancelled, stopping incremental polling")
			return
		case <-s.stopChan:
			log.Info().Msg("Stop signal received, stopping incremental polling")
			return
		case <-s.ticker.C:
			s.run(ctx, walker.ModeIncremental)
		}
	}
}

// run executes one pipeline run, skipping if another run is in flight.
func (s *Scheduler) run(ctx context.Context, mode walker.Mode) {
	if !s.runMu.TryLock() {
		log.Warn().Str("mode", string(mode)).Msg("Previous run still in flight, skipping")
		return
	}
	defer s.runMu.Unlock()

	res, err := s.walker.Run(ctx, mode, walker.Options{})
	if err != nil {
		log.Error().Err(err).Str("mode", string(mode)).Msg("Pipeline run failed")
		return
	}

	log.Info().
		Str("mode", string(mode)).
		Int("discovered", res.Discovered).
		Int("folded", res.Folded).
		Int("teams", res.Teams).
		Dur("duration", res.Duration).
		Msg("Scheduled run finished")
}
