// Package walker coordinates a pipeline run: it walks the season's scoreboard
// days, discovers game IDs, fetches and parses box scores with a bounded
// worker pool, folds the results into the season aggregates and persists the
// outcome. All folding happens on the coordinating goroutine; workers only
// fetch and parse.
package walker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"wbb_analytics/ingestion/internal/aggregate"
	"wbb_analytics/ingestion/internal/client"
	"wbb_analytics/ingestion/internal/config"
	"wbb_analytics/ingestion/internal/extract"
	"wbb_analytics/ingestion/internal/metrics"
	"wbb_analytics/ingestion/internal/models"
	"wbb_analytics/ingestion/internal/store"
)

// Mode selects what a run does.
type Mode string

const (
	// ModeFull rebuilds the season from scratch: every day since the season
	// start is walked and every game is re-fetched.
	ModeFull Mode = "full"

	// ModeIncremental resumes from persisted state and walks only the most
	// recent days, folding games not yet in the processed index.
	ModeIncremental Mode = "incremental"

	// ModeAudit walks the full season and reports games whose box scores the
	// upstream never served, without touching the aggregates.
	ModeAudit Mode = "audit"
)

// Fetcher is the upstream surface the walker needs.
type Fetcher interface {
	FetchScoreboard(ctx context.Context, sport, division string, day time.Time) (interface{}, error)
	FetchBoxScore(ctx context.Context, gameID string) (interface{}, error)
}

// Syncer mirrors the finished aggregates into an external database.
type Syncer interface {
	SyncSeason(ctx context.Context, teams []models.TeamSeasonAggregate, ratings []models.RatingsRow, players []models.PlayerSeasonAggregate, games []models.GameLogEntry) error
}

// RatingsCacher publishes the finished ratings document to a cache.
type RatingsCacher interface {
	SetRatings(ctx context.Context, doc models.RatingsDoc) error
}

// Options tunes a single run.
type Options struct {
	// DryRun performs the full walk and fold but persists nothing.
	DryRun bool

	// Days overrides the incremental look-back window when positive.
	Days int
}

// Result summarizes a completed run.
type Result struct {
	Mode          Mode
	DaysWalked    int
	DaysSkipped   int
	Discovered    int
	Folded        int
	ParseFailures int
	FetchFailures int
	Teams         int
	Duration      time.Duration
}

// Walker drives pipeline runs. Safe to reuse across runs; runs themselves
// must not overlap (the scheduler serializes them).
type Walker struct {
	cfg     *config.Config
	fetcher Fetcher
	store   *store.Store

	// Optional sinks; nil means the concern is disabled.
	syncer Syncer
	cacher RatingsCacher
}

// New creates a walker. syncer and cacher may be nil.
func New(cfg *config.Config, fetcher Fetcher, st *store.Store, syncer Syncer, cacher RatingsCacher) *Walker {
	return &Walker{
		cfg:     cfg,
		fetcher: fetcher,
		store:   st,
		syncer:  syncer,
		cacher:  cacher,
	}
}

// discoveredGame is one scoreboard sighting: a game ID and the day it was
// listed under.
type discoveredGame struct {
	id   string
	date string
}

// boxResult is one worker's outcome for a single game. game is nil when the
// fetch failed or the payload was unparseable.
type boxResult struct {
	id    string
	date  string
	game  *models.GameBoxScore
	fetch error
}

// Run executes one pipeline run in the given mode.
func (w *Walker) Run(ctx context.Context, mode Mode, opts Options) (*Result, error) {
	start := time.Now()

	var (
		res *Result
		err error
	)
	switch mode {
	case ModeFull, ModeIncremental:
		res, err = w.runBuild(ctx, mode, opts)
	case ModeAudit:
		res, err = w.runAudit(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown run mode %q", mode)
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.RecordRun(string(mode), status, time.Since(start).Seconds())

	if res != nil {
		res.Duration = time.Since(start)
	}
	return res, err
}

// runBuild is the full/incremental aggregation pipeline.
func (w *Walker) runBuild(ctx context.Context, mode Mode, opts Options) (*Result, error) {
	res := &Result{Mode: mode}

	season := aggregate.NewSeason()
	processed := make(store.GameIndex)

	if mode == ModeIncremental {
		state := w.store.Load()
		season = aggregate.Resume(state.Teams, state.Players, state.GameLog)
		processed = state.Processed
	}

	from, to := w.window(mode, opts)
	log.Info().
		Str("mode", string(mode)).
		Str("from", from.Format("2006-01-02")).
		Str("to", to.Format("2006-01-02")).
		Bool("dry_run", opts.DryRun).
		Msg("Starting pipeline run")

	discovered := w.walkDays(ctx, from, to, processed, res)
	res.Discovered = len(discovered)
	metrics.GamesDiscovered.Add(float64(len(discovered)))

	for result := range w.fetchGames(ctx, discovered) {
		if result.fetch != nil {
			res.FetchFailures++
			continue
		}
		if result.game == nil {
			// Unparseable payloads stay out of the processed index so a
			// later run retries them once the upstream fills in the data.
			res.ParseFailures++
			metrics.BoxParseFailures.Inc()
			log.Warn().Str("game_id", result.id).Str("date", result.date).Msg("Box score payload not parseable")
			continue
		}

		season.Fold(result.game)
		processed.Add(result.id)
		res.Folded++
		metrics.GamesFolded.Inc()
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Teams = season.TeamCount()
	metrics.UpdateAggregateStats(season.TeamCount(), len(processed))

	if season.TeamCount() < w.cfg.MinTeamsRequired {
		return res, fmt.Errorf("aggregate covers %d teams, below the floor of %d; keeping previous state",
			season.TeamCount(), w.cfg.MinTeamsRequired)
	}

	if opts.DryRun {
		log.Info().
			Int("teams", res.Teams).
			Int("folded", res.Folded).
			Msg("Dry run complete, nothing persisted")
		return res, nil
	}

	out := store.Output{
		SeasonStart:  w.cfg.SeasonStart,
		Teams:        season.Teams(),
		Players:      season.Players(),
		GameLog:      season.GameLog(),
		Ratings:      season.Ratings(),
		ProcessedIDs: processed.IDs(),
	}
	if err := w.store.Save(out); err != nil {
		return res, fmt.Errorf("failed to persist run output: %w", err)
	}

	w.publish(ctx, out)

	log.Info().
		Int("teams", res.Teams).
		Int("discovered", res.Discovered).
		Int("folded", res.Folded).
		Int("parse_failures", res.ParseFailures).
		Int("fetch_failures", res.FetchFailures).
		Int("days_skipped", res.DaysSkipped).
		Msg("Pipeline run complete")

	return res, nil
}

// publish pushes the finished output to the optional database and cache
// sinks. Failures there degrade to warnings; the JSON state on disk is the
// source of truth.
func (w *Walker) publish(ctx context.Context, out store.Output) {
	if w.syncer != nil {
		if err := w.syncer.SyncSeason(ctx, out.Teams, out.Ratings, out.Players, out.GameLog); err != nil {
			log.Warn().Err(err).Msg("Database sync failed")
		}
	}
	if w.cacher != nil {
		doc := models.RatingsDoc{
			GeneratedAtUTC: time.Now().UTC().Format(time.RFC3339),
			SeasonStart:    out.SeasonStart,
			Rows:           out.Ratings,
		}
		if err := w.cacher.SetRatings(ctx, doc); err != nil {
			log.Warn().Err(err).Msg("Ratings cache update failed")
		}
	}
}

// runAudit walks the whole season and probes every discovered game that never
// made it into the processed index, recording why.
func (w *Walker) runAudit(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{Mode: ModeAudit}

	state := w.store.Load()
	from, to := w.window(ModeFull, opts)

	discoveredAll := w.walkAllDays(ctx, from, to, res)
	res.Discovered = len(discoveredAll)

	var unprocessed []discoveredGame
	for _, g := range discoveredAll {
		if !state.Processed.Has(g.id) {
			unprocessed = append(unprocessed, g)
		}
	}

	log.Info().
		Int("discovered", len(discoveredAll)).
		Int("unprocessed", len(unprocessed)).
		Msg("Auditing games missing from the processed index")

	var missing []models.MissingGame
	for result := range w.fetchGames(ctx, unprocessed) {
		status := ""
		switch {
		case result.fetch != nil:
			res.FetchFailures++
			status = auditStatus(result.fetch)
		case result.game == nil:
			res.ParseFailures++
			status = "unparseable"
		default:
			// Box score is available now; an incremental run will pick it up.
			continue
		}
		missing = append(missing, models.MissingGame{
			GameID: result.id,
			Date:   result.date,
			URL:    fmt.Sprintf("https://www.ncaa.com/game/%s", result.id),
			Status: status,
		})
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}

	if opts.DryRun {
		log.Info().Int("missing", len(missing)).Msg("Audit dry run complete, nothing persisted")
		return res, nil
	}

	if err := w.store.SaveMissingGames(missing, len(discoveredAll)); err != nil {
		return res, fmt.Errorf("failed to persist audit result: %w", err)
	}

	log.Info().
		Int("checked", len(discoveredAll)).
		Int("missing", len(missing)).
		Msg("Audit complete")

	return res, nil
}

// auditStatus renders a fetch error as the short status kept in the audit
// report.
func auditStatus(err error) string {
	var ferr *client.FetchError
	if errors.As(err, &ferr) {
		if ferr.Kind == client.FailHTTP {
			return fmt.Sprintf("http_%d", ferr.Status)
		}
		return string(ferr.Kind)
	}
	return "error"
}

// window computes the inclusive day range for a run. Incremental runs re-walk
// the configured trailing days to catch late box-score corrections; the
// window never starts before the season does.
func (w *Walker) window(mode Mode, opts Options) (from, to time.Time) {
	seasonStart := w.cfg.SeasonStartDate()
	to = time.Now().UTC().Truncate(24 * time.Hour)

	if mode != ModeIncremental {
		return seasonStart, to
	}

	days := w.cfg.IncrementalDays
	if opts.Days > 0 {
		days = opts.Days
	}
	from = to.AddDate(0, 0, -days)
	if from.Before(seasonStart) {
		from = seasonStart
	}
	return from, to
}

// walkDays walks the scoreboards from from to to, returning newly discovered
// games not yet in the processed index. A failed scoreboard day is skipped
// and counted, never fatal.
func (w *Walker) walkDays(ctx context.Context, from, to time.Time, processed store.GameIndex, res *Result) []discoveredGame {
	var out []discoveredGame
	seen := make(map[string]struct{})

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if ctx.Err() != nil {
			return out
		}
		res.DaysWalked++

		payload, err := w.fetcher.FetchScoreboard(ctx, w.cfg.Sport, w.cfg.Division, day)
		if err != nil {
			res.DaysSkipped++
			metrics.ScoreboardDaysSkipped.Inc()
			log.Warn().Str("day", day.Format("2006-01-02")).Err(err).Msg("Scoreboard fetch failed, skipping day")
			continue
		}

		date := day.Format("2006-01-02")
		for _, id := range extract.ExtractGameIDs(payload) {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			if processed.Has(id) {
				continue
			}
			out = append(out, discoveredGame{id: id, date: date})
		}
	}
	return out
}

// walkAllDays is walkDays without the processed-index filter, for audits.
func (w *Walker) walkAllDays(ctx context.Context, from, to time.Time, res *Result) []discoveredGame {
	return w.walkDays(ctx, from, to, make(store.GameIndex), res)
}

// fetchGames fans the discovered games out to a bounded worker pool that
// fetches and parses box scores, and returns the channel of results. The
// channel closes once every game has been attempted.
func (w *Walker) fetchGames(ctx context.Context, games []discoveredGame) <-chan boxResult {
	results := make(chan boxResult)
	jobs := make(chan discoveredGame)

	workers := w.cfg.BoxConcurrency
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for g := range jobs {
				results <- w.fetchOne(ctx, g)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, g := range games {
			select {
			case <-ctx.Done():
				return
			case jobs <- g:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// fetchOne fetches and parses a single game's box score.
func (w *Walker) fetchOne(ctx context.Context, g discoveredGame) boxResult {
	if ctx.Err() != nil {
		return boxResult{id: g.id, date: g.date, fetch: ctx.Err()}
	}

	payload, err := w.fetcher.FetchBoxScore(ctx, g.id)
	if err != nil {
		return boxResult{id: g.id, date: g.date, fetch: err}
	}

	game, ok := extract.ExtractGame(g.id, payload, g.date)
	if !ok {
		return boxResult{id: g.id, date: g.date}
	}
	return boxResult{id: g.id, date: g.date, game: game}
}
