package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the ingestion worker

var (
	// API call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wbb_api_calls_total",
			Help: "Total number of NCAA API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wbb_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wbb_fetch_failures_total",
			Help: "Total number of upstream fetches that failed after retries",
		},
		[]string{"endpoint"},
	)

	// Walker metrics
	ScoreboardDaysSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wbb_scoreboard_days_skipped_total",
			Help: "Days skipped because the scoreboard fetch failed",
		},
	)

	GamesDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wbb_games_discovered_total",
			Help: "New game identifiers discovered on scoreboards",
		},
	)

	GamesFolded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wbb_games_folded_total",
			Help: "Games successfully parsed and folded into season aggregates",
		},
	)

	BoxParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wbb_box_parse_failures_total",
			Help: "Box-score payloads the extractor could not parse",
		},
	)

	// Aggregate metrics
	TeamsAggregated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wbb_teams_aggregated",
			Help: "Number of teams in the current season aggregate",
		},
	)

	ProcessedGames = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wbb_processed_games",
			Help: "Number of game IDs in the processed index",
		},
	)

	// Run metrics
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wbb_runs_total",
			Help: "Total number of pipeline runs",
		},
		[]string{"mode", "status"},
	)

	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wbb_run_duration_seconds",
			Help:    "Duration of pipeline runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"mode"},
	)

	LastSuccessfulRun = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wbb_last_successful_run_timestamp",
			Help: "Timestamp of the last successful pipeline run",
		},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wbb_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wbb_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordFetchFailure records a fetch that failed after exhausting retries
func RecordFetchFailure(endpoint string) {
	FetchFailuresTotal.WithLabelValues(endpoint).Inc()
}

// RecordRun records a completed pipeline run
func RecordRun(mode, status string, duration float64) {
	RunsTotal.WithLabelValues(mode, status).Inc()
	RunDuration.WithLabelValues(mode).Observe(duration)

	if status == "success" {
		LastSuccessfulRun.SetToCurrentTime()
	}
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
}

// UpdateAggregateStats updates gauges describing the current aggregate state
func UpdateAggregateStats(teams, processedGames int) {
	TeamsAggregated.Set(float64(teams))
	ProcessedGames.Set(float64(processedGames))
}
