package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Upstream NCAA API
	NCAAAPIBaseURL string        `envconfig:"NCAA_API_BASE_URL" default:"https://ncaa-api.henrygd.me"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"20s"`
	RequestRetries int           `envconfig:"REQUEST_RETRIES" default:"3"`

	// Box-score fetching
	BoxConcurrency int           `envconfig:"BOX_CONCURRENCY" default:"4"`
	BoxDelay       time.Duration `envconfig:"BOX_DELAY" default:"400ms"`

	// Season window
	Sport       string `envconfig:"SPORT" default:"basketball-women"`
	Division    string `envconfig:"DIVISION" default:"d1"`
	SeasonStart string `envconfig:"SEASON_START" default:"2025-11-01"`

	// Incremental runs re-walk the most recent days to catch late corrections
	IncrementalDays int `envconfig:"INCREMENTAL_DAYS" default:"2"`

	// Output sanity floor: refuse to persist an aggregate covering fewer
	// teams than this, preserving the last known-good state
	MinTeamsRequired int `envconfig:"MIN_TEAMS_REQUIRED" default:"300"`

	// State files
	DataDir string `envconfig:"DATA_DIR" default:"public/data"`

	// Database (optional sync of aggregates for the read side)
	EnableDatabaseSync bool   `envconfig:"ENABLE_DATABASE_SYNC" default:"false"`
	DatabaseHost       string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort       int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName       string `envconfig:"DATABASE_NAME" default:"wbb_analytics"`
	DatabaseUser       string `envconfig:"DATABASE_USER" default:"wbb_user"`
	DatabasePassword   string `envconfig:"DATABASE_PASSWORD" default:""`
	DatabaseSSLMode    string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis (optional cache of the generated ratings document)
	EnableCache   bool   `envconfig:"ENABLE_CACHE" default:"false"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      int    `envconfig:"CACHE_TTL_RATINGS" default:"600"` // seconds

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler         bool   `envconfig:"ENABLE_SCHEDULER" default:"true"`
	InitialRunEnabled       bool   `envconfig:"INITIAL_RUN_ENABLED" default:"true"`
	NightlyRebuildCron      string `envconfig:"NIGHTLY_REBUILD_CRON" default:"0 9 * * *"`
	IncrementalPollInterval int    `envconfig:"INCREMENTAL_POLL_INTERVAL" default:"3600"` // seconds

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if present
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if _, err := time.Parse("2006-01-02", c.SeasonStart); err != nil {
		return fmt.Errorf("SEASON_START must be YYYY-MM-DD: %w", err)
	}

	if c.BoxConcurrency < 1 {
		return fmt.Errorf("BOX_CONCURRENCY must be at least 1")
	}

	if c.RequestRetries < 0 {
		return fmt.Errorf("REQUEST_RETRIES must not be negative")
	}

	if c.EnableDatabaseSync && c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required when ENABLE_DATABASE_SYNC is set")
	}

	return nil
}

// SeasonStartDate returns the parsed season start in UTC.
func (c *Config) SeasonStartDate() time.Time {
	t, _ := time.Parse("2006-01-02", c.SeasonStart)
	return t.UTC()
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
