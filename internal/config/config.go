// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package config

import (
	"time"

	"github.com/tomtom215/skywatch/internal/scoring"
)

// Config holds all application configuration.
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access from multiple goroutines.
type Config struct {
	Database   DatabaseConfig   `koanf:"database"`
	OpenSky    OpenSkyConfig    `koanf:"opensky"`
	Ingestion  IngestionConfig  `koanf:"ingestion"`
	Scoring    ScoringConfig    `koanf:"scoring"`
	Server     ServerConfig     `koanf:"server"`
	API        APIConfig        `koanf:"api"`
	NATS       NATSConfig       `koanf:"nats"`
	Spool      SpoolConfig      `koanf:"spool"`
	Logging    LoggingConfig    `koanf:"logging"`
	Supervisor SupervisorConfig `koanf:"supervisor"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"`                  // Number of DuckDB threads (0 = use NumCPU)
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"` // Whether to preserve insertion order (default true)
	SkipIndexes            bool   `koanf:"skip_indexes"`             // Skip index creation (for fast test setup)

	// Retention is how long flight positions are kept. Scores are kept forever.
	Retention time.Duration `koanf:"retention"`

	// PruneInterval is how often expired positions are deleted.
	PruneInterval time.Duration `koanf:"prune_interval"`
}

// OpenSkyConfig holds the OpenSky Network REST API settings.
//
// Environment Variables:
//   - OPENSKY_URL: API base URL (default: https://opensky-network.org/api)
//   - OPENSKY_USERNAME / OPENSKY_PASSWORD: optional basic auth credentials
//   - OPENSKY_TIMEOUT: per-request timeout (default: 30s)
//   - OPENSKY_MIN_INTERVAL: minimum spacing between requests (default: 10s)
type OpenSkyConfig struct {
	BaseURL     string        `koanf:"base_url"`
	Username    string        `koanf:"username"`
	Password    string        `koanf:"password"`
	Timeout     time.Duration `koanf:"timeout"`
	MinInterval time.Duration `koanf:"min_interval"`
}

// IngestionConfig controls the position poller loop.
type IngestionConfig struct {
	Enabled bool `koanf:"enabled"`

	// Interval between polls, and Cooldown after a failed poll.
	Interval time.Duration `koanf:"interval"`
	Cooldown time.Duration `koanf:"cooldown"`

	// TrackedRefresh is how often the tracked aircraft set is reloaded.
	TrackedRefresh time.Duration `koanf:"tracked_refresh"`

	// DedupeWindow suppresses repeated (icao, time_position) samples.
	DedupeWindow   time.Duration `koanf:"dedupe_window"`
	DedupeCapacity int           `koanf:"dedupe_capacity"`
}

// ScoringConfig controls the scoring loop and the detector parameters
// an operator is expected to tune.
type ScoringConfig struct {
	Enabled bool `koanf:"enabled"`

	Interval       time.Duration `koanf:"interval"`
	Cooldown       time.Duration `koanf:"cooldown"`
	Lookback       time.Duration `koanf:"lookback"`
	LoadTimeout    time.Duration `koanf:"load_timeout"`
	PersistTimeout time.Duration `koanf:"persist_timeout"`

	Weights scoring.Weights `koanf:"weights"`

	// AirliftDesignators are matched as case-sensitive substrings of the aircraft type.
	AirliftDesignators []string `koanf:"airlift_designators"`

	// Regions are scored in addition to Global.
	Regions []scoring.Region `koanf:"regions"`

	// Parallelism bounds how many detectors run at once.
	Parallelism int `koanf:"parallelism"`
}

// ScorerConfig builds the detector configuration, starting from the
// production defaults and applying the configured overrides.
func (c ScoringConfig) ScorerConfig() scoring.ScorerConfig {
	cfg := scoring.DefaultScorerConfig()
	cfg.Weights = c.Weights
	if len(c.AirliftDesignators) > 0 {
		cfg.Airlift.Designators = append([]string(nil), c.AirliftDesignators...)
	}
	if c.Parallelism > 0 {
		cfg.Parallelism = c.Parallelism
	}
	return cfg
}

// EngineConfig builds the scoring cycle configuration.
func (c ScoringConfig) EngineConfig() scoring.EngineConfig {
	return scoring.EngineConfig{
		Lookback:       c.Lookback,
		LoadTimeout:    c.LoadTimeout,
		PersistTimeout: c.PersistTimeout,
		Regions:        append([]scoring.Region(nil), c.Regions...),
	}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig holds read API settings.
type APIConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// StatsCacheTTL is how long /stats responses are served from memory.
	StatsCacheTTL time.Duration `koanf:"stats_cache_ttl"`
}

// NATSConfig holds score event publishing settings.
type NATSConfig struct {
	// Enabled controls whether score events are published.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server with JetStream.
	// If false, expects an external NATS server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// Host and Port are the embedded server listen address.
	Host string `koanf:"host"`
	Port int    `koanf:"port"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory and MaxStore bound JetStream resources in bytes.
	MaxMemory int64 `koanf:"max_memory"`
	MaxStore  int64 `koanf:"max_store"`

	// SubjectPrefix is followed by the region name.
	SubjectPrefix string `koanf:"subject_prefix"`
}

// SpoolConfig holds the badger position spool settings.
type SpoolConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`

	// SyncWrites fsyncs every spool write.
	SyncWrites bool `koanf:"sync_writes"`

	// MaxAge drops spooled batches older than this on drain.
	MaxAge time.Duration `koanf:"max_age"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// SupervisorConfig holds suture supervisor tree settings.
type SupervisorConfig struct {
	FailureThreshold float64       `koanf:"failure_threshold"`
	FailureDecay     float64       `koanf:"failure_decay"`
	FailureBackoff   time.Duration `koanf:"failure_backoff"`
	ShutdownTimeout  time.Duration `koanf:"shutdown_timeout"`
}
