// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/skywatch/internal/scoring"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/skywatch/config.yaml",
	"/etc/skywatch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:                   "/data/skywatch.duckdb",
			MaxMemory:              "1GB",
			Threads:                0, // 0 = use runtime.NumCPU()
			PreserveInsertionOrder: true,
			Retention:              30 * 24 * time.Hour,
			PruneInterval:          24 * time.Hour,
		},
		OpenSky: OpenSkyConfig{
			BaseURL:     "https://opensky-network.org/api",
			Timeout:     30 * time.Second,
			MinInterval: 10 * time.Second,
		},
		Ingestion: IngestionConfig{
			Enabled:        true,
			Interval:       10 * time.Second,
			Cooldown:       30 * time.Second,
			TrackedRefresh: time.Hour,
			DedupeWindow:   10 * time.Minute,
			DedupeCapacity: 50000,
		},
		Scoring: ScoringConfig{
			Enabled:            true,
			Interval:           15 * time.Minute,
			Cooldown:           5 * time.Minute,
			Lookback:           12 * time.Hour,
			LoadTimeout:        30 * time.Second,
			PersistTimeout:     10 * time.Second,
			Weights:            scoring.DefaultWeights(),
			AirliftDesignators: append([]string(nil), scoring.DefaultAirliftDesignators...),
			Parallelism:        4,
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		API: APIConfig{
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			StatsCacheTTL:     30 * time.Second,
		},
		NATS: NATSConfig{
			Enabled:        false, // Opt-in: websocket push works without it
			URL:            "nats://127.0.0.1:4222",
			EmbeddedServer: true,
			Host:           "127.0.0.1",
			Port:           4222,
			StoreDir:       "/data/nats/jetstream",
			MaxMemory:      64 << 20,  // 64MB
			MaxStore:       512 << 20, // 512MB
			SubjectPrefix:  "skywatch.scores",
		},
		Spool: SpoolConfig{
			Enabled: true,
			Path:    "/data/spool",
			MaxAge:  24 * time.Hour,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Supervisor: SupervisorConfig{
			FailureThreshold: 5,
			FailureDecay:     30,
			FailureBackoff:   15 * time.Second,
			ShutdownTimeout:  10 * time.Second,
		},
	}
}

// Load loads configuration with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
//
// Regions can only be configured in the YAML file.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path, used by the CLIs.
// An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"api.cors_origins",
	"scoring.airlift_designators",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Database
	"duckdb_path":        "database.path",
	"duckdb_max_memory":  "database.max_memory",
	"duckdb_threads":     "database.threads",
	"position_retention": "database.retention",
	"prune_interval":     "database.prune_interval",

	// OpenSky
	"opensky_url":          "opensky.base_url",
	"opensky_username":     "opensky.username",
	"opensky_password":     "opensky.password",
	"opensky_timeout":      "opensky.timeout",
	"opensky_min_interval": "opensky.min_interval",

	// Ingestion
	"ingestion_enabled": "ingestion.enabled",
	"poll_interval":     "ingestion.interval",
	"poll_cooldown":     "ingestion.cooldown",
	"tracked_refresh":   "ingestion.tracked_refresh",
	"dedupe_window":     "ingestion.dedupe_window",

	// Scoring
	"scoring_enabled":            "scoring.enabled",
	"score_interval":             "scoring.interval",
	"score_cooldown":             "scoring.cooldown",
	"score_lookback":             "scoring.lookback",
	"score_load_timeout":         "scoring.load_timeout",
	"score_persist_timeout":      "scoring.persist_timeout",
	"score_weight_convergence":   "scoring.weights.convergence",
	"score_weight_night_flight":  "scoring.weights.night_flight",
	"score_weight_airlift":       "scoring.weights.airlift",
	"score_weight_vip_movement":  "scoring.weights.vip_movement",
	"airlift_designators":        "scoring.airlift_designators",
	"score_parallelism":          "scoring.parallelism",

	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",

	// API
	"cors_origins":        "api.cors_origins",
	"rate_limit_requests": "api.rate_limit_requests",
	"rate_limit_window":   "api.rate_limit_window",
	"disable_rate_limit":  "api.rate_limit_disabled",
	"stats_cache_ttl":     "api.stats_cache_ttl",

	// NATS
	"nats_enabled":        "nats.enabled",
	"nats_url":            "nats.url",
	"nats_embedded":       "nats.embedded_server",
	"nats_store_dir":      "nats.store_dir",
	"nats_subject_prefix": "nats.subject_prefix",

	// Spool
	"spool_enabled": "spool.enabled",
	"spool_path":    "spool.path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - DUCKDB_PATH -> database.path
//   - OPENSKY_USERNAME -> opensky.username
//   - SCORE_INTERVAL -> scoring.interval
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so random environment variables
	// never pollute the config
	return ""
}
