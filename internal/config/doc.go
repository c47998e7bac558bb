// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package config provides centralized configuration management for Skywatch.

Configuration is layered with koanf. Later layers override earlier ones:
  - Built-in defaults (defaultConfig)
  - Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/skywatch/config.yaml)
  - Environment variables (explicitly mapped, see envMappings)

# Configuration Structure

  - DatabaseConfig: DuckDB path, memory and retention
  - OpenSkyConfig: OpenSky REST API endpoint and credentials
  - IngestionConfig: position poller cadence and deduplication
  - ScoringConfig: scoring cadence, lookback, weights, airlift designators, regions
  - ServerConfig / APIConfig: HTTP server, CORS and rate limiting
  - NATSConfig: score event publishing (optional embedded server)
  - SpoolConfig: badger spool used while DuckDB is unavailable
  - LoggingConfig: zerolog level and format
  - SupervisorConfig: suture restart policy

# Environment Variables

Commonly used variables:
  - DUCKDB_PATH: database file (default: /data/skywatch.duckdb)
  - OPENSKY_USERNAME / OPENSKY_PASSWORD: OpenSky credentials
  - POLL_INTERVAL: ingestion poll interval (default: 10s)
  - SCORE_INTERVAL: scoring interval (default: 15m)
  - SCORE_LOOKBACK: scoring window (default: 12h)
  - AIRLIFT_DESIGNATORS: comma-separated model designators
  - HTTP_PORT: listen port (default: 8080)
  - CORS_ORIGINS: comma-separated allowed origins
  - LOG_LEVEL / LOG_FORMAT: logging

Regions can only be set in the YAML file:

	scoring:
	  regions:
	    - name: Baltic
	      min_lat: 53
	      max_lat: 66
	      min_lon: 9
	      max_lon: 31

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	scorer, err := scoring.NewScorer(cfg.Scoring.ScorerConfig())

# Thread Safety

Config is immutable after Load and safe for concurrent reads.
*/
package config
