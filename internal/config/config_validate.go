// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateDatabase,
		c.validateOpenSky,
		c.validateIngestion,
		c.validateScoring,
		c.validateServer,
		c.validateRateLimits,
		c.validateNATS,
		c.validateSpool,
		c.validateLogging,
	}

	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

// validateDatabase validates DuckDB settings
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be 0 (auto) or positive")
	}
	if c.Database.Retention < time.Hour {
		return fmt.Errorf("POSITION_RETENTION must be at least 1h")
	}
	if c.Database.PruneInterval <= 0 {
		return fmt.Errorf("PRUNE_INTERVAL must be positive")
	}
	return nil
}

// validateOpenSky validates the OpenSky client settings (only if ingestion is enabled)
func (c *Config) validateOpenSky() error {
	if !c.Ingestion.Enabled {
		return nil
	}
	if err := validateHTTPURL(c.OpenSky.BaseURL); err != nil {
		return fmt.Errorf("OPENSKY_URL is invalid: %w", err)
	}
	if (c.OpenSky.Username == "") != (c.OpenSky.Password == "") {
		return fmt.Errorf("OPENSKY_USERNAME and OPENSKY_PASSWORD must be set together")
	}
	if c.OpenSky.Timeout <= 0 {
		return fmt.Errorf("OPENSKY_TIMEOUT must be positive")
	}
	if c.OpenSky.MinInterval < 0 {
		return fmt.Errorf("OPENSKY_MIN_INTERVAL must not be negative")
	}
	return nil
}

// validateIngestion validates poller settings (only if enabled)
func (c *Config) validateIngestion() error {
	if !c.Ingestion.Enabled {
		return nil
	}
	if c.Ingestion.Interval < time.Second {
		return fmt.Errorf("POLL_INTERVAL must be at least 1s")
	}
	if c.Ingestion.Cooldown < 0 {
		return fmt.Errorf("POLL_COOLDOWN must not be negative")
	}
	if c.Ingestion.TrackedRefresh < time.Minute {
		return fmt.Errorf("TRACKED_REFRESH must be at least 1m")
	}
	if c.Ingestion.DedupeCapacity < 1 {
		return fmt.Errorf("ingestion.dedupe_capacity must be positive")
	}
	return nil
}

// validateScoring validates the scoring loop and detector overrides
func (c *Config) validateScoring() error {
	s := c.Scoring
	if s.Lookback <= 0 {
		return fmt.Errorf("SCORE_LOOKBACK must be positive")
	}
	if s.LoadTimeout <= 0 || s.PersistTimeout <= 0 {
		return fmt.Errorf("SCORE_LOAD_TIMEOUT and SCORE_PERSIST_TIMEOUT must be positive")
	}
	if s.Enabled && s.Interval < time.Minute {
		return fmt.Errorf("SCORE_INTERVAL must be at least 1m")
	}
	if s.Cooldown < 0 {
		return fmt.Errorf("SCORE_COOLDOWN must not be negative")
	}
	if err := s.ScorerConfig().Validate(); err != nil {
		return fmt.Errorf("scoring configuration is invalid: %w", err)
	}
	return c.validateRegions()
}

// validateRegions validates the configured bounding boxes
func (c *Config) validateRegions() error {
	seen := make(map[string]bool, len(c.Scoring.Regions))
	for i, r := range c.Scoring.Regions {
		if strings.TrimSpace(r.Name) == "" {
			return fmt.Errorf("scoring.regions[%d]: name is required", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("scoring.regions[%d]: duplicate region %q", i, r.Name)
		}
		seen[r.Name] = true

		// Global is always scored unbounded; any other region needs a box.
		if r.IsGlobal() {
			if r.Name != models.GlobalRegion {
				return fmt.Errorf("scoring.regions[%d] (%s): bounding box is required", i, r.Name)
			}
			continue
		}
		if r.Name == models.GlobalRegion {
			return fmt.Errorf("scoring.regions[%d]: %s is reserved for the unbounded region", i, models.GlobalRegion)
		}
		if r.MinLat < -90 || r.MaxLat > 90 || r.MinLat > r.MaxLat {
			return fmt.Errorf("scoring.regions[%d] (%s): latitude bounds must satisfy -90 <= min_lat <= max_lat <= 90", i, r.Name)
		}
		if r.MinLon < -180 || r.MinLon > 180 || r.MaxLon < -180 || r.MaxLon > 180 {
			return fmt.Errorf("scoring.regions[%d] (%s): longitude bounds must be within [-180, 180]", i, r.Name)
		}
	}
	return nil
}

// validateServer validates HTTP server settings
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("HTTP_SHUTDOWN_TIMEOUT must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.API.RateLimitDisabled {
		return nil
	}

	if c.API.RateLimitRequests < minRateLimitRequests || c.API.RateLimitRequests > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.API.RateLimitWindow < minRateLimitWindow || c.API.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// NATS limit constants
const (
	natsMinMemory = 16 * 1024 * 1024 // 16MB
	natsMinStore  = 64 * 1024 * 1024 // 64MB
)

// validateNATS validates NATS configuration (only if enabled)
func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}

	if err := validateNATSURL(c.NATS.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if c.NATS.SubjectPrefix == "" || strings.ContainsAny(c.NATS.SubjectPrefix, " *>") {
		return fmt.Errorf("NATS_SUBJECT_PREFIX must be a non-empty literal subject")
	}
	if !c.NATS.EmbeddedServer {
		return nil
	}
	if c.NATS.StoreDir == "" {
		return fmt.Errorf("NATS_STORE_DIR is required for the embedded server")
	}
	if c.NATS.MaxMemory < natsMinMemory {
		return fmt.Errorf("nats.max_memory must be at least 16MB (16777216 bytes)")
	}
	if c.NATS.MaxStore < natsMinStore {
		return fmt.Errorf("nats.max_store must be at least 64MB (67108864 bytes)")
	}
	return nil
}

// validateSpool validates the ingestion spool (only if enabled)
func (c *Config) validateSpool() error {
	if !c.Spool.Enabled {
		return nil
	}
	if c.Spool.Path == "" {
		return fmt.Errorf("SPOOL_PATH is required when SPOOL_ENABLED=true")
	}
	if c.Spool.MaxAge <= 0 {
		return fmt.Errorf("spool.max_age must be positive")
	}
	return nil
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// validateHTTPURL checks that raw is an absolute http(s) URL with a host.
// A path is allowed since API base URLs usually carry one.
func validateHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("query and fragment are not allowed")
	}
	return nil
}

// validateNATSURL checks for a nats:// or tls:// URL with a host.
func validateNATSURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if u.Scheme != "nats" && u.Scheme != "tls" {
		return fmt.Errorf("scheme must be nats or tls, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}
