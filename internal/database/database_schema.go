// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
database_schema.go - Database Schema Management

Tables:
  - aircraft_profiles: static metadata for each tracked airframe, keyed by ICAO hex
  - flight_positions: observed state vector samples (append-only, pruned by retention)
  - panic_scores: one row per region per scoring cycle (append-only, never pruned)

Timestamps are stored as TIMESTAMP in UTC. top_3_airports holds a JSON array.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range tableCreationQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates indexes for the read and window queries
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range indexQueries {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", query, err)
		}
	}

	return nil
}

var tableCreationQueries = []string{
	`CREATE TABLE IF NOT EXISTS aircraft_profiles (
		icao_hex TEXT PRIMARY KEY,
		registration TEXT NOT NULL DEFAULT '',
		aircraft_type TEXT NOT NULL DEFAULT '',
		owner_country TEXT NOT NULL DEFAULT '??',
		owner_org TEXT NOT NULL DEFAULT '',
		is_military BOOLEAN NOT NULL DEFAULT false,
		is_government BOOLEAN NOT NULL DEFAULT false,
		is_vip BOOLEAN NOT NULL DEFAULT false,
		is_intel BOOLEAN NOT NULL DEFAULT false,
		vip_tier INTEGER NOT NULL DEFAULT 4,
		home_base_airport TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		last_updated TIMESTAMP NOT NULL
	)`,

	// lat/lon are nullable so partially reported rows surface as malformed
	// records at load time instead of failing the insert.
	`CREATE TABLE IF NOT EXISTS flight_positions (
		timestamp TIMESTAMP NOT NULL,
		icao_hex TEXT NOT NULL,
		callsign TEXT NOT NULL DEFAULT '',
		lat DOUBLE,
		lon DOUBLE,
		altitude INTEGER,
		ground_speed DOUBLE,
		heading DOUBLE,
		vertical_rate DOUBLE,
		on_ground BOOLEAN NOT NULL DEFAULT false,
		squawk TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'opensky'
	)`,

	`CREATE TABLE IF NOT EXISTS panic_scores (
		timestamp TIMESTAMP NOT NULL,
		region TEXT NOT NULL,
		night_flight_score DOUBLE NOT NULL,
		convergence_score DOUBLE NOT NULL,
		airlift_score DOUBLE NOT NULL,
		vip_movement_score DOUBLE NOT NULL,
		overall_panic_score INTEGER NOT NULL,
		flight_count INTEGER NOT NULL,
		countries_involved INTEGER NOT NULL,
		top_3_airports TEXT NOT NULL DEFAULT '[]',
		narrative TEXT NOT NULL DEFAULT ''
	)`,
}

var indexQueries = []string{
	`CREATE INDEX IF NOT EXISTS idx_positions_timestamp ON flight_positions(timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_positions_icao ON flight_positions(icao_hex)`,
	`CREATE INDEX IF NOT EXISTS idx_scores_region_ts ON panic_scores(region, timestamp)`,
	`CREATE INDEX IF NOT EXISTS idx_profiles_country ON aircraft_profiles(owner_country)`,
}
