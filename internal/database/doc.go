// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Package database provides the DuckDB data layer for Skywatch.
//
// # Overview
//
// The package stores aircraft profiles, observed positions and composite
// panic scores, and serves the queries the scoring engine and the read API
// need. DB satisfies scoring.WindowLoader and scoring.ScorePersister.
//
// # Organization
//
//   - database.go: connection lifecycle (open, initialize, checkpoint, close)
//   - database_schema.go: table and index creation
//   - database_connection.go: pool configuration and connection error classification
//   - database_utils.go: context timeouts, query metrics, record counts
//   - profiles.go: aircraft profile upsert and lookups
//   - positions.go: position inserts, the scoring window loader, pruning, live aircraft
//   - scores.go: score persistence, latest scores, history, alerts, stats
//
// # Time
//
// All timestamps are written and returned in UTC. Window cutoffs are computed
// in Go from an injectable clock rather than with SQL now().
//
// # Thread Safety
//
// DB is safe for concurrent use. Multi-row writes run in a single transaction.
//
// # Usage
//
//	db, err := database.New(&cfg.Database)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	engine := scoring.NewEngine(scorer, db, db, cfg.Scoring.EngineConfig())
package database
