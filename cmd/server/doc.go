// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Skywatch server: polls OpenSky for tracked government, military and VIP
aircraft, scores the last 24 hours of activity for signs of unusual
movement, and serves the results over HTTP, websocket and NATS.

# Startup

 1. Configuration: defaults, then config.yaml, then environment (koanf)
 2. Database: DuckDB with aircraft_profiles, flight_positions, panic_scores
 3. Spool: badger buffer for positions that could not be written
 4. Supervisor tree with four layers:
    - ingestion: OpenSky poller, spool GC, position pruning
    - scoring: panic score engine
    - messaging: websocket hub, optional NATS publisher
    - api: HTTP server, stats cache sweeper

Each periodic job runs under a scheduler that applies a cooldown after a
failed run and never lets one failure stop the loop. Suture restarts any
service that exits.

# Configuration

Common environment variables:

	DUCKDB_PATH=/data/skywatch.duckdb
	OPENSKY_USERNAME=... OPENSKY_PASSWORD=...
	POLL_INTERVAL=60s
	SCORE_INTERVAL=15m
	HTTP_PORT=8080
	NATS_ENABLED=true
	LOG_LEVEL=debug LOG_FORMAT=console

Load aircraft profiles first with the seed command:

	seed --csv data/aircraft_profiles.csv

# Signals

SIGINT and SIGTERM cancel the tree. In-flight scoring cycles and polls
finish on their own detached contexts, the HTTP server drains, and the
database is checkpointed before exit.
*/
package main
