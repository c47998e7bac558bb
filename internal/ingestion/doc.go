// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package ingestion polls the OpenSky Network and stores positions of tracked aircraft.

# Flow

Each poll:

 1. Reloads the tracked set from aircraft_profiles when it is older than
    ingestion.tracked_refresh.
 2. Replays any spooled batches left by an earlier database failure.
 3. Fetches GET {base}/states/all through a rate limiter and circuit breaker.
 4. Keeps vectors whose icao24 is tracked, drops those without coordinates,
    and drops samples already seen within ingestion.dedupe_window.
 5. Appends the batch to flight_positions, or spools it if DuckDB rejects it.

The poller implements the scheduler task interface (Name, Run) and is run
every ingestion.interval with ingestion.cooldown after a failure.
*/
package ingestion
