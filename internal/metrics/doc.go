// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto
and exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Available Metrics

Scoring:
  - scoring_cycle_duration_seconds: full cycle latency (histogram)
  - scoring_cycles_total: cycles by status, "success" or "degraded" (counter)
  - scoring_working_set_records: records in the last window (gauge)
  - panic_component_score: latest component score (gauge)
    Labels: region, component
  - panic_overall_score: latest overall score (gauge)
    Labels: region
  - malformed_records_total: samples dropped for missing coordinates (counter)
  - score_persistence_failures_total: results lost to write errors (counter)

Ingestion:
  - ingestion_poll_duration_seconds: OpenSky poll latency (histogram)
  - ingestion_state_vectors_total: vectors by stage (counter)
  - ingestion_tracked_aircraft: size of the tracked set (gauge)
  - opensky_requests_total: upstream requests by status (counter)
  - spool_pending_entries, spool_operations_total: badger spool activity

Storage:
  - duckdb_query_duration_seconds, duckdb_query_errors_total
  - duckdb_positions_pruned_total

HTTP and fan-out:
  - api_requests_total, api_request_duration_seconds, api_active_requests
  - cache_hits_total, cache_misses_total
  - websocket_connections, websocket_messages_sent_total
  - nats_messages_published_total
  - circuit_breaker_state, circuit_breaker_requests_total,
    circuit_breaker_state_transitions_total
  - scheduler_task_runs_total

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "flight_positions", time.Since(start), err)
*/
package metrics
