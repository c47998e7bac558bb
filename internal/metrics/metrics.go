// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBRowsPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "duckdb_positions_pruned_total",
			Help: "Total number of flight positions removed by retention",
		},
	)

	// Scoring Metrics
	ScoringCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scoring_cycle_duration_seconds",
			Help:    "Duration of a full scoring cycle in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	ScoringCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_cycles_total",
			Help: "Total number of scoring cycles by outcome",
		},
		[]string{"status"}, // "success", "degraded"
	)

	ScoringWorkingSetSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "scoring_working_set_records",
			Help: "Number of flight records loaded in the last scoring cycle",
		},
	)

	ComponentScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "panic_component_score",
			Help: "Latest component score per region (0-100)",
		},
		[]string{"region", "component"},
	)

	OverallScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "panic_overall_score",
			Help: "Latest overall panic score per region (0-100)",
		},
		[]string{"region"},
	)

	MalformedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "malformed_records_total",
			Help: "Total number of position samples dropped for missing coordinates",
		},
		[]string{"source"}, // "opensky", "window"
	)

	ScorePersistenceFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_persistence_failures_total",
			Help: "Total number of panic scores that could not be written",
		},
	)

	// Ingestion Metrics
	IngestionPollDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingestion_poll_duration_seconds",
			Help:    "Duration of one OpenSky poll in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)

	IngestionVectors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingestion_state_vectors_total",
			Help: "State vectors seen by the poller by stage",
		},
		[]string{"stage"}, // "fetched", "tracked", "stored", "spooled", "duplicate"
	)

	IngestionTrackedAircraft = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ingestion_tracked_aircraft",
			Help: "Number of aircraft in the tracked set",
		},
	)

	OpenSkyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opensky_requests_total",
			Help: "Total number of OpenSky API requests by status",
		},
		[]string{"status"},
	)

	// Spool Metrics
	SpoolDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "spool_pending_entries",
			Help: "Position batches waiting in the spool",
		},
	)

	SpoolOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "spool_operations_total",
			Help: "Spool operations by type",
		},
		[]string{"operation"}, // "write", "drain", "expired", "error"
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "stats", "dedupe"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// NATS Metrics
	NATSMessagesPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of score events published to NATS",
		},
		[]string{"status"},
	)

	// Scheduler Metrics
	SchedulerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scheduler_task_runs_total",
			Help: "Scheduled task runs by task and outcome",
		},
		[]string{"task", "status"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordScoringCycle records the duration and outcome of a scoring cycle.
func RecordScoringCycle(duration time.Duration, err error) {
	ScoringCycleDuration.Observe(duration.Seconds())
	status := "success"
	if err != nil {
		status = "degraded"
	}
	ScoringCyclesTotal.WithLabelValues(status).Inc()
}

// RecordScore publishes the latest component and overall scores of a region.
func RecordScore(region string, night, convergence, airlift, vip float64, overall int) {
	ComponentScore.WithLabelValues(region, "night_flight").Set(night)
	ComponentScore.WithLabelValues(region, "convergence").Set(convergence)
	ComponentScore.WithLabelValues(region, "airlift").Set(airlift)
	ComponentScore.WithLabelValues(region, "vip_movement").Set(vip)
	OverallScore.WithLabelValues(region).Set(float64(overall))
}

// PollStats mirrors the counters of one ingestion poll.
type PollStats struct {
	Fetched    int
	Tracked    int
	Stored     int
	Spooled    int
	Duplicates int
	Malformed  int
}

// RecordPoll records the duration and per-stage counts of one poll.
func RecordPoll(duration time.Duration, s PollStats) {
	IngestionPollDuration.Observe(duration.Seconds())
	IngestionVectors.WithLabelValues("fetched").Add(float64(s.Fetched))
	IngestionVectors.WithLabelValues("tracked").Add(float64(s.Tracked))
	IngestionVectors.WithLabelValues("stored").Add(float64(s.Stored))
	IngestionVectors.WithLabelValues("spooled").Add(float64(s.Spooled))
	IngestionVectors.WithLabelValues("duplicate").Add(float64(s.Duplicates))
	if s.Malformed > 0 {
		MalformedRecords.WithLabelValues("opensky").Add(float64(s.Malformed))
	}
}

// RecordSchedulerRun records the outcome of one scheduled task run.
func RecordSchedulerRun(task string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	SchedulerRuns.WithLabelValues(task, status).Inc()
}

// RecordNATSPublish records the outcome of one score event publish.
func RecordNATSPublish(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	NATSMessagesPublished.WithLabelValues(status).Inc()
}
