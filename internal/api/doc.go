// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package api serves the read-only HTTP API over the score and position
store, using the chi router.

# Endpoints

	GET /api/v1/scores            latest score per region
	GET /api/v1/history           ?region=Global&days=7 (1-365), oldest first
	GET /api/v1/alerts            scores >= 40, newest first, max 20
	GET /api/v1/stats             live statistics, cached 30s
	GET /api/v1/aircraft          positions from the last 30 minutes, max 100
	GET /api/v1/aircraft/active   aircraft seen in the last hour, max 50
	GET /api/v1/health/live       liveness
	GET /api/v1/health/ready      readiness (database ping)
	GET /metrics                  Prometheus
	GET /ws                       websocket push of each new panic score

Every JSON response uses the Response envelope. Errors carry a code such
as VALIDATION_ERROR, DATABASE_ERROR or RATE_LIMIT_EXCEEDED.

# Middleware

Request and correlation IDs, real IP, panic recovery, CORS (go-chi/cors),
Prometheus instrumentation, per-IP rate limits (go-chi/httprate) and gzip
for JSON bodies.
*/
package api
