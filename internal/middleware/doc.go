// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package middleware provides the HTTP middleware shared by the read API.

  - RequestID: request and correlation IDs for log tracing
  - PrometheusMetrics: api_requests_total, api_request_duration_seconds
    and api_active_requests, labelled by chi route pattern

Both use the standard func(http.Handler) http.Handler shape and are
installed with chi's r.Use.
*/
package middleware
