// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
database_connection.go - Connection Pool and Error Classification

Connection Pool Configuration:
  - MaxOpenConns: Based on CPU count for parallelism
  - MaxIdleConns: 2 for efficient connection reuse
  - ConnMaxLifetime: 1 hour to prevent stale connections
  - ConnMaxIdleTime: 5 minutes for idle connection cleanup

Error Classification:
Connection and timeout errors mean the store is unreachable. The window
loader reports those as scoring.ErrDataUnavailable so the scoring engine
degrades instead of failing; the ingestion poller spools instead of dropping.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"time"
)

// configureConnectionPool sets connection pool parameters
func (db *DB) configureConnectionPool() error {
	db.conn.SetMaxOpenConns(runtime.NumCPU())
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxLifetime(time.Hour)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)
	return nil
}

// connectionErrorMarkers are substrings of driver errors that indicate the
// database itself is unusable rather than a single query being wrong.
var connectionErrorMarkers = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"bad connection",
	"database is closed",
	"IO Error",
	"Could not set lock on file",
}

// IsConnectionError checks if an error indicates database connection loss
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	errMsg := err.Error()
	for _, marker := range connectionErrorMarkers {
		if strings.Contains(errMsg, marker) {
			return true
		}
	}
	return false
}
