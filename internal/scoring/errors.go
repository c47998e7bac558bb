// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDataUnavailable means the backing store or upstream API could not be
	// reached in time. The cycle degrades to an empty working set.
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrMalformedRecord marks a position sample missing latitude or longitude.
	// Such rows are dropped individually.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrPersistenceFailure means the computed result could not be written.
	// The result for that cycle is lost.
	ErrPersistenceFailure = errors.New("persistence failure")
)

// MissingPosition reports a sample of icao observed at ts without latitude
// or longitude. The error wraps ErrMalformedRecord.
func MissingPosition(icao string, ts time.Time) error {
	return fmt.Errorf("%w: %s at %s has no position", ErrMalformedRecord, icao, ts.UTC().Format(time.RFC3339))
}
