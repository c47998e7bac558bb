// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package ingestion

import (
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/skywatch/internal/metrics"
)

// TrackedSet is the set of ICAO hex ids the poller keeps. Lookups are
// case-insensitive. It is owned by the poller and replaced wholesale on refresh.
type TrackedSet struct {
	mu       sync.RWMutex
	ids      map[string]struct{}
	loadedAt time.Time
}

// NewTrackedSet creates an empty, never-loaded set.
func NewTrackedSet() *TrackedSet {
	return &TrackedSet{ids: make(map[string]struct{})}
}

// Replace swaps in a new id list.
func (t *TrackedSet) Replace(ids []string, at time.Time) {
	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id != "" {
			next[id] = struct{}{}
		}
	}

	t.mu.Lock()
	t.ids = next
	t.loadedAt = at
	t.mu.Unlock()

	metrics.IngestionTrackedAircraft.Set(float64(len(next)))
}

// Contains reports whether icao is tracked.
func (t *TrackedSet) Contains(icao string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[strings.ToUpper(icao)]
	return ok
}

// Len returns the number of tracked ids.
func (t *TrackedSet) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.ids)
}

// Stale reports whether the set was never loaded or is older than maxAge.
func (t *TrackedSet) Stale(now time.Time, maxAge time.Duration) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.loadedAt.IsZero() || now.Sub(t.loadedAt) >= maxAge
}

// Loaded reports whether Replace has been called at least once.
func (t *TrackedSet) Loaded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return !t.loadedAt.IsZero()
}
