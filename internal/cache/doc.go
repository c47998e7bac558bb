// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package cache provides the in-memory caches used by the API and the poller.

# Types

  - Cache[V]: generic TTL cache for read API responses (the /stats payload).
    Cleared whenever a new panic score is persisted.
  - LRUCache: bounded TTL set of recently seen keys. The ingestion poller
    uses it to drop repeated (icao, time_position) samples.

Both are safe for concurrent use. Cache hits and misses are exported as
cache_hits_total and cache_misses_total labelled by cache name.

# Example

	stats := cache.New[*models.LiveStats]("stats", 30*time.Second)
	if s, ok := stats.Get("live"); ok {
	    return s
	}
*/
package cache
