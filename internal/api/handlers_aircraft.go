// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"net/http"
	"time"
)

// Aircraft returns tracked positions from the last 30 minutes joined with
// their profiles, newest first.
//
// GET /api/v1/aircraft
func (h *Handler) Aircraft(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	positions, err := h.store.RecentAircraft(r.Context(), recentAircraftWindow, recentAircraftLimit)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load aircraft", err)
		return
	}
	respondList(w, positions, start)
}

// ActiveAircraft returns one row per aircraft seen in the last hour.
//
// GET /api/v1/aircraft/active
func (h *Handler) ActiveAircraft(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	active, err := h.store.ActiveAircraft(r.Context(), activeAircraftWindow, activeAircraftLimit)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load active aircraft", err)
		return
	}
	respondList(w, active, start)
}
