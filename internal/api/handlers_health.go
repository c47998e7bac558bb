// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthLive reports that the process is up, regardless of dependencies.
//
// GET /api/v1/health/live
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &Response{
		Status: "success",
		Data: map[string]any{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	})
}

// HealthReady returns 200 only when the database answers a ping within 2s.
//
// GET /api/v1/health/ready
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	dbConnected := h.store.Ping(ctx) == nil

	statusCode, status := http.StatusOK, "ready"
	if !dbConnected {
		statusCode, status = http.StatusServiceUnavailable, "not_ready"
	}

	data := map[string]any{
		"database_connected": dbConnected,
		"uptime":             time.Since(h.startTime).Seconds(),
	}
	if h.hub != nil {
		data["websocket_clients"] = h.hub.GetClientCount()
	}

	respondJSON(w, statusCode, &Response{
		Status:   status,
		Data:     data,
		Metadata: Metadata{Timestamp: time.Now().UTC()},
	})
}
