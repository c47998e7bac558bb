// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
)

// historyRequest holds the validated /history query.
type historyRequest struct {
	Region string `query:"region" validate:"required,max=64"`
	Days   int    `query:"days" validate:"min=1,max=365"`
}

// Scores returns the latest score of every region.
//
// GET /api/v1/scores
func (h *Handler) Scores(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	scores, err := h.store.LatestScores(r.Context())
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load scores", err)
		return
	}
	respondList(w, scores, start)
}

// History returns a region's score series, oldest first.
//
// GET /api/v1/history?region=Global&days=7
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	days, ok := queryInt(r, "days", 7)
	if !ok {
		respondValidation(w, &APIError{Code: "VALIDATION_ERROR", Message: "days must be an integer"})
		return
	}
	req := historyRequest{Region: r.URL.Query().Get("region"), Days: days}
	if req.Region == "" {
		req.Region = models.GlobalRegion
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	points, err := h.store.History(r.Context(), req.Region, req.Days)
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load history", err)
		return
	}
	respondList(w, points, start)
}

// Alerts returns recent scores at or above the elevated threshold, newest first.
//
// GET /api/v1/alerts
func (h *Handler) Alerts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	alerts, err := h.store.Alerts(r.Context())
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load alerts", err)
		return
	}
	respondList(w, alerts, start)
}

// Stats returns live tracking statistics. Served from cache until the
// TTL expires or a new score is stored.
//
// GET /api/v1/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if stats, ok := h.statsCache.Get(statsCacheKey); ok {
		respondData(w, stats, start, true)
		return
	}

	stats, err := h.store.Stats(r.Context())
	if err != nil {
		respondError(r, w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load stats", err)
		return
	}
	h.statsCache.Set(statsCacheKey, stats)
	respondData(w, stats, start, false)
}
