// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/skywatch/internal/cache"
	"github.com/tomtom215/skywatch/internal/models"
	"github.com/tomtom215/skywatch/internal/websocket"
)

// Store is the read side of the database used by the API.
type Store interface {
	LatestScores(ctx context.Context) ([]models.PanicScoreResult, error)
	History(ctx context.Context, region string, days int) ([]models.HistoryPoint, error)
	Alerts(ctx context.Context) ([]models.ScoreAlert, error)
	Stats(ctx context.Context) (*models.LiveStats, error)
	RecentAircraft(ctx context.Context, since time.Duration, limit int) ([]models.AircraftPosition, error)
	ActiveAircraft(ctx context.Context, since time.Duration, limit int) ([]models.ActiveAircraft, error)
	Ping(ctx context.Context) error
}

// Window and row limits of the aircraft endpoints.
const (
	recentAircraftWindow = 30 * time.Minute
	recentAircraftLimit  = 100
	activeAircraftWindow = time.Hour
	activeAircraftLimit  = 50
)

const statsCacheKey = "live"

// Handler serves the read API.
type Handler struct {
	store      Store
	hub        *websocket.Hub
	statsCache *cache.Cache[*models.LiveStats]
	startTime  time.Time
}

// NewHandler creates a handler. hub may be nil, which disables /ws.
func NewHandler(store Store, hub *websocket.Hub, statsTTL time.Duration) *Handler {
	if statsTTL <= 0 {
		statsTTL = 30 * time.Second
	}
	return &Handler{
		store:      store,
		hub:        hub,
		statsCache: cache.New[*models.LiveStats]("stats", statsTTL),
		startTime:  time.Now(),
	}
}

// StatsCache exposes the stats cache so its sweeper can be supervised.
func (h *Handler) StatsCache() *cache.Cache[*models.LiveStats] {
	return h.statsCache
}

// OnScore invalidates cached stats once a new score has been stored,
// so peak score and last update are never older than the latest cycle.
func (h *Handler) OnScore(_ context.Context, _ *models.PanicScoreResult) {
	h.statsCache.Clear()
}

// queryInt returns the integer value of key, def when absent, or ok=false
// when present but not an integer.
func queryInt(r *http.Request, key string, def int) (int, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
