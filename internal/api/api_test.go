// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/models"
	"github.com/tomtom215/skywatch/internal/websocket"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

type mockStore struct {
	mu sync.Mutex

	scores  []models.PanicScoreResult
	history []models.HistoryPoint
	alerts  []models.ScoreAlert
	stats   *models.LiveStats
	recent  []models.AircraftPosition
	active  []models.ActiveAircraft
	err     error
	pingErr error

	statsCalls    int
	historyRegion string
	historyDays   int
	recentSince   time.Duration
	recentLimit   int
	activeSince   time.Duration
	activeLimit   int
}

func (m *mockStore) LatestScores(context.Context) ([]models.PanicScoreResult, error) {
	return m.scores, m.err
}

func (m *mockStore) History(_ context.Context, region string, days int) ([]models.HistoryPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.historyRegion, m.historyDays = region, days
	return m.history, m.err
}

func (m *mockStore) Alerts(context.Context) ([]models.ScoreAlert, error) {
	return m.alerts, m.err
}

func (m *mockStore) Stats(context.Context) (*models.LiveStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statsCalls++
	return m.stats, m.err
}

func (m *mockStore) RecentAircraft(_ context.Context, since time.Duration, limit int) ([]models.AircraftPosition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recentSince, m.recentLimit = since, limit
	return m.recent, m.err
}

func (m *mockStore) ActiveAircraft(_ context.Context, since time.Duration, limit int) ([]models.ActiveAircraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activeSince, m.activeLimit = since, limit
	return m.active, m.err
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

type envelope struct {
	Status   string          `json:"status"`
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
	Error    *APIError       `json:"error"`
}

func newTestServer(t *testing.T, store Store, hub *websocket.Hub, mwCfg *ChiMiddlewareConfig) (*Handler, http.Handler) {
	t.Helper()
	if mwCfg == nil {
		mwCfg = &ChiMiddlewareConfig{CORSAllowedOrigins: []string{"*"}, RateLimitDisabled: true}
	}
	h := NewHandler(store, hub, time.Minute)
	return h, NewRouter(h, NewChiMiddleware(mwCfg)).Setup()
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s: %v (%s)", target, err, rec.Body.String())
		}
	}
	return rec, env
}
