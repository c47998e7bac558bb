// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
)

type mockLoader struct {
	mu       sync.Mutex
	records  []models.FlightRecord
	err      error
	lookback time.Duration
	calls    int
}

func (m *mockLoader) LoadWindow(_ context.Context, lookback time.Duration) ([]models.FlightRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lookback = lookback
	if m.err != nil {
		return nil, m.err
	}
	return m.records, nil
}

type mockPersister struct {
	mu      sync.Mutex
	stored  []models.PanicScoreResult
	failFor map[string]bool
}

func (m *mockPersister) StoreScore(_ context.Context, r *models.PanicScoreResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[r.Region] {
		return errors.New("disk full")
	}
	m.stored = append(m.stored, *r)
	return nil
}

type mockListener struct {
	mu      sync.Mutex
	regions []string
}

func (m *mockListener) OnScore(_ context.Context, r *models.PanicScoreResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.regions = append(m.regions, r.Region)
}

var fixedNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, loader WindowLoader, persister ScorePersister, cfg EngineConfig) *Engine {
	t.Helper()
	e := NewEngine(newTestScorer(t), loader, persister, cfg)
	e.now = func() time.Time { return fixedNow }
	return e
}

func TestEngine_RunCycle(t *testing.T) {
	loader := &mockLoader{records: []models.FlightRecord{
		newRecord("ADFDF8", "US", withVIP(), withTier(1)),
		newRecord("ADFDF8", "US", withVIP(), withTier(1)),
	}}
	persister := &mockPersister{}
	listener := &mockListener{}

	e := newTestEngine(t, loader, persister, DefaultEngineConfig())
	e.AddListener(listener)

	results, err := e.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if loader.lookback != 12*time.Hour {
		t.Errorf("lookback = %v, want 12h", loader.lookback)
	}
	if len(results) != 1 || len(persister.stored) != 1 {
		t.Fatalf("results = %d, stored = %d, want 1 each", len(results), len(persister.stored))
	}

	r := results[0]
	if r.Region != models.GlobalRegion {
		t.Errorf("Region = %q, want %q", r.Region, models.GlobalRegion)
	}
	if !r.Timestamp.Equal(fixedNow) {
		t.Errorf("Timestamp = %v, want %v", r.Timestamp, fixedNow)
	}
	assertScore(t, r.VIPMovementScore, 55)
	// 55 * 0.15 = 8.25
	if r.OverallScore != 8 {
		t.Errorf("OverallScore = %d, want 8", r.OverallScore)
	}
	if r.FlightCount != 2 || r.CountriesInvolved != 1 {
		t.Errorf("FlightCount = %d, CountriesInvolved = %d, want 2, 1", r.FlightCount, r.CountriesInvolved)
	}
	if r.TopAirports == nil || len(r.TopAirports) != 0 {
		t.Errorf("TopAirports = %v, want empty non-nil", r.TopAirports)
	}
	if r.Narrative != "1 VIP aircraft active" {
		t.Errorf("Narrative = %q", r.Narrative)
	}
	if !reflect.DeepEqual(listener.regions, []string{models.GlobalRegion}) {
		t.Errorf("listener regions = %v", listener.regions)
	}
}

func TestEngine_LoadFailureDegrades(t *testing.T) {
	loader := &mockLoader{err: errors.New("connection refused")}
	persister := &mockPersister{}

	e := newTestEngine(t, loader, persister, DefaultEngineConfig())
	results, err := e.RunCycle(context.Background())

	if !errors.Is(err, ErrDataUnavailable) {
		t.Fatalf("RunCycle() error = %v, want ErrDataUnavailable", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if r.OverallScore != 0 || r.FlightCount != 0 || r.Narrative != NoDataNarrative {
		t.Errorf("degraded result = %+v, want zero score with %q", r, NoDataNarrative)
	}
	if len(persister.stored) != 1 {
		t.Errorf("stored = %d, want 1", len(persister.stored))
	}
}

func TestEngine_LoadFailureAlreadyWrapped(t *testing.T) {
	loader := &mockLoader{err: ErrDataUnavailable}
	e := newTestEngine(t, loader, &mockPersister{}, DefaultEngineConfig())

	_, err := e.RunCycle(context.Background())
	if !errors.Is(err, ErrDataUnavailable) {
		t.Errorf("RunCycle() error = %v, want ErrDataUnavailable", err)
	}
}

func TestEngine_PersistFailure(t *testing.T) {
	loader := &mockLoader{records: []models.FlightRecord{newRecord("AE0001", "US", withPosition(59, 24))}}
	persister := &mockPersister{failFor: map[string]bool{models.GlobalRegion: true}}
	listener := &mockListener{}

	cfg := DefaultEngineConfig()
	cfg.Regions = []Region{{Name: "Baltic", MinLat: 53, MaxLat: 66, MinLon: 9, MaxLon: 31}}
	e := newTestEngine(t, loader, persister, cfg)
	e.AddListener(listener)

	results, err := e.RunCycle(context.Background())
	if !errors.Is(err, ErrPersistenceFailure) {
		t.Fatalf("RunCycle() error = %v, want ErrPersistenceFailure", err)
	}
	if errors.Is(err, ErrDataUnavailable) {
		t.Error("persist failure should not report data unavailable")
	}
	if len(results) != 1 || results[0].Region != "Baltic" {
		t.Fatalf("results = %+v, want only Baltic", results)
	}
	if !reflect.DeepEqual(listener.regions, []string{"Baltic"}) {
		t.Errorf("listener regions = %v, want [Baltic]", listener.regions)
	}
}

func TestEngine_Regions(t *testing.T) {
	loader := &mockLoader{records: []models.FlightRecord{
		newRecord("AE0001", "US", withPosition(59, 24)),
		newRecord("43C001", "GB", withPosition(59.1, 24.1)),
		newRecord("3B7001", "FR", withPosition(35, 33)),
	}}
	persister := &mockPersister{}

	cfg := DefaultEngineConfig()
	cfg.Regions = []Region{
		{Name: models.GlobalRegion},
		{Name: "Baltic", MinLat: 53, MaxLat: 66, MinLon: 9, MaxLon: 31},
	}
	e := newTestEngine(t, loader, persister, cfg)

	results, err := e.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (duplicate global ignored)", len(results))
	}
	if results[0].Region != models.GlobalRegion || results[0].FlightCount != 3 {
		t.Errorf("global = %s/%d, want Global/3", results[0].Region, results[0].FlightCount)
	}
	if results[1].Region != "Baltic" || results[1].FlightCount != 2 || results[1].CountriesInvolved != 2 {
		t.Errorf("baltic = %+v", results[1])
	}
	if loader.calls != 1 {
		t.Errorf("loader calls = %d, want 1 per cycle", loader.calls)
	}
}

func TestEngine_Idempotent(t *testing.T) {
	loader := &mockLoader{records: []models.FlightRecord{
		newRecord("AE0001", "US", withVIP(), withTier(1), withTime(threeAMUTC), withPosition(50, 10)),
		newRecord("43C001", "GB", withVIP(), withTier(2), withPosition(50.1, 10.1)),
		newRecord("3B7001", "FR", withPosition(49.9, 9.9)),
	}}
	e := newTestEngine(t, loader, &mockPersister{}, DefaultEngineConfig())

	first, err := e.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.RunCycle(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cycles differ:\n%+v\n%+v", first, second)
	}
}

func TestEngine_RunAndName(t *testing.T) {
	e := newTestEngine(t, &mockLoader{}, &mockPersister{}, DefaultEngineConfig())
	if e.Name() != "scoring" {
		t.Errorf("Name() = %q", e.Name())
	}
	if err := e.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
