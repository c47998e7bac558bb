// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package ingestion

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
	"github.com/tomtom215/skywatch/internal/spool"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

// vector builds a 17-field state vector the way OpenSky encodes it.
func vector(icao string, timePos float64, lon, lat any) []any {
	return []any{
		icao, "RCH123  ", "United States", timePos, timePos + 1,
		lon, lat, 9144.0, false, 230.5,
		87.0, -1.5, nil, 9300.0, "1234",
		false, 0.0,
	}
}

type mockFetcher struct {
	mu     sync.Mutex
	resp   *StatesResponse
	err    error
	called int
}

func (m *mockFetcher) FetchStates(context.Context) (*StatesResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called++
	return m.resp, m.err
}

type mockStore struct {
	mu        sync.Mutex
	ids       []string
	idsErr    error
	insertErr error
	inserted  []models.Position
	listCalls int
}

func (m *mockStore) InsertPositions(_ context.Context, positions []models.Position) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.inserted = append(m.inserted, positions...)
	return len(positions), nil
}

func (m *mockStore) ListTrackedIDs(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	return m.ids, m.idsErr
}

func (m *mockStore) setInsertErr(err error) {
	m.mu.Lock()
	m.insertErr = err
	m.mu.Unlock()
}

type mockSpool struct {
	mu       sync.Mutex
	batches  [][]models.Position
	writeErr error
}

func (m *mockSpool) Write(_ context.Context, positions []models.Position) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return "", m.writeErr
	}
	m.batches = append(m.batches, positions)
	return "batch", nil
}

func (m *mockSpool) Drain(ctx context.Context, fn spool.DrainFunc) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for len(m.batches) > 0 {
		if err := fn(ctx, m.batches[0]); err != nil {
			return n, err
		}
		n += len(m.batches[0])
		m.batches = m.batches[1:]
	}
	return n, nil
}

func (m *mockSpool) Depth() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.batches)
}

var errDBLocked = errors.New("database is locked")
