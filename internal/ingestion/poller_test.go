// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/skywatch/internal/config"
)

func testIngestionConfig() config.IngestionConfig {
	return config.IngestionConfig{
		Enabled:        true,
		Interval:       10 * time.Second,
		Cooldown:       30 * time.Second,
		TrackedRefresh: time.Hour,
		DedupeWindow:   10 * time.Minute,
		DedupeCapacity: 1000,
	}
}

func newTestPoller(f *mockFetcher, s *mockStore, sp PositionSpool) *Poller {
	p := NewPoller(f, s, sp, testIngestionConfig())
	p.now = func() time.Time { return testNow }
	return p
}

func TestPoller_FiltersTrackedAircraft(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{States: [][]any{
		vector("ae1234", 1773500395, -77.03, 38.89),
		vector("a00001", 1773500395, -80.0, 40.0), // untracked
		vector("43c6f1", 1773500390, nil, nil),    // tracked, no position
		vector("3c4b26", 1773500391, 13.4, 52.5),
		vector("ae1234", 1773500395, -77.03, 38.89)[:10], // short vector
	}}}
	s := &mockStore{ids: []string{"AE1234", "43C6F1", "3C4B26"}}
	p := newTestPoller(f, s, nil)

	res, err := p.PollOnce(context.Background())
	if err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}

	want := PollResult{Fetched: 5, Tracked: 3, Stored: 2, Malformed: 1}
	if res != want {
		t.Errorf("PollOnce() = %+v, want %+v", res, want)
	}
	if len(s.inserted) != 2 || s.inserted[0].ICAOHex != "AE1234" || s.inserted[1].ICAOHex != "3C4B26" {
		t.Errorf("inserted = %+v", s.inserted)
	}
}

func TestPoller_DeduplicatesRepeatedSamples(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{States: [][]any{
		vector("ae1234", 1773500395, -77.03, 38.89),
	}}}
	s := &mockStore{ids: []string{"AE1234"}}
	p := newTestPoller(f, s, nil)

	if _, err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("first PollOnce() error = %v", err)
	}
	res, err := p.PollOnce(context.Background())
	if err != nil {
		t.Fatalf("second PollOnce() error = %v", err)
	}
	if res.Duplicates != 1 || res.Stored != 0 {
		t.Errorf("second poll = %+v, want 1 duplicate and nothing stored", res)
	}

	// A new time_position is a new sample.
	f.resp = &StatesResponse{States: [][]any{vector("ae1234", 1773500405, -77.0, 38.9)}}
	res, err = p.PollOnce(context.Background())
	if err != nil {
		t.Fatalf("third PollOnce() error = %v", err)
	}
	if res.Stored != 1 {
		t.Errorf("third poll = %+v, want 1 stored", res)
	}
	if len(s.inserted) != 2 {
		t.Errorf("inserted %d positions, want 2", len(s.inserted))
	}
}

func TestPoller_RefreshesTrackedSet(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{}}
	s := &mockStore{ids: []string{"AE1234"}}
	p := newTestPoller(f, s, nil)

	now := testNow
	p.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if _, err := p.PollOnce(context.Background()); err != nil {
			t.Fatalf("PollOnce() error = %v", err)
		}
	}
	if s.listCalls != 1 {
		t.Errorf("ListTrackedIDs called %d times within refresh interval, want 1", s.listCalls)
	}

	now = now.Add(time.Hour)
	s.ids = []string{"AE1234", "43C6F1"}
	if _, err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}
	if s.listCalls != 2 || p.Tracked().Len() != 2 {
		t.Errorf("after refresh: listCalls=%d tracked=%d", s.listCalls, p.Tracked().Len())
	}
}

func TestPoller_TrackedSetUnavailable(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{}}
	s := &mockStore{idsErr: errDBLocked}
	p := newTestPoller(f, s, nil)

	_, err := p.PollOnce(context.Background())
	if !errors.Is(err, ErrNoTrackedAircraft) || !errors.Is(err, errDBLocked) {
		t.Errorf("PollOnce() error = %v, want ErrNoTrackedAircraft wrapping the store error", err)
	}
	if f.called != 0 {
		t.Error("poller fetched states without a tracked set")
	}
}

func TestPoller_KeepsPreviousTrackedSetOnRefreshFailure(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{States: [][]any{vector("ae1234", 1773500395, -77.03, 38.89)}}}
	s := &mockStore{ids: []string{"AE1234"}}
	p := newTestPoller(f, s, nil)

	now := testNow
	p.now = func() time.Time { return now }
	if _, err := p.PollOnce(context.Background()); err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}

	now = now.Add(2 * time.Hour)
	s.idsErr = errDBLocked
	f.resp = &StatesResponse{States: [][]any{vector("ae1234", 1773507600, -77.03, 38.89)}}
	res, err := p.PollOnce(context.Background())
	if err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}
	if res.Stored != 1 {
		t.Errorf("Stored = %d, want 1 using the previous tracked set", res.Stored)
	}
}

func TestPoller_FetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	f := &mockFetcher{err: fetchErr}
	s := &mockStore{ids: []string{"AE1234"}}
	p := newTestPoller(f, s, nil)

	if _, err := p.PollOnce(context.Background()); !errors.Is(err, fetchErr) {
		t.Errorf("PollOnce() error = %v, want %v", err, fetchErr)
	}
}

func TestPoller_SpoolsOnInsertFailureAndReplays(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{States: [][]any{
		vector("ae1234", 1773500395, -77.03, 38.89),
		vector("3c4b26", 1773500391, 13.4, 52.5),
	}}}
	s := &mockStore{ids: []string{"AE1234", "3C4B26"}, insertErr: errDBLocked}
	sp := &mockSpool{}
	p := newTestPoller(f, s, sp)

	res, err := p.PollOnce(context.Background())
	if err != nil {
		t.Fatalf("PollOnce() error = %v, want spooled success", err)
	}
	if res.Spooled != 2 || res.Stored != 0 {
		t.Errorf("PollOnce() = %+v, want 2 spooled", res)
	}
	if sp.Depth() != 1 {
		t.Fatalf("spool depth = %d, want 1", sp.Depth())
	}

	// Database recovers: the next poll replays the spool first.
	s.setInsertErr(nil)
	f.resp = &StatesResponse{States: [][]any{vector("ae1234", 1773500405, -77.0, 38.9)}}
	res, err = p.PollOnce(context.Background())
	if err != nil {
		t.Fatalf("PollOnce() error = %v", err)
	}
	if res.Replayed != 2 || res.Stored != 1 {
		t.Errorf("PollOnce() = %+v, want 2 replayed and 1 stored", res)
	}
	if sp.Depth() != 0 {
		t.Errorf("spool depth = %d, want 0", sp.Depth())
	}
	if len(s.inserted) != 3 || s.inserted[0].ICAOHex != "AE1234" || s.inserted[2].Timestamp.Unix() != 1773500405 {
		t.Errorf("inserted = %+v", s.inserted)
	}
}

func TestPoller_InsertAndSpoolFailure(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{States: [][]any{vector("ae1234", 1773500395, -77.03, 38.89)}}}
	s := &mockStore{ids: []string{"AE1234"}, insertErr: errDBLocked}
	spoolErr := errors.New("disk full")
	sp := &mockSpool{writeErr: spoolErr}
	p := newTestPoller(f, s, sp)

	_, err := p.PollOnce(context.Background())
	if !errors.Is(err, errDBLocked) || !errors.Is(err, spoolErr) {
		t.Fatalf("PollOnce() error = %v, want both store and spool errors", err)
	}

	// The lost sample must not be treated as a duplicate on retry.
	s.setInsertErr(nil)
	res, err := p.PollOnce(context.Background())
	if err != nil {
		t.Fatalf("retry PollOnce() error = %v", err)
	}
	if res.Stored != 1 || res.Duplicates != 0 {
		t.Errorf("retry = %+v, want the sample stored", res)
	}
}

func TestPoller_InsertFailureWithoutSpool(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{States: [][]any{vector("ae1234", 1773500395, -77.03, 38.89)}}}
	s := &mockStore{ids: []string{"AE1234"}, insertErr: errDBLocked}
	p := newTestPoller(f, s, nil)

	if _, err := p.PollOnce(context.Background()); !errors.Is(err, errDBLocked) {
		t.Errorf("PollOnce() error = %v, want %v", err, errDBLocked)
	}
}

func TestPoller_TaskInterface(t *testing.T) {
	f := &mockFetcher{resp: &StatesResponse{}}
	p := newTestPoller(f, &mockStore{ids: []string{"AE1234"}}, nil)
	if p.Name() != "ingestion" {
		t.Errorf("Name() = %q", p.Name())
	}
	if err := p.Run(context.Background()); err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
