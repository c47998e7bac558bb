// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package database

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/skywatch/internal/config"
	"github.com/tomtom215/skywatch/internal/models"
)

// testDBSemaphore limits concurrent DuckDB instances in tests.
var testDBSemaphore = make(chan struct{}, 4)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

// setupTestDB creates an in-memory database with a fixed clock.
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	testDBSemaphore <- struct{}{}
	db, err := New(&config.DatabaseConfig{
		Path:                   ":memory:",
		MaxMemory:              "512MB",
		PreserveInsertionOrder: true,
		SkipIndexes:            true,
	})
	if err != nil {
		<-testDBSemaphore
		t.Fatalf("Failed to create test database: %v", err)
	}
	db.now = func() time.Time { return testNow }

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
		<-testDBSemaphore
	})
	return db
}

func testProfile(icao, country string) models.AircraftProfile {
	return models.AircraftProfile{
		ICAOHex:      icao,
		AircraftType: "Gulfstream G550",
		OwnerCountry: country,
		OwnerOrg:     "Air Force",
		IsMilitary:   true,
		VIPTier:      4,
	}
}

func testPosition(icao string, ago time.Duration) models.Position {
	return models.Position{
		Timestamp: testNow.Add(-ago),
		ICAOHex:   icao,
		Callsign:  "SAM" + icao[:2],
		Lat:       38.9,
		Lon:       -77.0,
		Source:    "opensky",
	}
}

func mustUpsert(t *testing.T, db *DB, profiles ...models.AircraftProfile) {
	t.Helper()
	if _, err := db.UpsertProfiles(context.Background(), profiles); err != nil {
		t.Fatalf("UpsertProfiles() error = %v", err)
	}
}

func mustInsert(t *testing.T, db *DB, positions ...models.Position) {
	t.Helper()
	if _, err := db.InsertPositions(context.Background(), positions); err != nil {
		t.Fatalf("InsertPositions() error = %v", err)
	}
}

func TestNew_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	counts, err := db.GetRecordCounts(context.Background())
	if err != nil {
		t.Fatalf("GetRecordCounts() error = %v", err)
	}
	if counts != (RecordCounts{}) {
		t.Errorf("counts = %+v, want all zero", counts)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
	if db.GetDatabasePath() != ":memory:" {
		t.Errorf("GetDatabasePath() = %q", db.GetDatabasePath())
	}
}

func TestNew_FileDatabaseWithIndexes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "skywatch.duckdb")
	db, err := New(&config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening must tolerate the existing schema.
	db, err = New(&config.DatabaseConfig{Path: path, MaxMemory: "256MB", Threads: 1})
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestConnectionString(t *testing.T) {
	got := connectionString(&config.DatabaseConfig{Path: "/data/x.duckdb", Threads: 2, MaxMemory: "2GB"})
	for _, want := range []string{
		"/data/x.duckdb?access_mode=read_write",
		"threads=2",
		"max_memory=2GB",
		"preserve_insertion_order=false",
		"autoload_known_extensions=false",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("connectionString() = %q, missing %q", got, want)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("sql: database is closed"), true},
		{fmt.Errorf("query: %w", context.DeadlineExceeded), true},
		{errors.New("IO Error: could not read"), true},
		{errors.New("Binder Error: column not found"), false},
	}

	for _, tt := range tests {
		if got := IsConnectionError(tt.err); got != tt.want {
			t.Errorf("IsConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestClosedDatabase(t *testing.T) {
	db, err := New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", SkipIndexes: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	if err := db.Ping(context.Background()); err == nil {
		t.Error("Ping() on closed database should fail")
	}
}
