// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/models"
)

const profileColumns = `icao_hex, registration, aircraft_type, owner_country, owner_org,
	is_military, is_government, is_vip, is_intel, vip_tier,
	home_base_airport, notes, last_updated`

// UpsertProfiles inserts or replaces aircraft profiles in one transaction.
// ICAO hex ids are uppercased; an unset LastUpdated is stamped with now.
func (db *DB) UpsertProfiles(ctx context.Context, profiles []models.AircraftProfile) (n int, err error) {
	if len(profiles) == 0 {
		return 0, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("upsert", "aircraft_profiles", start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO aircraft_profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer closeWithLog(stmt, nil, "prepared statement")

	now := db.now().UTC()
	for i := range profiles {
		p := &profiles[i]
		updated := p.LastUpdated
		if updated.IsZero() {
			updated = now
		}
		if _, err = stmt.ExecContext(ctx,
			strings.ToUpper(p.ICAOHex), p.Registration, p.AircraftType, p.OwnerCountry, p.OwnerOrg,
			p.IsMilitary, p.IsGovernment, p.IsVIP, p.IsIntel, p.VIPTier,
			p.HomeBaseAirport, p.Notes, updated.UTC(),
		); err != nil {
			return 0, fmt.Errorf("failed to upsert profile %s: %w", p.ICAOHex, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit profiles: %w", err)
	}
	return len(profiles), nil
}

// TruncateProfiles deletes every aircraft profile.
func (db *DB) TruncateProfiles(ctx context.Context) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("delete", "aircraft_profiles", start, err) }()

	if _, err = db.conn.ExecContext(ctx, `DELETE FROM aircraft_profiles`); err != nil {
		return fmt.Errorf("failed to truncate profiles: %w", err)
	}
	logging.Info().Msg("Aircraft profiles truncated")
	return nil
}

// GetProfile returns one profile by ICAO hex (case-insensitive).
// Returns ErrNotFound when no profile matches.
func (db *DB) GetProfile(ctx context.Context, icaoHex string) (*models.AircraftProfile, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM aircraft_profiles WHERE icao_hex = ?`,
		strings.ToUpper(icaoHex))

	var p models.AircraftProfile
	err := row.Scan(
		&p.ICAOHex, &p.Registration, &p.AircraftType, &p.OwnerCountry, &p.OwnerOrg,
		&p.IsMilitary, &p.IsGovernment, &p.IsVIP, &p.IsIntel, &p.VIPTier,
		&p.HomeBaseAirport, &p.Notes, &p.LastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", icaoHex, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", icaoHex, err)
	}
	return &p, nil
}

// ListTrackedIDs returns every profiled ICAO hex id, uppercased.
func (db *DB) ListTrackedIDs(ctx context.Context) (ids []string, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "aircraft_profiles", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `SELECT icao_hex FROM aircraft_profiles ORDER BY icao_hex`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked ids: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan tracked id: %w", err)
		}
		ids = append(ids, strings.ToUpper(id))
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracked ids: %w", err)
	}
	return ids, nil
}

// CountryCount is one row of the per-country profile summary.
type CountryCount struct {
	Country  string `json:"country"`
	Count    int    `json:"count"`
	VIP      int    `json:"vip"`
	Military int    `json:"military"`
}

// CountProfilesByCountry returns profile counts per owner country, largest first.
func (db *DB) CountProfilesByCountry(ctx context.Context) ([]CountryCount, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT owner_country, COUNT(*) AS cnt,
			COUNT(*) FILTER (WHERE is_vip),
			COUNT(*) FILTER (WHERE is_military)
		FROM aircraft_profiles
		GROUP BY owner_country
		ORDER BY cnt DESC, owner_country`)
	if err != nil {
		return nil, fmt.Errorf("failed to count profiles: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	var out []CountryCount
	for rows.Next() {
		var c CountryCount
		if err := rows.Scan(&c.Country, &c.Count, &c.VIP, &c.Military); err != nil {
			return nil, fmt.Errorf("failed to scan country count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
