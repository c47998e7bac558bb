// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/metrics"
	"github.com/tomtom215/skywatch/internal/models"
	"github.com/tomtom215/skywatch/internal/scoring"
)

// InsertPositions appends position samples in one transaction.
// All samples are written or none are.
func (db *DB) InsertPositions(ctx context.Context, positions []models.Position) (n int, err error) {
	if len(positions) == 0 {
		return 0, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", "flight_positions", start, err) }()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer rollbackOnError(tx, &err)

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO flight_positions (
		timestamp, icao_hex, callsign, lat, lon, altitude,
		ground_speed, heading, vertical_rate, on_ground, squawk, source
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer closeWithLog(stmt, nil, "prepared statement")

	for i := range positions {
		p := &positions[i]
		source := p.Source
		if source == "" {
			source = "opensky"
		}
		if _, err = stmt.ExecContext(ctx,
			p.Timestamp.UTC(), p.ICAOHex, p.Callsign, p.Lat, p.Lon, nullInt(p.Altitude),
			nullFloat(p.GroundSpeed), nullFloat(p.Heading), nullFloat(p.VerticalRate),
			p.OnGround, p.Squawk, source,
		); err != nil {
			return 0, fmt.Errorf("failed to insert position %s: %w", p.ICAOHex, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit positions: %w", err)
	}
	return len(positions), nil
}

// LoadWindow returns every tracked position observed within lookback of now,
// joined with its aircraft profile, newest first. Positions of aircraft with
// no profile are excluded by the join. Rows missing lat or lon are dropped
// individually and counted as malformed.
//
// Any failure to read is reported as scoring.ErrDataUnavailable.
func (db *DB) LoadWindow(ctx context.Context, lookback time.Duration) (records []models.FlightRecord, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "flight_positions", start, err) }()

	cutoff := db.now().UTC().Add(-lookback)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			fp.icao_hex, fp.callsign, fp.timestamp, fp.lat, fp.lon, fp.altitude, fp.on_ground,
			ap.owner_country, ap.owner_org, ap.vip_tier, ap.is_military, ap.is_vip, ap.aircraft_type
		FROM flight_positions fp
		JOIN aircraft_profiles ap ON fp.icao_hex = ap.icao_hex
		WHERE fp.timestamp >= ?
		ORDER BY fp.timestamp DESC, fp.icao_hex, fp.lat, fp.lon`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", scoring.ErrDataUnavailable, err)
	}
	defer closeWithLog(rows, nil, "rows")

	malformed := 0
	for rows.Next() {
		var (
			r        models.FlightRecord
			lat, lon sql.NullFloat64
			altitude sql.NullInt64
		)
		if err = rows.Scan(
			&r.ICAOHex, &r.Callsign, &r.Timestamp, &lat, &lon, &altitude, &r.OnGround,
			&r.OwnerCountry, &r.OwnerOrg, &r.VIPTier, &r.IsMilitary, &r.IsVIP, &r.AircraftType,
		); err != nil {
			return nil, fmt.Errorf("%w: failed to scan window row: %w", scoring.ErrDataUnavailable, err)
		}
		if !lat.Valid || !lon.Valid {
			malformed++
			logging.Ctx(ctx).Debug().Err(scoring.MissingPosition(r.ICAOHex, r.Timestamp)).Msg("Dropping window row")
			continue
		}
		r.Lat, r.Lon = lat.Float64, lon.Float64
		r.Timestamp = r.Timestamp.UTC()
		if altitude.Valid {
			alt := int(altitude.Int64)
			r.Altitude = &alt
		}
		records = append(records, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", scoring.ErrDataUnavailable, err)
	}

	if malformed > 0 {
		metrics.MalformedRecords.WithLabelValues("window").Add(float64(malformed))
		logging.Ctx(ctx).Warn().
			Int("malformed", malformed).
			Msg("Dropped window rows without a position")
	}
	return records, nil
}

// PrunePositions deletes positions older than the retention period.
// Returns the number of rows deleted.
func (db *DB) PrunePositions(ctx context.Context, retention time.Duration) (deleted int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("delete", "flight_positions", start, err) }()

	cutoff := db.now().UTC().Add(-retention)
	res, err := db.conn.ExecContext(ctx, `DELETE FROM flight_positions WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune positions: %w", err)
	}
	deleted, err = res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read pruned row count: %w", err)
	}
	metrics.DBRowsPruned.Add(float64(deleted))
	return deleted, nil
}

// RecentAircraft returns position samples from the last since duration joined
// with their profiles, newest first.
func (db *DB) RecentAircraft(ctx context.Context, since time.Duration, limit int) (out []models.AircraftPosition, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "flight_positions", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			fp.icao_hex, fp.callsign, fp.lat, fp.lon, fp.altitude, fp.ground_speed, fp.heading,
			ap.owner_country, ap.owner_org, ap.aircraft_type, ap.is_vip, ap.vip_tier, fp.timestamp
		FROM flight_positions fp
		JOIN aircraft_profiles ap ON fp.icao_hex = ap.icao_hex
		WHERE fp.timestamp >= ? AND fp.lat IS NOT NULL AND fp.lon IS NOT NULL
		ORDER BY fp.timestamp DESC, fp.icao_hex
		LIMIT ?`, db.now().UTC().Add(-since), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent aircraft: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	out = []models.AircraftPosition{}
	for rows.Next() {
		var (
			a                    models.AircraftPosition
			altitude             sql.NullInt64
			groundSpeed, heading sql.NullFloat64
		)
		if err = rows.Scan(
			&a.ICAOHex, &a.Callsign, &a.Lat, &a.Lon, &altitude, &groundSpeed, &heading,
			&a.OwnerCountry, &a.OwnerOrg, &a.AircraftType, &a.IsVIP, &a.VIPTier, &a.LastUpdate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan aircraft position: %w", err)
		}
		a.Altitude = intPtr(altitude)
		a.GroundSpeed = floatPtr(groundSpeed)
		a.Heading = floatPtr(heading)
		a.LastUpdate = a.LastUpdate.UTC()
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent aircraft: %w", err)
	}
	return out, nil
}

// ActiveAircraft returns one row per aircraft seen within since, most
// recently seen first. The callsign is the one from the latest sample.
func (db *DB) ActiveAircraft(ctx context.Context, since time.Duration, limit int) (out []models.ActiveAircraft, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "flight_positions", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			fp.icao_hex,
			arg_max(fp.callsign, fp.timestamp) AS callsign,
			ap.owner_country, ap.owner_org, ap.aircraft_type, ap.is_vip, ap.vip_tier,
			max(fp.timestamp) AS last_seen
		FROM flight_positions fp
		JOIN aircraft_profiles ap ON fp.icao_hex = ap.icao_hex
		WHERE fp.timestamp >= ?
		GROUP BY fp.icao_hex, ap.owner_country, ap.owner_org, ap.aircraft_type, ap.is_vip, ap.vip_tier
		ORDER BY last_seen DESC, fp.icao_hex
		LIMIT ?`, db.now().UTC().Add(-since), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active aircraft: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	out = []models.ActiveAircraft{}
	for rows.Next() {
		var a models.ActiveAircraft
		if err = rows.Scan(
			&a.ICAOHex, &a.Callsign, &a.OwnerCountry, &a.OwnerOrg, &a.AircraftType,
			&a.IsVIP, &a.VIPTier, &a.LastSeen,
		); err != nil {
			return nil, fmt.Errorf("failed to scan active aircraft: %w", err)
		}
		a.LastSeen = a.LastSeen.UTC()
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active aircraft: %w", err)
	}
	return out, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
