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

	"github.com/goccy/go-json"

	"github.com/tomtom215/skywatch/internal/models"
)

// Read API limits.
const (
	HistoryLimit = 1000
	AlertsLimit  = 20
)

// StoreScore appends one composite score row. Score rows are never
// updated or deleted.
func (db *DB) StoreScore(ctx context.Context, r *models.PanicScoreResult) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("insert", "panic_scores", start, err) }()

	airports := r.TopAirports
	if airports == nil {
		airports = []string{}
	}
	airportsJSON, err := json.Marshal(airports)
	if err != nil {
		return fmt.Errorf("failed to encode top airports: %w", err)
	}

	_, err = db.conn.ExecContext(ctx, `INSERT INTO panic_scores (
		timestamp, region, night_flight_score, convergence_score, airlift_score,
		vip_movement_score, overall_panic_score, flight_count, countries_involved,
		top_3_airports, narrative
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Timestamp.UTC(), r.Region, r.NightFlightScore, r.ConvergenceScore, r.AirliftScore,
		r.VIPMovementScore, r.OverallScore, r.FlightCount, r.CountriesInvolved,
		string(airportsJSON), r.Narrative,
	)
	if err != nil {
		return fmt.Errorf("failed to store score for %s: %w", r.Region, err)
	}
	return nil
}

// LatestScores returns the most recent score of every region, Global first
// and then by region name.
func (db *DB) LatestScores(ctx context.Context) (out []models.PanicScoreResult, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "panic_scores", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT
			timestamp, region, night_flight_score, convergence_score, airlift_score,
			vip_movement_score, overall_panic_score, flight_count, countries_involved,
			top_3_airports, narrative
		FROM panic_scores
		QUALIFY row_number() OVER (PARTITION BY region ORDER BY timestamp DESC) = 1
		ORDER BY CASE WHEN region = ? THEN 0 ELSE 1 END, region`, models.GlobalRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest scores: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	out = []models.PanicScoreResult{}
	for rows.Next() {
		var (
			r        models.PanicScoreResult
			airports string
		)
		if err = rows.Scan(
			&r.Timestamp, &r.Region, &r.NightFlightScore, &r.ConvergenceScore, &r.AirliftScore,
			&r.VIPMovementScore, &r.OverallScore, &r.FlightCount, &r.CountriesInvolved,
			&airports, &r.Narrative,
		); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		r.Timestamp = r.Timestamp.UTC()
		r.TopAirports = []string{}
		if err = json.Unmarshal([]byte(airports), &r.TopAirports); err != nil {
			return nil, fmt.Errorf("failed to decode top airports for %s: %w", r.Region, err)
		}
		out = append(out, r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate scores: %w", err)
	}
	return out, nil
}

// History returns the overall scores of region within the last days days,
// oldest first. When more than HistoryLimit points exist the most recent
// HistoryLimit are returned.
func (db *DB) History(ctx context.Context, region string, days int) (out []models.HistoryPoint, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "panic_scores", start, err) }()

	cutoff := db.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT timestamp, score FROM (
			SELECT timestamp, overall_panic_score AS score
			FROM panic_scores
			WHERE region = ? AND timestamp >= ?
			ORDER BY timestamp DESC
			LIMIT ?
		)
		ORDER BY timestamp ASC`, region, cutoff, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	out = []models.HistoryPoint{}
	for rows.Next() {
		var p models.HistoryPoint
		if err = rows.Scan(&p.Timestamp, &p.Score); err != nil {
			return nil, fmt.Errorf("failed to scan history point: %w", err)
		}
		p.Timestamp = p.Timestamp.UTC()
		out = append(out, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return out, nil
}

// Alerts returns the newest scores at or above models.AlertMinScore,
// classified by severity.
func (db *DB) Alerts(ctx context.Context) (out []models.ScoreAlert, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "panic_scores", start, err) }()

	rows, err := db.conn.QueryContext(ctx, `
		SELECT region, overall_panic_score, narrative, flight_count, countries_involved, timestamp
		FROM panic_scores
		WHERE overall_panic_score >= ?
		ORDER BY timestamp DESC, region
		LIMIT ?`, models.AlertMinScore, AlertsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer closeWithLog(rows, nil, "rows")

	out = []models.ScoreAlert{}
	for rows.Next() {
		var a models.ScoreAlert
		if err = rows.Scan(&a.Region, &a.Score, &a.Narrative, &a.FlightCount, &a.CountriesInvolved, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.Timestamp = a.Timestamp.UTC()
		a.Type = models.ClassifyAlert(a.Score)
		out = append(out, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return out, nil
}

// NoPeakRegion is reported when no score has been recorded today.
const NoPeakRegion = "N/A"

// Stats returns live dashboard counters. Activity covers the last hour;
// the peak covers scores since 00:00 UTC today.
func (db *DB) Stats(ctx context.Context) (stats *models.LiveStats, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() { observe("select", "stats", start, err) }()

	now := db.now().UTC()
	stats = &models.LiveStats{PeakRegion: NoPeakRegion}

	var lastUpdate sql.NullTime
	err = db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(DISTINCT fp.icao_hex),
			COUNT(DISTINCT ap.owner_country),
			max(fp.timestamp)
		FROM flight_positions fp
		JOIN aircraft_profiles ap ON fp.icao_hex = ap.icao_hex
		WHERE fp.timestamp >= ?`, now.Add(-time.Hour)).
		Scan(&stats.ActiveAircraft, &stats.CountriesActive, &lastUpdate)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity stats: %w", err)
	}
	if lastUpdate.Valid {
		t := lastUpdate.Time.UTC()
		stats.LastUpdate = &t
	}

	var (
		peak       sql.NullInt64
		peakRegion sql.NullString
	)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	err = db.conn.QueryRowContext(ctx, `
		SELECT max(overall_panic_score), arg_max(region, overall_panic_score)
		FROM panic_scores
		WHERE timestamp >= ?`, dayStart).
		Scan(&peak, &peakRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to query peak score: %w", err)
	}
	if peak.Valid {
		stats.PeakScore = int(peak.Int64)
	}
	if peakRegion.Valid && peakRegion.String != "" {
		stats.PeakRegion = peakRegion.String
	}

	err = db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_vip)
		FROM aircraft_profiles`).
		Scan(&stats.TotalProfiles, &stats.VIPAircraft)
	if err != nil {
		return nil, fmt.Errorf("failed to query profile stats: %w", err)
	}

	return stats, nil
}
