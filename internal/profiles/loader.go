// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package profiles

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
	"github.com/tomtom215/skywatch/internal/validation"
)

// Columns is the expected CSV header. Column order in the file is free.
var Columns = []string{
	"icao_hex", "registration", "aircraft_type", "owner_country", "owner_org",
	"is_military", "is_government", "is_vip", "is_intel", "vip_tier",
	"home_base_airport", "notes",
}

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing column")

// RowError describes one rejected CSV row. Line is 1-based and counts the header.
type RowError struct {
	Line int
	ICAO string
	Err  error
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d (%s): %v", e.Line, e.ICAO, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Result is the outcome of loading a profile file.
type Result struct {
	Profiles []models.AircraftProfile
	Rejected []RowError
}

// LoadFile reads profiles from a CSV file.
func LoadFile(path string, now time.Time) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f, now)
}

// Load parses profiles from CSV. ICAO addresses are uppercased and every
// row is validated; invalid rows are collected in Result.Rejected rather
// than failing the load. A later row with the same ICAO replaces an earlier one.
func Load(r io.Reader, now time.Time) (*Result, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	seen := make(map[string]int)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				res.Rejected = append(res.Rejected, RowError{Line: line, Err: err})
				continue
			}
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index, now)
		if err != nil {
			res.Rejected = append(res.Rejected, RowError{Line: line, ICAO: field(record, index, "icao_hex"), Err: err})
			continue
		}

		if i, dup := seen[p.ICAOHex]; dup {
			res.Profiles[i] = p
			continue
		}
		seen[p.ICAOHex] = len(res.Profiles)
		res.Profiles = append(res.Profiles, p)
	}
	return res, nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	var missing []string
	for _, c := range Columns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func parseRow(record []string, index map[string]int, now time.Time) (models.AircraftProfile, error) {
	var p models.AircraftProfile
	var err error

	p.ICAOHex = strings.ToUpper(field(record, index, "icao_hex"))
	p.Registration = field(record, index, "registration")
	p.AircraftType = field(record, index, "aircraft_type")
	p.OwnerCountry = strings.ToUpper(field(record, index, "owner_country"))
	p.OwnerOrg = field(record, index, "owner_org")
	p.HomeBaseAirport = field(record, index, "home_base_airport")
	p.Notes = field(record, index, "notes")
	p.LastUpdated = now.UTC()

	flags := []struct {
		col string
		dst *bool
	}{
		{"is_military", &p.IsMilitary},
		{"is_government", &p.IsGovernment},
		{"is_vip", &p.IsVIP},
		{"is_intel", &p.IsIntel},
	}
	for _, f := range flags {
		if *f.dst, err = parseFlag(field(record, index, f.col)); err != nil {
			return p, fmt.Errorf("%s: %w", f.col, err)
		}
	}

	if p.VIPTier, err = strconv.Atoi(field(record, index, "vip_tier")); err != nil {
		return p, fmt.Errorf("vip_tier: %w", err)
	}

	if verr := validation.ValidateStruct(&p); verr != nil {
		return p, verr
	}
	return p, nil
}

// parseFlag accepts 0/1 and the strconv.ParseBool spellings. Empty is false.
func parseFlag(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}

func field(record []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
