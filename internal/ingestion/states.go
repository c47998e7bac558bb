// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package ingestion

import (
	"math"
	"strings"
	"time"

	"github.com/tomtom215/skywatch/internal/models"
)

// stateVectorFields is the field count of an OpenSky state vector
// (the category field at index 17 is optional).
const stateVectorFields = 17

// SourceOpenSky tags positions ingested from OpenSky.
const SourceOpenSky = "opensky"

// StateVector is one decoded OpenSky state vector. Nullable fields are pointers.
type StateVector struct {
	ICAO24        string
	Callsign      string
	OriginCountry string
	TimePosition  *int64
	LastContact   *int64
	Longitude     *float64
	Latitude      *float64
	BaroAltitude  *float64
	OnGround      bool
	Velocity      *float64
	TrueTrack     *float64
	VerticalRate  *float64
	GeoAltitude   *float64
	Squawk        string
}

// ParseStateVector decodes a positional state vector.
// It returns false for vectors that are too short or have no icao24.
//
//	0 icao24, 1 callsign, 2 origin_country, 3 time_position, 4 last_contact,
//	5 longitude, 6 latitude, 7 baro_altitude, 8 on_ground, 9 velocity,
//	10 true_track, 11 vertical_rate, 12 sensors, 13 geo_altitude, 14 squawk,
//	15 spi, 16 position_source
func ParseStateVector(raw []any) (StateVector, bool) {
	if len(raw) < stateVectorFields {
		return StateVector{}, false
	}

	icao, _ := raw[0].(string)
	icao = strings.TrimSpace(icao)
	if icao == "" {
		return StateVector{}, false
	}

	callsign, _ := raw[1].(string)
	country, _ := raw[2].(string)
	onGround, _ := raw[8].(bool)
	squawk, _ := raw[14].(string)

	return StateVector{
		ICAO24:        icao,
		Callsign:      strings.TrimSpace(callsign),
		OriginCountry: country,
		TimePosition:  asInt64(raw[3]),
		LastContact:   asInt64(raw[4]),
		Longitude:     asFloat(raw[5]),
		Latitude:      asFloat(raw[6]),
		BaroAltitude:  asFloat(raw[7]),
		OnGround:      onGround,
		Velocity:      asFloat(raw[9]),
		TrueTrack:     asFloat(raw[10]),
		VerticalRate:  asFloat(raw[11]),
		GeoAltitude:   asFloat(raw[13]),
		Squawk:        strings.TrimSpace(squawk),
	}, true
}

// HasPosition reports whether both coordinates are present.
func (s *StateVector) HasPosition() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// ObservedAt returns the position time, falling back to last contact, then now.
func (s *StateVector) ObservedAt(now time.Time) time.Time {
	switch {
	case s.TimePosition != nil:
		return time.Unix(*s.TimePosition, 0).UTC()
	case s.LastContact != nil:
		return time.Unix(*s.LastContact, 0).UTC()
	default:
		return now.UTC()
	}
}

// DedupeKey identifies a unique sample of an aircraft.
func (s *StateVector) DedupeKey(now time.Time) string {
	return strings.ToUpper(s.ICAO24) + ":" + s.ObservedAt(now).Format(time.RFC3339)
}

// ToPosition converts the vector to a stored position. Callers must check
// HasPosition first.
func (s *StateVector) ToPosition(now time.Time) models.Position {
	p := models.Position{
		Timestamp:    s.ObservedAt(now),
		ICAOHex:      strings.ToUpper(s.ICAO24),
		Callsign:     s.Callsign,
		Lat:          *s.Latitude,
		Lon:          *s.Longitude,
		GroundSpeed:  s.Velocity,
		Heading:      s.TrueTrack,
		VerticalRate: s.VerticalRate,
		OnGround:     s.OnGround,
		Squawk:       s.Squawk,
		Source:       SourceOpenSky,
	}

	alt := s.BaroAltitude
	if alt == nil {
		alt = s.GeoAltitude
	}
	if alt != nil {
		// Stored in meters, as OpenSky reports it.
		m := int(math.Round(*alt))
		p.Altitude = &m
	}
	return p
}

func asFloat(v any) *float64 {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) {
		return nil
	}
	return &f
}

func asInt64(v any) *int64 {
	f, ok := v.(float64)
	if !ok {
		return nil
	}
	i := int64(f)
	return &i
}
