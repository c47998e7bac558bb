// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package scoring

import (
	"fmt"
	"strings"
)

// NoDataNarrative is the narrative of a cycle with an empty working set.
const NoDataNarrative = "No data"

// LowActivityNarrative follows the prefix when no clause fires.
const LowActivityNarrative = "Low activity"

const clauseSeparator = " • "

// Clause thresholds on component values. Each is exclusive.
const (
	ConvergenceClauseThreshold = 60.0
	NightClauseThreshold       = 50.0
	VIPClauseThreshold         = 40.0
	AirliftClauseThreshold     = 50.0
)

// Severity prefix thresholds on the overall score. Each is exclusive.
const (
	AlertPrefixThreshold   = 75
	WarningPrefixThreshold = 50
	WatchPrefixThreshold   = 25
)

const (
	alertMarker   = "🚨"
	warningMarker = "⚠️"
	watchMarker   = "👀"
)

// maxNarrativeCountries caps how many convergence countries are named.
const maxNarrativeCountries = 5

var countryFlags = map[string]string{
	"US": "🇺🇸", "GB": "🇬🇧", "FR": "🇫🇷", "DE": "🇩🇪",
	"IT": "🇮🇹", "ES": "🇪🇸", "NL": "🇳🇱", "PL": "🇵🇱",
	"TR": "🇹🇷", "RU": "🇷🇺", "CN": "🇨🇳", "SA": "🇸🇦",
	"AE": "🇦🇪", "IL": "🇮🇱", "CL": "🇨🇱", "CO": "🇨🇴",
}

// CountryMarker returns the flag for a known country code, or the code itself.
func CountryMarker(code string) string {
	if flag, ok := countryFlags[code]; ok {
		return flag
	}
	return code
}

// SeverityPrefix returns the marker for an overall score, or "" below watch level.
func SeverityPrefix(overall int) string {
	switch {
	case overall > AlertPrefixThreshold:
		return alertMarker
	case overall > WarningPrefixThreshold:
		return warningMarker
	case overall > WatchPrefixThreshold:
		return watchMarker
	default:
		return ""
	}
}

// Narrate builds the summary text. Clauses always appear in the order
// convergence, night, VIP, airlift.
func Narrate(c Components, overall int) string {
	var parts []string

	if ctx, ok := c.Convergence.Context.(*ConvergenceContext); ok && ctx != nil &&
		c.Convergence.Value > ConvergenceClauseThreshold {
		countries := ctx.Countries
		if len(countries) > maxNarrativeCountries {
			countries = countries[:maxNarrativeCountries]
		}
		markers := make([]string, len(countries))
		for i, code := range countries {
			markers[i] = CountryMarker(code)
		}
		parts = append(parts, strings.Join(markers, " ")+" jets converging")
	}

	if ctx, ok := c.NightFlight.Context.(*NightFlightContext); ok && ctx != nil &&
		c.NightFlight.Value > NightClauseThreshold && ctx.Count > 0 {
		parts = append(parts, fmt.Sprintf("%d gov flights during night hours", ctx.Count))
	}

	if ctx, ok := c.VIPMovement.Context.(*VIPMovementContext); ok && ctx != nil &&
		c.VIPMovement.Value > VIPClauseThreshold && ctx.Count > 0 {
		parts = append(parts, fmt.Sprintf("%d VIP aircraft active", ctx.Count))
	}

	if ctx, ok := c.Airlift.Context.(*AirliftContext); ok && ctx != nil &&
		c.Airlift.Value > AirliftClauseThreshold && ctx.ActiveAircraft > 0 {
		parts = append(parts, fmt.Sprintf("%d cargo aircraft in operation", ctx.ActiveAircraft))
	}

	prefix := SeverityPrefix(overall)
	if prefix != "" {
		prefix += " "
	}
	if len(parts) == 0 {
		return prefix + LowActivityNarrative
	}
	return prefix + strings.Join(parts, clauseSeparator)
}
