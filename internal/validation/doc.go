// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

/*
Package validation wraps go-playground/validator v10 with a shared
instance and API-friendly error messages.

It validates aircraft profile rows loaded from CSV and the query
parameters of the read API:

	type historyQuery struct {
	    Region string `query:"region" validate:"required,max=64"`
	    Days   int    `query:"days" validate:"min=1,max=365"`
	}

	if verr := validation.ValidateStruct(&q); verr != nil {
	    apiErr := verr.ToAPIError()
	    ...
	}

Custom tags: icao (6 hex characters) and country (2 letters or "??").
Field names in messages come from the query, json, or csv struct tag.
*/
package validation
