// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

// Command seed loads curated aircraft profiles from CSV into the
// aircraft_profiles table and prints a per-country summary.
//
//	seed --csv data/aircraft_profiles.csv [--truncate] [--config config.yaml]
//
// Rows that fail validation are logged and skipped. Existing profiles
// with the same ICAO address are replaced; --truncate removes every
// profile first.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tomtom215/skywatch/internal/config"
	"github.com/tomtom215/skywatch/internal/database"
	"github.com/tomtom215/skywatch/internal/logging"
	"github.com/tomtom215/skywatch/internal/profiles"
)

type options struct {
	csvPath    string
	configPath string
	truncate   bool
	strict     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.csvPath, "csv", "data/aircraft_profiles.csv", "profile CSV file")
	flag.StringVar(&opts.configPath, "config", "", "config file (default: CONFIG_PATH or standard locations)")
	flag.BoolVar(&opts.truncate, "truncate", false, "delete all existing profiles before loading")
	flag.BoolVar(&opts.strict, "strict", false, "fail if any row is rejected")
	flag.Parse()

	if err := run(context.Background(), opts, os.Stdout); err != nil {
		logging.Fatal().Err(err).Msg("Seeding failed")
	}
}

var errRejectedRows = errors.New("rows rejected")

func run(ctx context.Context, opts options, out io.Writer) error {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: "console"})

	res, err := profiles.LoadFile(opts.csvPath, time.Now())
	if err != nil {
		return err
	}
	for _, rej := range res.Rejected {
		logging.Warn().Int("line", rej.Line).Str("icao", rej.ICAO).Err(rej.Err).Msg("Skipping invalid profile row")
	}
	if opts.strict && len(res.Rejected) > 0 {
		return fmt.Errorf("%d %w", len(res.Rejected), errRejectedRows)
	}
	logging.Info().Int("profiles", len(res.Profiles)).Int("rejected", len(res.Rejected)).Str("file", opts.csvPath).Msg("Loaded profile CSV")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if opts.truncate {
		logging.Info().Msg("Clearing existing aircraft_profiles table")
		if err := db.TruncateProfiles(ctx); err != nil {
			return err
		}
	}

	n, err := db.UpsertProfiles(ctx, res.Profiles)
	if err != nil {
		return err
	}
	logging.Info().Int("profiles", n).Msg("Profiles upserted")

	counts, err := db.CountProfilesByCountry(ctx)
	if err != nil {
		return err
	}
	printSummary(out, counts)
	return nil
}

func printSummary(out io.Writer, counts []database.CountryCount) {
	fmt.Fprintln(out, "\nSummary by country:")
	fmt.Fprintf(out, "  %-10s %-8s %-8s %-10s\n", "Country", "Total", "VIP", "Military")
	fmt.Fprintf(out, "  %s\n", "----------------------------------------")
	for _, c := range counts {
		fmt.Fprintf(out, "  %-10s %-8d %-8d %-10d\n", c.Country, c.Count, c.VIP, c.Military)
	}
}
