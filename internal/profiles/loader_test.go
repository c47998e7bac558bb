// Skywatch - Government and VIP Aircraft Anomaly Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/skywatch

package profiles

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

const header = "icao_hex,registration,aircraft_type,owner_country,owner_org,is_military,is_government,is_vip,is_intel,vip_tier,home_base_airport,notes\n"

func TestLoad(t *testing.T) {
	csv := header +
		"adfdf8,82-8000,Boeing VC-25A,US,USAF,1,1,1,0,1,KADW,Air Force One\n" +
		"43C6F2,ZZ336,Airbus Voyager,gb,RAF,true,false,false,false,2,EGVN,\"Vespina, VIP config\"\n" +
		"\n" +
		"3B7540,F-RARF,Airbus A330,??,French AF,1,1,1,0,1,LFPV,\n"

	res, err := Load(strings.NewReader(csv), testNow)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(res.Rejected) != 0 {
		t.Fatalf("rejected = %v", res.Rejected)
	}
	if len(res.Profiles) != 3 {
		t.Fatalf("len = %d, want 3", len(res.Profiles))
	}

	p := res.Profiles[0]
	if p.ICAOHex != "ADFDF8" || !p.IsVIP || !p.IsGovernment || p.VIPTier != 1 || p.HomeBaseAirport != "KADW" {
		t.Errorf("profile[0] = %+v", p)
	}
	if !p.LastUpdated.Equal(testNow) {
		t.Errorf("LastUpdated = %v", p.LastUpdated)
	}
	if g := res.Profiles[1]; g.OwnerCountry != "GB" || !g.IsMilitary || g.IsVIP || g.Notes != "Vespina, VIP config" {
		t.Errorf("profile[1] = %+v", g)
	}
	if res.Profiles[2].OwnerCountry != "??" {
		t.Errorf("unknown country = %q", res.Profiles[2].OwnerCountry)
	}
}

func TestLoad_RejectsInvalidRows(t *testing.T) {
	csv := header +
		"ADFDF8,,C-17,US,USAF,1,0,0,0,4,,\n" +
		"XYZ,,C-17,US,USAF,1,0,0,0,4,,\n" +
		"AE1234,,C-17,USA,USAF,1,0,0,0,4,,\n" +
		"AE1235,,C-17,US,USAF,maybe,0,0,0,4,,\n" +
		"AE1236,,C-17,US,USAF,1,0,0,0,9,,\n" +
		"AE1237,,C-17,US,USAF,1,0,0,0,x,,\n"

	res, err := Load(strings.NewReader(csv), testNow)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(res.Profiles) != 1 {
		t.Errorf("accepted = %d, want 1", len(res.Profiles))
	}
	if len(res.Rejected) != 5 {
		t.Fatalf("rejected = %d, want 5: %v", len(res.Rejected), res.Rejected)
	}
	if res.Rejected[0].Line != 3 || res.Rejected[0].ICAO != "XYZ" {
		t.Errorf("first rejection = %+v", res.Rejected[0])
	}
}

func TestLoad_DuplicateICAOKeepsLast(t *testing.T) {
	csv := header +
		"ADFDF8,,C-17,US,USAF,1,0,0,0,4,,first\n" +
		"adfdf8,,C-17,US,USAF,1,0,0,0,3,,second\n"

	res, err := Load(strings.NewReader(csv), testNow)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Profiles) != 1 || res.Profiles[0].Notes != "second" || res.Profiles[0].VIPTier != 3 {
		t.Errorf("profiles = %+v", res.Profiles)
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	_, err := Load(strings.NewReader("icao_hex,owner_country\nADFDF8,US\n"), testNow)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("error = %v, want ErrMissingColumn", err)
	}
	if !strings.Contains(err.Error(), "vip_tier") {
		t.Errorf("error does not name missing column: %v", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	if _, err := Load(strings.NewReader(""), testNow); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.csv")
	if err := os.WriteFile(path, []byte(header+"ADFDF8,,C-17,US,USAF,1,0,0,0,4,,\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := LoadFile(path, testNow)
	if err != nil || len(res.Profiles) != 1 {
		t.Fatalf("LoadFile() = %v, %v", res, err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.csv"), testNow); err == nil {
		t.Error("expected error for missing file")
	}
}
