// Package tle acquires and caches the satellite's two-line element set.
//
// A TLE encodes an orbit's shape, size, and epoch in two 69-column text
// records. Parsing is positional: every scalar lives at fixed character
// offsets, and the raw lines are preserved byte-for-byte for the SGP4 solver.
//
// The provider (Celestrak) refreshes element sets roughly twice a day, so
// the fetched set is cached in a single slot for an hour and served stale
// indefinitely if the provider becomes unreachable.
package tle

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse reads the 3-line NORAD TLE format: a name line followed by two data
// lines starting with "1 " and "2 ". Blank lines are ignored. Any violation
// of the fixed-column format returns a *FormatError.
func Parse(text string) (*ElementSet, error) {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(strings.TrimSpace(line), "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 3 {
		return nil, &FormatError{Reason: fmt.Sprintf("expected 3 non-blank lines, got %d", len(lines))}
	}

	name := strings.TrimSpace(lines[0])
	line1 := lines[1]
	line2 := lines[2]

	if !strings.HasPrefix(line1, "1 ") {
		return nil, &FormatError{Reason: fmt.Sprintf("line1 does not start with %q: %.30q", "1 ", line1)}
	}
	if !strings.HasPrefix(line2, "2 ") {
		return nil, &FormatError{Reason: fmt.Sprintf("line2 does not start with %q: %.30q", "2 ", line2)}
	}
	if len(line1) < 32 {
		return nil, &FormatError{Reason: fmt.Sprintf("line1 too short: %d columns", len(line1))}
	}
	if len(line2) < 63 {
		return nil, &FormatError{Reason: fmt.Sprintf("line2 too short: %d columns", len(line2))}
	}

	epoch, err := parseEpoch(strings.TrimSpace(line1[18:32]))
	if err != nil {
		return nil, &FormatError{Reason: err.Error()}
	}

	params, err := parseParams(line2)
	if err != nil {
		return nil, &FormatError{Reason: err.Error()}
	}

	return &ElementSet{
		Name:   name,
		Line1:  line1,
		Line2:  line2,
		Epoch:  epoch,
		Params: params,
	}, nil
}

// parseEpoch converts the epoch field in YYDDD.DDDDDDDD form to a UTC time.
// Two-digit years 57-99 map to the 1900s and 00-56 to the 2000s, covering
// the 1957-2056 window of the element-set convention. The day of year is
// 1-based and fractional.
func parseEpoch(s string) (time.Time, error) {
	if len(s) < 5 {
		return time.Time{}, fmt.Errorf("epoch field too short: %q", s)
	}

	year, err := strconv.Atoi(s[:2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch year %q: %w", s[:2], err)
	}
	if year >= 57 {
		year += 1900
	} else {
		year += 2000
	}

	dayOfYear, err := strconv.ParseFloat(s[2:], 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid epoch day %q: %w", s[2:], err)
	}

	base := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	return base.Add(time.Duration((dayOfYear - 1) * float64(24*time.Hour))), nil
}

// parseParams extracts the orbital parameters from line2 by column position.
// The eccentricity field stores the digits after the decimal point, so the
// stored text is prefixed with "0." before conversion.
func parseParams(line2 string) (Params, error) {
	inclination, err := strconv.ParseFloat(strings.TrimSpace(line2[8:16]), 64)
	if err != nil {
		return Params{}, fmt.Errorf("invalid inclination %q: %w", line2[8:16], err)
	}

	raan, err := strconv.ParseFloat(strings.TrimSpace(line2[17:25]), 64)
	if err != nil {
		return Params{}, fmt.Errorf("invalid RAAN %q: %w", line2[17:25], err)
	}

	ecc, err := strconv.ParseFloat("0."+strings.TrimSpace(line2[26:33]), 64)
	if err != nil {
		return Params{}, fmt.Errorf("invalid eccentricity %q: %w", line2[26:33], err)
	}

	meanMotion, err := strconv.ParseFloat(strings.TrimSpace(line2[52:63]), 64)
	if err != nil {
		return Params{}, fmt.Errorf("invalid mean motion %q: %w", line2[52:63], err)
	}
	if meanMotion <= 0 {
		return Params{}, fmt.Errorf("mean motion must be positive, got %f", meanMotion)
	}

	return Params{
		InclinationDeg: inclination,
		RAANDeg:        raan,
		Eccentricity:   ecc,
		MeanMotion:     meanMotion,
		PeriodMinutes:  1440.0 / meanMotion,
	}, nil
}
