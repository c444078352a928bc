package tle

import (
	"errors"
	"math"
	"testing"
	"time"
)

// Real ISS orbital elements used as a parsing fixture.
const (
	issName  = "ISS (ZARYA)"
	issLine1 = "1 25544U 98067A   24100.50000000  .00016717  00000-0  10270-3 0  9005"
	issLine2 = "2 25544  51.6400 100.0000 0001000   0.0000   0.0000 15.50000000    09"
)

const issText = issName + "\n" + issLine1 + "\n" + issLine2 + "\n"

func TestParse(t *testing.T) {
	set, err := Parse(issText)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if set.Name != issName {
		t.Errorf("name = %q, want %q", set.Name, issName)
	}
	// Lines must survive byte-for-byte; the solver parses them positionally.
	if set.Line1 != issLine1 || set.Line2 != issLine2 {
		t.Error("data lines were reformatted")
	}

	// Epoch 24100.5: day 100 of 2024 (leap year) is April 9, fraction .5 is noon.
	wantEpoch := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	if !set.Epoch.Equal(wantEpoch) {
		t.Errorf("epoch = %v, want %v", set.Epoch, wantEpoch)
	}

	p := set.Params
	if math.Abs(p.InclinationDeg-51.64) > 1e-9 {
		t.Errorf("inclination = %f, want 51.64", p.InclinationDeg)
	}
	if math.Abs(p.RAANDeg-100.0) > 1e-9 {
		t.Errorf("raan = %f, want 100.0", p.RAANDeg)
	}
	if math.Abs(p.Eccentricity-0.0001) > 1e-12 {
		t.Errorf("eccentricity = %g, want 0.0001", p.Eccentricity)
	}
	if math.Abs(p.MeanMotion-15.5) > 1e-9 {
		t.Errorf("mean motion = %f, want 15.5", p.MeanMotion)
	}
	if math.Abs(p.PeriodMinutes-1440.0/15.5) > 1e-9 {
		t.Errorf("period = %f min, want %f", p.PeriodMinutes, 1440.0/15.5)
	}
}

func TestParseEpochCentury(t *testing.T) {
	tests := []struct {
		field    string
		wantYear int
	}{
		{"57001.00000000", 1957}, // start of the convention window
		{"98325.28472222", 1998},
		{"00001.00000000", 2000},
		{"56365.00000000", 2056}, // end of the window
	}

	for _, tt := range tests {
		epoch, err := parseEpoch(tt.field)
		if err != nil {
			t.Fatalf("parseEpoch(%q) failed: %v", tt.field, err)
		}
		if epoch.Year() != tt.wantYear {
			t.Errorf("parseEpoch(%q).Year() = %d, want %d", tt.field, epoch.Year(), tt.wantYear)
		}
	}
}

func TestParseBlankLinesIgnored(t *testing.T) {
	text := "\n\n" + issName + "\r\n\n" + issLine1 + "\r\n" + issLine2 + "\n\n"
	set, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse with blank lines failed: %v", err)
	}
	if set.Line1 != issLine1 {
		t.Errorf("line1 = %q, want %q", set.Line1, issLine1)
	}
}

func TestParseFormatErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"too few lines", issName + "\n" + issLine1},
		{"bad line1 marker", issName + "\n3 25544U\n" + issLine2},
		{"bad line2 marker", issName + "\n" + issLine1 + "\n1 25544 duplicated"},
		{"short line1", issName + "\n1 25544U\n" + issLine2},
		{"short line2", issName + "\n" + issLine1 + "\n2 25544"},
		{"garbage epoch", issName + "\n1 25544U 98067A   XXYYY.ZZZZZZZZ  .00016717  00000-0  10270-3 0  9005\n" + issLine2},
		{"html error page", "<html><body>503 Service Unavailable</body></html>\nretry later\nplease\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Errorf("error type = %T, want *FormatError", err)
			}
		})
	}
}
