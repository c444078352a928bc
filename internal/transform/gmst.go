package transform

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// j2000 is the Julian Date of the J2000.0 epoch (January 1, 2000, 12:00:00 TT).
const j2000 = 2451545.0

// GMST angle at J2000 and rotation rate, IAU-82 linear model in degrees
// (Vallado Eq 3-45). The centennial correction terms are dropped; over the
// TLE era that costs well under an arcsecond.
const (
	gmstAtJ2000Deg = 280.46061837
	gmstRateDegDay = 360.98564736629
)

// JulianDate converts a UTC time to Julian Date using the same day-count
// algorithm as the SGP4 solver, so the rotation angle and the propagated
// position share one clock. Sub-second precision is truncated, matching the
// solver's whole-second input contract.
func JulianDate(t time.Time) float64 {
	t = t.UTC()
	return satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())
}

// GMST returns Greenwich Mean Sidereal Time in radians, normalized to [0, 2π).
// GMST is the rotation angle from the inertial X-axis to the prime meridian
// and links the inertial and Earth-fixed frames at the given instant.
func GMST(t time.Time) float64 {
	d := JulianDate(t) - j2000

	deg := math.Mod(gmstAtJ2000Deg+gmstRateDegDay*d, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg * math.Pi / 180.0
}
