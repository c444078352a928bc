// Package state composes the full physical state of the tracked satellite at
// an instant: the solver's inertial state, the Earth-fixed position, the
// geodetic ground point, the sidereal rotation angle, and the orbital speed.
//
// Composed states are derived fresh on every call and never cached.
package state

import (
	"log/slog"
	"math"
	"time"

	"github.com/orbitcast/orbitcast/internal/propagation"
	"github.com/orbitcast/orbitcast/internal/tle"
	"github.com/orbitcast/orbitcast/internal/transform"
)

// Propagator is the external SGP4 solver contract the composer depends on.
type Propagator interface {
	Propagate(set *tle.ElementSet, at time.Time) (propagation.StateECI, error)
}

// FullState is one complete snapshot. The JSON field names are the wire
// contract consumed by stream subscribers and the REST API.
type FullState struct {
	Timestamp time.Time  `json:"timestamp"`
	LatDeg    float64    `json:"lat"`
	LonDeg    float64    `json:"lon"` // [-180, 180]
	AltKm     float64    `json:"alt_km"`
	SpeedKmS  float64    `json:"speed_km_s"`
	PosECI    [3]float64 `json:"r_eci"`  // km
	VelECI    [3]float64 `json:"v_eci"`  // km/s
	PosECEF   [3]float64 `json:"r_ecef"` // km
	GMSTRad   float64    `json:"gmst_rad"`
	GMSTDeg   float64    `json:"gmst_deg"`
}

// Composer orchestrates solver and frame transforms into snapshots and
// ground-track trails.
type Composer struct {
	solver Propagator
	logger *slog.Logger
}

// NewComposer creates a Composer using the given solver.
func NewComposer(solver Propagator, logger *slog.Logger) *Composer {
	return &Composer{solver: solver, logger: logger}
}

// ComputeState builds the full state at the given instant. A solver failure
// is returned unchanged; it carries the instant and status code.
//
// Output fields are rounded for presentation (positions 0.01 km, velocities
// 1e-6 km/s, angles 1e-4°, sidereal radians 1e-6); all intermediate math
// runs at full precision.
func (c *Composer) ComputeState(set *tle.ElementSet, at time.Time) (*FullState, error) {
	eci, err := c.solver.Propagate(set, at)
	if err != nil {
		return nil, err
	}

	gmst := transform.GMST(at)
	ecef := transform.ECIToECEF(eci.Position, gmst)
	geo := transform.ECEFToGeodetic(ecef)
	speed := transform.Speed(eci.Velocity)

	return &FullState{
		Timestamp: at.UTC(),
		LatDeg:    round(geo.LatDeg, 4),
		LonDeg:    round(geo.LonDeg, 4),
		AltKm:     round(geo.AltKm, 2),
		SpeedKmS:  round(speed, 4),
		PosECI:    roundVec(eci.Position, 2),
		VelECI:    roundVec(eci.Velocity, 6),
		PosECEF:   roundVec(ecef, 2),
		GMSTRad:   round(gmst, 6),
		GMSTDeg:   round(gmst*180.0/math.Pi, 4),
	}, nil
}

func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

func roundVec(v transform.Vec3, decimals int) [3]float64 {
	return [3]float64{round(v.X, decimals), round(v.Y, decimals), round(v.Z, decimals)}
}
