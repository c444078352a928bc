package state

import (
	"time"

	"github.com/orbitcast/orbitcast/internal/tle"
	"github.com/orbitcast/orbitcast/internal/transform"
)

// TrailPoint is one ground-track sample.
type TrailPoint struct {
	LatDeg float64 `json:"lat"`
	LonDeg float64 `json:"lon"`
	AltKm  float64 `json:"alt_km"`
}

// Trail holds the ground-track arcs around a center instant, ordered by time.
// The center instant belongs to the past arc, never the future one.
type Trail struct {
	Past   []TrailPoint `json:"past"`
	Future []TrailPoint `json:"future"`
}

// TrailWindow describes how far back and forward to sample, and at what step.
type TrailWindow struct {
	Past   time.Duration
	Future time.Duration
	Step   time.Duration
}

// DefaultTrailWindow covers 30 minutes either side of center at 30-second
// steps, about two thirds of an ISS orbit.
func DefaultTrailWindow() TrailWindow {
	return TrailWindow{
		Past:   30 * time.Minute,
		Future: 30 * time.Minute,
		Step:   30 * time.Second,
	}
}

// ComputeTrail samples the ground track across the window. The past arc runs
// from center−past up to and including center; the future arc from
// center+step up to center+future.
//
// Individual propagation failures drop only the offending sample: isolated
// numerical failures near orbit edge cases should thin the trail, not blank
// it. Step counts are integral, so no float accumulation can shift the
// sample instants.
func (c *Composer) ComputeTrail(set *tle.ElementSet, center time.Time, w TrailWindow) *Trail {
	if w.Step <= 0 {
		w = DefaultTrailWindow()
	}
	center = center.UTC()

	pastSteps := int(w.Past / w.Step)
	futureSteps := int(w.Future / w.Step)

	trail := &Trail{
		Past:   make([]TrailPoint, 0, pastSteps+1),
		Future: make([]TrailPoint, 0, futureSteps),
	}

	for i := -pastSteps; i <= 0; i++ {
		at := center.Add(time.Duration(i) * w.Step)
		p, err := c.samplePoint(set, at)
		if err != nil {
			c.logger.Debug("trail sample dropped", "at", at.Format(time.RFC3339), "error", err)
			continue
		}
		trail.Past = append(trail.Past, p)
	}

	for i := 1; i <= futureSteps; i++ {
		at := center.Add(time.Duration(i) * w.Step)
		p, err := c.samplePoint(set, at)
		if err != nil {
			c.logger.Debug("trail sample dropped", "at", at.Format(time.RFC3339), "error", err)
			continue
		}
		trail.Future = append(trail.Future, p)
	}

	return trail
}

// samplePoint computes one ground-track point. Trail points only need the
// geodetic triple, so the velocity-derived fields are skipped.
func (c *Composer) samplePoint(set *tle.ElementSet, at time.Time) (TrailPoint, error) {
	eci, err := c.solver.Propagate(set, at)
	if err != nil {
		return TrailPoint{}, err
	}

	gmst := transform.GMST(at)
	geo := transform.ECEFToGeodetic(transform.ECIToECEF(eci.Position, gmst))

	return TrailPoint{
		LatDeg: round(geo.LatDeg, 3),
		LonDeg: round(geo.LonDeg, 3),
		AltKm:  round(geo.AltKm, 2),
	}, nil
}
