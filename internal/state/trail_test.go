package state

import (
	"testing"
	"time"

	"github.com/orbitcast/orbitcast/internal/propagation"
	"github.com/orbitcast/orbitcast/internal/tle"
	"github.com/orbitcast/orbitcast/internal/transform"
)

// instantSolver returns a canned state but fails for configured instants.
type instantSolver struct {
	failAt map[time.Time]bool
	calls  []time.Time
}

func (s *instantSolver) Propagate(set *tle.ElementSet, at time.Time) (propagation.StateECI, error) {
	s.calls = append(s.calls, at)
	if s.failAt[at] {
		return propagation.StateECI{}, &propagation.Error{At: at, Code: 4, Msg: "semi-latus rectum"}
	}
	return propagation.StateECI{
		Position: transform.Vec3{X: 6778, Y: 0, Z: 0},
		Velocity: transform.Vec3{X: 0, Y: 7.66, Z: 0},
	}, nil
}

// TestComputeTrailCounts verifies the arc sizes for the standard window:
// 61 past points (inclusive of center) and 60 future points.
func TestComputeTrailCounts(t *testing.T) {
	solver := &instantSolver{}
	composer := NewComposer(solver, testLogger())
	center := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)

	trail := composer.ComputeTrail(issSet(t), center, TrailWindow{
		Past:   30 * time.Minute,
		Future: 30 * time.Minute,
		Step:   30 * time.Second,
	})

	if len(trail.Past) != 61 {
		t.Errorf("past points = %d, want 61", len(trail.Past))
	}
	if len(trail.Future) != 60 {
		t.Errorf("future points = %d, want 60", len(trail.Future))
	}
}

// TestComputeTrailBoundaries verifies the exact instants sampled: the past
// arc ends at the center instant, the future arc starts one step after it.
func TestComputeTrailBoundaries(t *testing.T) {
	solver := &instantSolver{}
	composer := NewComposer(solver, testLogger())
	center := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	step := 30 * time.Second

	composer.ComputeTrail(issSet(t), center, TrailWindow{
		Past:   2 * time.Minute,
		Future: 2 * time.Minute,
		Step:   step,
	})

	// 5 past samples (inclusive) + 4 future samples.
	if len(solver.calls) != 9 {
		t.Fatalf("sampled %d instants, want 9", len(solver.calls))
	}
	if !solver.calls[0].Equal(center.Add(-2 * time.Minute)) {
		t.Errorf("first sample = %v, want center-2m", solver.calls[0])
	}
	if !solver.calls[4].Equal(center) {
		t.Errorf("last past sample = %v, want center", solver.calls[4])
	}
	if !solver.calls[5].Equal(center.Add(step)) {
		t.Errorf("first future sample = %v, want center+step", solver.calls[5])
	}
	if !solver.calls[8].Equal(center.Add(2 * time.Minute)) {
		t.Errorf("last sample = %v, want center+2m", solver.calls[8])
	}
}

// TestComputeTrailDropsFailingSamples verifies a failing instant is omitted
// from its arc without aborting the trail.
func TestComputeTrailDropsFailingSamples(t *testing.T) {
	center := time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)
	step := 30 * time.Second
	solver := &instantSolver{failAt: map[time.Time]bool{
		center.Add(-step):     true, // one past sample
		center.Add(3 * step):  true, // one future sample
	}}
	composer := NewComposer(solver, testLogger())

	trail := composer.ComputeTrail(issSet(t), center, TrailWindow{
		Past:   30 * time.Minute,
		Future: 30 * time.Minute,
		Step:   step,
	})

	if len(trail.Past) != 60 {
		t.Errorf("past points = %d, want 60 (one dropped)", len(trail.Past))
	}
	if len(trail.Future) != 59 {
		t.Errorf("future points = %d, want 59 (one dropped)", len(trail.Future))
	}
}

// TestComputeTrailRealSolver runs the sampler against the real solver as a
// smoke test: every point must carry plausible geodetic values.
func TestComputeTrailRealSolver(t *testing.T) {
	set := issSet(t)
	composer := NewComposer(propagation.NewSolver(testLogger()), testLogger())

	trail := composer.ComputeTrail(set, set.Epoch, TrailWindow{
		Past:   5 * time.Minute,
		Future: 5 * time.Minute,
		Step:   time.Minute,
	})

	if len(trail.Past) != 6 || len(trail.Future) != 5 {
		t.Fatalf("arc sizes = %d/%d, want 6/5", len(trail.Past), len(trail.Future))
	}

	for _, p := range append(append([]TrailPoint{}, trail.Past...), trail.Future...) {
		if p.LatDeg < -90 || p.LatDeg > 90 || p.LonDeg < -180 || p.LonDeg > 180 {
			t.Errorf("point out of range: %+v", p)
		}
		if p.AltKm < 300 || p.AltKm > 500 {
			t.Errorf("altitude %f km implausible for ISS", p.AltKm)
		}
	}
}
