// Package propagation wraps the external SGP4 solver. The solver's contract
// is fixed: it takes the two element-set lines plus an absolute instant
// (internally a Julian day split into integer and fractional parts) and
// returns an inertial position/velocity or a non-zero status code meaning
// the output must not be trusted.
//
// The solver is github.com/joshuaferrara/go-satellite, pure Go with explicit
// inertial (TEME) output. Two quirks are handled here: it calls
// log.Fatal on unparseable lines (so lines are pre-validated), and its
// Propagate helper takes the satellite by value, hiding runtime SGP4 error
// codes (so failures are additionally detected from the output itself).
package propagation

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/orbitcast/orbitcast/internal/metrics"
	"github.com/orbitcast/orbitcast/internal/tle"
	"github.com/orbitcast/orbitcast/internal/transform"
)

// StateECI is the solver's output: position (km) and velocity (km/s) in the
// non-rotating Earth-centered frame. Only the solver produces these.
type StateECI struct {
	Position transform.Vec3
	Velocity transform.Vec3
}

// initializedSat holds an SGP4 model initialized for one element set.
// Immutable after construction; safe for concurrent reads.
type initializedSat struct {
	line1, line2 string
	sat          satellite.Satellite
}

// Solver propagates a single satellite's element set to arbitrary instants.
// SGP4 initialization is much more expensive than a single propagation, so
// the initialized model is cached and rebuilt only when the lines change.
type Solver struct {
	logger *slog.Logger
	cached atomic.Pointer[initializedSat]
	mu     sync.Mutex // serializes model rebuilds
}

// NewSolver creates a Solver.
func NewSolver(logger *slog.Logger) *Solver {
	return &Solver{logger: logger}
}

// Propagate computes the inertial state at the given instant. The instant is
// truncated to whole seconds, matching the solver's input contract. Any
// failure is returned as a *propagation.Error carrying the instant and the
// solver's status code.
func (s *Solver) Propagate(set *tle.ElementSet, at time.Time) (StateECI, error) {
	model, err := s.cachedModel(set, at)
	if err != nil {
		metrics.IncPropagationErrors()
		return StateECI{}, err
	}

	at = at.UTC()
	start := time.Now()
	pos, vel := satellite.Propagate(model.sat, at.Year(), int(at.Month()), at.Day(), at.Hour(), at.Minute(), at.Second())
	metrics.ObservePropagation(time.Since(start))

	state := StateECI{
		Position: transform.Vec3{X: pos.X, Y: pos.Y, Z: pos.Z},
		Velocity: transform.Vec3{X: vel.X, Y: vel.Y, Z: vel.Z},
	}

	if !transform.ValidatePosition(state.Position) {
		metrics.IncPropagationErrors()
		return StateECI{}, &Error{
			At:   at,
			Code: CodeUndetermined,
			Msg:  fmt.Sprintf("implausible output position [%.1f %.1f %.1f] km", pos.X, pos.Y, pos.Z),
		}
	}

	return state, nil
}

// cachedModel returns the initialized SGP4 model for the element set,
// rebuilding under the mutex when the lines change (double-checked).
func (s *Solver) cachedModel(set *tle.ElementSet, at time.Time) (*initializedSat, error) {
	if c := s.cached.Load(); c != nil && c.line1 == set.Line1 && c.line2 == set.Line2 {
		return c, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.cached.Load(); c != nil && c.line1 == set.Line1 && c.line2 == set.Line2 {
		return c, nil
	}

	if err := validateLines(set.Line1, set.Line2); err != nil {
		return nil, &Error{At: at, Code: CodeUndetermined, Msg: err.Error()}
	}

	sat := satellite.TLEToSat(set.Line1, set.Line2, satellite.GravityWGS72)
	if sat.Error != 0 {
		return nil, &Error{At: at, Code: int(sat.Error), Msg: sat.ErrorStr}
	}

	model := &initializedSat{line1: set.Line1, line2: set.Line2, sat: sat}
	s.cached.Store(model)
	s.logger.Debug("sgp4 model initialized", "name", set.Name, "epoch", set.Epoch.Format(time.RFC3339))
	return model, nil
}

// validateLines guards the library's positional parser, which calls
// log.Fatal on malformed input.
func validateLines(line1, line2 string) error {
	line1 = strings.TrimRight(line1, " ")
	line2 = strings.TrimRight(line2, " ")

	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1', got %q", line1[0])
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2', got %q", line2[0])
	}

	for _, line := range []string{line1, line2} {
		for _, r := range line {
			if (r < '0' || r > '9') && r != ' ' && r != '.' && r != '-' && r != '+' &&
				(r < 'A' || r > 'Z') {
				return fmt.Errorf("unexpected character %q in element line", r)
			}
		}
	}
	return nil
}
