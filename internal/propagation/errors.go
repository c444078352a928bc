package propagation

import (
	"fmt"
	"time"
)

// CodeUndetermined marks a propagation failure detected from non-finite or
// implausible solver output. The library runs the SGP4 model on a copy of
// its state, so the model's own error code is not observable at that point.
const CodeUndetermined = -1

// Error reports a failed propagation, naming the requested instant and the
// solver's status code. Solver codes: 1 = mean elements out of range,
// 2 = mean motion, 3 = perturbation elements, 4 = semi-latus rectum,
// 6 = orbit decayed.
type Error struct {
	At   time.Time
	Code int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("propagation failed at %s: code=%d %s", e.At.UTC().Format(time.RFC3339), e.Code, e.Msg)
}
