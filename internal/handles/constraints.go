package handles

import (
	"math"

	"github.com/paulmach/orb"
)

// DefaultGridStep is the snap quantum in degrees, roughly 100 m at the
// equator. The grid is uniform, not geodesically corrected.
const DefaultGridStep = 0.001

// resolveConstraints is a pure function of the constraint set, the drag
// start position, and the candidate pointer position. Axis lock is
// applied first; grid snap then rounds only the unlocked axes, so a
// locked axis always equals its start value exactly even when the grid
// does not pass through the start point.
func resolveConstraints(c Constraints, start, candidate orb.Point, gridStep float64) orb.Point {
	if gridStep <= 0 {
		gridStep = DefaultGridStep
	}
	out := candidate
	switch c.LockAxis {
	case AxisX:
		out[0] = start[0]
	case AxisY:
		out[1] = start[1]
	}
	if c.SnapToGrid {
		if c.LockAxis != AxisX {
			out[0] = snap(out[0], gridStep)
		}
		if c.LockAxis != AxisY {
			out[1] = snap(out[1], gridStep)
		}
	}
	return out
}

func snap(v, step float64) float64 {
	return math.Round(v/step) * step
}
