// Package lin provides the vector, quaternion and bounding-box math used
// throughout the simulation core. It is a CPU based math library called
// every simulation step, so the guidelines are the same as for any hot
// loop: avoid allocating, prefer value receivers that are cheap to copy,
// and keep formulas close to their textbook form so they are easy to
// check against a reference.
package lin

import "math"

// Epsilon is the tolerance used to compare distances and angles that are
// the result of floating point arithmetic over a simulation step. This
// value is part of the deterministic replay contract: changing it changes
// where collisions land and how bounces resolve.
const Epsilon = 0.005

// KeplerEpsilon bounds the Newton iteration used to solve Kepler's
// equation. It is tighter than Epsilon because the solve feeds directly
// into a body's position for the whole frame.
const KeplerEpsilon = 1e-6

// KeplerMaxIterations caps the Newton iteration so a non-converging orbit
// (bad eccentricity, bad epoch) cannot hang a simulation step.
const KeplerMaxIterations = 100

// Aeq (~=) reports whether a and b are close enough that the difference
// is floating point noise rather than a real distinction.
func Aeq(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// AeqZ (~=) reports whether x is close enough to zero to treat as zero.
func AeqZ(x float64) bool { return math.Abs(x) < Epsilon }

// Clamp returns s restricted to the closed range [lb, ub].
func Clamp(s, lb, ub float64) float64 {
	switch {
	case s < lb:
		return lb
	case s > ub:
		return ub
	}
	return s
}

// Lerp returns the linear interpolation of a to b by the given ratio.
func Lerp(a, b, ratio float64) float64 { return (b-a)*ratio + a }
