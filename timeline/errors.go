// Package timeline owns the history of a simulation: a head scene, a
// vector of periodic key-frame snapshots, and an interval tree of every
// event the scene has ever produced or been fed. It drives forward
// simulation, accepts input events into past frames (truncating and
// cheaply re-deriving the invalidated tail on demand), and answers
// random-access frame and event queries by replaying from the nearest
// key-frame.
package timeline

import "errors"

// ErrInvalidArgument reports a query outside the timeline's stored range
// or a resolution that doesn't evenly divide the requested samples.
var ErrInvalidArgument = errors.New("timeline: invalid argument")
