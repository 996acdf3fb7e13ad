// Package sim implements the frame pipeline: the sequence of pure
// stages that turn one scene plus a span of input events into a
// mutated scene and a span of output events.
package sim

import "errors"

// Sentinel errors classifying why a stage rejected an event. Stage
// functions wrap these with fmt.Errorf("...: %w", ...) to attach the
// offending entity or index; callers match with errors.Is.
var (
	ErrNotFound          = errors.New("sim: component not found")
	ErrOutOfRange        = errors.New("sim: index out of range")
	ErrResourceExhausted = errors.New("sim: resource exhausted")
	ErrInvalidArgument   = errors.New("sim: invalid argument")
)
