package scene

import "errors"

var (
	errLenMismatch = errors.New("scene: required component vectors have mismatched length")
	errUnsorted    = errors.New("scene: optional component vector is not sorted by id")
)
