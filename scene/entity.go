// Package scene holds the component arrays that together describe one
// simulated frame: a struct-of-arrays scene graph instead of per-entity
// heap objects. Required components are dense, one slot per entity,
// indexed directly by Entity value. Optional components live in
// per-type vectors kept sorted by id and searched with a binary search,
// trading O(log n) lookup for no wasted space on entities that don't
// carry the component.
package scene

// Entity is an opaque index into the required-component arrays. It is
// never reused: destruction is a flag (Flags.Destroyed), not removal
// from the arrays, so existing indices stay valid for the scene's
// lifetime.
type Entity int32

// Nil is the sentinel entity value, used for "no parent", "no pool", etc.
const Nil Entity = -1

// Valid reports whether e is a real entity reference (not Nil).
func (e Entity) Valid() bool { return e != Nil }
