package scene

import "sort"

// Scene holds every component array for one simulated frame. Required
// components are parallel arrays indexed by Entity; optional components
// are sorted by id and searched with binary search.
type Scene struct {
	Transforms []Transform
	Masses     []Mass
	Motions    []Motion
	Colliders  []Collider
	Glues      []Glue
	Flags      []Flags

	Orbits       []Orbit
	Durabilities []Durability
	Rockets      []Rocket
	ReusePools   []ReusePool
	ReuseTags    []ReuseTag
	Triggers     []Trigger
}

// New returns an empty scene.
func New() *Scene { return &Scene{} }

// Len returns the entity count.
func (s *Scene) Len() int { return len(s.Transforms) }

// Push appends one slot to every required-component array and returns
// the new entity. With no arguments the new slot holds zero values,
// which the object pool relies on when reserving inactive capacity.
func (s *Scene) Push(components ...any) Entity {
	id := Entity(len(s.Transforms))
	s.Transforms = append(s.Transforms, Transform{})
	s.Masses = append(s.Masses, Mass{})
	s.Motions = append(s.Motions, Motion{})
	s.Colliders = append(s.Colliders, Collider{})
	s.Glues = append(s.Glues, Glue{ParentID: Nil})
	s.Flags = append(s.Flags, 0)

	for _, c := range components {
		switch v := c.(type) {
		case Transform:
			s.Transforms[id] = v
		case Mass:
			s.Masses[id] = v
		case Motion:
			s.Motions[id] = v
		case Collider:
			s.Colliders[id] = v
		case Glue:
			s.Glues[id] = v
		case Flags:
			s.Flags[id] = v
		}
	}
	return id
}

// Clone returns a deep copy of s. Used to snapshot key-frames and to
// seed the scratch scene a random-access GetFrame replays into.
func (s *Scene) Clone() *Scene {
	return &Scene{
		Transforms: append([]Transform(nil), s.Transforms...),
		Masses:     append([]Mass(nil), s.Masses...),
		Motions:    append([]Motion(nil), s.Motions...),
		Colliders:  append([]Collider(nil), s.Colliders...),
		Glues:      append([]Glue(nil), s.Glues...),
		Flags:      append([]Flags(nil), s.Flags...),

		Orbits:       append([]Orbit(nil), s.Orbits...),
		Durabilities: append([]Durability(nil), s.Durabilities...),
		Rockets:      append([]Rocket(nil), s.Rockets...),
		ReusePools:   append([]ReusePool(nil), s.ReusePools...),
		ReuseTags:    append([]ReuseTag(nil), s.ReuseTags...),
		Triggers:     append([]Trigger(nil), s.Triggers...),
	}
}

// CopyFrom overwrites s in place with a deep copy of src's contents,
// reusing s's backing arrays where capacity allows.
func (s *Scene) CopyFrom(src *Scene) {
	s.Transforms = append(s.Transforms[:0], src.Transforms...)
	s.Masses = append(s.Masses[:0], src.Masses...)
	s.Motions = append(s.Motions[:0], src.Motions...)
	s.Colliders = append(s.Colliders[:0], src.Colliders...)
	s.Glues = append(s.Glues[:0], src.Glues...)
	s.Flags = append(s.Flags[:0], src.Flags...)

	s.Orbits = append(s.Orbits[:0], src.Orbits...)
	s.Durabilities = append(s.Durabilities[:0], src.Durabilities...)
	s.Rockets = append(s.Rockets[:0], src.Rockets...)
	s.ReusePools = append(s.ReusePools[:0], src.ReusePools...)
	s.ReuseTags = append(s.ReuseTags[:0], src.ReuseTags...)
	s.Triggers = append(s.Triggers[:0], src.Triggers...)
}

// CopyInto overwrites dst's required components with src's (src must be
// a valid entity in this scene). Used by the object pool to stamp out
// copies of a prototype entity.
func (s *Scene) CopyInto(dst, src Entity) {
	s.Transforms[dst] = s.Transforms[src]
	s.Masses[dst] = s.Masses[src]
	s.Motions[dst] = s.Motions[src]
	s.Colliders[dst] = s.Colliders[src]
	s.Glues[dst] = s.Glues[src]
	s.Flags[dst] = s.Flags[src]
}

// sortedInsert inserts v into s (sorted ascending by idOf), overwriting
// any existing entry with the same id. Appending at the tail is O(1);
// inserting in the middle is O(n) since the tail must shift right.
func sortedInsert[E any](s []E, idOf func(E) Entity, v E) []E {
	id := idOf(v)
	i := sort.Search(len(s), func(i int) bool { return idOf(s[i]) >= id })
	if i < len(s) && idOf(s[i]) == id {
		s[i] = v
		return s
	}
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func sortedFind[E any](s []E, idOf func(E) Entity, id Entity) (E, bool) {
	i := sort.Search(len(s), func(i int) bool { return idOf(s[i]) >= id })
	if i < len(s) && idOf(s[i]) == id {
		return s[i], true
	}
	var zero E
	return zero, false
}

func orbitID(o Orbit) Entity             { return o.ID }
func durabilityID(d Durability) Entity   { return d.ID }
func rocketID(r Rocket) Entity           { return r.ID }
func reusePoolID(p ReusePool) Entity     { return p.ID }
func reuseTagID(r ReuseTag) Entity       { return r.ID }
func triggerID(t Trigger) Entity         { return t.ID }

// SetOrbit inserts or replaces the Orbit component for o.ID.
func (s *Scene) SetOrbit(o Orbit) { s.Orbits = sortedInsert(s.Orbits, orbitID, o) }

// Orbit returns the Orbit component for id, if present.
func (s *Scene) Orbit(id Entity) (Orbit, bool) { return sortedFind(s.Orbits, orbitID, id) }

// SetDurability inserts or replaces the Durability component for d.ID.
func (s *Scene) SetDurability(d Durability) {
	s.Durabilities = sortedInsert(s.Durabilities, durabilityID, d)
}

// Durability returns the Durability component for id, if present.
func (s *Scene) Durability(id Entity) (Durability, bool) {
	return sortedFind(s.Durabilities, durabilityID, id)
}

// SetRocket inserts or replaces the Rocket component for r.ID.
func (s *Scene) SetRocket(r Rocket) { s.Rockets = sortedInsert(s.Rockets, rocketID, r) }

// Rocket returns the Rocket component for id, if present.
func (s *Scene) Rocket(id Entity) (Rocket, bool) { return sortedFind(s.Rockets, rocketID, id) }

// SetReusePool inserts or replaces the ReusePool component for p.ID.
func (s *Scene) SetReusePool(p ReusePool) {
	s.ReusePools = sortedInsert(s.ReusePools, reusePoolID, p)
}

// ReusePool returns the ReusePool component for id, if present.
func (s *Scene) ReusePool(id Entity) (ReusePool, bool) {
	return sortedFind(s.ReusePools, reusePoolID, id)
}

// SetReuseTag inserts or replaces the ReuseTag component for r.ID.
func (s *Scene) SetReuseTag(r ReuseTag) { s.ReuseTags = sortedInsert(s.ReuseTags, reuseTagID, r) }

// ReuseTag returns the ReuseTag component for id, if present.
func (s *Scene) ReuseTag(id Entity) (ReuseTag, bool) { return sortedFind(s.ReuseTags, reuseTagID, id) }

// SetTrigger inserts or replaces the Trigger component for t.ID.
func (s *Scene) SetTrigger(t Trigger) { s.Triggers = sortedInsert(s.Triggers, triggerID, t) }

// Trigger returns the Trigger component for id, if present.
func (s *Scene) Trigger(id Entity) (Trigger, bool) { return sortedFind(s.Triggers, triggerID, id) }

// Validate checks the struct-of-arrays invariants: all required
// component vectors share one length, and every optional component
// vector is strictly sorted by id.
func (s *Scene) Validate() error {
	n := len(s.Transforms)
	for _, l := range []int{len(s.Masses), len(s.Motions), len(s.Colliders), len(s.Glues), len(s.Flags)} {
		if l != n {
			return errLenMismatch
		}
	}
	if !sortedAscending(s.Orbits, orbitID) {
		return errUnsorted
	}
	if !sortedAscending(s.Durabilities, durabilityID) {
		return errUnsorted
	}
	if !sortedAscending(s.Rockets, rocketID) {
		return errUnsorted
	}
	if !sortedAscending(s.ReusePools, reusePoolID) {
		return errUnsorted
	}
	if !sortedAscending(s.ReuseTags, reuseTagID) {
		return errUnsorted
	}
	if !sortedAscending(s.Triggers, triggerID) {
		return errUnsorted
	}
	return nil
}

func sortedAscending[E any](s []E, idOf func(E) Entity) bool {
	for i := 1; i < len(s); i++ {
		if idOf(s[i-1]) >= idOf(s[i]) {
			return false
		}
	}
	return true
}
