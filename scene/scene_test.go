package scene

import (
	"testing"

	"github.com/kestrel-sim/spacesim/math/lin"
)

func TestPushKeepsRequiredVectorsAligned(t *testing.T) {
	s := New()
	a := s.Push(Transform{Position: lin.Vec3{X: 1}})
	b := s.Push(Mass{Inertial: 5})
	if a != 0 || b != 1 {
		t.Fatalf("expected sequential entity ids, got %d %d", a, b)
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if s.Transforms[a].Position.X != 1 {
		t.Errorf("transform not applied at push")
	}
	if s.Masses[b].Inertial != 5 {
		t.Errorf("mass not applied at push")
	}
}

func TestPushWithNoComponentsReservesZeroSlot(t *testing.T) {
	s := New()
	id := s.Push()
	if s.Transforms[id] != (Transform{}) {
		t.Errorf("expected zero-value transform for reserved slot")
	}
	if s.Flags[id] != 0 {
		t.Errorf("expected zero flags for reserved slot")
	}
}

func TestOptionalComponentSortedInsert(t *testing.T) {
	s := New()
	for i := 0; i < 5; i++ {
		s.Push()
	}
	s.SetOrbit(Orbit{ID: 3})
	s.SetOrbit(Orbit{ID: 0})
	s.SetOrbit(Orbit{ID: 4})
	s.SetOrbit(Orbit{ID: 1})

	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	want := []Entity{0, 1, 3, 4}
	if len(s.Orbits) != len(want) {
		t.Fatalf("len(Orbits) = %d, want %d", len(s.Orbits), len(want))
	}
	for i, id := range want {
		if s.Orbits[i].ID != id {
			t.Errorf("Orbits[%d].ID = %d, want %d", i, s.Orbits[i].ID, id)
		}
	}
}

func TestSetOrbitOverwritesExisting(t *testing.T) {
	s := New()
	s.Push()
	s.SetOrbit(Orbit{ID: 0, Focus: lin.Vec3{X: 1}})
	s.SetOrbit(Orbit{ID: 0, Focus: lin.Vec3{X: 2}})

	if len(s.Orbits) != 1 {
		t.Fatalf("expected single orbit entry, got %d", len(s.Orbits))
	}
	if s.Orbits[0].Focus.X != 2 {
		t.Errorf("expected overwrite to take effect, got %v", s.Orbits[0].Focus)
	}
}

func TestRocketLookupMissingReturnsFalse(t *testing.T) {
	s := New()
	s.Push()
	if _, ok := s.Rocket(0); ok {
		t.Errorf("expected no rocket component on fresh entity")
	}
}

func TestCopyIntoDuplicatesRequiredComponents(t *testing.T) {
	s := New()
	proto := s.Push(Transform{Position: lin.Vec3{X: 9}}, Collider{Radius: 2})
	clone := s.Push()
	s.CopyInto(clone, proto)

	if s.Transforms[clone].Position.X != 9 {
		t.Errorf("CopyInto did not copy transform")
	}
	if s.Colliders[clone].Radius != 2 {
		t.Errorf("CopyInto did not copy collider")
	}
}
