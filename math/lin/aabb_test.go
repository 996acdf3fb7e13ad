package lin

import "testing"

func TestAABBOverlapsClosed(t *testing.T) {
	a := FromCenterAndHalfExtents(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	b := FromCenterAndHalfExtents(Vec3{2, 0, 0}, Vec3{1, 1, 1})
	if !a.Overlaps(b) {
		t.Errorf("boxes touching exactly at x=1 should overlap")
	}
	c := FromCenterAndHalfExtents(Vec3{2.001, 0, 0}, Vec3{1, 1, 1})
	if a.Overlaps(c) {
		t.Errorf("boxes should not overlap once separated")
	}
}

func TestAABBZeroSizeCoincident(t *testing.T) {
	a := AABB{Min: Vec3{1, 1, 1}, Max: Vec3{1, 1, 1}}
	b := AABB{Min: Vec3{1, 1, 1}, Max: Vec3{1, 1, 1}}
	if !a.Overlaps(b) {
		t.Errorf("coincident zero-size boxes should still overlap")
	}
}

func TestAABBEncapsulate(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	b := AABB{Min: Vec3{-1, 2, 0}, Max: Vec3{0.5, 3, 5}}
	e := a.Encapsulate(b)
	if !e.Min.Eq(Vec3{-1, 0, 0}) || !e.Max.Eq(Vec3{1, 3, 5}) {
		t.Errorf("Encapsulate: got min=%v max=%v", e.Min, e.Max)
	}
}

func TestAABBSweep(t *testing.T) {
	a := FromCenterAndHalfExtents(Vec3{0, 0, 0}, Vec3{1, 1, 1})
	s := a.Sweep(Vec3{5, 0, 0})
	if !s.Max.Eq(Vec3{6, 1, 1}) || !s.Min.Eq(Vec3{-1, -1, -1}) {
		t.Errorf("Sweep: got min=%v max=%v", s.Min, s.Max)
	}
}

func TestAABBLongestAxis(t *testing.T) {
	a := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 5, 2}}
	if got := a.LongestAxis(); got != 1 {
		t.Errorf("LongestAxis = %d, want 1 (Y)", got)
	}
}
