package lin

// AABB is an axis-aligned bounding box described by its minimum and
// maximum corners.
type AABB struct {
	Min, Max Vec3
}

// FromCenterAndHalfExtents returns the box centered on center that extends
// half-extent in every direction.
func FromCenterAndHalfExtents(center, halfExtents Vec3) AABB {
	return AABB{Min: center.Sub(halfExtents), Max: center.Add(halfExtents)}
}

// Overlaps reports whether b and o share at least one point, closed on
// both ends so that two boxes exactly touching still overlap.
func (b AABB) Overlaps(o AABB) bool {
	return b.Max.X >= o.Min.X && b.Min.X <= o.Max.X &&
		b.Max.Y >= o.Min.Y && b.Min.Y <= o.Max.Y &&
		b.Max.Z >= o.Min.Z && b.Min.Z <= o.Max.Z
}

// Encapsulate returns the smallest box containing both b and o.
func (b AABB) Encapsulate(o AABB) AABB {
	return AABB{Min: b.Min.Min(o.Min), Max: b.Max.Max(o.Max)}
}

// EncapsulatePoint returns the smallest box containing b and point p.
func (b AABB) EncapsulatePoint(p Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 { return b.Min.Add(b.Max).Scale(0.5) }

// Extent returns, for each axis, Max-Min on that axis.
func (b AABB) Extent() Vec3 { return b.Max.Sub(b.Min) }

// Sweep extends b to also cover b translated by motion, producing the
// swept volume an entity's collider occupies while moving from its
// current position to new_position over one simulation step.
func (b AABB) Sweep(motion Vec3) AABB {
	translated := AABB{Min: b.Min.Add(motion), Max: b.Max.Add(motion)}
	return b.Encapsulate(translated)
}

// LongestAxis returns the index (0=X, 1=Y, 2=Z) of the box's longest extent,
// used by the BVH builder to choose a split axis.
func (b AABB) LongestAxis() int {
	e := b.Extent()
	axis := 0
	longest := e.X
	if e.Y > longest {
		axis, longest = 1, e.Y
	}
	if e.Z > longest {
		axis = 2
	}
	return axis
}

// AxisValue returns the center coordinate of b along the given axis
// (0=X, 1=Y, 2=Z).
func (b AABB) AxisValue(axis int) float64 {
	c := b.Center()
	switch axis {
	case 0:
		return c.X
	case 1:
		return c.Y
	default:
		return c.Z
	}
}
