package sim

import (
	"math"

	"github.com/kestrel-sim/spacesim/bvh"
	"github.com/kestrel-sim/spacesim/layermatrix"
	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
)

// Detector owns the BVH and scratch buffers collision detection reuses
// across steps to avoid allocating on the hot path.
type Detector struct {
	matrix *layermatrix.Matrix
	tree   *bvh.Tree[scene.Entity]
	kvs    []bvh.KV[scene.Entity]
	bounds []lin.AABB
	hits   []bvh.KV[scene.Entity]
}

// NewDetector returns a Detector that only allows collisions between
// layer pairs matrix permits.
func NewDetector(matrix *layermatrix.Matrix) *Detector {
	return &Detector{matrix: matrix, tree: bvh.New[scene.Entity]()}
}

// sweptBounds builds the broad-phase box at the current position
// (offset by the collider's local center) encapsulated with the box at
// the post-integration NewPosition (bare, no center offset), matching
// the reference collision detector exactly.
func sweptBounds(sc *scene.Scene, id scene.Entity) lin.AABB {
	c := sc.Colliders[id]
	r := lin.Vec3{X: c.Radius, Y: c.Radius, Z: c.Radius}
	at := lin.FromCenterAndHalfExtents(sc.Transforms[id].Position.Add(c.Center), r)
	swept := lin.FromCenterAndHalfExtents(sc.Motions[id].NewPosition, r)
	return at.Encapsulate(swept)
}

func distanceToCollision(sc *scene.Scene, a, b scene.Entity, t float64) float64 {
	aPos := sc.Transforms[a].Position.Add(sc.Motions[a].Velocity.Scale(t)).Add(sc.Colliders[a].Center)
	bPos := sc.Transforms[b].Position.Add(sc.Motions[b].Velocity.Scale(t)).Add(sc.Colliders[b].Center)
	return aPos.Dist(bPos) - sc.Colliders[a].Radius - sc.Colliders[b].Radius
}

// collisionTime returns the earliest time in [0, dt] that a and b come
// into contact, or +Inf if they don't collide this frame. It samples the
// gap between the two spheres at 0, dt/2 and dt and treats the gap as
// constant, linear, or V-shaped (approach then recede) over the frame.
func collisionTime(sc *scene.Scene, a, b scene.Entity, dt float64) float64 {
	d0 := distanceToCollision(sc, a, b, 0)
	if d0 <= 0 {
		return 0
	}
	d1 := distanceToCollision(sc, a, b, dt/2)
	d2 := distanceToCollision(sc, a, b, dt)

	if lin.Aeq(d0, d1) && lin.Aeq(d0, d2) {
		return math.Inf(1)
	}
	if d0 < d1 && lin.Aeq(d0-d1, d1-d2) {
		// Linear and receding.
		return math.Inf(1)
	}
	if d0 > d1 && lin.Aeq(d0-d1, d1-d2) {
		// Linear and approaching.
		if d2 > 0 {
			return math.Inf(1)
		}
		slope := (d0 - d2) / dt
		return d0 / slope
	}

	// V-shaped: approach then recede.
	var slope float64
	if d0 > d2 {
		slope = (d1 - d0) / (dt / 2)
	} else {
		slope = (d1 - d2) / (dt / 2)
	}
	t := -d0 / slope
	if distanceToCollision(sc, a, b, t+epsAfter) < 0 {
		return t
	}
	return math.Inf(1)
}

// epsAfter nudges the V-shaped intercept estimate to the negative side
// of zero, compensating for the float rounding the linear model leaves
// at the computed root.
const epsAfter = 1e-9

func eligible(sc *scene.Scene, matrix *layermatrix.Matrix, a, b scene.Entity) bool {
	if b <= a {
		return false
	}
	if sc.Flags[a].Has(scene.Destroyed) || sc.Flags[b].Has(scene.Destroyed) {
		return false
	}
	if !matrix.Check(sc.Colliders[a].Layer, sc.Colliders[b].Layer) {
		return false
	}
	if sc.Flags[a].Has(scene.Glued) && sc.Glues[a].ParentID == b {
		return false
	}
	if sc.Flags[b].Has(scene.Glued) && sc.Glues[b].ParentID == a {
		return false
	}
	return true
}

func collisionLocation(sc *scene.Scene, a, b scene.Entity, t float64) lin.Vec3 {
	aPos := sc.Transforms[a].Position.Add(sc.Motions[a].Velocity.Scale(t)).Add(sc.Colliders[a].Center)
	bPos := sc.Transforms[b].Position.Add(sc.Motions[b].Velocity.Scale(t)).Add(sc.Colliders[b].Center)
	ra, rb := sc.Colliders[a].Radius, sc.Colliders[b].Radius
	return aPos.Scale(rb).Add(bPos.Scale(ra)).Scale(1 / (ra + rb))
}

// DetectCollisions rebuilds the broad-phase BVH over every collider's
// swept bounds, queries it for candidate pairs, and appends a Collision
// event to out for every pair whose narrow-phase contact time falls
// within [0, dt].
func (d *Detector) DetectCollisions(dt float64, sc *scene.Scene, out []scene.Event) []scene.Event {
	n := len(sc.Colliders)
	d.kvs = d.kvs[:0]
	d.bounds = d.bounds[:0]
	for i := 0; i < n; i++ {
		id := scene.Entity(i)
		b := sweptBounds(sc, id)
		d.kvs = append(d.kvs, bvh.KV[scene.Entity]{Bounds: b, Value: id})
		d.bounds = append(d.bounds, b)
	}
	d.tree.Rebuild(d.kvs)

	for i := 0; i < n; i++ {
		id := scene.Entity(i)
		d.hits = d.tree.Overlap(d.bounds[i], d.hits[:0])
		for _, kv := range d.hits {
			other := kv.Value
			if !eligible(sc, d.matrix, id, other) {
				continue
			}
			t := collisionTime(sc, id, other, dt)
			if t <= dt {
				out = append(out, scene.Event{
					Kind:                    scene.KindCollision,
					ID:                      id,
					Position:                collisionLocation(sc, id, other, t),
					FirstID:                 id,
					SecondID:                other,
					FirstFrameOffsetSeconds: t,
				})
			}
		}
	}
	return out
}
