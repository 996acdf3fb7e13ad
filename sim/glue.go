package sim

import "github.com/kestrel-sim/spacesim/scene"

// UpdateGlue makes every Glued entity inherit its parent's velocity and
// tracks its post-integration position relative to the parent, so a
// glued entity moves rigidly with its parent. Glue is single level only: a parent
// that is itself glued is not resolved recursively.
func UpdateGlue(sc *scene.Scene) {
	for i := range sc.Transforms {
		id := scene.Entity(i)
		if !sc.Flags[id].Has(scene.Glued) {
			continue
		}
		parent := sc.Glues[id].ParentID
		if !parent.Valid() {
			continue
		}
		m := sc.Motions[id]
		m.Velocity = sc.Motions[parent].Velocity
		m.NewPosition = sc.Motions[parent].NewPosition.Add(sc.Transforms[id].Position.Sub(sc.Transforms[parent].Position))
		sc.Motions[id] = m
	}
}
