package sim

import (
	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
)

// ApplyEventEffects mutates sc according to every event in events, in
// order. It is run once over the input span and again over the events
// newly produced by collision detection and rule evaluation.
func ApplyEventEffects(sc *scene.Scene, events []scene.Event) {
	for _, e := range events {
		applyEffect(sc, e)
	}
}

func applyEffect(sc *scene.Scene, e scene.Event) {
	switch e.Kind {
	case scene.KindDestruction:
		applyDestruction(sc, e.ID)
	case scene.KindStick:
		flags := sc.Flags[e.ID]
		if e.Glued {
			flags |= scene.Glued
		} else {
			flags &^= scene.Glued
		}
		sc.Flags[e.ID] = flags
		sc.Glues[e.ID] = scene.Glue{ParentID: e.ParentID}
	case scene.KindDamage:
		applyDamage(sc, e)
	case scene.KindAcceleration, scene.KindCollision:
		// Acceleration is consumed during integration; Collision is
		// expanded into other events by the rule set. Neither mutates
		// scene state directly here.
	case scene.KindTeleportation:
		tr := sc.Transforms[e.ID]
		tr.Position = e.NewPosition
		sc.Transforms[e.ID] = tr
		m := sc.Motions[e.ID]
		m.NewPosition = e.NewPosition
		m.Velocity = e.NewVelocity
		m.Spin = e.NewSpin
		sc.Motions[e.ID] = m
	case scene.KindRocketBurn:
		// Already converted to Acceleration by ConvertRocketBurnToAcceleration.
	case scene.KindRocketRefuel:
		ApplyRocketRefuel(e, sc)
	case scene.KindSpawn:
		applySpawn(sc, e)
	case scene.KindSpawnAttempt:
		// Not applied here. ConvertSpawnAttempts turns SpawnAttempt
		// events into Spawn events; Pipeline.Step and Replay do not call it.
	}
}

func applyDestruction(sc *scene.Scene, id scene.Entity) {
	sc.Flags[id] |= scene.Destroyed
	if sc.Flags[id].Has(scene.Reusable) {
		ReleaseObject(sc, id)
	}
}

func applyDamage(sc *scene.Scene, e scene.Event) {
	d, ok := sc.Durability(e.ID)
	if !ok {
		return
	}
	d.Value -= e.Amount
	sc.SetDurability(d)
	if d.Value <= 0 {
		applyDestruction(sc, e.ID)
	}
}

func applySpawn(sc *scene.Scene, e scene.Event) {
	sc.Flags[e.ID] &^= scene.Destroyed
	tr := sc.Transforms[e.ID]
	tr.Position = e.Position
	tr.Rotation = e.Rotation
	sc.Transforms[e.ID] = tr
	sc.Motions[e.ID] = scene.Motion{
		Velocity:    e.Velocity,
		NewPosition: e.Position,
		Spin:        lin.QuatIdentity,
	}
	if d, ok := sc.Durability(e.ID); ok {
		d.Value = d.Max
		sc.SetDurability(d)
	}
}
