package sim

import (
	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
)

// Integrator selects the numerical scheme used by IntegrateMotion.
type Integrator int

const (
	Euler Integrator = iota
	VelocityVerlet
)

// gravityAt sums the gravitational acceleration every active mass in sc
// exerts on id, skipping destroyed or glued attractors and respecting
// each attractor's cutoff distance. G is fixed at 1 by convention.
func gravityAt(sc *scene.Scene, id scene.Entity) lin.Vec3 {
	result := lin.Zero3
	pos := sc.Transforms[id].Position
	for i := range sc.Transforms {
		candidate := scene.Entity(i)
		if candidate == id {
			continue
		}
		mass := sc.Masses[candidate]
		if mass.Active == 0 {
			continue
		}
		if sc.Flags[candidate].Any(scene.Destroyed | scene.Glued) {
			continue
		}
		d := sc.Transforms[candidate].Position.Sub(pos)
		rSqr := d.LenSqr()
		if mass.CutoffDistance != 0 && rSqr > mass.CutoffDistance*mass.CutoffDistance {
			continue
		}
		if rSqr == 0 {
			continue
		}
		result = result.Add(d.Unit().Scale(mass.Active / rSqr))
	}
	return result
}

// computeForces consumes every Acceleration event addressed to id from
// the front of input (input must be sorted ascending by id) and returns
// the accumulated linear acceleration (including gravity), the impulse
// to apply once, and the accumulated angular acceleration.
func computeForces(sc *scene.Scene, id scene.Entity, input []scene.Event) (linear, impulse lin.Vec3, angular lin.Quat, rest []scene.Event) {
	for len(input) != 0 && input[0].ID < id {
		input = input[1:]
	}
	angular = lin.QuatIdentity
	for len(input) != 0 && input[0].ID == id {
		if input[0].Kind == scene.KindAcceleration {
			value := input[0].Linear
			if input[0].AccelFlags&scene.AccelForce != 0 && sc.Masses[id].Inertial != 0 {
				value = value.Scale(1 / sc.Masses[id].Inertial)
			}
			if input[0].AccelFlags&scene.AccelImpulse != 0 {
				impulse = impulse.Add(value)
			} else {
				linear = linear.Add(value)
				angular = angular.Mult(input[0].Angular)
			}
		}
		input = input[1:]
	}
	linear = linear.Add(gravityAt(sc, id))
	return linear, impulse, angular, input
}

func skip(f scene.Flags) bool {
	return f.Any(scene.Destroyed | scene.Glued | scene.Orbiting)
}

func integrateEuler(dt float64, input []scene.Event, sc *scene.Scene) {
	for i := range sc.Transforms {
		id := scene.Entity(i)
		if skip(sc.Flags[id]) {
			continue
		}
		var linear, impulse lin.Vec3
		var angular lin.Quat
		linear, impulse, angular, input = computeForces(sc, id, input)

		m := sc.Motions[id]
		m.Acceleration = linear
		m.Velocity = m.Velocity.Add(impulse).Add(linear.Scale(dt))
		m.NewPosition = sc.Transforms[id].Position.Add(m.Velocity.Scale(dt))
		if !angular.Eq(lin.QuatIdentity) {
			m.Spin = m.Spin.Mult(lin.QuatIdentity.Slerp(angular, dt))
		}
		sc.Motions[id] = m
	}
}

func integrateVelocityVerlet(dt float64, input []scene.Event, sc *scene.Scene) {
	halfDt := dt * 0.5
	for i := range sc.Transforms {
		id := scene.Entity(i)
		if skip(sc.Flags[id]) {
			continue
		}
		m := sc.Motions[id]
		m.NewPosition = sc.Transforms[id].Position.Add(m.Velocity.Scale(dt)).Add(m.Acceleration.Scale(dt * halfDt))

		var newAccel, impulse lin.Vec3
		var angular lin.Quat
		newAccel, impulse, angular, input = computeForces(sc, id, input)

		m.Velocity = m.Velocity.Add(newAccel.Add(m.Acceleration).Scale(halfDt)).Add(impulse)
		m.Acceleration = newAccel
		if !angular.Eq(lin.QuatIdentity) {
			m.Spin = m.Spin.Mult(lin.QuatIdentity.Slerp(angular, dt))
		}
		sc.Motions[id] = m
	}
}

// IntegrateMotion advances Motion.velocity and Motion.NewPosition for
// every entity not flagged Destroyed, Glued or Orbiting. input must be
// sorted ascending by event id.
func IntegrateMotion(method Integrator, dt float64, input []scene.Event, sc *scene.Scene) {
	switch method {
	case Euler:
		integrateEuler(dt, input, sc)
	case VelocityVerlet:
		integrateVelocityVerlet(dt, input, sc)
	default:
		panic("sim: invalid integrator")
	}
}

// UpdatePositions commits Motion.NewPosition into Transform.Position for
// every non-destroyed entity, and folds in any accumulated spin.
func UpdatePositions(dt float64, sc *scene.Scene) {
	for i := range sc.Transforms {
		id := scene.Entity(i)
		if sc.Flags[id].Has(scene.Destroyed) {
			continue
		}
		tr := sc.Transforms[id]
		tr.Position = sc.Motions[id].NewPosition
		spin := sc.Motions[id].Spin
		if !spin.Eq(lin.QuatIdentity) {
			tr.Rotation = tr.Rotation.Mult(lin.QuatIdentity.Slerp(spin, dt))
		}
		sc.Transforms[id] = tr
	}
}
