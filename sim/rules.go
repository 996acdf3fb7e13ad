package sim

import (
	"math"

	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
)

// ActionKind selects what a matching rule does to a collision.
type ActionKind int

const (
	ActionBounce ActionKind = iota
	ActionApplyDamage
	ActionDestroy
	ActionStick
	ActionTriggerEvent
)

// BounceParams configures an ActionBounce.
type BounceParams struct {
	Elasticity float64
}

// ApplyDamageParams configures an ActionApplyDamage.
type ApplyDamageParams struct {
	Constant           int32
	FromImpactorEnergy float64
}

// Action is one entry in a RuleSet's per-layer-pair action list: a type,
// speed/energy filters, and the type's own parameters.
type Action struct {
	Kind ActionKind

	MinSpeed, MaxSpeed                   float64
	MinImpactorEnergy, MaxImpactorEnergy float64

	Bounce      BounceParams
	ApplyDamage ApplyDamageParams
}

// Matches reports whether the collision's impact speed and impactor
// energy satisfy this action's filters. Zero-value Max* fields are
// treated as unbounded so a RuleSet author doesn't have to spell out
// +Inf for the common case of "any speed/energy". The reference rule
// evaluator (rules.cc) has no such shortcut: it always applies a hard
// max_speed/max_impactor_energy bound, so a rule that deliberately sets
// a max of exactly 0 behaves differently here than there; setting the
// field to +Inf reproduces the reference's behavior exactly under this
// guard too.
func (a Action) Matches(speed, energy float64) bool {
	if speed < a.MinSpeed {
		return false
	}
	if a.MaxSpeed > 0 && speed > a.MaxSpeed {
		return false
	}
	if energy < a.MinImpactorEnergy {
		return false
	}
	if a.MaxImpactorEnergy > 0 && energy > a.MaxImpactorEnergy {
		return false
	}
	return true
}

// LayerPair keys a RuleSet's directional action list.
type LayerPair struct {
	A, B uint32
}

// RuleSet maps a directional (layer_a, layer_b) pair to the actions
// applied to the layer_a entity when it collides with a layer_b entity.
type RuleSet struct {
	rules map[LayerPair][]Action
}

// NewRuleSet returns an empty rule set.
func NewRuleSet() *RuleSet { return &RuleSet{rules: make(map[LayerPair][]Action)} }

// Add appends action to the list run when layer pair fires.
func (r *RuleSet) Add(pair LayerPair, action Action) {
	r.rules[pair] = append(r.rules[pair], action)
}

func invertCollision(e scene.Event) scene.Event {
	e.ID, e.FirstID, e.SecondID = e.SecondID, e.SecondID, e.FirstID
	return e
}

// Apply expands every Collision event already present in events into the
// downstream effect events its matching rules produce, evaluating both
// the forward and inverted direction of each pair so a symmetric effect
// needs two complementary rules. New events are appended to events; the
// function iterates only over the events present when it was called so
// events it appends are not themselves re-evaluated as collisions.
func (r *RuleSet) Apply(sc *scene.Scene, events []scene.Event) []scene.Event {
	limit := len(events)
	for i := 0; i < limit; i++ {
		e := events[i]
		if e.Kind != scene.KindCollision {
			continue
		}
		events = r.applyToCollision(sc, e, events)
		events = r.applyToCollision(sc, invertCollision(e), events)
	}
	return events
}

func (r *RuleSet) applyToCollision(sc *scene.Scene, e scene.Event, out []scene.Event) []scene.Event {
	pair := LayerPair{A: sc.Colliders[e.FirstID].Layer, B: sc.Colliders[e.SecondID].Layer}
	actions, ok := r.rules[pair]
	if !ok {
		return out
	}

	dv := sc.Motions[e.FirstID].Velocity.Sub(sc.Motions[e.SecondID].Velocity)
	speedSqr := dv.LenSqr()
	speed := math.Sqrt(speedSqr)
	energy := 0.5 * speedSqr * sc.Masses[e.SecondID].Inertial

	for _, action := range actions {
		if !action.Matches(speed, energy) {
			continue
		}
		switch action.Kind {
		case ActionDestroy:
			out = append(out, scene.Event{Kind: scene.KindDestruction, ID: e.ID, Position: e.Position})
		case ActionApplyDamage:
			out = append(out, scene.Event{
				Kind:     scene.KindDamage,
				ID:       e.ID,
				Position: e.Position,
				Amount:   action.ApplyDamage.Constant + int32(math.Round(action.ApplyDamage.FromImpactorEnergy*energy)),
			})
		case ActionBounce:
			out = append(out, bounce(sc, e, action.Bounce))
		case ActionStick:
			// Left unimplemented: sticking semantics (which entity becomes
			// the parent, how glue is later released) were never finished
			// upstream and are not specified here either.
		case ActionTriggerEvent:
			out = append(out, triggerEvent(sc, e)...)
		}
	}
	return out
}

const separationEpsilon = 0.005

// bounce computes a deterministic elastic/inelastic collision response
// for the first_id side of e, following the reference derivation: an
// impulse-based velocity update plus a small angular kick proportional
// to the off-center component of the impact.
func bounce(sc *scene.Scene, e scene.Event, params BounceParams) scene.Event {
	t := e.FirstFrameOffsetSeconds
	vA := sc.Motions[e.FirstID].Velocity
	vB := sc.Motions[e.SecondID].Velocity

	a := sc.Transforms[e.FirstID].Position.Add(vA.Scale(t))
	b := sc.Transforms[e.SecondID].Position.Add(vB.Scale(t))

	if a.Aeq(b) {
		if e.FirstID < e.SecondID {
			a.X += separationEpsilon
		} else {
			a.X -= separationEpsilon
		}
	}

	n := a.Sub(b)
	v := vA.Sub(vB)
	dot := n.Dot(v)

	mA := sc.Masses[e.FirstID].Inertial
	mB := sc.Masses[e.SecondID].Inertial
	totalMass := mA + mB
	if totalMass == 0 {
		totalMass = 1
		mA, mB = 0.5, 0.5
	}

	newV := vA.Sub(n.Scale((2 * mB / totalMass) * (dot / n.LenSqr())))

	spin := sc.Motions[e.FirstID].Spin
	s := v.Len()
	rA := sc.Colliders[e.FirstID].Radius
	angle := math.Acos(dot / (n.Len() * s))
	rate := math.Sin(angle)
	if rate > separationEpsilon {
		L := rA * mB * s
		axis := v.Cross(n).Unit()
		if (lin.Vec3{X: 1}).Dot(n) > 0 {
			axis = axis.Neg()
		}
		spin = spin.Mult(lin.QuatFromAxisAngle(axis.X, axis.Y, axis.Z, (L/mA)*rate))
	}

	return scene.Event{
		Kind:        scene.KindTeleportation,
		ID:          e.ID,
		Position:    e.Position,
		NewPosition: a.Add(n.Unit().Scale(separationEpsilon)),
		NewVelocity: newV.Scale(params.Elasticity),
		NewSpin:     spin,
	}
}

func triggerEvent(sc *scene.Scene, e scene.Event) []scene.Event {
	trig, ok := sc.Trigger(e.ID)
	if !ok {
		return nil
	}
	fired := trig.Template
	switch trig.Target {
	case scene.TargetSelf:
		fired.ID = e.ID
	case scene.TargetOther:
		fired.ID = e.SecondID
	}
	result := []scene.Event{fired}
	if trig.DestroyTrigger {
		result = append(result, scene.Event{Kind: scene.KindDestruction, ID: e.ID, Position: e.Position})
	}
	return result
}
