package sim

import (
	"testing"

	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
)

func headOnScene() *scene.Scene {
	sc := scene.New()
	sc.Push(
		scene.Transform{Position: lin.Vec3{X: 1}},
		scene.Mass{Inertial: 1},
		scene.Motion{Velocity: lin.Vec3{X: -1}},
		scene.Collider{Radius: 0.5},
	)
	sc.Push(
		scene.Transform{Position: lin.Vec3{X: -1}},
		scene.Mass{Inertial: 1},
		scene.Motion{Velocity: lin.Vec3{X: 1}},
		scene.Collider{Radius: 0.5},
	)
	return sc
}

// TestBounceSwapsVelocitiesForEqualMassHeadOn matches the design doc's
// head-on elastic collision scenario: two equal-mass bodies colliding
// head-on with elasticity 1 swap velocities exactly.
func TestBounceSwapsVelocitiesForEqualMassHeadOn(t *testing.T) {
	sc := headOnScene()
	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 1, FirstFrameOffsetSeconds: 0}

	result := bounce(sc, e, BounceParams{Elasticity: 1})
	if !result.NewVelocity.Aeq(lin.Vec3{X: 1}) {
		t.Fatalf("expected body 0 to take on body 1's velocity, got %v", result.NewVelocity)
	}

	inverted := invertCollision(e)
	result = bounce(sc, inverted, BounceParams{Elasticity: 1})
	if !result.NewVelocity.Aeq(lin.Vec3{X: -1}) {
		t.Fatalf("expected body 1 to take on body 0's velocity, got %v", result.NewVelocity)
	}
}

func TestBounceZeroMassSubstitutesEqualUnitMasses(t *testing.T) {
	sc := headOnScene()
	sc.Masses[0] = scene.Mass{Inertial: 0}
	sc.Masses[1] = scene.Mass{Inertial: 0}
	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 1}

	result := bounce(sc, e, BounceParams{Elasticity: 1})
	if !result.NewVelocity.Aeq(lin.Vec3{X: 1}) {
		t.Fatalf("expected zero-mass substitution to still swap velocities, got %v", result.NewVelocity)
	}
}

func TestBounceDisplacesCoincidentPositions(t *testing.T) {
	sc := headOnScene()
	sc.Transforms[0].Position = lin.Vec3{}
	sc.Transforms[1].Position = lin.Vec3{}
	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 1}

	result := bounce(sc, e, BounceParams{Elasticity: 1})
	if result.NewPosition.Eq(lin.Zero3) {
		t.Fatalf("expected coincident bodies to be separated by the epsilon displacement")
	}
}

func TestApplyToCollisionDestroy(t *testing.T) {
	sc := headOnScene()
	rs := NewRuleSet()
	rs.Add(LayerPair{A: 0, B: 0}, Action{Kind: ActionDestroy})

	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 1}
	out := rs.applyToCollision(sc, e, nil)
	if len(out) != 1 || out[0].Kind != scene.KindDestruction || out[0].ID != 0 {
		t.Fatalf("expected a Destruction event on entity 0, got %+v", out)
	}
}

func TestApplyToCollisionDamageFromEnergy(t *testing.T) {
	sc := headOnScene()
	rs := NewRuleSet()
	rs.Add(LayerPair{A: 0, B: 0}, Action{Kind: ActionApplyDamage, ApplyDamage: ApplyDamageParams{Constant: 1, FromImpactorEnergy: 1}})

	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 1}
	out := rs.applyToCollision(sc, e, nil)
	if len(out) != 1 || out[0].Kind != scene.KindDamage {
		t.Fatalf("expected a Damage event, got %+v", out)
	}
	// relative speed is 2, impactor (second) mass is 1: energy = 0.5*4*1 = 2
	if out[0].Amount != 1+2 {
		t.Fatalf("expected damage amount 3, got %d", out[0].Amount)
	}
}

func TestApplyToCollisionSpeedFilterExcludes(t *testing.T) {
	sc := headOnScene()
	rs := NewRuleSet()
	rs.Add(LayerPair{A: 0, B: 0}, Action{Kind: ActionDestroy, MinSpeed: 100})

	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 1}
	out := rs.applyToCollision(sc, e, nil)
	if len(out) != 0 {
		t.Fatalf("expected the high min-speed filter to exclude the action, got %+v", out)
	}
}

func TestTriggerEventClonesTemplateAndTargets(t *testing.T) {
	sc := scene.New()
	sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{})
	sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{})
	sc.SetTrigger(scene.Trigger{
		ID:             0,
		Template:       scene.Event{Kind: scene.KindDamage, Amount: 5},
		Target:         scene.TargetOther,
		DestroyTrigger: true,
	})

	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 1}
	out := triggerEvent(sc, e)
	if len(out) != 2 {
		t.Fatalf("expected fired event plus trigger-owner destruction, got %d", len(out))
	}
	if out[0].Kind != scene.KindDamage || out[0].ID != 1 || out[0].Amount != 5 {
		t.Fatalf("expected damage targeted at entity 1, got %+v", out[0])
	}
	if out[1].Kind != scene.KindDestruction || out[1].ID != 0 {
		t.Fatalf("expected destruction of the trigger owner, got %+v", out[1])
	}
}

func TestTriggerEventNoTriggerIsNoOp(t *testing.T) {
	sc := scene.New()
	sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{})
	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 0}
	if out := triggerEvent(sc, e); out != nil {
		t.Fatalf("expected no events when entity has no Trigger component, got %+v", out)
	}
}

func TestActionStickProducesNoEvent(t *testing.T) {
	sc := headOnScene()
	rs := NewRuleSet()
	rs.Add(LayerPair{A: 0, B: 0}, Action{Kind: ActionStick})
	e := scene.Event{Kind: scene.KindCollision, ID: 0, FirstID: 0, SecondID: 1}
	out := rs.applyToCollision(sc, e, nil)
	if len(out) != 0 {
		t.Fatalf("kStick is documented as unimplemented and should produce no event, got %+v", out)
	}
}
