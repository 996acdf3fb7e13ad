package sim

import (
	"testing"

	"github.com/kestrel-sim/spacesim/layermatrix"
	"github.com/kestrel-sim/spacesim/scene"
)

func newPipeline() *Pipeline {
	matrix := layermatrix.New()
	matrix.Set(0, 0, true)
	rules := NewRuleSet()
	return NewPipeline(matrix, rules, VelocityVerlet)
}

// TestStepAndReplayAgree checks the pipeline-level determinism contract
// Timeline depends on: for a frame with no collisions, replaying the
// recorded events against a fresh copy of the pre-step scene reproduces
// exactly what Step itself produced.
func TestStepAndReplayAgree(t *testing.T) {
	stepScene := twoBodyScene()
	replayScene := twoBodyScene()
	p := newPipeline()

	const dt = 0.01
	events := p.Step(dt, 1, stepScene, nil, nil)

	p2 := newPipeline()
	p2.Replay(dt, 1, replayScene, events)

	if !stepScene.Transforms[1].Position.Aeq(replayScene.Transforms[1].Position) {
		t.Fatalf("replay diverged from step: step=%v replay=%v",
			stepScene.Transforms[1].Position, replayScene.Transforms[1].Position)
	}
}

func TestStepAppliesRuleDerivedDestruction(t *testing.T) {
	sc := scene.New()
	sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{Radius: 1})
	sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{Radius: 1})

	matrix := layermatrix.New()
	matrix.Set(0, 0, true)
	rules := NewRuleSet()
	rules.Add(LayerPair{A: 0, B: 0}, Action{Kind: ActionDestroy})
	p := NewPipeline(matrix, rules, Euler)

	events := p.Step(0.1, 0, sc, nil, nil)

	found := false
	for _, e := range events {
		if e.Kind == scene.KindDestruction {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a Destruction event among %+v", events)
	}
	if !anyDestroyed(sc) {
		t.Fatalf("expected at least one entity marked Destroyed after Step")
	}
}

func anyDestroyed(sc *scene.Scene) bool {
	for _, f := range sc.Flags {
		if f.Has(scene.Destroyed) {
			return true
		}
	}
	return false
}

func TestStepConvertsRocketBurnsBeforeIntegration(t *testing.T) {
	sc, id := rocketScene()
	p := newPipeline()
	burn := scene.Event{Kind: scene.KindRocketBurn, ID: id, TankNo: 0}
	burn.Linear.X = 1

	p.Step(1, 0, sc, []scene.Event{burn}, nil)

	rocket, _ := sc.Rocket(id)
	if rocket.FuelTanks[0].Fuel >= 10 {
		t.Fatalf("expected the rocket burn to consume fuel during Step, got %v", rocket.FuelTanks[0].Fuel)
	}
}
