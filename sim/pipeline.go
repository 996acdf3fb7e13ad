package sim

import (
	"sort"

	"github.com/kestrel-sim/spacesim/layermatrix"
	"github.com/kestrel-sim/spacesim/scene"
)

// Pipeline composes the stages of one forward simulation step and one
// replay step. It owns the stage objects (collision detector, rule set)
// that carry reusable buffers across calls.
type Pipeline struct {
	Detector   *Detector
	Rules      *RuleSet
	Integrator Integrator
}

// NewPipeline returns a Pipeline wired with the given collision matrix,
// rule set and integration scheme.
func NewPipeline(matrix *layermatrix.Matrix, rules *RuleSet, integrator Integrator) *Pipeline {
	return &Pipeline{Detector: NewDetector(matrix), Rules: rules, Integrator: integrator}
}

func sortByID(events []scene.Event) {
	sort.SliceStable(events, func(i, j int) bool { return events[i].ID < events[j].ID })
}

// Step advances sc by dt at frame frameNo. input is mutated in place
// (rocket burns become accelerations) and is consumed by integration
// and by the final ApplyEventEffects pass; newly produced events
// (collisions, and the effects the rule set derives from them) are
// appended to out and returned.
func (p *Pipeline) Step(dt float64, frameNo int64, sc *scene.Scene, input []scene.Event, out []scene.Event) []scene.Event {
	UpdateOrbitalMotion(dt*float64(frameNo), sc)

	ConvertRocketBurnToAcceleration(dt, input, sc)
	sortByID(input)
	IntegrateMotion(p.Integrator, dt, input, sc)
	UpdateGlue(sc)

	out = p.Detector.DetectCollisions(dt, sc, out)
	out = p.Rules.Apply(sc, out)

	UpdatePositions(dt, sc)

	ApplyEventEffects(sc, input)
	ApplyEventEffects(sc, out)
	return out
}

// Replay re-derives sc at frameNo from the previously recorded events
// for that frame, skipping collision detection and rule evaluation:
// their outputs are already present in events from the original
// forward run. Only the Acceleration subset of events drives
// integration, matching what Step's integration stage consumed.
func (p *Pipeline) Replay(dt float64, frameNo int64, sc *scene.Scene, events []scene.Event) {
	UpdateOrbitalMotion(dt*float64(frameNo), sc)

	ConvertRocketBurnToAcceleration(dt, events, sc)

	accel := make([]scene.Event, 0, len(events))
	for _, e := range events {
		if e.Kind == scene.KindAcceleration {
			accel = append(accel, e)
		}
	}
	sortByID(accel)
	IntegrateMotion(p.Integrator, dt, accel, sc)
	UpdateGlue(sc)

	UpdatePositions(dt, sc)
	ApplyEventEffects(sc, events)
}
