package timeline

import (
	"fmt"

	"github.com/kestrel-sim/spacesim/interval"
	"github.com/kestrel-sim/spacesim/layermatrix"
	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
	"github.com/kestrel-sim/spacesim/sim"
)

// Timeline owns one simulation's entire recorded history: the head
// scene, periodic key-frame snapshots, and an interval tree of every
// event stamped to the frame interval [f, f+1) it belongs to.
type Timeline struct {
	frameTime      float64
	keyFramePeriod int64

	tail int64
	head int64

	keyFrames []*scene.Scene
	headFrame *scene.Scene

	frame   *scene.Scene
	frameNo int64

	events   *interval.Tree[scene.Event]
	pipeline *sim.Pipeline

	simulateBuffer []scene.Event
	replayBuffer   []scene.Event

	labels map[scene.Entity]string
}

// New returns a Timeline seeded with initial at firstFrameNo. initial is
// cloned immediately, so the caller retains ownership of the scene they
// passed in. A copy of initial becomes key-frame 0.
func New(initial *scene.Scene, firstFrameNo int64, matrix *layermatrix.Matrix, rules *sim.RuleSet, frameTime float64, keyFramePeriod int64, integrator sim.Integrator) *Timeline {
	if keyFramePeriod <= 0 {
		keyFramePeriod = 1
	}
	head := initial.Clone()
	tl := &Timeline{
		frameTime:      frameTime,
		keyFramePeriod: keyFramePeriod,
		tail:           firstFrameNo,
		head:           firstFrameNo,
		keyFrames:      []*scene.Scene{head.Clone()},
		headFrame:      head,
		frame:          initial.Clone(),
		frameNo:        firstFrameNo,
		events:         interval.New[scene.Event](),
		pipeline:       sim.NewPipeline(matrix, rules, integrator),
		labels:         make(map[scene.Entity]string),
	}
	return tl
}

// Tail returns the oldest frame number the timeline can answer queries for.
func (tl *Timeline) Tail() int64 { return tl.tail }

// Head returns the latest simulated frame number.
func (tl *Timeline) Head() int64 { return tl.head }

// HeadFrame returns the scene at Head. The caller must not mutate it.
func (tl *Timeline) HeadFrame() *scene.Scene { return tl.headFrame }

func keyFrameIndex(frameNo, tail, period int64) int64 { return (frameNo - tail) / period }

func onKeyFrameBoundary(frameNo, tail, period int64) bool { return (frameNo-tail)%period == 0 }

// Simulate advances the timeline by exactly one frame: it runs the full
// forward pipeline step, folding any already-recorded Acceleration
// events for the new frame in as input, and records every event the
// step produces.
func (tl *Timeline) Simulate() {
	tl.head++

	tl.simulateBuffer = tl.simulateBuffer[:0]
	tl.replayBuffer = tl.replayBuffer[:0]
	for _, e := range tl.events.OverlapPoint(tl.head) {
		if e.Value.Kind == scene.KindAcceleration {
			tl.replayBuffer = append(tl.replayBuffer, e.Value)
		}
	}

	tl.simulateBuffer = tl.pipeline.Step(tl.frameTime, tl.head, tl.headFrame, tl.replayBuffer, tl.simulateBuffer)

	for _, e := range tl.simulateBuffer {
		tl.events.MergeInsert(interval.Interval{Low: tl.head, High: tl.head + 1}, e, scene.Event.Equal)
	}

	if onKeyFrameBoundary(tl.head, tl.tail, tl.keyFramePeriod) {
		idx := keyFrameIndex(tl.head, tl.tail, tl.keyFramePeriod)
		snapshot := tl.headFrame.Clone()
		if int64(len(tl.keyFrames)) == idx {
			tl.keyFrames = append(tl.keyFrames, snapshot)
		} else {
			tl.keyFrames[idx] = snapshot
		}
	}
}

// InputEvent injects e into frame frameNo, invalidating (and rolling
// head back past) everything recorded strictly after frameNo. The
// invalidated tail is not immediately recomputed: it is cheaply
// re-derived on the next Simulate/GetFrame call from the nearest
// key-frame strictly before frameNo (or the tail key-frame).
func (tl *Timeline) InputEvent(frameNo int64, e scene.Event) {
	tl.InputEventRange(frameNo, frameNo+1, e)
}

// InputEventRange injects e over the half-open frame range [first,
// last), truncating history strictly after first the same way InputEvent
// does.
func (tl *Timeline) InputEventRange(first, last int64, e scene.Event) {
	tl.truncate(first)
	tl.events.MergeInsert(interval.Interval{Low: first, High: last}, e, scene.Event.Equal)
}

// truncate drops or clips every recorded event interval that reaches
// past frameNo, then rolls the head scene and head pointer back to the
// nearest key-frame strictly before frameNo (the tail key-frame when
// frameNo is Tail). Frames at or before frameNo
// are left exactly as recorded: re-running Simulate forward from the
// rolled-back head reproduces them event-for-event (determinism plus
// MergeInsert's idempotence on an already-covered value means no
// duplicate entries appear), and only genuinely diverges once it
// reaches frameNo, whose stored future was just discarded.
func (tl *Timeline) truncate(frameNo int64) {
	const sentinelHigh = int64(1) << 62
	stale := tl.events.Overlap(interval.Interval{Low: frameNo + 1, High: sentinelHigh})
	for _, e := range stale {
		tl.events.Delete(e.Interval, e.Value, scene.Event.Equal)
		if e.Interval.Low <= frameNo {
			tl.events.Insert(interval.Interval{Low: e.Interval.Low, High: frameNo + 1}, e.Value)
		}
	}

	idx := keyFrameIndex(frameNo, tl.tail, tl.keyFramePeriod)
	if onKeyFrameBoundary(frameNo, tl.tail, tl.keyFramePeriod) {
		// frameNo's own key-frame (if one exists) already bakes in the
		// pre-injection physics for frameNo, so roll back one key-frame
		// further to force frameNo to be re-derived by the next Simulate
		// call instead of read verbatim from a stale snapshot.
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= int64(len(tl.keyFrames)) {
		idx = int64(len(tl.keyFrames)) - 1
	}
	tl.keyFrames = tl.keyFrames[:idx+1]
	tl.headFrame.CopyFrom(tl.keyFrames[idx])
	tl.head = tl.tail + idx*tl.keyFramePeriod
}

// GetFrame returns the scene at frameNo, replaying from the nearest
// key-frame if frameNo doesn't land exactly on Head or a stored
// key-frame. It returns nil when frameNo is outside [Tail, Head].
func (tl *Timeline) GetFrame(frameNo int64) *scene.Scene {
	if frameNo == tl.head {
		return tl.headFrame
	}
	if frameNo < tl.tail || frameNo > tl.head {
		return nil
	}

	idx := keyFrameIndex(frameNo, tl.tail, tl.keyFramePeriod)
	if onKeyFrameBoundary(frameNo, tl.tail, tl.keyFramePeriod) {
		return tl.keyFrames[idx]
	}

	tl.frame.CopyFrom(tl.keyFrames[idx])
	start := tl.tail + idx*tl.keyFramePeriod
	for f := start + 1; f <= frameNo; f++ {
		events := make([]scene.Event, 0)
		for _, e := range tl.events.OverlapPoint(f) {
			events = append(events, e.Value)
		}
		tl.pipeline.Replay(tl.frameTime, f, tl.frame, events)
	}
	tl.frameNo = frameNo
	return tl.frame
}

// GetEvents returns every event stamped to frameNo.
func (tl *Timeline) GetEvents(frameNo int64) []scene.Event {
	entries := tl.events.OverlapPoint(frameNo)
	out := make([]scene.Event, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

// GetEventRange returns every event overlapping the half-open frame
// range [first, last).
func (tl *Timeline) GetEventRange(first, last int64) []scene.Event {
	entries := tl.events.Overlap(interval.Interval{Low: first, High: last})
	out := make([]scene.Event, len(entries))
	for i, e := range entries {
		out[i] = e.Value
	}
	return out
}

// SetLabel attaches an opaque host-defined label to id. The timeline
// assigns no meaning to the label: it is out-of-scope metadata the host
// stores alongside an entity and retrieves with Label.
func (tl *Timeline) SetLabel(id scene.Entity, label string) { tl.labels[id] = label }

// Label returns the label previously set for id, if any.
func (tl *Timeline) Label(id scene.Entity) (string, bool) {
	label, ok := tl.labels[id]
	return label, ok
}

// Attribute selects which field of an entity's Motion/Transform a Query
// trajectory samples.
type Attribute int

const (
	AttrPosition Attribute = iota
	AttrVelocity
)

// Sample is one frame's worth of the attributes a Trajectory requested.
type Sample struct {
	Position lin.Vec3
	Velocity lin.Vec3
}

// Trajectory describes one entity's requested sampling: starting at
// frame Tail+Offset and advancing by Resolution frames, copying
// Attributes into Buffer (which bounds how many samples are taken).
type Trajectory struct {
	ID         scene.Entity
	Offset     int64
	Attributes []Attribute
	Buffer     []Sample
}

// Query fills every trajectory's Buffer with samples taken every
// resolution frames starting at Tail+trajectory.Offset. It fails with
// ErrInvalidArgument if resolution doesn't evenly align any sample's
// frame number, or if any sampled frame is outside [Tail, Head].
func (tl *Timeline) Query(resolution int64, trajectories []Trajectory) error {
	if resolution <= 0 {
		return fmt.Errorf("query resolution %d: %w", resolution, ErrInvalidArgument)
	}
	for _, traj := range trajectories {
		for i := range traj.Buffer {
			frameNo := tl.tail + traj.Offset + int64(i)*resolution
			if (frameNo-tl.tail-traj.Offset)%resolution != 0 {
				return fmt.Errorf("query sample %d for entity %d misaligned: %w", i, traj.ID, ErrInvalidArgument)
			}
			sc := tl.GetFrame(frameNo)
			if sc == nil {
				return fmt.Errorf("query sample %d for entity %d: frame %d unavailable: %w", i, traj.ID, frameNo, ErrInvalidArgument)
			}
			var sample Sample
			for _, attr := range traj.Attributes {
				switch attr {
				case AttrPosition:
					sample.Position = sc.Transforms[traj.ID].Position
				case AttrVelocity:
					sample.Velocity = sc.Motions[traj.ID].Velocity
				}
			}
			traj.Buffer[i] = sample
		}
	}
	return nil
}
