// Package api is the flat, opaque-handle surface meant for binding the
// simulation core from another language: every resource (a Frame, an
// EventBuffer, a LayerMatrix, a RuleSet, a Timeline) is created through
// a Create call that returns a string handle, manipulated through calls
// that take that handle, and released through a Destroy call. Handles
// are opaque uuids rather than raw pointers or array indices, the same
// style Gekko3D-gekko's asset registry uses for its AssetId
// (mod_assets.go: AssetId(uuid.NewString())) to keep the wire contract
// stable even if the registry reshuffles its backing storage.
//
// Registry is not safe for concurrent use: the core it wraps is
// single-threaded and synchronous by design (no operation suspends,
// there is no background work), so every handle call is expected to
// come from the one thread driving the simulation.
package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kestrel-sim/spacesim/layermatrix"
	"github.com/kestrel-sim/spacesim/scene"
	"github.com/kestrel-sim/spacesim/sim"
	"github.com/kestrel-sim/spacesim/timeline"
)

// ErrUnknownHandle is returned by any call given a handle the registry
// doesn't recognize (already destroyed, or never created).
var ErrUnknownHandle = errors.New("api: unknown handle")

// FrameHandle, EventBufferHandle, LayerMatrixHandle, RuleSetHandle and
// TimelineHandle are opaque resource identifiers. Their concrete type is
// a uuid string; callers must treat them as opaque.
type (
	FrameHandle       string
	EventBufferHandle string
	LayerMatrixHandle string
	RuleSetHandle     string
	TimelineHandle    string
)

func newHandle() string { return uuid.NewString() }

// Registry owns every live resource handed out through this package.
// One Registry corresponds to one host binding session.
type Registry struct {
	frames        map[FrameHandle]*scene.Scene
	eventBuffers  map[EventBufferHandle][]scene.Event
	layerMatrices map[LayerMatrixHandle]*layermatrix.Matrix
	ruleSets      map[RuleSetHandle]*sim.RuleSet
	timelines     map[TimelineHandle]*timeline.Timeline
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		frames:        make(map[FrameHandle]*scene.Scene),
		eventBuffers:  make(map[EventBufferHandle][]scene.Event),
		layerMatrices: make(map[LayerMatrixHandle]*layermatrix.Matrix),
		ruleSets:      make(map[RuleSetHandle]*sim.RuleSet),
		timelines:     make(map[TimelineHandle]*timeline.Timeline),
	}
}

// --- Frame handle ---

// CreateFrame allocates an empty scene and returns its handle.
func (r *Registry) CreateFrame() FrameHandle {
	h := FrameHandle(newHandle())
	r.frames[h] = scene.New()
	return h
}

// DestroyFrame releases a frame handle. Destroying an unknown handle is
// a silent no-op, matching the binding-layer convention that double-free
// of an already-released handle should not crash the host.
func (r *Registry) DestroyFrame(h FrameHandle) { delete(r.frames, h) }

// FrameView exposes every component vector of a frame, the Go analogue
// of the reference binding's raw-pointer-and-length struct: a slice
// already carries both.
type FrameView struct {
	Transforms []scene.Transform
	Masses     []scene.Mass
	Motions    []scene.Motion
	Colliders  []scene.Collider
	Glues      []scene.Glue
	Flags      []scene.Flags
}

// FrameSyncView returns the current component vectors for h.
func (r *Registry) FrameSyncView(h FrameHandle) (FrameView, error) {
	sc, ok := r.frames[h]
	if !ok {
		return FrameView{}, fmt.Errorf("frame %s: %w", h, ErrUnknownHandle)
	}
	return FrameView{
		Transforms: sc.Transforms,
		Masses:     sc.Masses,
		Motions:    sc.Motions,
		Colliders:  sc.Colliders,
		Glues:      sc.Glues,
		Flags:      sc.Flags,
	}, nil
}

// FramePush appends one entity built from the given required components.
func (r *Registry) FramePush(h FrameHandle, transform scene.Transform, mass scene.Mass, motion scene.Motion, collider scene.Collider, glue scene.Glue, flags scene.Flags) (scene.Entity, error) {
	sc, ok := r.frames[h]
	if !ok {
		return scene.Nil, fmt.Errorf("frame %s: %w", h, ErrUnknownHandle)
	}
	return sc.Push(transform, mass, motion, collider, glue, flags), nil
}

// FrameSetOrbit installs an Orbit component on h.
func (r *Registry) FrameSetOrbit(h FrameHandle, o scene.Orbit) error {
	sc, ok := r.frames[h]
	if !ok {
		return fmt.Errorf("frame %s: %w", h, ErrUnknownHandle)
	}
	sc.SetOrbit(o)
	return nil
}

// FrameSetDurability installs a Durability component on h.
func (r *Registry) FrameSetDurability(h FrameHandle, d scene.Durability) error {
	sc, ok := r.frames[h]
	if !ok {
		return fmt.Errorf("frame %s: %w", h, ErrUnknownHandle)
	}
	sc.SetDurability(d)
	return nil
}

// FrameSetRocket installs a Rocket component on h.
func (r *Registry) FrameSetRocket(h FrameHandle, rk scene.Rocket) error {
	sc, ok := r.frames[h]
	if !ok {
		return fmt.Errorf("frame %s: %w", h, ErrUnknownHandle)
	}
	sc.SetRocket(rk)
	return nil
}

// FrameSetTrigger installs a Trigger component on h.
func (r *Registry) FrameSetTrigger(h FrameHandle, t scene.Trigger) error {
	sc, ok := r.frames[h]
	if !ok {
		return fmt.Errorf("frame %s: %w", h, ErrUnknownHandle)
	}
	sc.SetTrigger(t)
	return nil
}

// FramePushObjectPool turns prototypeID into a reusable object pool of
// the given capacity, writing the new pool's member entities into
// outIDBuffer (which must have room for capacity entities): the
// prototype first, then the copies.
func (r *Registry) FramePushObjectPool(h FrameHandle, poolID, prototypeID scene.Entity, capacity int32, outIDBuffer []scene.Entity) error {
	sc, ok := r.frames[h]
	if !ok {
		return fmt.Errorf("frame %s: %w", h, ErrUnknownHandle)
	}
	before := sc.Len()
	sim.InitializePool(sc, poolID, prototypeID, capacity)
	if len(outIDBuffer) > 0 {
		outIDBuffer[0] = prototypeID
	}
	for i := 0; i+1 < len(outIDBuffer) && before+i < sc.Len(); i++ {
		outIDBuffer[i+1] = scene.Entity(before + i)
	}
	return nil
}

// --- Event buffer handle ---

// CreateEventBuffer allocates an empty event buffer and returns its handle.
func (r *Registry) CreateEventBuffer() EventBufferHandle {
	h := EventBufferHandle(newHandle())
	r.eventBuffers[h] = nil
	return h
}

// EventBufferClear empties h without releasing it.
func (r *Registry) EventBufferClear(h EventBufferHandle) error {
	if _, ok := r.eventBuffers[h]; !ok {
		return fmt.Errorf("event buffer %s: %w", h, ErrUnknownHandle)
	}
	r.eventBuffers[h] = r.eventBuffers[h][:0]
	return nil
}

// EventBufferGetEvents returns every event currently held in h.
func (r *Registry) EventBufferGetEvents(h EventBufferHandle) ([]scene.Event, error) {
	events, ok := r.eventBuffers[h]
	if !ok {
		return nil, fmt.Errorf("event buffer %s: %w", h, ErrUnknownHandle)
	}
	return events, nil
}

// EventBufferAppend appends events to h. Not part of the reference
// binding surface by name, but required for a host to populate a buffer
// it later hands to TimelineInputEvent or a pipeline call.
func (r *Registry) EventBufferAppend(h EventBufferHandle, events ...scene.Event) error {
	if _, ok := r.eventBuffers[h]; !ok {
		return fmt.Errorf("event buffer %s: %w", h, ErrUnknownHandle)
	}
	r.eventBuffers[h] = append(r.eventBuffers[h], events...)
	return nil
}

// DestroyEventBuffer releases an event buffer handle.
func (r *Registry) DestroyEventBuffer(h EventBufferHandle) { delete(r.eventBuffers, h) }

// --- LayerMatrix handle ---

// CreateLayerMatrix allocates an empty layer matrix and returns its handle.
func (r *Registry) CreateLayerMatrix() LayerMatrixHandle {
	h := LayerMatrixHandle(newHandle())
	r.layerMatrices[h] = layermatrix.New()
	return h
}

// LayerMatrixSet allows layers x and y to collide with each other.
func (r *Registry) LayerMatrixSet(h LayerMatrixHandle, x, y uint32) error {
	m, ok := r.layerMatrices[h]
	if !ok {
		return fmt.Errorf("layer matrix %s: %w", h, ErrUnknownHandle)
	}
	return m.Set(x, y, true)
}

// DestroyLayerMatrix releases a layer matrix handle.
func (r *Registry) DestroyLayerMatrix(h LayerMatrixHandle) { delete(r.layerMatrices, h) }

// --- RuleSet handle ---

// CreateRuleSet allocates an empty rule set and returns its handle.
func (r *Registry) CreateRuleSet() RuleSetHandle {
	h := RuleSetHandle(newHandle())
	r.ruleSets[h] = sim.NewRuleSet()
	return h
}

// RuleSetAdd appends an action to the (targetLayer, otherLayer) rule list.
func (r *Registry) RuleSetAdd(h RuleSetHandle, targetLayer, otherLayer uint32, effect sim.Action) error {
	rs, ok := r.ruleSets[h]
	if !ok {
		return fmt.Errorf("rule set %s: %w", h, ErrUnknownHandle)
	}
	rs.Add(sim.LayerPair{A: targetLayer, B: otherLayer}, effect)
	return nil
}

// DestroyRuleSet releases a rule set handle.
func (r *Registry) DestroyRuleSet(h RuleSetHandle) { delete(r.ruleSets, h) }

// --- Timeline handle ---

// CreateTimeline wires a layer matrix handle and a rule set handle into
// a new Timeline seeded from the scene currently held by initialFrame.
func (r *Registry) CreateTimeline(initialFrame FrameHandle, firstFrameNo int64, matrixH LayerMatrixHandle, rulesH RuleSetHandle, frameTime float64, keyFramePeriod int64, integrator sim.Integrator) (TimelineHandle, error) {
	sc, ok := r.frames[initialFrame]
	if !ok {
		return "", fmt.Errorf("frame %s: %w", initialFrame, ErrUnknownHandle)
	}
	matrix, ok := r.layerMatrices[matrixH]
	if !ok {
		return "", fmt.Errorf("layer matrix %s: %w", matrixH, ErrUnknownHandle)
	}
	rules, ok := r.ruleSets[rulesH]
	if !ok {
		return "", fmt.Errorf("rule set %s: %w", rulesH, ErrUnknownHandle)
	}
	h := TimelineHandle(newHandle())
	r.timelines[h] = timeline.New(sc, firstFrameNo, matrix, rules, frameTime, keyFramePeriod, integrator)
	return h, nil
}

func (r *Registry) timelineOf(h TimelineHandle) (*timeline.Timeline, error) {
	tl, ok := r.timelines[h]
	if !ok {
		return nil, fmt.Errorf("timeline %s: %w", h, ErrUnknownHandle)
	}
	return tl, nil
}

// TimelineInputEvent injects e into frameNo on h.
func (r *Registry) TimelineInputEvent(h TimelineHandle, frameNo int64, e scene.Event) error {
	tl, err := r.timelineOf(h)
	if err != nil {
		return err
	}
	tl.InputEvent(frameNo, e)
	return nil
}

// TimelineInputEventRange injects e over [first, last) on h.
func (r *Registry) TimelineInputEventRange(h TimelineHandle, first, last int64, e scene.Event) error {
	tl, err := r.timelineOf(h)
	if err != nil {
		return err
	}
	tl.InputEventRange(first, last, e)
	return nil
}

// TimelineSimulate drives h forward under a wall-clock budget: it times
// the first step, extrapolates a conservative 1.2x per-step cost from
// that observation, and keeps stepping while the estimated cost of one
// more step still fits before the deadline, stopping early at
// frameLimit regardless of remaining budget. It returns the number of
// frames actually simulated and the wall-clock time spent.
func (r *Registry) TimelineSimulate(h TimelineHandle, budget time.Duration, frameLimit int) (framesSimulated int, elapsed time.Duration, err error) {
	tl, err := r.timelineOf(h)
	if err != nil {
		return 0, 0, err
	}
	if frameLimit <= 0 {
		return 0, 0, nil
	}

	start := time.Now()
	deadline := start.Add(budget)

	stepStart := time.Now()
	tl.Simulate()
	framesSimulated = 1
	estStepCost := time.Since(stepStart) * 6 / 5 // 1.2x the first observation

	for framesSimulated < frameLimit {
		now := time.Now()
		if now.Add(estStepCost).After(deadline) {
			break
		}
		tl.Simulate()
		framesSimulated++
	}
	return framesSimulated, time.Since(start), nil
}

// TimelineGetHead returns h's latest simulated frame number.
func (r *Registry) TimelineGetHead(h TimelineHandle) (int64, error) {
	tl, err := r.timelineOf(h)
	if err != nil {
		return 0, err
	}
	return tl.Head(), nil
}

// TimelineGetTail returns h's oldest stored frame number.
func (r *Registry) TimelineGetTail(h TimelineHandle) (int64, error) {
	tl, err := r.timelineOf(h)
	if err != nil {
		return 0, err
	}
	return tl.Tail(), nil
}

// TimelineGetFrame returns the scene at frameNo on h, or nil if frameNo
// is outside h's stored range.
func (r *Registry) TimelineGetFrame(h TimelineHandle, frameNo int64) (*scene.Scene, error) {
	tl, err := r.timelineOf(h)
	if err != nil {
		return nil, err
	}
	return tl.GetFrame(frameNo), nil
}

// TimelineGetEvents copies the events stamped to frameNo on h into buffer.
func (r *Registry) TimelineGetEvents(h TimelineHandle, frameNo int64, buffer EventBufferHandle) error {
	tl, err := r.timelineOf(h)
	if err != nil {
		return err
	}
	if _, ok := r.eventBuffers[buffer]; !ok {
		return fmt.Errorf("event buffer %s: %w", buffer, ErrUnknownHandle)
	}
	r.eventBuffers[buffer] = append(r.eventBuffers[buffer][:0], tl.GetEvents(frameNo)...)
	return nil
}

// TimelineGetEventRange copies the events overlapping [first, last) on h
// into buffer.
func (r *Registry) TimelineGetEventRange(h TimelineHandle, first, last int64, buffer EventBufferHandle) error {
	tl, err := r.timelineOf(h)
	if err != nil {
		return err
	}
	if _, ok := r.eventBuffers[buffer]; !ok {
		return fmt.Errorf("event buffer %s: %w", buffer, ErrUnknownHandle)
	}
	r.eventBuffers[buffer] = append(r.eventBuffers[buffer][:0], tl.GetEventRange(first, last)...)
	return nil
}

// TimelineSetLabel attaches a host-defined label to id on h.
func (r *Registry) TimelineSetLabel(h TimelineHandle, id scene.Entity, label string) error {
	tl, err := r.timelineOf(h)
	if err != nil {
		return err
	}
	tl.SetLabel(id, label)
	return nil
}

// Query bundles the two arguments of timeline.Timeline.Query (the
// sampling resolution and the trajectories to fill) into one value.
type Query struct {
	Resolution   int64
	Trajectories []timeline.Trajectory
}

// TimelineRunQuery runs q against h, writing samples into each
// trajectory's Buffer in place.
func (r *Registry) TimelineRunQuery(h TimelineHandle, q Query) error {
	tl, err := r.timelineOf(h)
	if err != nil {
		return err
	}
	return tl.Query(q.Resolution, q.Trajectories)
}

// DestroyTimeline releases a timeline handle.
func (r *Registry) DestroyTimeline(h TimelineHandle) { delete(r.timelines, h) }
