package scene

import "github.com/kestrel-sim/spacesim/math/lin"

// Transform is an entity's world pose.
type Transform struct {
	Position lin.Vec3
	Rotation lin.Quat
}

// Mass carries both the entity's inertial mass (resistance to
// acceleration) and its active mass (how hard it pulls on others).
type Mass struct {
	Inertial       float64
	Active         float64
	CutoffDistance float64 // 0 means unbounded gravitational range.
}

// Motion is kinematic scratch state recomputed every step. NewPosition
// is a two-phase buffer: the integrator writes it, collision detection
// reads it to build swept AABBs, and position commit copies it back
// into Transform.Position once collisions have been resolved.
type Motion struct {
	Velocity     lin.Vec3
	NewPosition  lin.Vec3
	Acceleration lin.Vec3
	Spin         lin.Quat
}

// Collider is a sphere collider in the entity's local coordinates.
type Collider struct {
	Layer  uint32 // [0, 32)
	Radius float64
	Center lin.Vec3
}

// Glue, when Flags.Glued is set, makes an entity follow ParentID.
type Glue struct {
	ParentID Entity
}

// Flags is a per-entity bitset of behavior switches.
type Flags uint32

const (
	Destroyed Flags = 1 << iota
	Glued
	Orbiting
	Reusable
)

// Has reports whether all of bits are set.
func (f Flags) Has(bits Flags) bool { return f&bits == bits }

// Any reports whether any of bits are set.
func (f Flags) Any(bits Flags) bool { return f&bits != 0 }

// Kepler is one set of Keplerian orbital elements.
type Kepler struct {
	SemiMajorAxis                float64
	Eccentricity                 float64
	MeanLongitudeDeg             float64
	LongitudeOfPerihelionDeg     float64
	LongitudeOfAscendingNodeDeg  float64
	InclinationDeg               float64
}

// Add returns the componentwise sum of two element sets, used to
// advance Epoch by Delta*t.
func (k Kepler) Add(o Kepler) Kepler {
	return Kepler{
		SemiMajorAxis:               k.SemiMajorAxis + o.SemiMajorAxis,
		Eccentricity:                k.Eccentricity + o.Eccentricity,
		MeanLongitudeDeg:            k.MeanLongitudeDeg + o.MeanLongitudeDeg,
		LongitudeOfPerihelionDeg:    k.LongitudeOfPerihelionDeg + o.LongitudeOfPerihelionDeg,
		LongitudeOfAscendingNodeDeg: k.LongitudeOfAscendingNodeDeg + o.LongitudeOfAscendingNodeDeg,
		InclinationDeg:              k.InclinationDeg + o.InclinationDeg,
	}
}

// Scale multiplies every element by s.
func (k Kepler) Scale(s float64) Kepler {
	return Kepler{
		SemiMajorAxis:               k.SemiMajorAxis * s,
		Eccentricity:                k.Eccentricity * s,
		MeanLongitudeDeg:            k.MeanLongitudeDeg * s,
		LongitudeOfPerihelionDeg:    k.LongitudeOfPerihelionDeg * s,
		LongitudeOfAscendingNodeDeg: k.LongitudeOfAscendingNodeDeg * s,
		InclinationDeg:              k.InclinationDeg * s,
	}
}

// Orbit is an optional component driving the orbit stage.
type Orbit struct {
	ID    Entity
	Focus lin.Vec3
	Epoch Kepler
	Delta Kepler // per-second rate of change of each element
}

// Durability tracks hit points.
type Durability struct {
	ID    Entity
	Value int32
	Max   int32
}

// MaxFuelTanks bounds the fixed-size fuel tank array on Rocket, matching
// the bounded-POD-payload discipline the rest of the component set uses.
const MaxFuelTanks = 8

// FuelTank is one rocket fuel tank.
type FuelTank struct {
	MassFlowRate float64 // kg consumed per second of thrust
	Fuel         float64 // seconds of thrust remaining
	Thrust       float64 // newtons of force the tank can produce
}

// Rocket is an optional component describing up to MaxFuelTanks tanks.
type Rocket struct {
	ID            Entity
	FuelTankCount int32
	FuelTanks     [MaxFuelTanks]FuelTank
}

// ReuseTag links a pooled entity into its pool's free list.
type ReuseTag struct {
	ID     Entity
	PoolID Entity
	NextID Entity
}

// ReusePool tracks the free list head and bookkeeping counts for an
// object pool. FreeCount+InUseCount is invariant across the pool's life.
type ReusePool struct {
	ID         Entity
	FirstID    Entity
	InUseCount int32
	FreeCount  int32
}

// TriggerTarget selects who a triggered event targets.
type TriggerTarget int

const (
	TargetSelf TriggerTarget = iota
	TargetOther
)

// Trigger is an event template fired when a kTriggerEvent rule matches.
type Trigger struct {
	ID             Entity
	Template       Event
	Target         TriggerTarget
	DestroyTrigger bool
}
