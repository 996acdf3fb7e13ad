package scene

import "github.com/kestrel-sim/spacesim/math/lin"

// Kind discriminates the payload carried by an Event.
type Kind int

const (
	KindAcceleration Kind = iota
	KindCollision
	KindStick
	KindDestruction
	KindDamage
	KindTeleportation
	KindRocketBurn
	KindRocketRefuel
	KindSpawn
	KindSpawnAttempt
)

func (k Kind) String() string {
	switch k {
	case KindAcceleration:
		return "Acceleration"
	case KindCollision:
		return "Collision"
	case KindStick:
		return "Stick"
	case KindDestruction:
		return "Destruction"
	case KindDamage:
		return "Damage"
	case KindTeleportation:
		return "Teleportation"
	case KindRocketBurn:
		return "RocketBurn"
	case KindRocketRefuel:
		return "RocketRefuel"
	case KindSpawn:
		return "Spawn"
	case KindSpawnAttempt:
		return "SpawnAttempt"
	default:
		return "Unknown"
	}
}

// AccelFlags modifies how an Acceleration event is applied.
type AccelFlags uint32

const (
	AccelForce AccelFlags = 1 << iota
	AccelImpulse
)

// Event is a tagged union: one discriminator (Kind) plus a payload whose
// fields are only meaningful for that Kind. Every event carries an Id
// and a world Position regardless of kind, mirroring every other kind
// specific field living inline rather than behind an interface.
type Event struct {
	Kind     Kind
	ID       Entity
	Position lin.Vec3

	// Acceleration
	Linear     lin.Vec3
	Angular    lin.Quat
	AccelFlags AccelFlags

	// Collision
	FirstID                 Entity
	SecondID                Entity
	FirstFrameOffsetSeconds float64

	// Stick
	ParentID Entity
	Glued    bool

	// Damage
	Amount int32

	// Teleportation
	NewPosition lin.Vec3
	NewVelocity lin.Vec3
	NewSpin     lin.Quat

	// RocketBurn / RocketRefuel
	TankNo int32
	Tank   FuelTank

	// Spawn / SpawnAttempt
	PoolID   Entity
	Rotation lin.Quat
	Velocity lin.Vec3
}

// Equal compares two events for equality, intentionally ignoring the
// sub-frame FirstFrameOffsetSeconds on Collision events so that a single
// colliding pair folds into one merged interval instead of a new entry
// per distinct offset.
func (e Event) Equal(o Event) bool {
	if e.Kind != o.Kind || e.ID != o.ID || !e.Position.Eq(o.Position) {
		return false
	}
	switch e.Kind {
	case KindAcceleration:
		return e.Linear.Eq(o.Linear) && e.Angular.Eq(o.Angular) && e.AccelFlags == o.AccelFlags
	case KindCollision:
		return e.FirstID == o.FirstID && e.SecondID == o.SecondID
	case KindStick:
		return e.ParentID == o.ParentID && e.Glued == o.Glued
	case KindDestruction:
		return true
	case KindDamage:
		return e.Amount == o.Amount
	case KindTeleportation:
		return e.NewPosition.Eq(o.NewPosition) && e.NewVelocity.Eq(o.NewVelocity) && e.NewSpin.Eq(o.NewSpin)
	case KindRocketBurn:
		return e.TankNo == o.TankNo
	case KindRocketRefuel:
		return e.TankNo == o.TankNo && e.Tank == o.Tank
	case KindSpawn, KindSpawnAttempt:
		return e.PoolID == o.PoolID && e.Rotation.Eq(o.Rotation) && e.Velocity.Eq(o.Velocity)
	default:
		return false
	}
}
