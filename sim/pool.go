package sim

import (
	"fmt"

	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
)

// InitializePool turns prototype into a reusable object pool of the
// given capacity: the prototype becomes the first free entry, and
// capacity-1 additional entities are pushed as copies of it, threaded
// through a singly-linked free list via ReuseTag.NextID.
func InitializePool(sc *scene.Scene, poolID, prototypeID scene.Entity, capacity int32) {
	sc.SetReusePool(scene.ReusePool{ID: poolID, FirstID: scene.Nil, FreeCount: 0, InUseCount: capacity})
	sc.SetReuseTag(scene.ReuseTag{ID: prototypeID, PoolID: poolID, NextID: scene.Nil})
	sc.Flags[prototypeID] |= scene.Reusable | scene.Destroyed

	for i := int32(0); i < capacity-1; i++ {
		id := sc.Push()
		sc.CopyInto(id, prototypeID)
		copyOptionalComponents(sc, id, prototypeID)
		ReleaseObject(sc, id)
	}
	returnToPool(sc, prototypeID)
}

func copyOptionalComponents(sc *scene.Scene, dst, src scene.Entity) {
	if o, ok := sc.Orbit(src); ok {
		o.ID = dst
		sc.SetOrbit(o)
	}
	if d, ok := sc.Durability(src); ok {
		d.ID = dst
		sc.SetDurability(d)
	}
	if r, ok := sc.Rocket(src); ok {
		r.ID = dst
		sc.SetRocket(r)
	}
	if t, ok := sc.Trigger(src); ok {
		t.ID = dst
		sc.SetTrigger(t)
	}
	if rt, ok := sc.ReuseTag(src); ok {
		rt.ID = dst
		sc.SetReuseTag(rt)
	}
}

// returnToPool prepends id's ReuseTag onto its pool's free list.
func returnToPool(sc *scene.Scene, id scene.Entity) {
	tag, ok := sc.ReuseTag(id)
	if !ok {
		return
	}
	pool, ok := sc.ReusePool(tag.PoolID)
	if !ok {
		return
	}
	tag.NextID = pool.FirstID
	sc.SetReuseTag(tag)
	pool.FirstID = id
	pool.FreeCount++
	pool.InUseCount--
	sc.SetReusePool(pool)
}

// ReleaseObject returns id to its pool's free list if it is Reusable.
func ReleaseObject(sc *scene.Scene, id scene.Entity) {
	if !sc.Flags[id].Has(scene.Reusable) {
		return
	}
	returnToPool(sc, id)
}

// claimFromPool unlinks and returns the head of pool's free list, or
// scene.Nil if the pool is empty.
func claimFromPool(sc *scene.Scene, poolID scene.Entity) scene.Entity {
	pool, ok := sc.ReusePool(poolID)
	if !ok || pool.FirstID == scene.Nil {
		return scene.Nil
	}
	id := pool.FirstID
	tag, _ := sc.ReuseTag(id)
	pool.FirstID = tag.NextID
	tag.NextID = scene.Nil
	sc.SetReuseTag(tag)
	pool.FreeCount--
	pool.InUseCount++
	sc.SetReusePool(pool)
	return id
}

// SpawnEventFromPool claims a free entity from poolID and returns the
// Spawn event that will activate it once effects are applied. It fails
// with ErrInvalidArgument if poolID has no ReusePool component, or
// ErrResourceExhausted if the pool has no free entities.
func SpawnEventFromPool(sc *scene.Scene, poolID scene.Entity, position lin.Vec3, rotation lin.Quat, velocity lin.Vec3) (scene.Event, error) {
	if _, ok := sc.ReusePool(poolID); !ok {
		return scene.Event{}, fmt.Errorf("pool %d: %w", poolID, ErrInvalidArgument)
	}
	id := claimFromPool(sc, poolID)
	if id == scene.Nil {
		return scene.Event{}, fmt.Errorf("pool %d: %w", poolID, ErrResourceExhausted)
	}
	return scene.Event{
		Kind:     scene.KindSpawn,
		ID:       id,
		Position: position,
		PoolID:   poolID,
		Rotation: rotation,
		Velocity: velocity,
	}, nil
}

// ConvertSpawnAttempts runs SpawnEventFromPool for every SpawnAttempt
// event in input, appending a Spawn event for each one that succeeds.
// Attempts that fail (pool missing or exhausted) produce no event.
func ConvertSpawnAttempts(sc *scene.Scene, input []scene.Event, out []scene.Event) []scene.Event {
	for _, e := range input {
		if e.Kind != scene.KindSpawnAttempt {
			continue
		}
		if spawn, err := SpawnEventFromPool(sc, e.ID, e.Position, e.Rotation, e.Velocity); err == nil {
			out = append(out, spawn)
		}
	}
	return out
}
