package sim

import (
	"testing"

	"github.com/kestrel-sim/spacesim/math/lin"
	"github.com/kestrel-sim/spacesim/scene"
)

func newPoolScene(capacity int32) (*scene.Scene, scene.Entity, scene.Entity) {
	sc := scene.New()
	poolID := sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{})
	protoID := sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{Radius: 1})
	InitializePool(sc, poolID, protoID, capacity)
	return sc, poolID, protoID
}

func poolCounts(sc *scene.Scene, poolID scene.Entity) (free, inUse int32) {
	p, _ := sc.ReusePool(poolID)
	return p.FreeCount, p.InUseCount
}

func TestInitializePoolStartsFullyFree(t *testing.T) {
	sc, poolID, _ := newPoolScene(4)
	free, inUse := poolCounts(sc, poolID)
	if free != 4 || inUse != 0 {
		t.Fatalf("expected 4 free, 0 in use, got free=%d inUse=%d", free, inUse)
	}
}

// TestPoolCountsAreInvariantAcrossClaimRelease mirrors the object pool
// scenario: FreeCount+InUseCount must stay equal to capacity through an
// arbitrary sequence of claims and releases.
func TestPoolCountsAreInvariantAcrossClaimRelease(t *testing.T) {
	const capacity = int32(4)
	sc, poolID, _ := newPoolScene(capacity)

	var claimed []scene.Entity
	for i := 0; i < 3; i++ {
		e, err := SpawnEventFromPool(sc, poolID, lin.Zero3, lin.QuatIdentity, lin.Zero3)
		if err != nil {
			t.Fatalf("SpawnEventFromPool: %v", err)
		}
		claimed = append(claimed, e.ID)

		free, inUse := poolCounts(sc, poolID)
		if free+inUse != capacity {
			t.Fatalf("invariant broken after claim %d: free=%d inUse=%d", i, free, inUse)
		}
	}

	for _, id := range claimed {
		sc.Flags[id] |= scene.Reusable
		ReleaseObject(sc, id)
		free, inUse := poolCounts(sc, poolID)
		if free+inUse != capacity {
			t.Fatalf("invariant broken after release of %d: free=%d inUse=%d", id, free, inUse)
		}
	}

	free, inUse := poolCounts(sc, poolID)
	if free != capacity || inUse != 0 {
		t.Fatalf("expected pool fully free again, got free=%d inUse=%d", free, inUse)
	}
}

func TestSpawnEventFromPoolExhausted(t *testing.T) {
	sc, poolID, _ := newPoolScene(1)
	if _, err := SpawnEventFromPool(sc, poolID, lin.Zero3, lin.QuatIdentity, lin.Zero3); err != nil {
		t.Fatalf("first claim should succeed: %v", err)
	}
	if _, err := SpawnEventFromPool(sc, poolID, lin.Zero3, lin.QuatIdentity, lin.Zero3); err == nil {
		t.Fatalf("expected ErrResourceExhausted on an empty pool")
	}
}

func TestSpawnEventFromPoolUnknownPool(t *testing.T) {
	sc := scene.New()
	sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{})
	if _, err := SpawnEventFromPool(sc, 0, lin.Zero3, lin.QuatIdentity, lin.Zero3); err == nil {
		t.Fatalf("expected an error for an entity with no ReusePool component")
	}
}

func TestConvertSpawnAttemptsProducesSpawnForEachSuccess(t *testing.T) {
	sc, poolID, _ := newPoolScene(2)
	input := []scene.Event{
		{Kind: scene.KindSpawnAttempt, ID: poolID},
		{Kind: scene.KindSpawnAttempt, ID: poolID},
		{Kind: scene.KindSpawnAttempt, ID: poolID}, // third attempt: pool exhausted
	}
	out := ConvertSpawnAttempts(sc, input, nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 successful spawns, got %d", len(out))
	}
	for _, e := range out {
		if e.Kind != scene.KindSpawn {
			t.Fatalf("expected converted events to be Spawn kind, got %v", e.Kind)
		}
	}
}

func TestCopyOptionalComponentsCarriesDurability(t *testing.T) {
	sc := scene.New()
	poolID := sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{})
	protoID := sc.Push(scene.Transform{}, scene.Mass{}, scene.Motion{}, scene.Collider{})
	sc.SetDurability(scene.Durability{ID: protoID, Value: 10, Max: 10})

	InitializePool(sc, poolID, protoID, 3)

	p, _ := sc.ReusePool(poolID)
	tag, ok := sc.ReuseTag(p.FirstID)
	if !ok || tag.NextID == scene.Nil {
		t.Fatalf("expected the free list to contain a pushed copy")
	}
	copyID := tag.NextID

	d, ok := sc.Durability(copyID)
	if !ok || d.Max != 10 || d.ID != copyID {
		t.Fatalf("expected pooled copy to inherit Durability rebased to its own id, got %+v ok=%v", d, ok)
	}
}
