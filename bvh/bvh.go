// Package bvh implements an array-backed bounding volume hierarchy used
// for the broad collision detection phase. Nodes live in one contiguous
// slice; children are indices into that slice rather than pointers, the
// same arena-and-index discipline the simulation core uses for entities
// and interval tree nodes. -1 denotes a nil child.
package bvh

import "github.com/kestrel-sim/spacesim/math/lin"

const nilIdx = -1

// KV pairs a bounding box with a caller supplied value, e.g. an entity id.
type KV[T any] struct {
	Bounds lin.AABB
	Value  T
}

type node[T any] struct {
	bounds      lin.AABB
	value       T
	left, right int32
	leaf        bool
}

// Tree is a binary bounding volume hierarchy over values of type T.
// A Tree is rebuilt from scratch every call to Rebuild: there is no
// incremental re-balancing, trading query quality on pathological input
// for a build that is trivially correct and cheap to reason about.
type Tree[T any] struct {
	nodes []node[T]
	root  int32
	// scratch is reused across calls to Rebuild to avoid reallocating the
	// working copy that gets partitioned in place.
	scratch []KV[T]
}

// New returns an empty tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{root: nilIdx}
}

// Rebuild discards the previous tree and builds a new one over kvs.
// Build is top-down: the bounding box of a range is computed once, the
// longest axis of that box is chosen as the split axis, and the range is
// partitioned around the median-of-three pivot (by center coordinate on
// that axis) using Hoare's scheme before recursing into the two halves.
func (t *Tree[T]) Rebuild(kvs []KV[T]) {
	t.nodes = t.nodes[:0]
	t.scratch = append(t.scratch[:0], kvs...)
	if len(t.scratch) == 0 {
		t.root = nilIdx
		return
	}
	t.root = t.build(0, len(t.scratch)-1)
}

// build returns the index of the node built over scratch[lo..hi] inclusive.
func (t *Tree[T]) build(lo, hi int) int32 {
	n := hi - lo + 1
	switch {
	case n <= 0:
		return nilIdx
	case n == 1:
		return t.newLeaf(t.scratch[lo])
	case n == 2:
		left := t.newLeaf(t.scratch[lo])
		right := t.newLeaf(t.scratch[lo+1])
		bounds := t.nodes[left].bounds.Encapsulate(t.nodes[right].bounds)
		return t.newInner(bounds, left, right)
	}

	bounds := t.scratch[lo].Bounds
	for i := lo + 1; i <= hi; i++ {
		bounds = bounds.Encapsulate(t.scratch[i].Bounds)
	}
	axis := bounds.LongestAxis()
	pivot := t.partition(lo, hi, axis)

	left := t.build(lo, pivot)
	right := t.build(pivot+1, hi)
	return t.newInner(bounds, left, right)
}

// partition reorders scratch[lo..hi] around the median-of-three pivot
// (by center coordinate on axis) using Hoare's scheme, and returns the
// index of the left partition's last element.
func (t *Tree[T]) partition(lo, hi, axis int) int {
	mid := lo + (hi-lo)/2
	pivot := medianOfThree(
		t.scratch[lo].Bounds.AxisValue(axis),
		t.scratch[mid].Bounds.AxisValue(axis),
		t.scratch[hi].Bounds.AxisValue(axis),
	)

	i, j := lo-1, hi+1
	for {
		for {
			i++
			if t.scratch[i].Bounds.AxisValue(axis) >= pivot {
				break
			}
		}
		for {
			j--
			if t.scratch[j].Bounds.AxisValue(axis) <= pivot {
				break
			}
		}
		if i >= j {
			return j
		}
		t.scratch[i], t.scratch[j] = t.scratch[j], t.scratch[i]
	}
}

func medianOfThree(a, b, c float64) float64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b = c
	}
	if a > b {
		b = a
	}
	return b
}

func (t *Tree[T]) newLeaf(kv KV[T]) int32 {
	t.nodes = append(t.nodes, node[T]{bounds: kv.Bounds, value: kv.Value, left: nilIdx, right: nilIdx, leaf: true})
	return int32(len(t.nodes) - 1)
}

func (t *Tree[T]) newInner(bounds lin.AABB, left, right int32) int32 {
	t.nodes = append(t.nodes, node[T]{bounds: bounds, left: left, right: right, leaf: false})
	return int32(len(t.nodes) - 1)
}

// Overlap appends every value whose leaf bounds overlap needle to out,
// pruning any subtree whose bounds do not overlap needle.
func (t *Tree[T]) Overlap(needle lin.AABB, out []KV[T]) []KV[T] {
	return t.overlap(t.root, needle, out)
}

func (t *Tree[T]) overlap(idx int32, needle lin.AABB, out []KV[T]) []KV[T] {
	if idx == nilIdx {
		return out
	}
	n := &t.nodes[idx]
	if !n.bounds.Overlaps(needle) {
		return out
	}
	if n.leaf {
		return append(out, KV[T]{Bounds: n.bounds, Value: n.value})
	}
	out = t.overlap(n.left, needle, out)
	out = t.overlap(n.right, needle, out)
	return out
}

// Len returns the number of leaves currently held, for diagnostics/tests.
func (t *Tree[T]) Len() int {
	count := 0
	for _, n := range t.nodes {
		if n.leaf {
			count++
		}
	}
	return count
}

// Bounds returns the root bounding box and whether the tree is non-empty.
func (t *Tree[T]) Bounds() (lin.AABB, bool) {
	if t.root == nilIdx {
		return lin.AABB{}, false
	}
	return t.nodes[t.root].bounds, true
}
