// Package index builds the read-only lookup structures over the training
// corpus. Each builder is a single pass in corpus order, so every bucket
// holds example indices in ascending order; none of the maps are mutated
// after construction, which makes them safe to hand to workers.
package index

import (
	"sort"
	"strings"

	"gridgen/internal/grid"
)

// Offset is the (column, row) displacement from the agent to the target.
type Offset struct {
	X int // column difference
	Y int // row difference
}

// ObjectOffsetKey keys examples by target offset and target attributes.
// A single composite key replaces the nested per-field maps the layout
// would otherwise need.
type ObjectOffsetKey struct {
	X     int
	Y     int
	Size  int
	Shape string
	Color string
}

// ByCommand buckets example indices by their space-joined command text.
func ByCommand(examples []grid.Example) map[string][]int {
	buckets := make(map[string][]int)
	for i, ex := range examples {
		key := strings.Join(ex.Command, " ")
		buckets[key] = append(buckets[key], i)
	}
	return buckets
}

// ByOffset buckets example indices by the agent-to-target displacement.
func ByOffset(examples []grid.Example) map[Offset][]int {
	buckets := make(map[Offset][]int)
	for i, ex := range examples {
		t := ex.Situation.TargetObject
		key := Offset{
			X: t.Position.Column - ex.Situation.AgentPos.Column,
			Y: t.Position.Row - ex.Situation.AgentPos.Row,
		}
		buckets[key] = append(buckets[key], i)
	}
	return buckets
}

// ByTargetPosition buckets example indices by the target's absolute cell.
func ByTargetPosition(examples []grid.Example) map[grid.Position][]int {
	buckets := make(map[grid.Position][]int)
	for i, ex := range examples {
		buckets[ex.Situation.TargetObject.Position] = append(
			buckets[ex.Situation.TargetObject.Position], i)
	}
	return buckets
}

// ByOffsetAndObject buckets example indices by displacement plus the
// target's size, shape and color.
func ByOffsetAndObject(examples []grid.Example) map[ObjectOffsetKey][]int {
	buckets := make(map[ObjectOffsetKey][]int)
	for i, ex := range examples {
		t := ex.Situation.TargetObject
		key := ObjectOffsetKey{
			X:     t.Position.Column - ex.Situation.AgentPos.Column,
			Y:     t.Position.Row - ex.Situation.AgentPos.Row,
			Size:  t.Object.Size,
			Shape: t.Object.Shape,
			Color: t.Object.Color,
		}
		buckets[key] = append(buckets[key], i)
	}
	return buckets
}

// ByLayout buckets example indices by their full serialized layout.
func ByLayout(examples []grid.Example) map[string][]int {
	buckets := make(map[string][]int)
	for i, ex := range examples {
		key := ex.Situation.LayoutKey()
		buckets[key] = append(buckets[key], i)
	}
	return buckets
}

// ContainsSorted reports whether idx appears in an ascending bucket using
// binary search. Buckets built by this package are ascending because
// construction appends in corpus order.
func ContainsSorted(bucket []int, idx int) bool {
	i := sort.SearchInts(bucket, idx)
	return i < len(bucket) && bucket[i] == idx
}
