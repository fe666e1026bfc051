// Package grid defines the world model shared by every stage of the
// generation pipeline: positions, placed objects, situations and corpus
// examples, plus their on-disk JSON representation.
package grid

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Agent facing directions as encoded in dataset files.
const (
	DirSouth = 0
	DirEast  = 1
	DirNorth = 2
	DirWest  = 3
)

// DirToInt maps direction names to their dataset encoding.
var DirToInt = map[string]int{
	"south": DirSouth,
	"east":  DirEast,
	"north": DirNorth,
	"west":  DirWest,
}

// IntToDir is the inverse of DirToInt.
var IntToDir = map[int]string{
	DirSouth: "south",
	DirEast:  "east",
	DirNorth: "north",
	DirWest:  "west",
}

// Position is a cell on the grid.
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Object is the visual description of a placed object.
type Object struct {
	Size  int    `json:"size"`
	Color string `json:"color"`
	Shape string `json:"shape"`
}

// PlacedObject is an object occupying a cell.
type PlacedObject struct {
	Position Position `json:"position"`
	Object   Object   `json:"object"`
}

// Situation is one fully specified world state. Exactly one placed object
// is designated as the target by the dataset producer; the target also
// appears in PlacedObjects.
type Situation struct {
	GridSize       int
	AgentPos       Position
	AgentDirection int
	TargetObject   PlacedObject
	PlacedObjects  []PlacedObject
}

// Example is one corpus entry. Command and TargetCommands are token
// sequences; examples are immutable once loaded and identified by their
// position in the corpus ordering.
type Example struct {
	Command        []string
	TargetCommands []string
	Situation      Situation
}

// SituationRepr mirrors the situation layout in dataset files. Placed
// objects are keyed by a producer-assigned id.
type SituationRepr struct {
	GridSize       int                     `json:"grid_size,omitempty"`
	AgentPosition  Position                `json:"agent_position"`
	AgentDirection int                     `json:"agent_direction"`
	TargetObject   PlacedObject            `json:"target_object"`
	PlacedObjects  map[string]PlacedObject `json:"placed_objects"`
}

// ExampleRepr mirrors one example record in dataset files. Token sequences
// are comma-joined.
type ExampleRepr struct {
	Command        string        `json:"command"`
	TargetCommands string        `json:"target_commands"`
	Situation      SituationRepr `json:"situation"`
}

// ParseCommand splits a comma-joined token sequence.
func ParseCommand(repr string) []string {
	return strings.Split(repr, ",")
}

// JoinCommand is the inverse of ParseCommand.
func JoinCommand(tokens []string) string {
	return strings.Join(tokens, ",")
}

// SituationFromRepr converts the file representation into a Situation.
// Placed objects are ordered by their id (numerically where ids are
// numeric) so that repeated loads of the same file yield the same object
// ordering regardless of map iteration order.
func SituationFromRepr(repr SituationRepr, gridSize int) Situation {
	if repr.GridSize != 0 {
		gridSize = repr.GridSize
	}

	ids := make([]string, 0, len(repr.PlacedObjects))
	for id := range repr.PlacedObjects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, aerr := strconv.Atoi(ids[i])
		b, berr := strconv.Atoi(ids[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		return ids[i] < ids[j]
	})

	placed := make([]PlacedObject, 0, len(ids))
	for _, id := range ids {
		placed = append(placed, repr.PlacedObjects[id])
	}

	return Situation{
		GridSize:       gridSize,
		AgentPos:       repr.AgentPosition,
		AgentDirection: repr.AgentDirection,
		TargetObject:   repr.TargetObject,
		PlacedObjects:  placed,
	}
}

// ToRepr converts a Situation back to its file representation.
func (s Situation) ToRepr() SituationRepr {
	placed := make(map[string]PlacedObject, len(s.PlacedObjects))
	for i, o := range s.PlacedObjects {
		placed[strconv.Itoa(i)] = o
	}
	return SituationRepr{
		GridSize:       s.GridSize,
		AgentPosition:  s.AgentPos,
		AgentDirection: s.AgentDirection,
		TargetObject:   s.TargetObject,
		PlacedObjects:  placed,
	}
}

// LayoutKey serializes the agent position, the target and every placed
// object into an exact-match lookup key. Objects are ordered by (row,
// column) so that two situations with identical layouts always produce
// identical keys.
func (s Situation) LayoutKey() string {
	parts := make([]string, 0, len(s.PlacedObjects)+2)
	parts = append(parts,
		fmt.Sprintf("agent_%d_%d", s.AgentPos.Column, s.AgentPos.Row),
		objectKeyPart("target", s.TargetObject),
	)

	sorted := make([]PlacedObject, len(s.PlacedObjects))
	copy(sorted, s.PlacedObjects)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Position.Row != sorted[j].Position.Row {
			return sorted[i].Position.Row < sorted[j].Position.Row
		}
		return sorted[i].Position.Column < sorted[j].Position.Column
	})
	for _, o := range sorted {
		parts = append(parts, objectKeyPart("object", o))
	}
	return strings.Join(parts, "_")
}

func objectKeyPart(prefix string, o PlacedObject) string {
	return fmt.Sprintf("%s_%d-%s-%s_%d_%d",
		prefix, o.Object.Size, o.Object.Color, o.Object.Shape,
		o.Position.Row, o.Position.Column)
}
