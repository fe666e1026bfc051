// Package codec serializes a world state into one of two flat numeric
// layouts consumed by downstream models.
//
// The "sequence" scheme emits one channel vector per occupied cell: the
// agent first, then one row per placed object. The "all" scheme emits a
// dense grid_size x grid_size grid with per-cell attribute channels plus
// two positional channels, flattened row-major. Both schemes decode back
// to the exact agent position/direction and object multiset.
package codec

import (
	"fmt"

	"gridgen/internal/grid"
)

// Scheme selects the encoding layout.
type Scheme string

const (
	SchemeSequence Scheme = "sequence"
	SchemeAll      Scheme = "all"
)

// Channel offsets shared by both schemes. In box mode three extra
// channels carry the nested (size, color) of a box and a box flag.
const (
	chanSize      = 0
	chanColor     = 1
	chanShape     = 2
	chanAgentFlag = 3
	chanDirection = 4

	seqChanRow = 5
	seqChanCol = 6

	boxChanOffset = 3 // extra channels appended in box mode
)

// Codec encodes and decodes situations under a fixed color/shape
// numbering. Construct once per run; safe for concurrent use.
type Codec struct {
	Scheme Scheme
	Boxes  bool

	colorIdx map[string]int
	shapeIdx map[string]int
	colors   []string
	shapes   []string
}

// New builds a codec over sorted color and shape (noun) lists. Indices
// are 1-based so that zero stays reserved for "empty".
func New(scheme Scheme, boxes bool, colors, shapes []string) *Codec {
	c := &Codec{
		Scheme:   scheme,
		Boxes:    boxes,
		colorIdx: make(map[string]int, len(colors)),
		shapeIdx: make(map[string]int, len(shapes)),
		colors:   colors,
		shapes:   shapes,
	}
	for i, col := range colors {
		c.colorIdx[col] = i + 1
	}
	for i, sh := range shapes {
		c.shapeIdx[sh] = i + 1
	}
	return c
}

// Channels reports the per-row vector width produced by Encode.
func (c *Codec) Channels() int {
	base := 0
	switch c.Scheme {
	case SchemeSequence:
		base = 7
	case SchemeAll:
		base = 5 + 2 // attribute channels + positional channels
	}
	if c.Boxes {
		base += boxChanOffset
	}
	return base
}

// Encode serializes a situation to the configured flat layout.
func (c *Codec) Encode(s grid.Situation) [][]int {
	switch c.Scheme {
	case SchemeAll:
		return c.encodeAll(s)
	default:
		return c.encodeSequence(s)
	}
}

func (c *Codec) encodeSequence(s grid.Situation) [][]int {
	width := 7
	if c.Boxes {
		width += boxChanOffset
	}

	rows := make([][]int, 0, len(s.PlacedObjects)+1)

	agent := make([]int, width)
	agent[chanAgentFlag] = 1
	agent[chanDirection] = s.AgentDirection
	agent[seqChanRow] = s.AgentPos.Row
	agent[seqChanCol] = s.AgentPos.Column
	rows = append(rows, agent)

	for _, po := range s.PlacedObjects {
		row := make([]int, width)
		row[seqChanRow] = po.Position.Row
		row[seqChanCol] = po.Position.Column
		if c.Boxes && po.Object.Shape == "box" {
			row[7] = po.Object.Size
			row[8] = c.colorIdx[po.Object.Color]
			row[9] = 1
		} else {
			row[chanSize] = po.Object.Size
			row[chanColor] = c.colorIdx[po.Object.Color]
			row[chanShape] = c.shapeIdx[po.Object.Shape]
		}
		rows = append(rows, row)
	}
	return rows
}

func (c *Codec) encodeAll(s grid.Situation) [][]int {
	attrWidth := 5
	if c.Boxes {
		attrWidth += boxChanOffset
	}

	cells := make([][]int, s.GridSize*s.GridSize)
	for i := range cells {
		cells[i] = make([]int, attrWidth+2)
	}

	at := func(row, col int) []int { return cells[row*s.GridSize+col] }

	agent := at(s.AgentPos.Row, s.AgentPos.Column)
	agent[chanAgentFlag] = 1
	agent[chanDirection] = s.AgentDirection

	for _, po := range s.PlacedObjects {
		cell := at(po.Position.Row, po.Position.Column)
		if c.Boxes && po.Object.Shape == "box" {
			cell[5] = po.Object.Size
			cell[6] = c.colorIdx[po.Object.Color]
			cell[7] = 1
		} else {
			cell[chanSize] = po.Object.Size
			cell[chanColor] = c.colorIdx[po.Object.Color]
			cell[chanShape] = c.shapeIdx[po.Object.Shape]
		}
	}

	// 1-based positional channels, matching a cumulative-sum over a grid
	// of ones along each axis.
	for row := 0; row < s.GridSize; row++ {
		for col := 0; col < s.GridSize; col++ {
			cell := at(row, col)
			cell[attrWidth] = row + 1
			cell[attrWidth+1] = col + 1
		}
	}
	return cells
}

// World is the decoded view of an encoded situation: the agent state and
// the multiset of placed objects. The target designation is not part of
// the wire layout and cannot be recovered.
type World struct {
	AgentPos       grid.Position
	AgentDirection int
	Objects        []grid.PlacedObject
}

// Decode recovers the agent state and object multiset from an encoded
// layout. gridSize is required for the "all" scheme and ignored by
// "sequence".
func (c *Codec) Decode(rows [][]int, gridSize int) (World, error) {
	switch c.Scheme {
	case SchemeAll:
		return c.decodeAll(rows, gridSize)
	default:
		return c.decodeSequence(rows)
	}
}

func (c *Codec) decodeSequence(rows [][]int) (World, error) {
	if len(rows) == 0 {
		return World{}, fmt.Errorf("sequence layout has no rows")
	}
	agent := rows[0]
	if agent[chanAgentFlag] != 1 {
		return World{}, fmt.Errorf("sequence layout row 0 is not an agent row")
	}
	w := World{
		AgentPos:       grid.Position{Row: agent[seqChanRow], Column: agent[seqChanCol]},
		AgentDirection: agent[chanDirection],
	}

	for _, row := range rows[1:] {
		pos := grid.Position{Row: row[seqChanRow], Column: row[seqChanCol]}
		if c.Boxes && row[9] == 1 {
			w.Objects = append(w.Objects, grid.PlacedObject{
				Position: pos,
				Object:   grid.Object{Size: row[7], Color: c.colorName(row[8]), Shape: "box"},
			})
			continue
		}
		obj, err := c.decodeObject(row, pos)
		if err != nil {
			return World{}, err
		}
		w.Objects = append(w.Objects, obj)
	}
	return w, nil
}

func (c *Codec) decodeAll(rows [][]int, gridSize int) (World, error) {
	if len(rows) != gridSize*gridSize {
		return World{}, fmt.Errorf("dense layout has %d cells, want %d", len(rows), gridSize*gridSize)
	}
	var w World
	sawAgent := false

	for i, cell := range rows {
		pos := grid.Position{Row: i / gridSize, Column: i % gridSize}
		if cell[chanAgentFlag] == 1 {
			w.AgentPos = pos
			w.AgentDirection = cell[chanDirection]
			sawAgent = true
			continue
		}
		if c.Boxes && cell[7] == 1 {
			w.Objects = append(w.Objects, grid.PlacedObject{
				Position: pos,
				Object:   grid.Object{Size: cell[5], Color: c.colorName(cell[6]), Shape: "box"},
			})
			continue
		}
		if cell[chanSize] > 0 {
			obj, err := c.decodeObject(cell, pos)
			if err != nil {
				return World{}, err
			}
			w.Objects = append(w.Objects, obj)
		}
	}
	if !sawAgent {
		return World{}, fmt.Errorf("dense layout has no agent cell")
	}
	return w, nil
}

func (c *Codec) decodeObject(row []int, pos grid.Position) (grid.PlacedObject, error) {
	color := c.colorName(row[chanColor])
	shape := c.shapeName(row[chanShape])
	if color == "" || shape == "" {
		return grid.PlacedObject{}, fmt.Errorf("unknown color/shape indices (%d, %d)", row[chanColor], row[chanShape])
	}
	return grid.PlacedObject{
		Position: pos,
		Object:   grid.Object{Size: row[chanSize], Color: color, Shape: shape},
	}, nil
}

func (c *Codec) colorName(idx int) string {
	if idx < 1 || idx > len(c.colors) {
		return ""
	}
	return c.colors[idx-1]
}

func (c *Codec) shapeName(idx int) string {
	if idx < 1 || idx > len(c.shapes) {
		return ""
	}
	return c.shapes[idx-1]
}
