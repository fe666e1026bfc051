// Package world defines the contract with the grid-world simulator that
// turns a support instruction into its ground-truth action sequence, and
// ships a deterministic reference implementation.
//
// The reference Walker plans a shortest path (column progress first, then
// row progress; zigzagging alternates the two), rotating with minimal
// turns before each step. Push and pull move the object to the wall in
// front of (respectively behind) the agent, with heavy objects (sizes 3
// and 4) taking two actions per cell. Adverbs decorate the plan: "while
// spinning" spins left four times before each step, "hesitantly" stays
// after each step, "cautiously" looks both ways before each step. All
// plans are deterministic; an unsatisfiable instruction yields an empty
// sequence, which callers treat as a skip.
package world

import (
	"slices"

	"gridgen/internal/grid"
	"gridgen/internal/vocab"
)

// Action tokens emitted by demonstrations.
const (
	ActionWalk      = "walk"
	ActionTurnLeft  = "turn left"
	ActionTurnRight = "turn right"
	ActionPush      = "push"
	ActionPull      = "pull"
	ActionStay      = "stay"
)

// Demonstrator synthesizes the action sequence for an instruction against
// a situation. Implementations must be deterministic; failure is an empty
// sequence, never an error.
type Demonstrator interface {
	Simulate(v *vocab.Vocabulary, colors, nouns []string, instruction []string, target grid.PlacedObject, s grid.Situation) []string
}

// Walker is the reference Demonstrator.
type Walker struct{}

// NewWalker returns the reference demonstrator.
func NewWalker() *Walker { return &Walker{} }

// Simulate plans the demonstration for an instruction whose target object
// is already resolved.
func (w *Walker) Simulate(v *vocab.Vocabulary, colors, nouns []string, instruction []string, target grid.PlacedObject, s grid.Situation) []string {
	verb := ""
	for _, tok := range instruction {
		switch tok {
		case "push", "pull":
			verb = tok
		case "walk":
			if verb == "" {
				verb = "walk"
			}
		}
	}
	if verb == "" {
		return nil
	}

	adverb := ""
	for _, tok := range instruction {
		if slices.Contains([]string{"while spinning", "while zigzagging", "hesitantly", "cautiously"}, tok) {
			adverb = tok
		}
	}

	if target.Position.Row < 0 || target.Position.Row >= s.GridSize ||
		target.Position.Column < 0 || target.Position.Column >= s.GridSize {
		return nil
	}

	p := planner{gridSize: s.GridSize, pos: s.AgentPos, dir: s.AgentDirection, adverb: adverb}
	p.walkTo(target.Position)

	switch verb {
	case "push":
		p.manipulate(target, false)
	case "pull":
		p.manipulate(target, true)
	}
	return p.actions
}

type planner struct {
	gridSize int
	pos      grid.Position
	dir      int
	adverb   string
	actions  []string
}

// directionTo reports the facing direction for a single-axis step.
func directionTo(from, to grid.Position) int {
	switch {
	case to.Column > from.Column:
		return grid.DirEast
	case to.Column < from.Column:
		return grid.DirWest
	case to.Row > from.Row:
		return grid.DirSouth
	default:
		return grid.DirNorth
	}
}

// face rotates with minimal turns. A left turn increments the direction
// encoding, a right turn decrements it.
func (p *planner) face(dir int) {
	diff := (dir - p.dir + 4) % 4
	switch diff {
	case 1:
		p.actions = append(p.actions, ActionTurnLeft)
	case 2:
		p.actions = append(p.actions, ActionTurnLeft, ActionTurnLeft)
	case 3:
		p.actions = append(p.actions, ActionTurnRight)
	}
	p.dir = dir
}

func (p *planner) step(to grid.Position) {
	p.face(directionTo(p.pos, to))
	switch p.adverb {
	case "while spinning":
		p.actions = append(p.actions, ActionTurnLeft, ActionTurnLeft, ActionTurnLeft, ActionTurnLeft)
	case "cautiously":
		p.actions = append(p.actions, ActionTurnRight, ActionTurnLeft, ActionTurnLeft, ActionTurnRight)
	}
	p.actions = append(p.actions, ActionWalk)
	if p.adverb == "hesitantly" {
		p.actions = append(p.actions, ActionStay)
	}
	p.pos = to
}

func (p *planner) walkTo(dest grid.Position) {
	zigzag := p.adverb == "while zigzagging"
	steps := 0
	for p.pos != dest {
		colNext := p.pos
		if dest.Column > p.pos.Column {
			colNext.Column++
		} else if dest.Column < p.pos.Column {
			colNext.Column--
		}
		rowNext := p.pos
		if dest.Row > p.pos.Row {
			rowNext.Row++
		} else if dest.Row < p.pos.Row {
			rowNext.Row--
		}

		switch {
		case colNext == p.pos:
			p.step(rowNext)
		case rowNext == p.pos:
			p.step(colNext)
		case zigzag && steps%2 == 1:
			p.step(rowNext)
		default:
			p.step(colNext)
		}
		steps++
	}
}

// manipulate pushes the object to the wall the agent faces, or pulls it
// back to the wall behind the agent. Heavy objects take two actions per
// cell moved.
func (p *planner) manipulate(target grid.PlacedObject, pull bool) {
	dir := p.dir
	if pull {
		dir = (dir + 2) % 4
	}

	cells := 0
	switch dir {
	case grid.DirEast:
		cells = p.gridSize - 1 - p.pos.Column
	case grid.DirWest:
		cells = p.pos.Column
	case grid.DirSouth:
		cells = p.gridSize - 1 - p.pos.Row
	case grid.DirNorth:
		cells = p.pos.Row
	}

	perCell := 1
	if target.Object.Size >= 3 {
		perCell = 2
	}

	action := ActionPush
	if pull {
		action = ActionPull
	}
	for i := 0; i < cells*perCell; i++ {
		p.actions = append(p.actions, action)
	}
}
