package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/grid"
	"gridgen/internal/vocab"
)

var (
	testColors = []string{"blue", "green", "red", "yellow"}
	testNouns  = []string{"circle", "cylinder", "square"}
)

func situationWith(target grid.PlacedObject, agentRow, agentCol, agentDir int) grid.Situation {
	return grid.Situation{
		GridSize:       6,
		AgentPos:       grid.Position{Row: agentRow, Column: agentCol},
		AgentDirection: agentDir,
		TargetObject:   target,
		PlacedObjects:  []grid.PlacedObject{target},
	}
}

func simulate(t *testing.T, instruction []string, target grid.PlacedObject, s grid.Situation) []string {
	t.Helper()
	return NewWalker().Simulate(vocab.Default(), testColors, testNouns, instruction, target, s)
}

func TestWalkerWalk(t *testing.T) {
	target := grid.PlacedObject{
		Position: grid.Position{Row: 0, Column: 2},
		Object:   grid.Object{Size: 1, Color: "red", Shape: "circle"},
	}

	t.Run("straight walk east", func(t *testing.T) {
		s := situationWith(target, 0, 0, grid.DirEast)
		actions := simulate(t, []string{"walk", "to", "a", "red", "circle"}, target, s)
		assert.Equal(t, []string{"walk", "walk"}, actions)
	})

	t.Run("rotates with minimal turns first", func(t *testing.T) {
		s := situationWith(target, 0, 0, grid.DirSouth)
		actions := simulate(t, []string{"walk", "to", "a", "red", "circle"}, target, s)
		// facing south, east is on the agent's left
		assert.Equal(t, []string{"turn left", "walk", "walk"}, actions)
	})

	t.Run("column progress comes before row progress", func(t *testing.T) {
		diag := grid.PlacedObject{
			Position: grid.Position{Row: 2, Column: 2},
			Object:   target.Object,
		}
		s := situationWith(diag, 0, 0, grid.DirEast)
		actions := simulate(t, []string{"walk", "to", "a", "red", "circle"}, diag, s)
		assert.Equal(t, []string{
			"walk", "walk",
			"turn right", "walk", "walk",
		}, actions)
	})
}

func TestWalkerAdverbs(t *testing.T) {
	target := grid.PlacedObject{
		Position: grid.Position{Row: 0, Column: 1},
		Object:   grid.Object{Size: 1, Color: "red", Shape: "circle"},
	}
	s := situationWith(target, 0, 0, grid.DirEast)

	t.Run("while spinning spins left before each step", func(t *testing.T) {
		actions := simulate(t, []string{"walk", "to", "a", "red", "circle", "while spinning"}, target, s)
		assert.Equal(t, []string{
			"turn left", "turn left", "turn left", "turn left", "walk",
		}, actions)
	})

	t.Run("hesitantly stays after each step", func(t *testing.T) {
		actions := simulate(t, []string{"walk", "to", "a", "red", "circle", "hesitantly"}, target, s)
		assert.Equal(t, []string{"walk", "stay"}, actions)
	})

	t.Run("cautiously looks both ways before each step", func(t *testing.T) {
		actions := simulate(t, []string{"walk", "to", "a", "red", "circle", "cautiously"}, target, s)
		assert.Equal(t, []string{
			"turn right", "turn left", "turn left", "turn right", "walk",
		}, actions)
	})

	t.Run("while zigzagging alternates column and row progress", func(t *testing.T) {
		diag := grid.PlacedObject{
			Position: grid.Position{Row: 2, Column: 2},
			Object:   target.Object,
		}
		sz := situationWith(diag, 0, 0, grid.DirEast)
		actions := simulate(t, []string{"walk", "to", "a", "red", "circle", "while zigzagging"}, diag, sz)
		assert.Equal(t, []string{
			"walk",
			"turn right", "walk",
			"turn left", "walk",
			"turn right", "walk",
		}, actions)
	})
}

func TestWalkerManipulation(t *testing.T) {
	t.Run("push moves the object to the wall ahead", func(t *testing.T) {
		target := grid.PlacedObject{
			Position: grid.Position{Row: 2, Column: 0},
			Object:   grid.Object{Size: 1, Color: "red", Shape: "circle"},
		}
		s := situationWith(target, 0, 0, grid.DirSouth)
		actions := simulate(t, []string{"push", "a", "red", "circle"}, target, s)
		// Two steps south, then three cells to the south wall.
		assert.Equal(t, []string{
			"walk", "walk",
			"push", "push", "push",
		}, actions)
	})

	t.Run("heavy objects take two actions per cell", func(t *testing.T) {
		target := grid.PlacedObject{
			Position: grid.Position{Row: 2, Column: 0},
			Object:   grid.Object{Size: 3, Color: "blue", Shape: "square"},
		}
		s := situationWith(target, 0, 0, grid.DirSouth)
		actions := simulate(t, []string{"push", "a", "blue", "square"}, target, s)
		require.Len(t, actions, 2+6)
		assert.Equal(t, "push", actions[len(actions)-1])
	})

	t.Run("pull moves toward the wall behind", func(t *testing.T) {
		target := grid.PlacedObject{
			Position: grid.Position{Row: 2, Column: 0},
			Object:   grid.Object{Size: 1, Color: "red", Shape: "circle"},
		}
		s := situationWith(target, 0, 0, grid.DirSouth)
		actions := simulate(t, []string{"pull", "a", "red", "circle"}, target, s)
		// Facing south after the walk; pulling drags back toward the
		// north wall, two cells.
		assert.Equal(t, []string{
			"walk", "walk",
			"pull", "pull",
		}, actions)
	})
}

func TestWalkerFailures(t *testing.T) {
	target := grid.PlacedObject{
		Position: grid.Position{Row: 9, Column: 9},
		Object:   grid.Object{Size: 1, Color: "red", Shape: "circle"},
	}
	s := situationWith(target, 0, 0, grid.DirEast)

	t.Run("out of bounds target yields empty", func(t *testing.T) {
		assert.Empty(t, simulate(t, []string{"walk", "to", "a", "red", "circle"}, target, s))
	})

	t.Run("instruction without a verb yields empty", func(t *testing.T) {
		inBounds := grid.PlacedObject{
			Position: grid.Position{Row: 1, Column: 1},
			Object:   target.Object,
		}
		assert.Empty(t, simulate(t, []string{"a", "red", "circle"}, inBounds, situationWith(inBounds, 0, 0, grid.DirEast)))
	})
}
