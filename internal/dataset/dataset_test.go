package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridgen/internal/grid"
	"gridgen/internal/vocab"
)

const corpusJSON = `{
  "grid_size": 6,
  "examples": {
    "train": [
      {
        "command": "walk,to,a,red,circle",
        "target_commands": "turn left,walk,walk",
        "situation": {
          "agent_position": {"row": 0, "column": 0},
          "agent_direction": 0,
          "target_object": {
            "position": {"row": 2, "column": 3},
            "object": {"size": 1, "color": "red", "shape": "circle"}
          },
          "placed_objects": {
            "0": {
              "position": {"row": 2, "column": 3},
              "object": {"size": 1, "color": "red", "shape": "circle"}
            },
            "10": {
              "position": {"row": 4, "column": 4},
              "object": {"size": 2, "color": "blue", "shape": "square"}
            },
            "2": {
              "position": {"row": 1, "column": 5},
              "object": {"size": 3, "color": "green", "shape": "cylinder"}
            }
          }
        }
      },
      {
        "command": "push,a,blue,square",
        "target_commands": "walk,push,push",
        "situation": {
          "agent_position": {"row": 1, "column": 1},
          "agent_direction": 1,
          "target_object": {
            "position": {"row": 1, "column": 4},
            "object": {"size": 2, "color": "blue", "shape": "square"}
          },
          "placed_objects": {
            "0": {
              "position": {"row": 1, "column": 4},
              "object": {"size": 2, "color": "blue", "shape": "square"}
            }
          }
        }
      }
    ],
    "test": [
      {
        "command": "pull,a,yellow,cylinder",
        "target_commands": "pull",
        "situation": {
          "agent_position": {"row": 3, "column": 3},
          "agent_direction": 2,
          "target_object": {
            "position": {"row": 3, "column": 4},
            "object": {"size": 4, "color": "yellow", "shape": "cylinder"}
          },
          "placed_objects": {
            "0": {
              "position": {"row": 3, "column": 4},
              "object": {"size": 4, "color": "yellow", "shape": "cylinder"}
            }
          }
        }
      }
    ]
  }
}`

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	d, err := Load(writeCorpus(t, corpusJSON))
	require.NoError(t, err)

	assert.Equal(t, 6, d.GridSize)
	require.Len(t, d.Examples["train"], 2)
	require.Len(t, d.Examples["test"], 1)

	t.Run("commands are comma split", func(t *testing.T) {
		assert.Equal(t, []string{"walk", "to", "a", "red", "circle"}, d.Examples["train"][0].Command)
		assert.Equal(t, []string{"turn left", "walk", "walk"}, d.Examples["train"][0].TargetCommands)
	})

	t.Run("placed objects ordered by numeric id", func(t *testing.T) {
		objs := d.Examples["train"][0].Situation.PlacedObjects
		require.Len(t, objs, 3)
		assert.Equal(t, "red", objs[0].Object.Color)
		assert.Equal(t, "green", objs[1].Object.Color)
		assert.Equal(t, "blue", objs[2].Object.Color)
	})

	t.Run("situation fields survive the round trip", func(t *testing.T) {
		s := d.Examples["test"][0].Situation
		assert.Equal(t, grid.Position{Row: 3, Column: 3}, s.AgentPos)
		assert.Equal(t, grid.DirNorth, s.AgentDirection)
		assert.Equal(t, 4, s.TargetObject.Object.Size)
	})
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
		assert.Error(t, err)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Load(writeCorpus(t, "{not json"))
		assert.Error(t, err)
	})
}

func TestSplitsAndLimit(t *testing.T) {
	d, err := Load(writeCorpus(t, corpusJSON))
	require.NoError(t, err)

	t.Run("canonical split order", func(t *testing.T) {
		assert.Equal(t, []string{"train", "test"}, d.Splits())
	})

	t.Run("limit truncates every split", func(t *testing.T) {
		d.Limit(1)
		assert.Len(t, d.Examples["train"], 1)
		assert.Len(t, d.Examples["test"], 1)
	})

	t.Run("non positive limit is a no-op", func(t *testing.T) {
		d.Limit(0)
		assert.Len(t, d.Examples["train"], 1)
	})
}

func TestBuildDictionary(t *testing.T) {
	d, err := Load(writeCorpus(t, corpusJSON))
	require.NoError(t, err)

	voc := vocab.Default()
	dict := BuildDictionary(d, voc.ColorAdjectives(), voc.Nouns())

	t.Run("input ids cover every split's command tokens", func(t *testing.T) {
		assert.Contains(t, dict.InputWordToID, "walk")
		assert.Contains(t, dict.InputWordToID, "pull") // test split only
	})

	t.Run("input ids are sorted with specials last", func(t *testing.T) {
		words := []string{"a", "blue", "circle", "cylinder", "pull", "push", "red", "square", "to", "walk", "yellow"}
		for i, w := range words {
			assert.Equal(t, i, dict.InputWordToID[w], "word %q", w)
		}
		assert.Equal(t, len(words), dict.InputWordToID[TokenPad])
		assert.Equal(t, len(words)+1, dict.InputWordToID[TokenSOS])
	})

	t.Run("action ids come from train only", func(t *testing.T) {
		assert.NotContains(t, dict.ActionWordToID, "pull")
		assert.Equal(t, 0, dict.ActionWordToID["push"])
		assert.Equal(t, 1, dict.ActionWordToID["turn left"])
		assert.Equal(t, 2, dict.ActionWordToID["walk"])
		assert.Equal(t, 3, dict.ActionWordToID[TokenPad])
		assert.Equal(t, 4, dict.ActionWordToID[TokenSOS])
		assert.Equal(t, 5, dict.ActionWordToID[TokenEOS])
	})

	t.Run("attribute vocabularies are sorted", func(t *testing.T) {
		assert.Equal(t, []string{"blue", "green", "red", "yellow"}, dict.Colors)
		assert.Equal(t, []string{"circle", "cylinder", "square"}, dict.Nouns)
	})
}
