package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gridgen/internal/codec"
	"gridgen/internal/config"
	"gridgen/internal/dataset"
	"gridgen/internal/grid"
	"gridgen/internal/vocab"
	"gridgen/internal/world"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testDataset() *dataset.Dataset {
	mk := func(command []string, target grid.PlacedObject) grid.Example {
		return grid.Example{
			Command:        command,
			TargetCommands: []string{"walk", "walk"},
			Situation: grid.Situation{
				GridSize:       6,
				AgentPos:       grid.Position{Row: 0, Column: 0},
				AgentDirection: grid.DirSouth,
				TargetObject:   target,
				PlacedObjects:  []grid.PlacedObject{target},
			},
		}
	}
	redCircle := grid.PlacedObject{
		Position: grid.Position{Row: 2, Column: 3},
		Object:   grid.Object{Size: 1, Color: "red", Shape: "circle"},
	}
	blueSquare := grid.PlacedObject{
		Position: grid.Position{Row: 1, Column: 2},
		Object:   grid.Object{Size: 2, Color: "blue", Shape: "square"},
	}
	return &dataset.Dataset{
		GridSize: 6,
		Examples: map[string][]grid.Example{
			vocab.SplitTrain: {
				mk([]string{"walk", "to", "a", "red", "circle"}, redCircle),
				mk([]string{"push", "a", "blue", "square"}, blueSquare),
			},
			vocab.SplitTest: {
				mk([]string{"pull", "a", "red", "circle"}, redCircle),
			},
		},
	}
}

func newRunner(mode config.Mode, name string) *Runner {
	voc := vocab.Default()
	return &Runner{
		Mode:     mode,
		ModeName: name,
		Codec:    codec.New(codec.SchemeSequence, false, voc.ColorAdjectives(), voc.Nouns()),
		Vocab:    voc,
		Demo:     world.NewWalker(),
		Seed:     1,
	}
}

func readBatch(t *testing.T, path string) []EncodedExample {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var batch []EncodedExample
	require.NoError(t, json.Unmarshal(data, &batch))
	return batch
}

func TestBatchWriterChunking(t *testing.T) {
	dir := t.TempDir()
	w, err := NewBatchWriter(dir, 10)
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		require.NoError(t, w.Append(EncodedExample{Query: []int{i}}))
	}
	require.NoError(t, w.Close())
	assert.Equal(t, 25, w.Written())

	assert.Len(t, readBatch(t, filepath.Join(dir, "0.json")), 10)
	assert.Len(t, readBatch(t, filepath.Join(dir, "1.json")), 10)
	assert.Len(t, readBatch(t, filepath.Join(dir, "2.json")), 5)

	_, err = os.Stat(filepath.Join(dir, "3.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunBaseline(t *testing.T) {
	out := t.TempDir()
	runner := newRunner(config.DefaultModes()["baseline"], "baseline")

	manifest, err := runner.Run(context.Background(), testDataset(), out, nil)
	require.NoError(t, err)

	require.Len(t, manifest.Splits, 2)
	assert.NotEmpty(t, manifest.RunID)
	assert.Equal(t, "baseline", manifest.Mode)

	t.Run("per split counts", func(t *testing.T) {
		assert.Equal(t, "train", manifest.Splits[0].Split)
		assert.Equal(t, 2, manifest.Splits[0].Generated)
		assert.Equal(t, "test", manifest.Splits[1].Split)
		assert.Equal(t, "a", manifest.Splits[1].Dir)
		assert.Equal(t, 1, manifest.Splits[1].Generated)
	})

	t.Run("batches on disk", func(t *testing.T) {
		train := readBatch(t, filepath.Join(out, "train", "0.json"))
		require.Len(t, train, 2)
		assert.NotEmpty(t, train[0].Query)
		assert.NotEmpty(t, train[0].Layout)
		assert.Empty(t, train[0].SupportInstructions)
	})

	t.Run("query actions end with eos", func(t *testing.T) {
		voc := vocab.Default()
		dict := dataset.BuildDictionary(testDataset(), voc.ColorAdjectives(), voc.Nouns())
		train := readBatch(t, filepath.Join(out, "train", "0.json"))
		eos := dict.ActionWordToID[dataset.TokenEOS]
		assert.Equal(t, eos, train[0].QueryTarget[len(train[0].QueryTarget)-1])
	})

	t.Run("dictionary and manifest written", func(t *testing.T) {
		for _, name := range []string{"dictionary.json", "manifest.json"} {
			_, err := os.Stat(filepath.Join(out, name))
			assert.NoError(t, err, name)
		}
	})
}

func TestRunMetalearn(t *testing.T) {
	out := t.TempDir()
	runner := newRunner(config.DefaultModes()["metalearn"], "metalearn")
	d := testDataset()

	manifest, err := runner.Run(context.Background(), d, out, nil)
	require.NoError(t, err)

	for _, split := range manifest.Splits {
		total := split.Generated + split.Skipped
		assert.Equal(t, len(d.Examples[split.Split]), total, split.Split)
	}

	t.Run("supports carry descending priorities", func(t *testing.T) {
		train := readBatch(t, filepath.Join(out, "train", "0.json"))
		require.NotEmpty(t, train)
		ex := train[0]
		require.NotEmpty(t, ex.SupportInstructions)
		require.Len(t, ex.Priorities, len(ex.SupportInstructions))
		assert.Equal(t, len(ex.SupportInstructions)-1, ex.Priorities[0])
		assert.Equal(t, 0, ex.Priorities[len(ex.Priorities)-1])
	})

	t.Run("oracle supports omit layouts", func(t *testing.T) {
		train := readBatch(t, filepath.Join(out, "train", "0.json"))
		assert.Nil(t, train[0].SupportLayouts)
	})
}

func TestRunOnlySplits(t *testing.T) {
	out := t.TempDir()
	runner := newRunner(config.DefaultModes()["baseline"], "baseline")

	manifest, err := runner.Run(context.Background(), testDataset(), out, []string{"a"})
	require.NoError(t, err)

	require.Len(t, manifest.Splits, 1)
	assert.Equal(t, "test", manifest.Splits[0].Split)

	_, err = os.Stat(filepath.Join(out, "train"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunSequentialStrategy(t *testing.T) {
	out := t.TempDir()
	runner := newRunner(config.DefaultModes()["metalearn_find_matching_environment_layout"], "metalearn_find_matching_environment_layout")
	d := testDataset()

	manifest, err := runner.Run(context.Background(), d, out, nil)
	require.NoError(t, err)

	// Every layout is unique in this corpus, so the layout strategy finds
	// no candidates anywhere and yields empty support sets.
	for _, split := range manifest.Splits {
		assert.Zero(t, split.Skipped, split.Split)
	}
	train := readBatch(t, filepath.Join(out, "train", "0.json"))
	require.Len(t, train, 2)
	assert.Empty(t, train[0].SupportInstructions)
}
