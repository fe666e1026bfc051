// Package dataset loads the input corpus and builds the token
// dictionaries persisted alongside generated batches.
package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"sort"

	"gridgen/internal/grid"
	"gridgen/internal/vocab"
)

// DefaultGridSize applies when the input file does not carry one.
const DefaultGridSize = 6

// Dataset is the parsed input corpus: one ordered example sequence per
// split. Immutable once loaded.
type Dataset struct {
	GridSize int
	Examples map[string][]grid.Example
}

type fileRepr struct {
	GridSize int                           `json:"grid_size"`
	Examples map[string][]grid.ExampleRepr `json:"examples"`
}

// Load reads and parses a dataset file. A malformed or missing file is
// fatal to the run.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	var repr fileRepr
	if err := json.Unmarshal(data, &repr); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	if repr.GridSize == 0 {
		repr.GridSize = DefaultGridSize
	}

	d := &Dataset{
		GridSize: repr.GridSize,
		Examples: make(map[string][]grid.Example, len(repr.Examples)),
	}
	for split, records := range repr.Examples {
		examples := make([]grid.Example, 0, len(records))
		for _, rec := range records {
			examples = append(examples, grid.Example{
				Command:        grid.ParseCommand(rec.Command),
				TargetCommands: grid.ParseCommand(rec.TargetCommands),
				Situation:      grid.SituationFromRepr(rec.Situation, repr.GridSize),
			})
		}
		d.Examples[split] = examples
	}
	return d, nil
}

// Splits returns the dataset's split names in canonical order; splits not
// in the canonical list follow, sorted.
func (d *Dataset) Splits() []string {
	var known, unknown []string
	for split := range d.Examples {
		if slices.Contains(vocab.SplitOrder, split) {
			known = append(known, split)
		} else {
			unknown = append(unknown, split)
		}
	}
	sort.Slice(known, func(i, j int) bool {
		return slices.Index(vocab.SplitOrder, known[i]) < slices.Index(vocab.SplitOrder, known[j])
	})
	sort.Strings(unknown)
	return append(known, unknown...)
}

// Limit truncates every split to at most n examples. A non-positive n is
// a no-op.
func (d *Dataset) Limit(n int) {
	if n <= 0 {
		return
	}
	for split, examples := range d.Examples {
		if len(examples) > n {
			d.Examples[split] = examples[:n]
		}
	}
}

// Dictionary holds the token-to-id maps and attribute vocabularies
// written once per run.
type Dictionary struct {
	InputWordToID  map[string]int `json:"input_word_to_id"`
	ActionWordToID map[string]int `json:"action_word_to_id"`
	Colors         []string       `json:"colors"`
	Nouns          []string       `json:"nouns"`
}

// Special tokens appended after the sorted corpus tokens.
const (
	TokenPad = "[pad]"
	TokenSOS = "[sos]"
	TokenEOS = "[eos]"
)

// BuildDictionary derives the dictionaries from a corpus: input ids cover
// the sorted union of command tokens across every split, action ids cover
// the sorted train action tokens, and both get their special tokens
// appended last.
func BuildDictionary(d *Dataset, colors, nouns []string) Dictionary {
	inputWords := map[string]struct{}{}
	for _, examples := range d.Examples {
		for _, ex := range examples {
			for _, w := range ex.Command {
				inputWords[w] = struct{}{}
			}
		}
	}
	actionWords := map[string]struct{}{}
	for _, ex := range d.Examples[vocab.SplitTrain] {
		for _, w := range ex.TargetCommands {
			actionWords[w] = struct{}{}
		}
	}

	dict := Dictionary{
		InputWordToID:  indexSorted(inputWords),
		ActionWordToID: indexSorted(actionWords),
		Colors:         sortedCopy(colors),
		Nouns:          sortedCopy(nouns),
	}
	dict.InputWordToID[TokenPad] = len(dict.InputWordToID)
	dict.InputWordToID[TokenSOS] = len(dict.InputWordToID)
	dict.ActionWordToID[TokenPad] = len(dict.ActionWordToID)
	dict.ActionWordToID[TokenSOS] = len(dict.ActionWordToID)
	dict.ActionWordToID[TokenEOS] = len(dict.ActionWordToID)
	return dict
}

func indexSorted(words map[string]struct{}) map[string]int {
	sorted := make([]string, 0, len(words))
	for w := range words {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)
	ids := make(map[string]int, len(sorted))
	for i, w := range sorted {
		ids[w] = i
	}
	return ids
}

func sortedCopy(words []string) []string {
	out := slices.Clone(words)
	sort.Strings(out)
	return out
}
