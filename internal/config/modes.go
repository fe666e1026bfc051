// Package config defines the generation-mode presets and their optional
// YAML overrides. A mode names a retrieval strategy and fixes the oracle
// options and scheduling for a run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"gridgen/internal/oracle"
	"gridgen/internal/strategy"
)

// Mode configures one generation preset.
type Mode struct {
	// Strategy names an entry of the strategy dispatch table. Empty means
	// baseline: encode queries without supports.
	Strategy string `yaml:"strategy"`

	// CanParallel allows fan-out across the worker pool. Lookup-heavy
	// strategies historically run sequentially.
	CanParallel bool `yaml:"can_parallel"`

	NDescriptionOptions *int  `yaml:"n_description_options"`
	DemonstrateTarget   *bool `yaml:"demonstrate_target"`
	AllowAnyExample     bool  `yaml:"allow_any_example"`
	NumDemos            int   `yaml:"num_demos"`
	PickRandom          bool  `yaml:"pick_random"`
	LimitVerbAdverb     bool  `yaml:"limit_verb_adverb"`
}

// OracleOptions materializes the oracle options for a split's waiver set.
func (m Mode) OracleOptions(waivers []string) oracle.Options {
	opt := oracle.DefaultOptions()
	opt.NDescriptionOptions = m.NDescriptionOptions
	if m.DemonstrateTarget != nil {
		opt.DemonstrateTarget = *m.DemonstrateTarget
	}
	opt.AllowAnyExample = m.AllowAnyExample
	if m.NumDemos > 0 {
		opt.NumDemos = m.NumDemos
	}
	opt.PickRandom = m.PickRandom
	opt.LimitVerbAdverb = m.LimitVerbAdverb
	opt.AllowDemonstrationSplits = waivers
	return opt
}

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

// DefaultModes returns the built-in preset table.
func DefaultModes() map[string]Mode {
	return map[string]Mode{
		"baseline": {},
		"metalearn": {
			Strategy:            strategy.NameOracle,
			CanParallel:         true,
			NDescriptionOptions: intPtr(1),
			LimitVerbAdverb:     true,
		},
		"metalearn_allow_any": {
			Strategy:            strategy.NameOracle,
			CanParallel:         true,
			NDescriptionOptions: intPtr(1),
			AllowAnyExample:     true,
			LimitVerbAdverb:     true,
		},
		"metalearn_distractors": {
			Strategy:            strategy.NameOracle,
			CanParallel:         true,
			NDescriptionOptions: intPtr(3),
		},
		"metalearn_all": {
			Strategy:    strategy.NameOracle,
			CanParallel: true,
		},
		"metalearn_all_allow_any": {
			Strategy:        strategy.NameOracle,
			CanParallel:     true,
			AllowAnyExample: true,
		},
		"metalearn_random_instructions_same_layout": {
			Strategy:          strategy.NameOracle,
			CanParallel:       true,
			DemonstrateTarget: boolPtr(false),
			NumDemos:          16,
			PickRandom:        true,
		},
		"metalearn_random_instructions_same_layout_allow_any": {
			Strategy:          strategy.NameOracle,
			CanParallel:       true,
			DemonstrateTarget: boolPtr(false),
			NumDemos:          16,
			PickRandom:        true,
			AllowAnyExample:   true,
		},
		"metalearn_random_layouts": {
			Strategy: strategy.NameRandomFindMatching,
			NumDemos: 16,
		},
		"metalearn_find_matching_instruction_demos": {
			Strategy:        strategy.NameFindMatching,
			LimitVerbAdverb: true,
		},
		"metalearn_find_matching_instruction_demos_allow_any": {
			Strategy:        strategy.NameFindMatching,
			AllowAnyExample: true,
			LimitVerbAdverb: true,
		},
		"metalearn_find_matching_environment_layout": {
			Strategy: strategy.NameByLayout,
			NumDemos: 16,
		},
		"metalearn_find_matching_target_location_demos": {
			Strategy: strategy.NameAnyObjectSamePosition,
			NumDemos: 16,
		},
		"metalearn_find_matching_diff_demos": {
			Strategy: strategy.NameAnyObjectSameDiff,
			NumDemos: 16,
		},
		"metalearn_find_matching_object_same_diff_demos": {
			Strategy: strategy.NameSameObjectSameDiff,
			NumDemos: 16,
		},
	}
}

// LoadModes overlays a YAML mode file onto the defaults. New names are
// added; existing names are replaced wholesale.
func LoadModes(path string) (map[string]Mode, error) {
	modes := DefaultModes()
	if path == "" {
		return modes, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading modes file: %w", err)
	}
	overlay := map[string]Mode{}
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("parsing modes file %s: %w", path, err)
	}
	for name, mode := range overlay {
		modes[name] = mode
	}
	return modes, nil
}

// Validate checks that a mode's strategy exists.
func Validate(m Mode) error {
	if m.Strategy == "" {
		return nil
	}
	if _, ok := strategy.Table[m.Strategy]; !ok {
		return fmt.Errorf("unknown strategy %q", m.Strategy)
	}
	return nil
}
