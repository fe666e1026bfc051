// Package strategy implements the seven interchangeable support-retrieval
// modes. Every strategy consumes one corpus example plus the shared
// read-only payload (indices and the training corpus) and produces the
// support instructions, action sequences and layouts for that example, or
// a skip.
package strategy

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"gridgen/internal/grid"
	"gridgen/internal/index"
	"gridgen/internal/oracle"
	"gridgen/internal/vocab"
	"gridgen/internal/world"
)

// Strategy names as used in generation-mode presets.
const (
	NameOracle                = "generate_oracle"
	NameFindMatching          = "generate_find_matching"
	NameRandomFindMatching    = "random_find_matching"
	NameByLayout              = "find_by_environment_layout"
	NameSameObjectSameDiff    = "find_by_matching_same_object_in_same_diff"
	NameAnyObjectSamePosition = "find_by_matching_any_object_in_same_target_position"
	NameAnyObjectSameDiff     = "find_by_matching_any_object_in_same_diff"
)

// SkipError marks an example that yields no usable supports. Skips are
// logged and dropped; they never abort a run.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string { return e.Reason }

// Request is the per-example input to a strategy. RNG is owned by the
// requesting task; strategies never share random state.
type Request struct {
	Index          int
	Command        []string
	TargetCommands []string
	Situation      grid.Situation
	RNG            *rand.Rand
}

// Payload bundles the read-only lookup structures shared by all tasks of
// a run. Built once; never mutated after hand-off.
type Payload struct {
	ByCommand        map[string][]int
	ByLayout         map[string][]int
	ByOffset         map[index.Offset][]int
	ByTargetPosition map[grid.Position][]int
	ByOffsetObject   map[index.ObjectOffsetKey][]int

	Train  []grid.Example
	Colors []string
	Nouns  []string
}

// BuildPayload constructs every index over the training corpus in one
// place so workers share a single immutable copy.
func BuildPayload(train []grid.Example, colors, nouns []string) *Payload {
	return &Payload{
		ByCommand:        index.ByCommand(train),
		ByLayout:         index.ByLayout(train),
		ByOffset:         index.ByOffset(train),
		ByTargetPosition: index.ByTargetPosition(train),
		ByOffsetObject:   index.ByOffsetAndObject(train),
		Train:            train,
		Colors:           colors,
		Nouns:            nouns,
	}
}

// Result carries one example's supports. Layouts may be nil when every
// support shares the query's own layout (the oracle strategy).
type Result struct {
	Instructions [][]string
	Targets      [][]string
	Layouts      []grid.Situation
}

// Func is one retrieval strategy.
type Func func(req Request, demo world.Demonstrator, voc *vocab.Vocabulary, p *Payload, opt oracle.Options) (Result, error)

// Table dispatches strategy names to implementations.
var Table = map[string]Func{
	NameOracle:                Oracle,
	NameFindMatching:          FindMatching,
	NameRandomFindMatching:    RandomFindMatching,
	NameByLayout:              ByLayout,
	NameSameObjectSameDiff:    SameObjectSameDiff,
	NameAnyObjectSamePosition: AnyObjectSamePosition,
	NameAnyObjectSameDiff:     AnyObjectSameDiff,
}

// Oracle synthesizes novel support instructions for the query's own
// layout and demonstrates each one with the simulator. Supports whose
// simulation fails are dropped.
func Oracle(req Request, demo world.Demonstrator, voc *vocab.Vocabulary, p *Payload, opt oracle.Options) (Result, error) {
	supports := oracle.RelevantInstructions(req.Command, req.Situation, p.Colors, p.Nouns, opt, req.RNG)
	if len(supports) == 0 {
		return Result{}, &SkipError{Reason: fmt.Sprintf(
			"no demonstrations possible for %q under the active split policy",
			strings.Join(req.Command, " "))}
	}

	var res Result
	for _, sup := range supports {
		actions := demo.Simulate(voc, p.Colors, p.Nouns, sup.Instruction, sup.Target, req.Situation)
		if len(actions) == 0 {
			continue
		}
		res.Instructions = append(res.Instructions, sup.Instruction)
		res.Targets = append(res.Targets, actions)
	}
	return res, nil
}

// FindMatching proposes instructions with the oracle, then retrieves an
// existing training example for each by exact command text. Misses are
// silently dropped, so some supports may be absent.
func FindMatching(req Request, demo world.Demonstrator, voc *vocab.Vocabulary, p *Payload, opt oracle.Options) (Result, error) {
	supports := oracle.RelevantInstructions(req.Command, req.Situation, p.Colors, p.Nouns, opt, req.RNG)

	var res Result
	for _, sup := range supports {
		bucket := p.ByCommand[strings.Join(sup.Instruction, " ")]
		if len(bucket) == 0 {
			continue
		}
		ex := p.Train[bucket[req.RNG.Intn(len(bucket))]]
		res.Instructions = append(res.Instructions, sup.Instruction)
		res.Targets = append(res.Targets, ex.TargetCommands)
		res.Layouts = append(res.Layouts, ex.Situation)
	}
	return res, nil
}

// RandomFindMatching draws distinct command keys at random (never the
// query's own) and samples one training example per key.
func RandomFindMatching(req Request, demo world.Demonstrator, voc *vocab.Vocabulary, p *Payload, opt oracle.Options) (Result, error) {
	own := strings.Join(req.Command, " ")
	keys := make([]string, 0, len(p.ByCommand))
	for key := range p.ByCommand {
		if key != own {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var res Result
	for _, ki := range sampleWithoutReplacement(req.RNG, len(keys), opt.NumDemos) {
		key := keys[ki]
		bucket := p.ByCommand[key]
		ex := p.Train[bucket[req.RNG.Intn(len(bucket))]]
		res.Instructions = append(res.Instructions, strings.Split(key, " "))
		res.Targets = append(res.Targets, ex.TargetCommands)
		res.Layouts = append(res.Layouts, ex.Situation)
	}
	return res, nil
}

// ByLayout retrieves supports whose serialized layout matches the query's
// exactly, excluding examples that share the query's command. This
// strategy caps the draw count at the bucket size even though it samples
// with replacement; the cap is part of the observable contract.
func ByLayout(req Request, demo world.Demonstrator, voc *vocab.Vocabulary, p *Payload, opt oracle.Options) (Result, error) {
	candidates := excludeOwnCommand(p, req.Command, p.ByLayout[req.Situation.LayoutKey()])
	n := opt.NumDemos
	if n > len(candidates) {
		n = len(candidates)
	}
	return collect(p, sampleWithReplacement(req.RNG, candidates, n)), nil
}

// SameObjectSameDiff retrieves supports whose target matches the query's
// target attributes at the same agent-relative offset, sampled without
// replacement.
func SameObjectSameDiff(req Request, demo world.Demonstrator, voc *vocab.Vocabulary, p *Payload, opt oracle.Options) (Result, error) {
	t := req.Situation.TargetObject
	key := index.ObjectOffsetKey{
		X:     t.Position.Column - req.Situation.AgentPos.Column,
		Y:     t.Position.Row - req.Situation.AgentPos.Row,
		Size:  t.Object.Size,
		Shape: t.Object.Shape,
		Color: t.Object.Color,
	}
	candidates := excludeOwnCommand(p, req.Command, p.ByOffsetObject[key])
	picked := make([]int, 0, opt.NumDemos)
	for _, i := range sampleWithoutReplacement(req.RNG, len(candidates), opt.NumDemos) {
		picked = append(picked, candidates[i])
	}
	return collect(p, picked), nil
}

// AnyObjectSamePosition retrieves supports whose target occupies the same
// absolute cell as the query's target, sampled with replacement.
func AnyObjectSamePosition(req Request, demo world.Demonstrator, voc *vocab.Vocabulary, p *Payload, opt oracle.Options) (Result, error) {
	candidates := excludeOwnCommand(p, req.Command, p.ByTargetPosition[req.Situation.TargetObject.Position])
	return collect(p, sampleWithReplacement(req.RNG, candidates, opt.NumDemos)), nil
}

// AnyObjectSameDiff retrieves supports with the same agent-to-target
// offset as the query, sampled with replacement.
func AnyObjectSameDiff(req Request, demo world.Demonstrator, voc *vocab.Vocabulary, p *Payload, opt oracle.Options) (Result, error) {
	t := req.Situation.TargetObject
	key := index.Offset{
		X: t.Position.Column - req.Situation.AgentPos.Column,
		Y: t.Position.Row - req.Situation.AgentPos.Row,
	}
	candidates := excludeOwnCommand(p, req.Command, p.ByOffset[key])
	return collect(p, sampleWithReplacement(req.RNG, candidates, opt.NumDemos)), nil
}

// excludeOwnCommand filters out example indices that appear under the
// query's own command bucket. Buckets are ascending by construction, so a
// binary search per candidate suffices; a missing bucket excludes nothing.
func excludeOwnCommand(p *Payload, command []string, candidates []int) []int {
	own := p.ByCommand[strings.Join(command, " ")]
	if len(own) == 0 {
		return candidates
	}
	kept := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if !index.ContainsSorted(own, c) {
			kept = append(kept, c)
		}
	}
	return kept
}

// collect materializes retrieved examples into a Result in pick order.
func collect(p *Payload, picked []int) Result {
	var res Result
	for _, idx := range picked {
		ex := p.Train[idx]
		res.Instructions = append(res.Instructions, ex.Command)
		res.Targets = append(res.Targets, ex.TargetCommands)
		res.Layouts = append(res.Layouts, ex.Situation)
	}
	return res
}

// sampleWithReplacement draws n values uniformly with replacement, so a
// singleton candidate list still yields n entries. An empty candidate
// list yields an empty sample.
func sampleWithReplacement(rng *rand.Rand, candidates []int, n int) []int {
	if len(candidates) == 0 || n <= 0 {
		return nil
	}
	picked := make([]int, 0, n)
	for i := 0; i < n; i++ {
		picked = append(picked, candidates[rng.Intn(len(candidates))])
	}
	return picked
}

// sampleWithoutReplacement draws min(total, n) distinct positions in
// random order.
func sampleWithoutReplacement(rng *rand.Rand, total, n int) []int {
	if total == 0 || n <= 0 {
		return nil
	}
	if n > total {
		n = total
	}
	return rng.Perm(total)[:n]
}
