// Package oracle implements the rule-based generator that proposes
// semantically valid alternative instructions for a world layout. Given a
// query instruction it derives candidate (description, target) pairs from
// the situation, orders them by similarity to the query, filters them
// against the active split policy, and crosses the survivors with every
// admissible verb/adverb phrasing.
package oracle

import (
	"math/rand"
	"slices"

	"gridgen/internal/grid"
	"gridgen/internal/vocab"
)

// Verb and adverb phrase options the oracle may generate. "cautiously" is
// only admitted when it already appears in the query.
var (
	verbOptions = [][]string{{"walk", "to"}, {"push"}, {"pull"}}

	adverbOptions = [][]string{{"while spinning"}, {"while zigzagging"}, {"hesitantly"}, {}}

	segmentVerbs   = []string{"walk", "to", "push", "pull"}
	segmentAdverbs = []string{"while spinning", "while zigzagging", "hesitantly", "cautiously"}
)

// Options configure one oracle invocation.
type Options struct {
	// NDescriptionOptions bounds the prioritized target list; nil means
	// unbounded. A value of 1 keeps only the target (or the next best
	// permitted descriptor).
	NDescriptionOptions *int

	// DemonstrateTarget keeps the true target at the head of the priority
	// list. When false and alternatives exist, the target is dropped.
	DemonstrateTarget bool

	// AllowDemonstrationSplits lists rule letters whose prohibition may be
	// waived for alternative targets.
	AllowDemonstrationSplits []string

	// AllowAnyExample disables prohibition filtering entirely.
	AllowAnyExample bool

	// NumDemos truncates the final support list; <= 0 means no truncation.
	NumDemos int

	// PickRandom selects a random permutation of the supports instead of
	// the priority prefix.
	PickRandom bool

	// LimitVerbAdverb only emits verb/adverb combinations where the verb
	// phrase or the adverb phrase already appears in the query.
	LimitVerbAdverb bool
}

// DefaultOptions mirrors the generator's historical defaults.
func DefaultOptions() Options {
	return Options{DemonstrateTarget: true, NumDemos: 16}
}

// Support is one proposed alternative instruction and the object it
// refers to.
type Support struct {
	Instruction []string
	Target      grid.PlacedObject
}

// RelevantInstructions produces the prioritized, deduplicated sequence of
// supports for a query instruction in a situation. It returns nil when no
// support can be generated and no split waivers are configured; the
// caller skips such examples. rng is only consulted when opt.PickRandom
// is set.
func RelevantInstructions(query []string, s grid.Situation, colors, nouns []string, opt Options, rng *rand.Rand) []Support {
	descriptors := make([]string, 0, len(colors)+len(nouns)+2)
	descriptors = append(descriptors, colors...)
	descriptors = append(descriptors, nouns...)
	descriptors = append(descriptors, "big", "small")

	var verbWords, articleWords, descriptionWords, adverbWords []string
	for _, w := range query {
		if slices.Contains(segmentVerbs, w) {
			verbWords = append(verbWords, w)
		}
		if w == "a" {
			articleWords = append(articleWords, w)
		}
		if slices.Contains(descriptors, w) {
			descriptionWords = append(descriptionWords, w)
		}
		if slices.Contains(segmentAdverbs, w) {
			adverbWords = append(adverbWords, w)
		}
	}

	adverbs := adverbOptions
	if slices.Contains(query, "cautiously") {
		adverbs = append(slices.Clone(adverbOptions), []string{"cautiously"})
	}

	options := BuildOptions(s, descriptionWords)
	target, others := options[0], options[1:]

	combos := crossVerbAdverb(verbOptions, adverbs, verbWords, adverbWords, opt.LimitVerbAdverb)

	sortedOthers := reorderByQueryMatch(others, target.Words, colors, nouns)

	// Filter alternatives against the split policy. Waivers apply here:
	// when generating a held-out split's supports, demonstrations from
	// other splits remain admissible.
	filtered := sortedOthers
	if !opt.AllowAnyExample {
		filtered = filtered[:0:0]
		for _, o := range sortedOthers {
			letter := vocab.ProhibitedDescription(s.AgentPos, o.Target, o.Words, opt.AllowDemonstrationSplits)
			if letter == "" {
				filtered = append(filtered, o)
			}
		}
	}

	// The true target is demoted when it is itself prohibited (no waivers
	// apply to the target) or when target demonstrations are disabled,
	// but only if at least one alternative remains usable.
	prioritized := []DescriptionOption{target}
	if len(filtered) > 0 {
		if !opt.DemonstrateTarget {
			prioritized = nil
		} else if !opt.AllowAnyExample &&
			vocab.ProhibitedDescription(s.AgentPos, target.Target, target.Words, nil) != "" {
			prioritized = nil
		}
	}
	prioritized = append(prioritized, filtered...)
	if opt.NDescriptionOptions != nil && len(prioritized) > *opt.NDescriptionOptions {
		prioritized = prioritized[:*opt.NDescriptionOptions]
	}

	var supports []Support
	for _, option := range prioritized {
		for _, combo := range combos {
			if !opt.AllowAnyExample && vocab.ProhibitedVerbAdverb(combo.verb, combo.adverb) != "" {
				continue
			}

			instruction := make([]string, 0, len(combo.verb)+len(articleWords)+len(option.Words)+len(combo.adverb))
			instruction = append(instruction, combo.verb...)
			instruction = append(instruction, articleWords...)
			instruction = append(instruction, option.Words...)
			instruction = append(instruction, combo.adverb...)

			if slices.Equal(instruction, query) {
				continue
			}
			supports = append(supports, Support{Instruction: instruction, Target: option.Target})
		}
	}

	if len(supports) == 0 {
		return nil
	}

	if opt.NumDemos <= 0 || len(supports) <= opt.NumDemos {
		if opt.PickRandom {
			shuffled := make([]Support, 0, len(supports))
			for _, i := range rng.Perm(len(supports)) {
				shuffled = append(shuffled, supports[i])
			}
			return shuffled
		}
		return supports
	}

	if opt.PickRandom {
		picked := make([]Support, 0, opt.NumDemos)
		for _, i := range rng.Perm(len(supports))[:opt.NumDemos] {
			picked = append(picked, supports[i])
		}
		return picked
	}
	return supports[:opt.NumDemos]
}

type verbAdverb struct {
	verb   []string
	adverb []string
}

// crossVerbAdverb enumerates verb/adverb phrase combinations in verb-major
// order. When limited, a combination is only emitted if its verb phrase or
// its adverb phrase already appears in the query (the empty adverb counts
// as present when the query carries no adverb).
func crossVerbAdverb(verbs, adverbs [][]string, verbWords, adverbWords []string, limit bool) []verbAdverb {
	var combos []verbAdverb
	for _, v := range verbs {
		for _, a := range adverbs {
			if !limit {
				combos = append(combos, verbAdverb{verb: v, adverb: a})
				continue
			}

			verbInQuery := allIn(v, verbWords)
			adverbInQuery := (len(a) > 0 && allIn(a, adverbWords)) ||
				(len(adverbWords) == 0 && len(a) == 0)

			if adverbInQuery || verbInQuery {
				combos = append(combos, verbAdverb{verb: v, adverb: a})
			}
		}
	}
	return combos
}

func allIn(words, set []string) bool {
	for _, w := range words {
		if !slices.Contains(set, w) {
			return false
		}
	}
	return true
}
