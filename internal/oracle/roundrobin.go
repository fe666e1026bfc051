package oracle

import (
	"slices"
	"sort"
)

// reorder modes, cycled color -> object -> size -> color ...
const (
	modeColor = iota
	modeObject
	modeSize
	modeCount
)

var sizeWords = []string{"big", "small"}

// reorderByQueryMatch reorders description options by round-robin priority
// across three match buckets against the query's descriptor words: first a
// color match, then an object match, then a size match, cycling. Within a
// bucket candidates keep their original order. An option already emitted,
// or not matching the current bucket's criterion, is skipped without being
// consumed; the cycle continues until every cursor has run off the end of
// its bucket.
//
// This is deliberately not a stable multi-key sort: the rotation-skip
// behavior produces a different, observable order.
func reorderByQueryMatch(options []DescriptionOption, queryWords, colors, nouns []string) []DescriptionOption {
	matches := [modeCount][]bool{
		matchFlags(options, queryWords, colors),
		matchFlags(options, queryWords, nouns),
		matchFlags(options, queryWords, sizeWords),
	}

	// Per-mode priority arrays: option indices stable-sorted so that
	// matching options come first, original order preserved otherwise.
	var order [modeCount][]int
	for m := 0; m < modeCount; m++ {
		idx := make([]int, len(options))
		for i := range idx {
			idx[i] = i
		}
		flags := matches[m]
		sort.SliceStable(idx, func(a, b int) bool {
			return flags[idx[a]] && !flags[idx[b]]
		})
		order[m] = idx
	}

	var cursors [modeCount]int
	taken := make([]bool, len(options))
	result := make([]DescriptionOption, 0, len(options))
	mode := modeColor

	for cursors[modeColor] < len(order[modeColor]) ||
		cursors[modeObject] < len(order[modeObject]) ||
		cursors[modeSize] < len(order[modeSize]) {

		if cursors[mode] >= len(order[mode]) {
			mode = (mode + 1) % modeCount
			continue
		}

		candidate := order[mode][cursors[mode]]
		if taken[candidate] || !matches[mode][candidate] {
			cursors[mode]++
			continue
		}

		result = append(result, options[candidate])
		taken[candidate] = true
		cursors[mode]++
		mode = (mode + 1) % modeCount
	}
	return result
}

// matchFlags reports, per option, whether any of its words drawn from the
// given category appears among the query's words.
func matchFlags(options []DescriptionOption, queryWords, category []string) []bool {
	flags := make([]bool, len(options))
	for i, opt := range options {
		for _, w := range opt.Words {
			if slices.Contains(category, w) && slices.Contains(queryWords, w) {
				flags[i] = true
				break
			}
		}
	}
	return flags
}
