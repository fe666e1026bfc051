package vocab

import (
	"slices"

	"gridgen/internal/grid"
)

// Generalization split names as they appear in dataset files.
const (
	SplitTrain        = "train"
	SplitTest         = "test"
	SplitVisualEasier = "visual_easier"
	SplitVisual       = "visual"
	SplitSituational1 = "situational_1"
	SplitSituational2 = "situational_2"
	SplitContextual   = "contextual"
	SplitAdverb1      = "adverb_1"
	SplitAdverb2      = "adverb_2"
)

// SplitOrder is the canonical iteration order over splits.
var SplitOrder = []string{
	SplitTrain,
	SplitTest,
	SplitVisualEasier,
	SplitVisual,
	SplitSituational1,
	SplitSituational2,
	SplitContextual,
	SplitAdverb1,
	SplitAdverb2,
}

// SplitDirNames maps split names to their output directory letter.
var SplitDirNames = map[string]string{
	SplitTrain:        "train",
	SplitTest:         "a",
	SplitVisualEasier: "b",
	SplitVisual:       "c",
	SplitSituational1: "d",
	SplitSituational2: "e",
	SplitContextual:   "f",
	SplitAdverb1:      "g",
	SplitAdverb2:      "h",
}

// WaiverSets lists, per split, the rule letters whose forbidden-description
// rule may be waived while generating supports for that split. Training
// data waives nothing; each held-out split waives everything except its
// own rule.
var WaiverSets = map[string][]string{
	SplitTrain:        {},
	SplitTest:         {"A", "B", "C", "D", "E", "F", "G", "H"},
	SplitVisualEasier: {"A", "C", "D", "E", "F", "G", "H"},
	SplitVisual:       {"A", "B", "D", "E", "F", "G", "H"},
	SplitSituational1: {"A", "B", "C", "E", "F", "G", "H"},
	SplitSituational2: {"A", "B", "C", "D", "F", "G", "H"},
	SplitContextual:   {"A", "B", "C", "D", "E", "G", "H"},
	SplitAdverb1:      {"A", "B", "C", "D", "E", "F", "G", "H"},
	SplitAdverb2:      {"A", "B", "C", "D", "E", "F", "G"},
}

// ProhibitedDescription evaluates the held-out description rules in fixed
// order (B, C, D, E, F) against a candidate target and its description
// words. It returns the first matching rule letter not present in waived,
// or "" when the description is allowed.
func ProhibitedDescription(agentPos grid.Position, target grid.PlacedObject, words []string, waived []string) string {
	// Rule B: "yellow square" described.
	if slices.Contains(words, "yellow") &&
		slices.Contains(words, "square") &&
		!slices.Contains(waived, "B") {
		return "B"
	}

	// Rule C: red square as target.
	if target.Object.Color == "red" &&
		target.Object.Shape == "square" &&
		!slices.Contains(waived, "C") {
		return "C"
	}

	// Rule D: target strictly south-west of the agent.
	if agentPos.Row < target.Position.Row &&
		agentPos.Column > target.Position.Column &&
		!slices.Contains(waived, "D") {
		return "D"
	}

	// Rule E: size-2 circle as target with "small" in the description.
	if slices.Contains(words, "small") &&
		target.Object.Size == 2 &&
		target.Object.Shape == "circle" &&
		!slices.Contains(waived, "E") {
		return "E"
	}

	// Rule F: pushing a size-3 square.
	if slices.Contains(words, "push") &&
		target.Object.Size == 3 &&
		target.Object.Shape == "square" &&
		!slices.Contains(waived, "F") {
		return "F"
	}

	return ""
}

// ProhibitedVerbAdverb flags the held-out verb/adverb combination:
// rule H is "pull" combined with "while spinning".
func ProhibitedVerbAdverb(verbWords, adverbWords []string) string {
	if slices.Contains(verbWords, "pull") && slices.Contains(adverbWords, "while spinning") {
		return "H"
	}
	return ""
}
