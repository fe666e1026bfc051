package oracle

import "gridgen/internal/grid"

// DescriptionOption pairs a candidate description with the placed object
// it denotes. The first option built for a situation always denotes the
// true target.
type DescriptionOption struct {
	Words  []string
	Target grid.PlacedObject
}

type shapeColor struct {
	shape string
	color string
}

// BuildOptions produces the description options for a situation: the true
// target described by the query's own descriptor words, then one option
// per other placed object. Other objects get a relative size tag computed
// within their exact (shape, color) group; when a group has a single
// member the max-size check wins and the tag is "big".
func BuildOptions(s grid.Situation, queryDescriptionWords []string) []DescriptionOption {
	maxSizes := make(map[shapeColor]int)
	minSizes := make(map[shapeColor]int)
	for _, po := range s.PlacedObjects {
		key := shapeColor{po.Object.Shape, po.Object.Color}
		if cur, ok := maxSizes[key]; !ok || po.Object.Size > cur {
			maxSizes[key] = po.Object.Size
		}
		if cur, ok := minSizes[key]; !ok || po.Object.Size < cur {
			minSizes[key] = po.Object.Size
		}
	}

	options := []DescriptionOption{{Words: queryDescriptionWords, Target: s.TargetObject}}
	for _, po := range s.PlacedObjects {
		if po.Position == s.TargetObject.Position {
			continue
		}
		key := shapeColor{po.Object.Shape, po.Object.Color}
		var words []string
		switch {
		case po.Object.Size == maxSizes[key]:
			words = append(words, "big")
		case po.Object.Size == minSizes[key]:
			words = append(words, "small")
		}
		words = append(words, po.Object.Color, po.Object.Shape)
		options = append(options, DescriptionOption{Words: words, Target: po})
	}
	return options
}
