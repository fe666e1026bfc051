package pipeline

import (
	"gridgen/internal/codec"
	"gridgen/internal/dataset"
	"gridgen/internal/grid"
	"gridgen/internal/strategy"
)

// EncodedExample is the persisted form of one generated example. Supports
// are parallel slices in priority order; SupportLayouts is nil when every
// support shares the query's layout.
type EncodedExample struct {
	Query               []int     `json:"query"`
	QueryTarget         []int     `json:"target"`
	Layout              [][]int   `json:"layout"`
	SupportLayouts      [][][]int `json:"support_layouts,omitempty"`
	SupportInstructions [][]int   `json:"support_instructions,omitempty"`
	SupportTargets      [][]int   `json:"support_targets,omitempty"`
	Priorities          []int     `json:"priorities,omitempty"`
}

// Encoder turns examples and their supports into id-space records.
type Encoder struct {
	codec *codec.Codec
	dict  dataset.Dictionary
	eosID int
}

func NewEncoder(c *codec.Codec, dict dataset.Dictionary) *Encoder {
	return &Encoder{codec: c, dict: dict, eosID: dict.ActionWordToID[dataset.TokenEOS]}
}

// EncodeBaseline encodes a query example with no supports.
func (e *Encoder) EncodeBaseline(ex grid.Example) EncodedExample {
	return EncodedExample{
		Query:       e.inputIDs(ex.Command),
		QueryTarget: e.actionIDs(ex.TargetCommands),
		Layout:      e.codec.Encode(ex.Situation),
	}
}

// Encode encodes a query example together with its retrieved supports.
// Priorities descend from len-1 to 0, mirroring the support order.
func (e *Encoder) Encode(ex grid.Example, res strategy.Result) EncodedExample {
	enc := e.EncodeBaseline(ex)
	for _, words := range res.Instructions {
		enc.SupportInstructions = append(enc.SupportInstructions, e.inputIDs(words))
	}
	for _, actions := range res.Targets {
		enc.SupportTargets = append(enc.SupportTargets, e.actionIDs(actions))
	}
	for _, layout := range res.Layouts {
		enc.SupportLayouts = append(enc.SupportLayouts, e.codec.Encode(layout))
	}
	for i := len(res.Instructions) - 1; i >= 0; i-- {
		enc.Priorities = append(enc.Priorities, i)
	}
	return enc
}

func (e *Encoder) inputIDs(words []string) []int {
	ids := make([]int, 0, len(words))
	for _, w := range words {
		ids = append(ids, e.dict.InputWordToID[w])
	}
	return ids
}

// actionIDs maps action tokens to ids and terminates the sequence with the
// [eos] id.
func (e *Encoder) actionIDs(words []string) []int {
	ids := make([]int, 0, len(words)+1)
	for _, w := range words {
		ids = append(ids, e.dict.ActionWordToID[w])
	}
	return append(ids, e.eosID)
}
