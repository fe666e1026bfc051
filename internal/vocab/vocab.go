// Package vocab holds the fixed instruction vocabulary and the
// generalization-split policy: which words belong to which category, and
// which held-out description rules may be waived while generating supports
// for a given split.
package vocab

import (
	"fmt"
	"sort"
)

// ValidationError reports a surface word bound in more than one category.
type ValidationError struct {
	Word       string
	Categories []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("vocabulary word %q appears in multiple categories: %v", e.Word, e.Categories)
}

// Vocabulary binds surface words to canonical meanings across the six
// word categories. Immutable after construction.
type Vocabulary struct {
	intransitiveVerbs map[string]string
	transitiveVerbs   map[string]string
	adverbs           map[string]string
	nouns             map[string]string
	colorAdjectives   map[string]string
	sizeAdjectives    map[string]string

	translate   map[string]string // surface -> meaning
	translateTo map[string]string // meaning -> surface
}

// New constructs a Vocabulary from six surface->meaning bindings. It fails
// with a *ValidationError if any surface word appears in more than one
// category.
func New(intransitiveVerbs, transitiveVerbs, adverbs, nouns, colorAdjectives, sizeAdjectives map[string]string) (*Vocabulary, error) {
	categories := []struct {
		name  string
		words map[string]string
	}{
		{"intransitive_verbs", intransitiveVerbs},
		{"transitive_verbs", transitiveVerbs},
		{"adverbs", adverbs},
		{"nouns", nouns},
		{"color_adjectives", colorAdjectives},
		{"size_adjectives", sizeAdjectives},
	}

	seen := map[string][]string{}
	for _, cat := range categories {
		for w := range cat.words {
			seen[w] = append(seen[w], cat.name)
		}
	}
	// Deterministic collision report: lexically first colliding word wins.
	var collided []string
	for w, cats := range seen {
		if len(cats) > 1 {
			collided = append(collided, w)
		}
	}
	if len(collided) > 0 {
		sort.Strings(collided)
		return nil, &ValidationError{Word: collided[0], Categories: seen[collided[0]]}
	}

	v := &Vocabulary{
		intransitiveVerbs: intransitiveVerbs,
		transitiveVerbs:   transitiveVerbs,
		adverbs:           adverbs,
		nouns:             nouns,
		colorAdjectives:   colorAdjectives,
		sizeAdjectives:    sizeAdjectives,
		translate:         map[string]string{"to": "to", "a": "a", "and": "and"},
		translateTo:       map[string]string{},
	}
	for _, cat := range categories {
		for w, meaning := range cat.words {
			v.translate[w] = meaning
		}
	}
	for w, meaning := range v.translate {
		v.translateTo[meaning] = w
	}
	return v, nil
}

// Default returns the canonical grid-world vocabulary where every surface
// word is its own meaning.
func Default() *Vocabulary {
	identity := func(words ...string) map[string]string {
		m := make(map[string]string, len(words))
		for _, w := range words {
			m[w] = w
		}
		return m
	}
	v, err := New(
		identity("walk"),
		identity("push", "pull"),
		identity("while spinning", "while zigzagging", "hesitantly", "cautiously"),
		identity("circle", "square", "cylinder"),
		identity("red", "blue", "green", "yellow"),
		identity("big", "small"),
	)
	if err != nil {
		// The canonical bindings cannot collide.
		panic(err)
	}
	return v
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IntransitiveVerbs returns the category's surface words, sorted.
func (v *Vocabulary) IntransitiveVerbs() []string { return sortedKeys(v.intransitiveVerbs) }

// TransitiveVerbs returns the category's surface words, sorted.
func (v *Vocabulary) TransitiveVerbs() []string { return sortedKeys(v.transitiveVerbs) }

// Adverbs returns the category's surface words, sorted.
func (v *Vocabulary) Adverbs() []string { return sortedKeys(v.adverbs) }

// Nouns returns the category's surface words, sorted.
func (v *Vocabulary) Nouns() []string { return sortedKeys(v.nouns) }

// ColorAdjectives returns the category's surface words, sorted.
func (v *Vocabulary) ColorAdjectives() []string { return sortedKeys(v.colorAdjectives) }

// SizeAdjectives returns the category's surface words, sorted.
func (v *Vocabulary) SizeAdjectives() []string { return sortedKeys(v.sizeAdjectives) }

// TranslateWord maps a surface word to its canonical meaning, or "" when
// the word is not bound.
func (v *Vocabulary) TranslateWord(word string) string {
	return v.translate[word]
}

// TranslateMeaning maps a canonical meaning back to its surface word, or
// "" when the meaning is not bound.
func (v *Vocabulary) TranslateMeaning(meaning string) string {
	return v.translateTo[meaning]
}
