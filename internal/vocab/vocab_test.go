package vocab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(words ...string) map[string]string {
	m := make(map[string]string, len(words))
	for _, w := range words {
		m[w] = w
	}
	return m
}

func TestNew(t *testing.T) {
	t.Run("accepts disjoint categories", func(t *testing.T) {
		v, err := New(
			identity("walk"),
			identity("push", "pull"),
			identity("hesitantly"),
			identity("circle"),
			identity("red"),
			identity("big"),
		)
		require.NoError(t, err)
		require.NotNil(t, v)
	})

	t.Run("rejects a word bound in two categories", func(t *testing.T) {
		_, err := New(
			identity("walk"),
			identity("push", "walk"),
			identity("hesitantly"),
			identity("circle"),
			identity("red"),
			identity("big"),
		)
		require.Error(t, err)

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "walk", verr.Word)
		assert.Len(t, verr.Categories, 2)
	})

	t.Run("reports the lexically first collision", func(t *testing.T) {
		_, err := New(
			identity("walk", "zulu", "alpha"),
			identity("zulu", "alpha"),
			identity("hesitantly"),
			identity("circle"),
			identity("red"),
			identity("big"),
		)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "alpha", verr.Word)
	})
}

func TestDefault(t *testing.T) {
	v := Default()

	assert.Equal(t, []string{"walk"}, v.IntransitiveVerbs())
	assert.Equal(t, []string{"pull", "push"}, v.TransitiveVerbs())
	assert.Equal(t, []string{"cautiously", "hesitantly", "while spinning", "while zigzagging"}, v.Adverbs())
	assert.Equal(t, []string{"circle", "cylinder", "square"}, v.Nouns())
	assert.Equal(t, []string{"blue", "green", "red", "yellow"}, v.ColorAdjectives())
	assert.Equal(t, []string{"big", "small"}, v.SizeAdjectives())
}

func TestTranslate(t *testing.T) {
	v := Default()

	t.Run("surface to meaning and back", func(t *testing.T) {
		assert.Equal(t, "push", v.TranslateWord("push"))
		assert.Equal(t, "push", v.TranslateMeaning("push"))
	})

	t.Run("connectives are always bound", func(t *testing.T) {
		assert.Equal(t, "to", v.TranslateWord("to"))
		assert.Equal(t, "a", v.TranslateWord("a"))
	})

	t.Run("unbound word yields empty", func(t *testing.T) {
		assert.Empty(t, v.TranslateWord("jump"))
		assert.Empty(t, v.TranslateMeaning("jump"))
	})
}
