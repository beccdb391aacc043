package tokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTreebank(t *testing.T) {
	tok := NewTreebank()

	tests := []struct {
		text string
		want []string
	}{
		{"Is the cube red?", []string{"Is", "the", "cube", "red", "?"}},
		{"Are there any cubes, spheres or cylinders?", []string{"Are", "there", "any", "cubes", ",", "spheres", "or", "cylinders", "?"}},
		{"What's the size of the cube?", []string{"What", "'s", "the", "size", "of", "the", "cube", "?"}},
	}

	for _, tt := range tests {
		got, err := tok.Tokenize(tt.text)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.text)
	}
}

func TestTreebankIsDeterministic(t *testing.T) {
	tok := NewTreebank()
	text := "How many other things are the same size as the yellow metal cylinder?"

	first, err := tok.Tokenize(text)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := tok.Tokenize(text)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWordPunct(t *testing.T) {
	got, err := NewWordPunct().Tokenize("Is the cube red?")
	require.NoError(t, err)
	assert.Equal(t, []string{"Is", "the", "cube", "red", "?"}, got)

	got, err = NewWordPunct().Tokenize("What's that?")
	require.NoError(t, err)
	assert.Equal(t, []string{"What", "'", "s", "that", "?"}, got)
}

func TestNew(t *testing.T) {
	assert.Equal(t, TreebankName, Names()[0])
	for _, name := range Names() {
		tok, err := New(name, false)
		require.NoError(t, err, name)
		assert.NotNil(t, tok)
	}

	tok, err := New(TreebankName, true)
	require.NoError(t, err)
	assert.IsType(t, Normalized{}, tok)

	_, err = New("whitespace", false)
	assert.Error(t, err)
}

func TestNormalizedComposesAccents(t *testing.T) {
	tok := Normalized{T: NewTreebank()}

	// "e" followed by a combining acute accent
	got, err := tok.Tokenize("cafe\u0301")
	require.NoError(t, err)
	assert.Equal(t, []string{"caf\u00e9"}, got)
}
