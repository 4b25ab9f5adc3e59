package index

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkerSplitsDeterministically(t *testing.T) {
	c := NewChunker(2, 0)
	text := "First sentence. Second sentence. Third sentence. Fourth sentence."

	first := c.Split(text)
	second := c.Split(text)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestChunkerCoversFullText(t *testing.T) {
	c := NewChunker(2, 0)
	text := "Alpha one. Beta two. Gamma three. Delta four. Epsilon five."

	passages := c.Split(text)

	joined := strings.Join(passages, " ")
	for _, word := range []string{"Alpha", "Beta", "Gamma", "Delta", "Epsilon"} {
		assert.Contains(t, joined, word)
	}
}

func TestChunkerKeepsUnterminatedTail(t *testing.T) {
	c := NewChunker(5, 0)
	text := "A complete sentence. A trailing fragment without punctuation"

	passages := c.Split(text)

	require.NotEmpty(t, passages)
	assert.Contains(t, strings.Join(passages, " "), "trailing fragment without punctuation")
}

func TestChunkerOverlapRepeatsBoundarySentences(t *testing.T) {
	c := NewChunker(3, 1)
	text := "One. Two. Three. Four. Five."

	passages := c.Split(text)
	require.Len(t, passages, 2)
	assert.Contains(t, passages[0], "Three.")
	assert.Contains(t, passages[1], "Three.")
}

func TestChunkerEmptyInput(t *testing.T) {
	c := NewChunker(5, 1)

	assert.Nil(t, c.Split(""))
	assert.Nil(t, c.Split("   \n\t  "))
}

func TestChunkerTextWithoutSentencePunctuation(t *testing.T) {
	c := NewChunker(5, 1)

	passages := c.Split("just a bare heading")

	require.Len(t, passages, 1)
	assert.Equal(t, "just a bare heading", passages[0])
}
