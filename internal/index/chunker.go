package index

import (
	"regexp"
	"strings"
)

// Chunker splits document text into sentence-bounded passages with overlap.
// Splitting is deterministic and covers the full text: a trailing fragment
// without terminal punctuation still becomes part of the final passage.
type Chunker struct {
	sentencesPerPassage int
	overlapSentences    int
	splitter            *regexp.Regexp
}

func NewChunker(sentencesPerPassage, overlapSentences int) *Chunker {
	if sentencesPerPassage <= 0 {
		sentencesPerPassage = 5
	}
	if overlapSentences < 0 {
		overlapSentences = 0
	}
	if overlapSentences >= sentencesPerPassage {
		overlapSentences = sentencesPerPassage - 1
	}
	return &Chunker{
		sentencesPerPassage: sentencesPerPassage,
		overlapSentences:    overlapSentences,
		splitter:            regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Split returns the passages of text in document order.
func (c *Chunker) Split(text string) []string {
	sentences := c.sentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var passages []string
	i := 0
	for i < len(sentences) {
		end := i + c.sentencesPerPassage
		if end > len(sentences) {
			end = len(sentences)
		}
		passages = append(passages, strings.Join(sentences[i:end], " "))
		if end == len(sentences) {
			break
		}
		i = end - c.overlapSentences
	}
	return passages
}

func (c *Chunker) sentences(text string) []string {
	matches := c.splitter.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var sentences []string
	for _, m := range matches {
		if s := strings.TrimSpace(text[m[0]:m[1]]); s != "" {
			sentences = append(sentences, s)
		}
	}
	// Keep any tail the sentence pattern did not consume.
	if tail := strings.TrimSpace(text[matches[len(matches)-1][1]:]); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}
