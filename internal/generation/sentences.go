package generation

import (
	"strings"
	"unicode/utf8"
)

const (
	// minSentenceLength is the rune count a fragment must exceed to count as a sentence.
	minSentenceLength = 20

	// minSentenceWords is the word count a sentence must exceed to build an item from.
	minSentenceWords = 5
)

// splitSentences splits text on '.', '!' and '?', trims each fragment and
// keeps those longer than minSentenceLength runes.
func splitSentences(text string) []string {
	fragments := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if utf8.RuneCountInString(f) > minSentenceLength {
			sentences = append(sentences, f)
		}
	}
	return sentences
}

// eligible reports whether a sentence has enough words to pick a pivot from.
func eligible(sentence string) bool {
	return len(strings.Fields(sentence)) > minSentenceWords
}

// pivotWord returns the middle word of the sentence.
func pivotWord(sentence string) string {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return ""
	}
	return words[len(words)/2]
}
