package service

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Analyze splits text on whitespace runs and returns the word count
// and the rounded average word length in runes. Both are 0 for blank text.
func Analyze(text string) (wordCount int, averageWordLength int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0, 0
	}

	totalLength := 0
	for _, word := range words {
		totalLength += utf8.RuneCountInString(word)
	}

	average := int(math.Round(float64(totalLength) / float64(len(words))))
	return len(words), average
}
