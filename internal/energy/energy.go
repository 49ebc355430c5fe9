// Package energy maps user text to the scalar input energy fed to the
// harmonic engine. Pure keyword/punctuation heuristics — no state.
package energy

import (
	"strings"
	"unicode"
)

// Energy levels per trigger class.
const (
	Base     = 0.3
	Positive = 0.7
	Question = 0.5
	Negative = 0.1
)

var (
	positiveWords = []string{"good", "great", "love", "beautiful", "awesome"}
	negativeWords = []string{"bad", "hate", "angry", "sad"}

	greetingWords = []string{"hello", "hi", "hey"}
	learningWords = []string{"learn", "teach", "know"}
)

// FromText computes input energy for a message. Trigger precedence:
// positive words, then a question mark, then negative words, else base.
// The result is always in [0,1].
func FromText(message string) float64 {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, positiveWords):
		return Positive
	case strings.Contains(message, "?"):
		return Question
	case containsAny(lower, negativeWords):
		return Negative
	default:
		return Base
	}
}

// Category is the canned-response bucket for a message.
type Category uint8

const (
	CategoryDefault Category = iota
	CategoryGreeting
	CategoryQuestion
	CategoryLearning
)

// Categorize picks the response bucket: greeting words, then a question
// mark, then learning words, else default. Greetings match whole words
// only — "hi" must not fire inside "this".
func Categorize(message string) Category {
	lower := strings.ToLower(message)
	switch {
	case hasWordAny(lower, greetingWords):
		return CategoryGreeting
	case strings.Contains(message, "?"):
		return CategoryQuestion
	case containsAny(lower, learningWords):
		return CategoryLearning
	default:
		return CategoryDefault
	}
}

func containsAny(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func hasWordAny(lower string, words []string) bool {
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, f := range fields {
		for _, w := range words {
			if f == w {
				return true
			}
		}
	}
	return false
}
