package richtext

import "strings"

// WordCounter counts the words of a single string.
type WordCounter func(string) int

// CountWords counts words the way the legacy front-end did: the string is
// split on every whitespace character and all resulting tokens count,
// including the empty ones produced by leading, trailing or repeated
// whitespace. "a  b" is 3 words and "a " is 2. The empty string is 0.
func CountWords(s string) int {
	if s == "" {
		return 0
	}
	n := 1
	for _, r := range s {
		if isSpace(r) {
			n++
		}
	}
	return n
}

// CountFields counts whitespace-separated words, ignoring empty tokens.
func CountFields(s string) int {
	return len(strings.FieldsFunc(s, isSpace))
}

// CounterByName maps "legacy" and "fields" to their counters. An empty
// name selects the legacy counter.
func CounterByName(name string) (WordCounter, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "legacy":
		return CountWords, true
	case "fields":
		return CountFields, true
	}
	return nil, false
}

// isSpace reports whether r belongs to the ECMAScript \s class.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}
