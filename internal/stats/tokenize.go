package stats

import "strings"

// isSeparator reports whether r splits tokens: ASCII whitespace or ASCII
// punctuation, except the apostrophe so contractions stay whole.
func isSeparator(r rune) bool {
	switch {
	case r == '\'':
		return false
	case r == ' ', r == '\t', r == '\n', r == '\f', r == '\r':
		return true
	case r >= '!' && r <= '/', r >= ':' && r <= '@', r >= '[' && r <= '`', r >= '{' && r <= '~':
		return true
	}
	return false
}

// Tokenize splits s into words. Empty tokens are never returned.
func Tokenize(s string) []string {
	return strings.FieldsFunc(s, isSeparator)
}

// FoldCase lowercases ASCII letters and leaves every other byte alone.
func FoldCase(word string) string {
	i := 0
	for ; i < len(word); i++ {
		if c := word[i]; c >= 'A' && c <= 'Z' {
			break
		}
	}
	if i == len(word) {
		return word
	}

	b := []byte(word)
	for ; i < len(b); i++ {
		if c := b[i]; c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
