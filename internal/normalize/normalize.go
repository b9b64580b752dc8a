// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Word canonicalizes user query input before it is matched against the
// tokenizer output: trims whitespace (including full-width spaces), folds
// half-width katakana and full-width latin to their canonical widths, and
// applies NFKC so composed and decomposed forms compare equal.
func Word(s string) string {
	s = strings.TrimFunc(s, unicode.IsSpace)
	if s == "" {
		return ""
	}
	s = width.Fold.String(s)
	return norm.NFKC.String(s)
}

// ISBN strips separators from an ISBN and uppercases a trailing check
// character, e.g. "4-10-109205-x" becomes "410109205X". Returns the
// normalized string and whether it has a plausible ISBN-10/13 length.
func ISBN(s string) (string, bool) {
	var b strings.Builder
	for _, r := range width.Fold.String(s) {
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			b.WriteRune(r)
		}
	}

	isbn := b.String()
	if isbn == "" {
		return "", false
	}
	// Only the final check character of an ISBN-10 may be a letter (X).
	isbn = isbn[:len(isbn)-1] + strings.ToUpper(isbn[len(isbn)-1:])

	return isbn, len(isbn) == 10 || len(isbn) == 13
}
