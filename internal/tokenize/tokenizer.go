// Package tokenize wraps the morphological analyzer behind a small interface.
//
// The analyzer is the one genuinely expensive dependency in the pipeline:
// constructing it loads the whole IPA dictionary into memory, while invoking
// it is cheap. It is therefore built exactly once and injected wherever
// extraction happens, never constructed in a hot path.
package tokenize

import "strings"

// Token is one analyzed token with its part-of-speech feature hierarchy.
type Token struct {
	// Surface is the form as it appears in the text (怖かった).
	Surface string
	// Base is the dictionary form (怖い). Falls back to the surface form
	// when the analyzer has no lemma for the token.
	Base string
	// POS is the feature hierarchy, most general first (形容詞, 自立, ...).
	POS []string
}

// Tokenizer turns text into an ordered token sequence.
// Implementations must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) []Token
}

// IsAdjective reports whether the token's primary class is adjective.
func (t Token) IsAdjective() bool {
	return len(t.POS) > 0 && t.POS[0] == "形容詞"
}

// IsAdjectivalNoun reports whether the token is an adjectival-noun stem
// (名詞,形容動詞語幹 in the IPA feature scheme).
func (t Token) IsAdjectivalNoun() bool {
	return len(t.POS) > 1 && t.POS[0] == "名詞" && t.POS[1] == "形容動詞語幹"
}

// Blank reports whether text would produce no tokens worth analyzing.
func Blank(text string) bool {
	return strings.TrimSpace(text) == ""
}
