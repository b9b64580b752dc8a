package tokenize

import (
	"fmt"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Kagome implements Tokenizer over the kagome analyzer with the IPA dictionary.
// The zero value is not usable; construct with NewKagome.
type Kagome struct {
	t *tokenizer.Tokenizer
}

// NewKagome builds the analyzer. This loads the full dictionary and should
// happen once per process.
func NewKagome() (*Kagome, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("build kagome tokenizer: %w", err)
	}
	return &Kagome{t: t}, nil
}

// Tokenize implements Tokenizer. Empty or blank input yields no tokens.
func (k *Kagome) Tokenize(text string) []Token {
	if Blank(text) {
		return nil
	}

	raw := k.t.Tokenize(text)
	tokens := make([]Token, 0, len(raw))
	for _, tk := range raw {
		base, ok := tk.BaseForm()
		if !ok || base == "*" {
			base = tk.Surface
		}
		tokens = append(tokens, Token{
			Surface: tk.Surface,
			Base:    base,
			POS:     tk.POS(),
		})
	}
	return tokens
}
