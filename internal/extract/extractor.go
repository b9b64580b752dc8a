// Package extract turns review text into ordered descriptive-word lists.
//
// There is exactly one extraction policy in the process: the same Extractor
// instance feeds both the search ranking and the detail summarizer, so the
// two views can never disagree about what counts as a descriptive word.
package extract

import (
	"log/slog"
	"sync"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/tokenize"
)

// Word form constants for Policy.Form.
const (
	FormBase    = "base"
	FormSurface = "surface"
)

// Policy selects which tokens qualify as descriptive words and in which form
// they are emitted.
type Policy struct {
	// Form is FormBase (dictionary form, default) or FormSurface.
	Form string
	// IncludeAdjectivalNouns extends the target classes beyond adjectives.
	IncludeAdjectivalNouns bool
}

// Extractor applies the extraction policy over the tokenizer output.
//
// Per-book word lists are cached for the corpus lifetime; the cache is
// dropped whenever the stopword or forced-keyword lists change. All methods
// are safe for concurrent use: many sessions share one Extractor.
type Extractor struct {
	tok    tokenize.Tokenizer
	policy Policy
	logger *slog.Logger

	mu        sync.RWMutex
	stopwords map[string]struct{}
	keywords  map[string]struct{}
	cache     map[int][]string
	// gen counts word-list changes; an extraction started under an older
	// generation must not be written back into the cache.
	gen uint64
}

// New creates an extractor with the built-in default stopword set.
func New(tok tokenize.Tokenizer, policy Policy, logger *slog.Logger) *Extractor {
	if policy.Form == "" {
		policy.Form = FormBase
	}
	e := &Extractor{
		tok:    tok,
		policy: policy,
		logger: logger,
		cache:  make(map[int][]string),
	}
	e.stopwords = defaultStopwordSet()
	e.keywords = make(map[string]struct{})
	return e
}

// Words extracts the ordered descriptive-word list from text.
// Duplicates are retained (occurrence counts matter downstream) and blank
// input yields an empty list, never an error.
func (e *Extractor) Words(text string) []string {
	if tokenize.Blank(text) {
		return nil
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	tokens := e.tok.Tokenize(text)
	words := make([]string, 0, len(tokens))
	for _, t := range tokens {
		w, ok := e.selectWord(t)
		if !ok {
			continue
		}
		if _, stopped := e.stopwords[w]; stopped {
			continue
		}
		words = append(words, w)
	}
	return words
}

// BookWords returns the descriptive-word list for a corpus book, computing it
// on first access and caching it until the word lists change.
func (e *Extractor) BookWords(b *domain.Book) []string {
	e.mu.RLock()
	words, ok := e.cache[b.Index]
	gen := e.gen
	e.mu.RUnlock()
	if ok {
		return words
	}

	words = e.Words(b.Review)

	e.mu.Lock()
	// A word-list reload may have landed while this list was being computed;
	// caching it then would resurrect the pre-reload extraction policy.
	if e.gen == gen {
		e.cache[b.Index] = words
	}
	e.mu.Unlock()
	return words
}

// IsStopword reports whether a word is currently excluded.
func (e *Extractor) IsStopword(w string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.stopwords[w]
	return ok
}

// Stopwords returns a snapshot of the active stopword set.
func (e *Extractor) Stopwords() map[string]struct{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snapshot := make(map[string]struct{}, len(e.stopwords))
	for w := range e.stopwords {
		snapshot[w] = struct{}{}
	}
	return snapshot
}

// Invalidate drops every cached per-book word list.
func (e *Extractor) Invalidate() {
	e.mu.Lock()
	e.cache = make(map[int][]string)
	e.gen++
	e.mu.Unlock()
}

// selectWord decides whether a token qualifies and returns it in policy form.
// Forced keywords qualify regardless of grammatical class.
func (e *Extractor) selectWord(t tokenize.Token) (string, bool) {
	qualifies := t.IsAdjective() || (e.policy.IncludeAdjectivalNouns && t.IsAdjectivalNoun())

	if !qualifies {
		if _, forced := e.keywords[t.Surface]; forced {
			return t.Surface, true
		}
		if _, forced := e.keywords[t.Base]; forced {
			return e.wordForm(t), true
		}
		return "", false
	}
	return e.wordForm(t), true
}

func (e *Extractor) wordForm(t tokenize.Token) string {
	if e.policy.Form == FormSurface {
		return t.Surface
	}
	return t.Base
}
