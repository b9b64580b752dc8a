package extract

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/tokenize"
)

// stubTokenizer splits on whitespace and looks each word up in a fixed
// dictionary. Unknown words come back as plain nouns.
type stubTokenizer struct {
	dict map[string]tokenize.Token
}

func (s stubTokenizer) Tokenize(text string) []tokenize.Token {
	var out []tokenize.Token
	for _, f := range strings.Fields(text) {
		if tok, ok := s.dict[f]; ok {
			out = append(out, tok)
			continue
		}
		out = append(out, tokenize.Token{Surface: f, Base: f, POS: []string{"名詞", "一般"}})
	}
	return out
}

func adjective(surface, base string) tokenize.Token {
	return tokenize.Token{Surface: surface, Base: base, POS: []string{"形容詞", "自立"}}
}

func adjectivalNoun(w string) tokenize.Token {
	return tokenize.Token{Surface: w, Base: w, POS: []string{"名詞", "形容動詞語幹"}}
}

func testTokenizer() stubTokenizer {
	return stubTokenizer{dict: map[string]tokenize.Token{
		"怖い":   adjective("怖い", "怖い"),
		"怖かった": adjective("怖かった", "怖い"),
		"暗い":   adjective("暗い", "暗い"),
		"ない":   adjective("ない", "ない"),
		"静か":   adjectivalNoun("静か"),
		"トラウマ":  {Surface: "トラウマ", Base: "トラウマ", POS: []string{"名詞", "一般"}},
	}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestWords_BaseForm(t *testing.T) {
	e := New(testTokenizer(), Policy{}, testLogger())

	// Inflected surface forms collapse to the dictionary form; duplicates
	// and order are preserved.
	words := e.Words("怖かった 話 は 怖い 暗い 怖い")
	assert.Equal(t, []string{"怖い", "怖い", "暗い", "怖い"}, words)
}

func TestWords_SurfaceForm(t *testing.T) {
	e := New(testTokenizer(), Policy{Form: FormSurface}, testLogger())

	words := e.Words("怖かった 怖い")
	assert.Equal(t, []string{"怖かった", "怖い"}, words)
}

func TestWords_DefaultStopwords(t *testing.T) {
	e := New(testTokenizer(), Policy{}, testLogger())

	// ない is an adjective to the analyzer but carries no descriptive signal.
	words := e.Words("怖い ない")
	assert.Equal(t, []string{"怖い"}, words)
}

func TestWords_AdjectivalNouns(t *testing.T) {
	off := New(testTokenizer(), Policy{}, testLogger())
	assert.Equal(t, []string{"怖い"}, off.Words("静か 怖い"))

	on := New(testTokenizer(), Policy{IncludeAdjectivalNouns: true}, testLogger())
	assert.Equal(t, []string{"静か", "怖い"}, on.Words("静か 怖い"))
}

func TestWords_Blank(t *testing.T) {
	e := New(testTokenizer(), Policy{}, testLogger())
	assert.Empty(t, e.Words(""))
	assert.Empty(t, e.Words("   　  "))
}

func TestForcedKeywords(t *testing.T) {
	e := New(testTokenizer(), Policy{}, testLogger())

	// Not an adjective, so normally excluded.
	assert.Empty(t, e.Words("トラウマ"))

	path := writeWordList(t, "keywords.txt", "# forced keywords\nトラウマ\n")
	require.NoError(t, e.LoadKeywords(path))

	assert.Equal(t, []string{"トラウマ"}, e.Words("トラウマ"))
}

func TestLoadStopwords_ReplacesSetAndDropsCache(t *testing.T) {
	e := New(testTokenizer(), Policy{}, testLogger())
	b := &domain.Book{Index: 0, Review: "怖い 暗い"}

	assert.Equal(t, []string{"怖い", "暗い"}, e.BookWords(b))

	path := writeWordList(t, "stopwords.txt", "暗い\n")
	require.NoError(t, e.LoadStopwords(path))

	// Custom list replaces the defaults entirely: ない is no longer stopped,
	// 暗い now is, and the cached word list was recomputed.
	assert.True(t, e.IsStopword("暗い"))
	assert.False(t, e.IsStopword("ない"))
	assert.Equal(t, []string{"怖い"}, e.BookWords(b))
}

func TestLoadStopwords_MissingFileFallsBack(t *testing.T) {
	e := New(testTokenizer(), Policy{}, testLogger())

	require.NoError(t, e.LoadStopwords(filepath.Join(t.TempDir(), "missing.txt")))
	assert.True(t, e.IsStopword("ない"))
	assert.True(t, e.IsStopword("っぽい"))
}

func TestBookWords_Cached(t *testing.T) {
	e := New(testTokenizer(), Policy{}, testLogger())
	b := &domain.Book{Index: 3, Review: "怖い"}

	first := e.BookWords(b)
	second := e.BookWords(b)
	assert.Equal(t, first, second)

	e.Invalidate()
	assert.Equal(t, first, e.BookWords(b))
}

// gateTokenizer blocks the first Tokenize call until released, so a test can
// interleave a word-list reload with an in-flight extraction.
type gateTokenizer struct {
	inner   stubTokenizer
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gateTokenizer) Tokenize(text string) []tokenize.Token {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return g.inner.Tokenize(text)
}

func TestBookWords_ReloadDuringExtractionNotCached(t *testing.T) {
	g := &gateTokenizer{
		inner:   testTokenizer(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	e := New(g, Policy{}, testLogger())
	b := &domain.Book{Index: 0, Review: "怖い"}

	computed := make(chan []string)
	go func() { computed <- e.BookWords(b) }()
	<-g.entered

	// The reload queues behind the in-flight extraction's read lock.
	path := writeWordList(t, "stopwords.txt", "怖い\n")
	reloaded := make(chan error)
	go func() { reloaded <- e.LoadStopwords(path) }()
	time.Sleep(10 * time.Millisecond)
	close(g.release)

	stale := <-computed
	require.NoError(t, <-reloaded)
	assert.Equal(t, []string{"怖い"}, stale)

	// The list computed under the old stopword set must not have been cached:
	// after the reload 怖い is stopped everywhere, including via the cache.
	assert.Empty(t, e.Words("怖い"))
	assert.Empty(t, e.BookWords(b))
}

func TestReadWordList_SkipsCommentsAndBlanks(t *testing.T) {
	path := writeWordList(t, "list.txt", "# comment\n\n怖い\n  暗い  \n# another\n")

	words, err := readWordList(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"怖い", "暗い"}, words)
}

func writeWordList(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
