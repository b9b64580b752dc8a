package summary

import (
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/extract"
	"github.com/kansouapp/kansou-server/internal/tokenize"
)

type adjectiveTokenizer struct{}

func (adjectiveTokenizer) Tokenize(text string) []tokenize.Token {
	var out []tokenize.Token
	for _, f := range strings.Fields(text) {
		out = append(out, tokenize.Token{Surface: f, Base: f, POS: []string{"形容詞", "自立"}})
	}
	return out
}

func newTestSummarizer(axes []domain.Axis) (*Summarizer, *extract.Extractor) {
	c := &corpus.Corpus{Axes: axes}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	e := extract.New(adjectiveTokenizer{}, extract.Policy{}, log)
	return New(c, e), e
}

func TestSummarize_AxisVector(t *testing.T) {
	s, _ := newTestSummarizer(domain.BaseAxes)
	b := &domain.Book{
		Index:  0,
		Review: "怖い",
		Scores: map[string]int{"grotesque": 3, "painful": 5},
	}

	d := s.Summarize(b)

	// The vector always covers every corpus axis in stable order, with
	// missing scores reading as 0.
	require.Len(t, d.Axes, 6)
	assert.Equal(t, "erotic", d.Axes[0].Key)
	assert.Equal(t, "エロ", d.Axes[0].Label)
	assert.Equal(t, 0, d.Axes[0].Value)
	assert.Equal(t, 3, d.Axes[1].Value)
	assert.Equal(t, 5, d.Axes[5].Value)
}

func TestSummarize_TopWords(t *testing.T) {
	s, _ := newTestSummarizer(domain.BaseAxes)
	b := &domain.Book{
		Index:  0,
		Review: "怖い 怖い 怖い 暗い 暗い 重い 眩しい 切ない 辛い",
	}

	d := s.Summarize(b)

	// Top five by count; singles keep first-occurrence order.
	require.Len(t, d.TopWords, 5)
	assert.Equal(t, domain.WordCount{Word: "怖い", Count: 3}, d.TopWords[0])
	assert.Equal(t, domain.WordCount{Word: "暗い", Count: 2}, d.TopWords[1])
	assert.Equal(t, domain.WordCount{Word: "重い", Count: 1}, d.TopWords[2])
	assert.Equal(t, domain.WordCount{Word: "眩しい", Count: 1}, d.TopWords[3])
	assert.Equal(t, domain.WordCount{Word: "切ない", Count: 1}, d.TopWords[4])
}

func TestSummarize_FewerThanFiveWords(t *testing.T) {
	s, _ := newTestSummarizer(domain.BaseAxes)

	d := s.Summarize(&domain.Book{Index: 0, Review: "怖い 暗い"})
	assert.Len(t, d.TopWords, 2)

	d = s.Summarize(&domain.Book{Index: 1, Review: ""})
	assert.Empty(t, d.TopWords)
}

func TestSummarize_StopwordChangeAfterCache(t *testing.T) {
	s, e := newTestSummarizer(domain.BaseAxes)
	b := &domain.Book{Index: 0, Review: "怖い 暗い 暗い"}

	// Prime the per-book word cache, then stop 暗い via a list file.
	_ = e.BookWords(b)

	dir := t.TempDir()
	path := dir + "/stopwords.txt"
	require.NoError(t, os.WriteFile(path, []byte("暗い\n"), 0o644))
	require.NoError(t, e.LoadStopwords(path))

	d := s.Summarize(b)
	require.Len(t, d.TopWords, 1)
	assert.Equal(t, "怖い", d.TopWords[0].Word)
}
