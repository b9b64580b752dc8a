// Package summary computes the detail-view data for one book: the fixed
// axis-score vector for the radar chart and the top descriptive words for
// the bar chart.
package summary

import (
	"sort"

	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/extract"
)

// TopWordCount is the number of bar-chart entries in the detail view.
const TopWordCount = 5

// Summarizer builds detail summaries using the same extraction policy that
// drives search ranking.
type Summarizer struct {
	corpus    *corpus.Corpus
	extractor *extract.Extractor
}

// New creates a summarizer over the loaded corpus.
func New(c *corpus.Corpus, e *extract.Extractor) *Summarizer {
	return &Summarizer{corpus: c, extractor: e}
}

// Detail is the summarized view of one book.
type Detail struct {
	Axes     []domain.AxisValue `json:"axes"`
	TopWords []domain.WordCount `json:"top_words"`
}

// Summarize computes a book's axis vector and top-5 word frequencies.
// An empty TopWords slice is a normal "no notable words" outcome.
func (s *Summarizer) Summarize(b *domain.Book) Detail {
	axes := make([]domain.AxisValue, 0, len(s.corpus.Axes))
	for _, ax := range s.corpus.Axes {
		axes = append(axes, domain.AxisValue{
			Key:   ax.Key,
			Label: ax.Label,
			Value: b.Score(ax.Key),
		})
	}

	return Detail{
		Axes:     axes,
		TopWords: s.topWords(b),
	}
}

// topWords tallies the book's descriptive words by frequency. Ties keep
// first-occurrence order. Stopwords are filtered again here so a stopword
// list that changed after the word list was cached cannot leak through.
func (s *Summarizer) topWords(b *domain.Book) []domain.WordCount {
	words := s.extractor.BookWords(b)
	if len(words) == 0 {
		return nil
	}

	counts := make(map[string]int, len(words))
	var order []string
	for _, w := range words {
		if s.extractor.IsStopword(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}
	if len(order) == 0 {
		return nil
	}

	top := make([]domain.WordCount, 0, len(order))
	for _, w := range order {
		top = append(top, domain.WordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(top, func(a, b int) bool {
		return top[a].Count > top[b].Count
	})

	if len(top) > TopWordCount {
		top = top[:TopWordCount]
	}
	return top
}
