// Package rank implements the search and ranking engine: count occurrences
// of a target word in each book's descriptive-word list, filter, and rank.
package rank

import (
	"sort"
	"strings"

	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/extract"
)

// Range is an inclusive [Min,Max] bound for one axis score.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether v falls inside the range.
func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Filters restricts which books participate in a search.
type Filters struct {
	// Genres keeps books carrying at least one selected tag.
	// Empty means no genre restriction.
	Genres []string
	// AxisRanges must all be satisfied; keys are axis keys.
	AxisRanges map[string]Range
}

// Engine ranks corpus books by target-word occurrence count.
// It is a pure function of its inputs and safe for concurrent use.
type Engine struct {
	corpus    *corpus.Corpus
	extractor *extract.Extractor
}

// New creates a ranking engine over the loaded corpus.
func New(c *corpus.Corpus, e *extract.Extractor) *Engine {
	return &Engine{corpus: c, extractor: e}
}

// Search computes the ranked hit list for a target word under the filters.
//
// An empty or whitespace-only word means "no search performed" and yields an
// empty result without error. Matching is exact and case-sensitive; any
// normalization (base form, width folding) happens upstream. Ties in count
// keep corpus order and share a rank under the competition (minimum-rank)
// convention: counts [7,7,5,3,3,1] rank as [1,1,3,4,4,6].
func (e *Engine) Search(word string, f Filters) []domain.SearchHit {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil
	}

	var hits []domain.SearchHit
	for i := range e.corpus.Books {
		b := &e.corpus.Books[i]
		if !b.HasAnyGenre(f.Genres) {
			continue
		}
		if !satisfiesAxes(b, f.AxisRanges) {
			continue
		}

		count := 0
		for _, w := range e.extractor.BookWords(b) {
			if w == word {
				count++
			}
		}
		if count == 0 {
			continue
		}

		hits = append(hits, domain.SearchHit{
			BookIndex: b.Index,
			Title:     b.Title,
			Author:    b.Author,
			Count:     count,
		})
	}

	// Stable sort keeps corpus order among equal counts, which makes the
	// whole result deterministic for a fixed corpus.
	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Count > hits[b].Count
	})

	assignRanks(hits)
	return hits
}

// assignRanks applies competition ranking in place over a count-sorted slice.
func assignRanks(hits []domain.SearchHit) {
	for i := range hits {
		if i > 0 && hits[i].Count == hits[i-1].Count {
			hits[i].Rank = hits[i-1].Rank
			continue
		}
		hits[i].Rank = i + 1
	}
}

func satisfiesAxes(b *domain.Book, ranges map[string]Range) bool {
	for key, r := range ranges {
		if !r.Contains(b.Score(key)) {
			return false
		}
	}
	return true
}
