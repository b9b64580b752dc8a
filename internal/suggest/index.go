// Package suggest serves autocomplete candidates for the search box.
//
// Candidates are restricted to words that actually occur in the corpus: the
// index is built from the extractor's vocabulary and answers prefix queries
// ranked by corpus-wide frequency.
package suggest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/extract"
	"github.com/kansouapp/kansou-server/internal/normalize"
)

// Index wraps an in-memory Bleve index over the corpus vocabulary.
//
// Thread safety: all public methods are safe for concurrent use. The mutex
// protects readers against the index swap during Rebuild.
type Index struct {
	mu     sync.RWMutex
	index  bleve.Index
	logger *slog.Logger
}

// wordDocument is the indexed shape of one vocabulary entry.
type wordDocument struct {
	Word string  `json:"word"`
	Freq float64 `json:"freq"`
}

// BuildVocabulary tallies corpus-wide descriptive-word frequencies.
// Words are canonicalized the same way query prefixes are, so a half-width
// katakana or full-width latin spelling in a review still matches a
// normalized prefix.
func BuildVocabulary(c *corpus.Corpus, e *extract.Extractor) map[string]int {
	vocab := make(map[string]int)
	for i := range c.Books {
		for _, w := range e.BookWords(&c.Books[i]) {
			vocab[normalize.Word(w)]++
		}
	}
	return vocab
}

// NewIndex builds the suggestion index from a vocabulary.
func NewIndex(vocab map[string]int, logger *slog.Logger) (*Index, error) {
	idx, err := buildIndex(vocab)
	if err != nil {
		return nil, err
	}
	if logger != nil {
		logger.Info("suggestion index built", "words", len(vocab))
	}
	return &Index{index: idx, logger: logger}, nil
}

// Suggest returns up to limit vocabulary words starting with prefix,
// most frequent first. A blank prefix yields no candidates.
func (i *Index) Suggest(ctx context.Context, prefix string, limit int) ([]domain.WordCount, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}

	pq := bleve.NewPrefixQuery(prefix)
	pq.SetField("word")

	req := bleve.NewSearchRequestOptions(pq, limit, 0, false)
	req.SortBy([]string{"-freq", "word"})
	req.Fields = []string{"word", "freq"}

	i.mu.RLock()
	defer i.mu.RUnlock()

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("suggest query: %w", err)
	}

	candidates := make([]domain.WordCount, 0, len(res.Hits))
	for _, hit := range res.Hits {
		word, _ := hit.Fields["word"].(string)
		freq, _ := hit.Fields["freq"].(float64)
		if word == "" {
			continue
		}
		candidates = append(candidates, domain.WordCount{Word: word, Count: int(freq)})
	}
	return candidates, nil
}

// Rebuild replaces the index with one built from a fresh vocabulary.
// Used after the stopword or keyword lists change on disk.
func (i *Index) Rebuild(vocab map[string]int) error {
	idx, err := buildIndex(vocab)
	if err != nil {
		return err
	}

	i.mu.Lock()
	old := i.index
	i.index = idx
	i.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil && i.logger != nil {
			i.logger.Warn("failed to close previous suggestion index", "error", err)
		}
	}
	if i.logger != nil {
		i.logger.Info("suggestion index rebuilt", "words", len(vocab))
	}
	return nil
}

// Close releases the underlying index.
func (i *Index) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.index == nil {
		return nil
	}
	err := i.index.Close()
	i.index = nil
	return err
}

func buildIndex(vocab map[string]int) (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create suggestion index: %w", err)
	}

	batch := idx.NewBatch()
	for w, f := range vocab {
		if err := batch.Index(w, wordDocument{Word: w, Freq: float64(f)}); err != nil {
			return nil, fmt.Errorf("index word %q: %w", w, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		return nil, fmt.Errorf("commit suggestion batch: %w", err)
	}
	return idx, nil
}

// buildIndexMapping maps words as exact keywords so prefix queries see the
// whole word as a single term, and frequency as a sortable numeric field.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	docMapping := bleve.NewDocumentMapping()

	wordFieldMapping := bleve.NewTextFieldMapping()
	wordFieldMapping.Analyzer = keyword.Name
	wordFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("word", wordFieldMapping)

	freqFieldMapping := bleve.NewNumericFieldMapping()
	freqFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("freq", freqFieldMapping)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
