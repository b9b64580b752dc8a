package service

import (
	"log/slog"

	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/summary"
)

// BookService serves corpus books and their detail summaries.
type BookService struct {
	corpus     *corpus.Corpus
	summarizer *summary.Summarizer
	logger     *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(c *corpus.Corpus, s *summary.Summarizer, logger *slog.Logger) *BookService {
	return &BookService{corpus: c, summarizer: s, logger: logger}
}

// BookDetail is the full detail view of one book.
type BookDetail struct {
	Book     domain.Book        `json:"book"`
	Axes     []domain.AxisValue `json:"axes"`
	TopWords []domain.WordCount `json:"top_words"`
}

// Get returns the book at a corpus index.
func (s *BookService) Get(index int) (*domain.Book, error) {
	return s.corpus.Book(index)
}

// Detail returns the book plus its radar and bar-chart data.
func (s *BookService) Detail(index int) (*BookDetail, error) {
	b, err := s.corpus.Book(index)
	if err != nil {
		return nil, err
	}

	d := s.summarizer.Summarize(b)
	return &BookDetail{
		Book:     *b,
		Axes:     d.Axes,
		TopWords: d.TopWords,
	}, nil
}

// CorpusSummary describes the loaded corpus.
type CorpusSummary struct {
	Books  int           `json:"books"`
	Axes   []domain.Axis `json:"axes"`
	Genres []string      `json:"genres"`
}

// Summary returns corpus-level facts for the search screen.
func (s *BookService) Summary() CorpusSummary {
	return CorpusSummary{
		Books:  len(s.corpus.Books),
		Axes:   s.corpus.Axes,
		Genres: s.corpus.Genres,
	}
}
