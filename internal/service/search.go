// Package service orchestrates the pipeline components behind the HTTP API.
package service

import (
	"log/slog"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/normalize"
	"github.com/kansouapp/kansou-server/internal/rank"
	"github.com/kansouapp/kansou-server/internal/session"
	"github.com/kansouapp/kansou-server/internal/validation"
)

// SearchService runs searches on behalf of a session.
type SearchService struct {
	engine    *rank.Engine
	sessions  *session.Manager
	validator *validation.Validator
	logger    *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(engine *rank.Engine, sessions *session.Manager, logger *slog.Logger) *SearchService {
	return &SearchService{
		engine:    engine,
		sessions:  sessions,
		validator: validation.New(),
		logger:    logger,
	}
}

// AxisFilter bounds one axis score, inclusive on both ends.
type AxisFilter struct {
	Key string `json:"key" validate:"required,max=32"`
	Min int    `json:"min" validate:"gte=0,lte=5"`
	Max int    `json:"max" validate:"gte=0,lte=5,gtefield=Min"`
}

// SearchRequest is a search submission for one session.
type SearchRequest struct {
	Word   string       `json:"word" validate:"max=100"`
	Genres []string     `json:"genres" validate:"omitempty,max=20,dive,min=1,max=50"`
	Axes   []AxisFilter `json:"axes" validate:"omitempty,max=8,dive"`
}

// SearchResult is the outcome of a search submission.
type SearchResult struct {
	// Performed is false when the resolved target word was empty: no search
	// ran and the session stays on the search screen.
	Performed bool               `json:"performed"`
	Word      string             `json:"word,omitempty"`
	Hits      []domain.SearchHit `json:"hits"`
}

// Run validates and executes a search, recording the outcome on the session.
//
// An empty target word is not an error: it means "no search performed" and
// leaves the session state untouched so the caller can prompt for input.
func (s *SearchService) Run(sessionID string, req SearchRequest) (*SearchResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Guard against a stale or expired session before doing any work.
	if _, err := s.sessions.Get(sessionID); err != nil {
		return nil, err
	}

	word := normalize.Word(req.Word)
	if word == "" {
		return &SearchResult{Performed: false}, nil
	}

	filters := rank.Filters{Genres: req.Genres}
	if len(req.Axes) > 0 {
		filters.AxisRanges = make(map[string]rank.Range, len(req.Axes))
		for _, ax := range req.Axes {
			filters.AxisRanges[ax.Key] = rank.Range{Min: ax.Min, Max: ax.Max}
		}
	}

	hits := s.engine.Search(word, filters)

	query := session.Query{
		Word:       word,
		Genres:     req.Genres,
		AxisRanges: filters.AxisRanges,
	}
	if err := s.sessions.SetResults(sessionID, query, hits); err != nil {
		return nil, err
	}

	s.logger.Debug("search completed",
		"session", sessionID,
		"word", word,
		"hits", len(hits),
	)

	return &SearchResult{Performed: true, Word: word, Hits: hits}, nil
}
