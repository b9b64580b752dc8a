package service

import (
	"context"
	"log/slog"

	"github.com/kansouapp/kansou-server/internal/domain"
	"github.com/kansouapp/kansou-server/internal/normalize"
	"github.com/kansouapp/kansou-server/internal/suggest"
)

// SuggestService serves search-box autocomplete candidates.
type SuggestService struct {
	index  *suggest.Index
	logger *slog.Logger
}

// NewSuggestService creates a new suggestion service.
func NewSuggestService(index *suggest.Index, logger *slog.Logger) *SuggestService {
	return &SuggestService{index: index, logger: logger}
}

// Suggest returns corpus words starting with the (normalized) prefix.
func (s *SuggestService) Suggest(ctx context.Context, prefix string, limit int) ([]domain.WordCount, error) {
	return s.index.Suggest(ctx, normalize.Word(prefix), limit)
}
