package providers

import (
	"github.com/samber/do/v2"

	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/extract"
	"github.com/kansouapp/kansou-server/internal/logger"
	"github.com/kansouapp/kansou-server/internal/service"
	"github.com/kansouapp/kansou-server/internal/suggest"
)

// SuggestIndexHandle wraps the suggestion index with shutdown capability.
type SuggestIndexHandle struct {
	*suggest.Index
}

// Shutdown implements do.Shutdownable.
func (h *SuggestIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSuggestIndex builds the in-memory autocomplete index over the
// corpus vocabulary.
func ProvideSuggestIndex(i do.Injector) (*SuggestIndexHandle, error) {
	c := do.MustInvoke[*corpus.Corpus](i)
	e := do.MustInvoke[*extract.Extractor](i)
	log := do.MustInvoke[*logger.Logger](i)

	vocab := suggest.BuildVocabulary(c, e)
	index, err := suggest.NewIndex(vocab, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Suggestion index built", "words", len(vocab))
	return &SuggestIndexHandle{Index: index}, nil
}

// ProvideSuggestService provides the autocomplete service.
func ProvideSuggestService(i do.Injector) (*service.SuggestService, error) {
	indexHandle := do.MustInvoke[*SuggestIndexHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSuggestService(indexHandle.Index, log.Logger), nil
}
