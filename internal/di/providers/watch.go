package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/kansouapp/kansou-server/internal/config"
	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/extract"
	"github.com/kansouapp/kansou-server/internal/logger"
	"github.com/kansouapp/kansou-server/internal/suggest"
	"github.com/kansouapp/kansou-server/internal/watch"
)

// WordListWatcherHandle wraps the word-list file watcher with shutdown capability.
type WordListWatcherHandle struct {
	*watch.Watcher
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *WordListWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideWordListWatcher watches the stopword and forced-keyword files and
// hot-reloads the extractor (and rebuilds the suggestion index) on change.
func ProvideWordListWatcher(i do.Injector) (*WordListWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	c := do.MustInvoke[*corpus.Corpus](i)
	e := do.MustInvoke[*extract.Extractor](i)
	indexHandle := do.MustInvoke[*SuggestIndexHandle](i)

	if cfg.Corpus.StopwordsPath == "" && cfg.Corpus.KeywordsPath == "" {
		return &WordListWatcherHandle{}, nil
	}

	w, err := watch.New(log.Logger)
	if err != nil {
		return nil, err
	}

	// Word-list edits change which words qualify, so the autocomplete
	// vocabulary must be rebuilt along with the extractor state.
	rebuildSuggest := func() {
		if err := indexHandle.Rebuild(suggest.BuildVocabulary(c, e)); err != nil {
			log.Warn("Suggestion index rebuild failed", "error", err)
		}
	}

	if cfg.Corpus.StopwordsPath != "" {
		err := w.Add(cfg.Corpus.StopwordsPath, func() {
			if err := e.LoadStopwords(cfg.Corpus.StopwordsPath); err != nil {
				log.Warn("Stopword reload failed", "error", err)
				return
			}
			rebuildSuggest()
		})
		if err != nil {
			return nil, err
		}
	}

	if cfg.Corpus.KeywordsPath != "" {
		err := w.Add(cfg.Corpus.KeywordsPath, func() {
			if err := e.LoadKeywords(cfg.Corpus.KeywordsPath); err != nil {
				log.Warn("Keyword reload failed", "error", err)
				return
			}
			rebuildSuggest()
		})
		if err != nil {
			return nil, err
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)

	log.Info("Word-list watcher started")
	return &WordListWatcherHandle{Watcher: w, cancel: cancel}, nil
}
