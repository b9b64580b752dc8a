package providers

import (
	"github.com/samber/do/v2"

	"github.com/kansouapp/kansou-server/internal/config"
	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/extract"
	"github.com/kansouapp/kansou-server/internal/logger"
	"github.com/kansouapp/kansou-server/internal/rank"
	"github.com/kansouapp/kansou-server/internal/summary"
	"github.com/kansouapp/kansou-server/internal/tokenize"
)

// ProvideCorpus loads the review corpus from the configured CSV file.
// A load failure is fatal: the server is useless without its corpus.
func ProvideCorpus(i do.Injector) (*corpus.Corpus, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := corpus.Load(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}

	log.Info("Corpus loaded",
		"path", cfg.Corpus.Path,
		"books", len(c.Books),
		"axes", len(c.Axes),
		"genres", len(c.Genres),
	)

	return c, nil
}

// ProvideTokenizer provides the morphological analyzer. The dictionary load
// is expensive, so this happens exactly once per process.
func ProvideTokenizer(i do.Injector) (tokenize.Tokenizer, error) {
	log := do.MustInvoke[*logger.Logger](i)

	tok, err := tokenize.NewKagome()
	if err != nil {
		return nil, err
	}

	log.Info("Morphological analyzer ready")
	return tok, nil
}

// ProvideExtractor provides the single shared descriptive-word extractor,
// with stopword and forced-keyword lists loaded from the configured files.
func ProvideExtractor(i do.Injector) (*extract.Extractor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	tok := do.MustInvoke[tokenize.Tokenizer](i)

	e := extract.New(tok, extract.Policy{
		Form:                   cfg.Extract.WordForm,
		IncludeAdjectivalNouns: cfg.Extract.IncludeAdjectivalNouns,
	}, log.Logger)

	if err := e.LoadStopwords(cfg.Corpus.StopwordsPath); err != nil {
		return nil, err
	}
	if err := e.LoadKeywords(cfg.Corpus.KeywordsPath); err != nil {
		return nil, err
	}

	return e, nil
}

// ProvideRankEngine provides the search and ranking engine.
func ProvideRankEngine(i do.Injector) (*rank.Engine, error) {
	c := do.MustInvoke[*corpus.Corpus](i)
	e := do.MustInvoke[*extract.Extractor](i)
	return rank.New(c, e), nil
}

// ProvideSummarizer provides the detail-view summarizer.
func ProvideSummarizer(i do.Injector) (*summary.Summarizer, error) {
	c := do.MustInvoke[*corpus.Corpus](i)
	e := do.MustInvoke[*extract.Extractor](i)
	return summary.New(c, e), nil
}
