package providers

import (
	"github.com/samber/do/v2"

	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/logger"
	"github.com/kansouapp/kansou-server/internal/rank"
	"github.com/kansouapp/kansou-server/internal/service"
	"github.com/kansouapp/kansou-server/internal/summary"
)

// ProvideSearchService provides the session-scoped search service.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	engine := do.MustInvoke[*rank.Engine](i)
	sessionHandle := do.MustInvoke[*SessionManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSearchService(engine, sessionHandle.Manager, log.Logger), nil
}

// ProvideBookService provides the book detail service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	c := do.MustInvoke[*corpus.Corpus](i)
	s := do.MustInvoke[*summary.Summarizer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(c, s, log.Logger), nil
}
