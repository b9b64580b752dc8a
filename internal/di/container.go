// Package di provides dependency injection configuration for the Kansou server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/kansouapp/kansou-server/internal/config"
	"github.com/kansouapp/kansou-server/internal/corpus"
	"github.com/kansouapp/kansou-server/internal/di/providers"
	"github.com/kansouapp/kansou-server/internal/extract"
	"github.com/kansouapp/kansou-server/internal/logger"
	"github.com/kansouapp/kansou-server/internal/rank"
	"github.com/kansouapp/kansou-server/internal/service"
	"github.com/kansouapp/kansou-server/internal/summary"
	"github.com/kansouapp/kansou-server/internal/tokenize"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Corpus and extraction pipeline
	do.Provide(injector, providers.ProvideCorpus)
	do.Provide(injector, providers.ProvideTokenizer)
	do.Provide(injector, providers.ProvideExtractor)
	do.Provide(injector, providers.ProvideRankEngine)
	do.Provide(injector, providers.ProvideSummarizer)

	// Suggestion index
	do.Provide(injector, providers.ProvideSuggestIndex)
	do.Provide(injector, providers.ProvideSuggestService)

	// Cache and metadata layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideRakutenClient)
	do.Provide(injector, providers.ProvideMetadataService)

	// Sessions and business services
	do.Provide(injector, providers.ProvideSessionManager)
	do.Provide(injector, providers.ProvideSearchService)
	do.Provide(injector, providers.ProvideBookService)

	// Workers
	do.Provide(injector, providers.ProvideWordListWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*corpus.Corpus](injector)
	_ = do.MustInvoke[tokenize.Tokenizer](injector)
	_ = do.MustInvoke[*extract.Extractor](injector)
	_ = do.MustInvoke[*rank.Engine](injector)
	_ = do.MustInvoke[*summary.Summarizer](injector)
	_ = do.MustInvoke[*providers.SuggestIndexHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.RakutenClientHandle](injector)
	_ = do.MustInvoke[*providers.SessionManagerHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.SearchService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.SuggestService](injector)
	_ = do.MustInvoke[*service.MetadataService](injector)

	// Workers
	_ = do.MustInvoke[*providers.WordListWatcherHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
