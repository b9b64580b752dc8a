package providers

import (
	"github.com/samber/do/v2"

	"github.com/kansouapp/kansou-server/internal/config"
	"github.com/kansouapp/kansou-server/internal/logger"
	"github.com/kansouapp/kansou-server/internal/metadata/rakuten"
	"github.com/kansouapp/kansou-server/internal/service"
)

// RakutenClientHandle wraps the metadata client. Client is nil when no
// application ID is configured; lookups then degrade to placeholders.
type RakutenClientHandle struct {
	Client *rakuten.Client
}

// ProvideRakutenClient provides the book-metadata API client.
func ProvideRakutenClient(i do.Injector) (*RakutenClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Rakuten.ApplicationID == "" {
		log.Warn("No metadata application ID configured, book metadata will be unavailable")
		return &RakutenClientHandle{Client: nil}, nil
	}

	var opts []rakuten.Option
	if cfg.Rakuten.Endpoint != "" {
		opts = append(opts, rakuten.WithBaseURL(cfg.Rakuten.Endpoint))
	}

	client := rakuten.NewClient(cfg.Rakuten.ApplicationID, log.Logger, opts...)
	log.Info("Metadata client configured")
	return &RakutenClientHandle{Client: client}, nil
}

// ProvideMetadataService provides the metadata fetch-and-cache service.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	clientHandle := do.MustInvoke[*RakutenClientHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMetadataService(clientHandle.Client, storeHandle.Store, cfg.Cache.MetadataTTL, log.Logger), nil
}
