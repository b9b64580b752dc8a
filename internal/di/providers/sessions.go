package providers

import (
	"github.com/samber/do/v2"

	"github.com/kansouapp/kansou-server/internal/config"
	"github.com/kansouapp/kansou-server/internal/logger"
	"github.com/kansouapp/kansou-server/internal/session"
)

// SessionManagerHandle wraps the session manager with shutdown capability.
type SessionManagerHandle struct {
	*session.Manager
}

// Shutdown implements do.Shutdownable.
func (h *SessionManagerHandle) Shutdown() error {
	h.Manager.Stop()
	return nil
}

// ProvideSessionManager provides the navigation session registry.
func ProvideSessionManager(i do.Injector) (*SessionManagerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	m := session.NewManager(cfg.Session.TTL, log.Logger)
	log.Info("Session manager started", "ttl", cfg.Session.TTL)

	return &SessionManagerHandle{Manager: m}, nil
}
