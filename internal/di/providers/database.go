package providers

import (
	"github.com/samber/do/v2"

	"github.com/flyerforge/flyerforge-server/internal/config"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/store"
	"github.com/flyerforge/flyerforge-server/internal/versions"
)

// StoreHandle wraps the brochure store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the brochure document store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.Brochure.DataPath, log)
	if err != nil {
		return nil, err
	}

	log.Info("Brochure store initialized", "path", cfg.Brochure.DataPath)

	return &StoreHandle{Store: db}, nil
}

// VersionsHandle wraps the version history store with shutdown capability.
type VersionsHandle struct {
	*versions.Store
}

// Shutdown implements do.Shutdownable.
func (h *VersionsHandle) Shutdown() error {
	return h.Close()
}

// ProvideVersions provides the brochure version history store.
func ProvideVersions(i do.Injector) (*VersionsHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	history, err := versions.Open(cfg.Versions.DBPath, cfg.Versions.Retention, log)
	if err != nil {
		return nil, err
	}

	log.Info("Version history initialized",
		"path", cfg.Versions.DBPath,
		"retention", cfg.Versions.Retention,
	)

	return &VersionsHandle{Store: history}, nil
}
