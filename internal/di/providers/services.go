package providers

import (
	"github.com/samber/do/v2"

	"github.com/flyerforge/flyerforge-server/internal/config"
	"github.com/flyerforge/flyerforge-server/internal/depot"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/service"
	"github.com/flyerforge/flyerforge-server/internal/validation"
)

// ProvideBrochureService provides the brochure layout engine service.
func ProvideBrochureService(i do.Injector) (*service.BrochureService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	versionsHandle := do.MustInvoke[*VersionsHandle](i)
	v := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBrochureService(storeHandle.Store, versionsHandle.Store, v, log, cfg.Brochure.MaxPages), nil
}

// ProvideVersionService provides the brochure version history service.
func ProvideVersionService(i do.Injector) (*service.VersionService, error) {
	brochures := do.MustInvoke[*service.BrochureService](i)
	versionsHandle := do.MustInvoke[*VersionsHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewVersionService(brochures, versionsHandle.Store, log), nil
}

// ProvideImageService provides the depot image service.
func ProvideImageService(i do.Injector) (*service.ImageService, error) {
	manager := do.MustInvoke[*depot.Manager](i)
	resolver := do.MustInvoke[*depot.Resolver](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewImageService(manager, resolver, log), nil
}
