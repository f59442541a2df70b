// Package di provides dependency injection configuration for the FlyerForge server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/flyerforge/flyerforge-server/internal/config"
	"github.com/flyerforge/flyerforge-server/internal/depot"
	"github.com/flyerforge/flyerforge-server/internal/di/providers"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/media/images"
	"github.com/flyerforge/flyerforge-server/internal/service"
	"github.com/flyerforge/flyerforge-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideVersions)
	do.Provide(injector, providers.ProvideDepotStores)

	// Depot layer
	do.Provide(injector, providers.ProvideStandardizer)
	do.Provide(injector, providers.ProvideLifecycleManager)
	do.Provide(injector, providers.ProvideHierarchyResolver)

	// Business services
	do.Provide(injector, providers.ProvideBrochureService)
	do.Provide(injector, providers.ProvideVersionService)
	do.Provide(injector, providers.ProvideImageService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.VersionsHandle](injector)
	_ = do.MustInvoke[*providers.DepotStores](injector)
	_ = do.MustInvoke[*images.Standardizer](injector)
	_ = do.MustInvoke[*depot.Manager](injector)
	_ = do.MustInvoke[*depot.Resolver](injector)
	_ = do.MustInvoke[*service.BrochureService](injector)
	_ = do.MustInvoke[*service.VersionService](injector)
	_ = do.MustInvoke[*service.ImageService](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
