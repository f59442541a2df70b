package providers

import (
	"github.com/samber/do/v2"

	"github.com/flyerforge/flyerforge-server/internal/config"
	"github.com/flyerforge/flyerforge-server/internal/depot"
	"github.com/flyerforge/flyerforge-server/internal/domain"
	"github.com/flyerforge/flyerforge-server/internal/logger"
	"github.com/flyerforge/flyerforge-server/internal/media/images"
)

// DepotStores groups the three image depot tiers.
type DepotStores struct {
	Customer *depot.Store
	Pending  *depot.Store
	Admin    *depot.Store
}

// ProvideDepotStores provides the tiered image stores.
func ProvideDepotStores(i do.Injector) (*DepotStores, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	customer, err := depot.NewStore(cfg.Depot.BasePath, domain.TierCustomer)
	if err != nil {
		return nil, err
	}
	pending, err := depot.NewStore(cfg.Depot.BasePath, domain.TierPending)
	if err != nil {
		return nil, err
	}
	admin, err := depot.NewStore(cfg.Depot.BasePath, domain.TierAdmin)
	if err != nil {
		return nil, err
	}

	log.Info("Image depot initialized", "path", cfg.Depot.BasePath)

	return &DepotStores{Customer: customer, Pending: pending, Admin: admin}, nil
}

// ProvideStandardizer provides the image standardizer.
func ProvideStandardizer(i do.Injector) (*images.Standardizer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewStandardizer(cfg.Depot.MaxImageDimension, log.Logger), nil
}

// ProvideLifecycleManager provides the depot lifecycle manager.
func ProvideLifecycleManager(i do.Injector) (*depot.Manager, error) {
	stores := do.MustInvoke[*DepotStores](i)
	std := do.MustInvoke[*images.Standardizer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return depot.NewManager(stores.Customer, stores.Pending, stores.Admin, std, log), nil
}

// ProvideHierarchyResolver provides the image hierarchy resolver.
func ProvideHierarchyResolver(i do.Injector) (*depot.Resolver, error) {
	stores := do.MustInvoke[*DepotStores](i)
	return depot.NewResolver(stores.Customer, stores.Admin), nil
}
