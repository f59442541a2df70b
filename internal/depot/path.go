// Package depot implements the tiered image depot: key resolution, per-tier
// storage, the lifecycle state machine, and hierarchy lookup.
//
// Images live in exactly one of three tiers at a time. Customer images are
// private to their owning tenant, pending images wait in the approval queue,
// and admin images form the golden record shared by every tenant.
package depot

import (
	"path"
	"strings"

	"github.com/flyerforge/flyerforge-server/internal/domain"
	domainerrors "github.com/flyerforge/flyerforge-server/internal/errors"
)

// Resolve maps an image identity to its logical storage key within a tier.
//
// Customer and pending keys are scoped by tenant:
//
//	{tenant}/{sector}/{group}/{barcode}
//
// Admin keys are shared across tenants:
//
//	{sector}/{group}/{barcode}
//
// Sector and group default to the unsectored bucket when empty. Pure and
// deterministic; performs no I/O.
func Resolve(tier domain.Tier, tenantID, sector, group, barcode string) (string, error) {
	if !tier.Valid() {
		return "", domainerrors.Validationf("invalid tier: %q", tier)
	}
	if barcode == "" {
		return "", domainerrors.Validation("invalid key: barcode cannot be empty")
	}

	if sector == "" {
		sector = domain.DefaultGroup
	}
	if group == "" {
		group = domain.DefaultGroup
	}

	for _, part := range []string{tenantID, sector, group, barcode} {
		if err := checkComponent(part); err != nil {
			return "", err
		}
	}

	switch tier {
	case domain.TierAdmin:
		// Tenant is ignored for the shared tier.
		return path.Join(sector, group, barcode), nil
	default:
		if tenantID == "" {
			return "", domainerrors.Validationf("tenant id is required for the %s tier", tier)
		}
		return path.Join(tenantID, sector, group, barcode), nil
	}
}

// normalizeComponent applies the default grouping to a blank sector or
// group so that metadata matches the resolved key.
func normalizeComponent(part string) string {
	if part == "" {
		return domain.DefaultGroup
	}
	return part
}

// checkComponent rejects identifiers that would escape the depot root or
// collide with the key separator.
func checkComponent(part string) error {
	if part == "" {
		return nil
	}
	if part == "." || part == ".." {
		return domainerrors.Validationf("invalid key component: %q", part)
	}
	if strings.ContainsAny(part, `/\`) {
		return domainerrors.Validationf("invalid key component: %q contains a path separator", part)
	}
	return nil
}
