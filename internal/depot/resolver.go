package depot

import (
	"strings"

	"github.com/flyerforge/flyerforge-server/internal/domain"
)

// Resolver answers "which image should this tenant see for this barcode".
// A tenant's private copy always wins over the shared golden record, so a
// customer can override an approved image for their own brochures without
// affecting anyone else.
type Resolver struct {
	customer *Store
	admin    *Store
}

// NewResolver builds a Resolver over the customer and admin tiers. The
// pending tier never serves lookups.
func NewResolver(customer, admin *Store) *Resolver {
	return &Resolver{customer: customer, admin: admin}
}

// Find probes the customer tier first, then the admin tier, across all
// groups of the sector. A full miss is a normal result with Source none,
// not an error.
func (r *Resolver) Find(barcode, tenantID, sector string) (domain.Resolution, error) {
	if barcode == "" {
		return miss(), nil
	}
	sector = normalizeComponent(sector)

	if tenantID != "" {
		key, err := r.probe(r.customer, tenantID+"/"+sector, barcode)
		if err != nil {
			return domain.Resolution{}, err
		}
		if key != "" {
			return domain.Resolution{
				Found:  true,
				Source: domain.SourceCustomerDepot,
				Key:    key,
				URL:    r.customer.URL(key),
			}, nil
		}
	}

	key, err := r.probe(r.admin, sector, barcode)
	if err != nil {
		return domain.Resolution{}, err
	}
	if key != "" {
		return domain.Resolution{
			Found:  true,
			Source: domain.SourceAdminDepot,
			Key:    key,
			URL:    r.admin.URL(key),
		}, nil
	}

	return miss(), nil
}

// probe scans one tier prefix for a key whose last segment is the barcode.
func (r *Resolver) probe(store *Store, prefix, barcode string) (string, error) {
	keys, err := store.List(prefix)
	if err != nil {
		return "", err
	}
	suffix := "/" + barcode
	for _, key := range keys {
		if strings.HasSuffix(key, suffix) {
			return key, nil
		}
	}
	return "", nil
}

func miss() domain.Resolution {
	return domain.Resolution{Found: false, Source: domain.SourceNone}
}
